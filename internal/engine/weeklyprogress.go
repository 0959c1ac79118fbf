package engine

import (
	"context"
	"time"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/repository"
)

type DayProgress struct {
	Date     time.Time
	Earnings float64
	Expenses float64
	Profit   float64
	Km       float64
}

type WeeklyProgressOutput struct {
	WeeklyGoal         *float64
	TotalProfit        float64
	RemainingToGoal    float64
	PercentageComplete float64
	DaysWithData       int
	Days               []DayProgress
}

// GetWeeklyProgress soma o lucro dos últimos 7 dias (incluindo a data de
// referência) e compara com a meta semanal do usuário.
type GetWeeklyProgress struct {
	users     repository.UserRepository
	summaries repository.DailySummaryRepository
}

func NewGetWeeklyProgress(
	users repository.UserRepository,
	summaries repository.DailySummaryRepository,
) *GetWeeklyProgress {
	return &GetWeeklyProgress{users: users, summaries: summaries}
}

func (uc *GetWeeklyProgress) Execute(ctx context.Context, userID string, referenceDate time.Time) (*WeeklyProgressOutput, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if user == nil {
		return nil, apperrors.Validation("❌ Erro: usuário não encontrado.")
	}

	end := referenceDate
	start := end.AddDate(0, 0, -6)

	summaries, err := uc.summaries.FindByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	totalProfit, err := uc.summaries.TotalProfitByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}

	out := &WeeklyProgressOutput{
		WeeklyGoal:   user.WeeklyGoal,
		TotalProfit:  domain.Round2(totalProfit),
		DaysWithData: len(summaries),
	}
	if user.WeeklyGoal != nil && *user.WeeklyGoal > 0 {
		out.RemainingToGoal = domain.Round2(*user.WeeklyGoal - totalProfit)
		out.PercentageComplete = domain.Round2(totalProfit / *user.WeeklyGoal * 100)
	}

	for _, s := range summaries {
		out.Days = append(out.Days, DayProgress{
			Date:     s.Date,
			Earnings: s.Earnings,
			Expenses: s.Expenses,
			Profit:   s.Profit,
			Km:       s.Km,
		})
	}
	return out, nil
}
