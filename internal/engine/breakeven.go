package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/repository"
)

type BreakevenOutput struct {
	Profile              domain.DriverProfile
	WeeklyFixedCosts     float64
	WeeklyVariableCosts  float64
	WeeklyTotalCosts     float64
	WeeklyEarnings       float64
	WeeklyProfit         float64
	RemainingToBreakeven float64
	DaysLeft             int
	DailyTarget          float64
	Message              string
}

// CalculateBreakeven responde "quanto falta para fechar a semana no zero":
// soma custos fixos semanais (mais depreciação para carro próprio) com os
// gastos reais da semana e compara com os ganhos até a data de referência.
type CalculateBreakeven struct {
	configs    repository.DriverConfigRepository
	fixedCosts repository.FixedCostRepository
	summaries  repository.DailySummaryRepository
}

func NewCalculateBreakeven(
	configs repository.DriverConfigRepository,
	fixedCosts repository.FixedCostRepository,
	summaries repository.DailySummaryRepository,
) *CalculateBreakeven {
	return &CalculateBreakeven{configs: configs, fixedCosts: fixedCosts, summaries: summaries}
}

func (uc *CalculateBreakeven) Execute(ctx context.Context, userID string, referenceDate time.Time) (*BreakevenOutput, error) {
	config, err := uc.configs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if config == nil {
		return nil, apperrors.MissingConfig()
	}

	startOfWeek := StartOfWeek(referenceDate)

	costs, err := uc.fixedCosts.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	var weeklyFixed float64
	for _, c := range costs {
		weeklyFixed += c.WeeklyAmount()
	}
	if config.Profile.OwnsCar() {
		if depreciation := config.WeeklyDepreciation(); depreciation != nil {
			weeklyFixed += *depreciation
		}
	}

	summaries, err := uc.summaries.FindByUserAndDateRange(ctx, userID, startOfWeek, referenceDate)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	var weeklyEarnings, weeklyVariable float64
	for _, s := range summaries {
		weeklyEarnings += s.Earnings
		weeklyVariable += s.Expenses
	}

	weeklyTotal := weeklyFixed + weeklyVariable
	weeklyProfit := weeklyEarnings - weeklyTotal
	remaining := weeklyTotal - weeklyEarnings

	// Dias restantes até domingo (a semana começa no domingo).
	weekday := int(referenceDate.Weekday())
	daysLeft := 0
	if weekday != 0 {
		daysLeft = 7 - weekday
	}

	var dailyTarget float64
	if daysLeft > 0 {
		dailyTarget = remaining / float64(daysLeft)
	}

	var message string
	switch {
	case remaining <= 0:
		message = fmt.Sprintf("🎉 Parabéns! Você já fechou a semana no positivo com %s!",
			domain.FormatBRL(math.Abs(weeklyProfit)))
	case daysLeft == 0:
		outcome := "lucro"
		if weeklyProfit < 0 {
			outcome = "prejuízo"
		}
		message = fmt.Sprintf("Hoje é domingo! Você fechou a semana com %s de %s.",
			outcome, domain.FormatBRL(math.Abs(weeklyProfit)))
	default:
		message = fmt.Sprintf("Para fechar a semana no zero a zero, você precisa rodar %s por dia daqui até domingo (%d dias).",
			domain.FormatBRL(dailyTarget), daysLeft)
	}

	return &BreakevenOutput{
		Profile:              config.Profile,
		WeeklyFixedCosts:     domain.Round2(weeklyFixed),
		WeeklyVariableCosts:  domain.Round2(weeklyVariable),
		WeeklyTotalCosts:     domain.Round2(weeklyTotal),
		WeeklyEarnings:       domain.Round2(weeklyEarnings),
		WeeklyProfit:         domain.Round2(weeklyProfit),
		RemainingToBreakeven: domain.Round2(math.Max(0, remaining)),
		DaysLeft:             daysLeft,
		DailyTarget:          domain.Round2(math.Max(0, dailyTarget)),
		Message:              message,
	}, nil
}

// StartOfWeek devolve o domingo da semana da data, à meia-noite.
func StartOfWeek(date time.Time) time.Time {
	day := domain.DayOf(date)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
