package engine

import (
	"context"
	"time"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/repository"
)

type DailySummaryOutput struct {
	Earnings  float64
	Expenses  float64
	Km        float64
	Profit    float64
	CostPerKm *float64
}

// CalculateDailySummary recalcula o agregado do dia a partir das corridas
// e despesas registradas e persiste via upsert (idempotente).
type CalculateDailySummary struct {
	trips     repository.TripRepository
	expenses  repository.ExpenseRepository
	summaries repository.DailySummaryRepository
}

func NewCalculateDailySummary(
	trips repository.TripRepository,
	expenses repository.ExpenseRepository,
	summaries repository.DailySummaryRepository,
) *CalculateDailySummary {
	return &CalculateDailySummary{trips: trips, expenses: expenses, summaries: summaries}
}

func (uc *CalculateDailySummary) Execute(ctx context.Context, userID string, date time.Time) (*DailySummaryOutput, error) {
	earnings, err := uc.trips.TotalEarningsByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	km, err := uc.trips.TotalKmByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	expenses, err := uc.expenses.TotalExpensesByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}

	summary, err := domain.NewDailySummary(userID, date, earnings, expenses, km)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if err := uc.summaries.Upsert(ctx, summary); err != nil {
		return nil, apperrors.Persistence(err)
	}

	return &DailySummaryOutput{
		Earnings:  summary.Earnings,
		Expenses:  summary.Expenses,
		Km:        summary.Km,
		Profit:    summary.Profit,
		CostPerKm: summary.CostPerKm,
	}, nil
}
