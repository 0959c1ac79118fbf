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

// fuelDeltaThreshold: diferença absoluta (R$) entre gasto real e esperado
// de combustível a partir da qual vale a pena comentar.
const fuelDeltaThreshold = 5.0

type InsightsOutput struct {
	Profile  domain.DriverProfile
	Insights []string
	Warnings []string
	Tips     []string

	FuelCostPerKm          float64
	AverageEarningsPerHour float64
	ProfitMargin           float64
	WeeklyDepreciation     *float64
}

// GetInsights compara o dia real do motorista com o esperado pelo perfil
// configurado e gera observações em linguagem natural.
type GetInsights struct {
	configs    repository.DriverConfigRepository
	fixedCosts repository.FixedCostRepository
	trips      repository.TripRepository
	expenses   repository.ExpenseRepository
}

func NewGetInsights(
	configs repository.DriverConfigRepository,
	fixedCosts repository.FixedCostRepository,
	trips repository.TripRepository,
	expenses repository.ExpenseRepository,
) *GetInsights {
	return &GetInsights{configs: configs, fixedCosts: fixedCosts, trips: trips, expenses: expenses}
}

func (uc *GetInsights) Execute(ctx context.Context, userID string, date time.Time) (*InsightsOutput, error) {
	config, err := uc.configs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if config == nil {
		return nil, apperrors.MissingConfig()
	}

	out := &InsightsOutput{Profile: config.Profile}

	totalEarnings, err := uc.trips.TotalEarningsByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	totalKm, err := uc.trips.TotalKmByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	totalExpenses, err := uc.expenses.TotalExpensesByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	fuelExpenses, err := uc.expenses.TotalFuelExpensesByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}

	expectedFuelPerKm := config.FuelCostPerKm()
	var actualFuelPerKm float64
	if totalKm > 0 {
		actualFuelPerKm = fuelExpenses / totalKm
	}

	// Combustível real vs esperado
	if actualFuelPerKm > 0 {
		diff := (actualFuelPerKm - expectedFuelPerKm) * totalKm
		if diff < -fuelDeltaThreshold {
			out.Insights = append(out.Insights,
				fmt.Sprintf("💰 Hoje você economizou %s otimizando onde abastecer!", domain.FormatBRL(math.Abs(diff))))
			out.Tips = append(out.Tips,
				fmt.Sprintf("Se você economizasse assim todo dia, guardaria %s no mês.", domain.FormatBRL(math.Abs(diff)*30)))
		} else if diff > fuelDeltaThreshold {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("⚠️ Você gastou %s a mais do que o esperado com combustível hoje.", domain.FormatBRL(diff)))
			out.Tips = append(out.Tips, "Dica: Procure postos mais baratos na região.")
		}
	}

	// Depreciação estimada (carro próprio)
	if config.Profile == domain.ProfileOwnPaid || config.Profile == domain.ProfileOwnFinanced {
		if weekly := config.WeeklyDepreciation(); weekly != nil {
			out.Insights = append(out.Insights,
				fmt.Sprintf("📉 Essa semana sua depreciação estimada é de %s.", domain.FormatBRL(*weekly)))
			out.WeeklyDepreciation = weekly
		}
	}

	// Custo por km do dia
	if config.Profile != domain.ProfileRented && totalKm > 0 {
		out.Insights = append(out.Insights,
			fmt.Sprintf("💸 Seu custo por KM hoje foi de %s.", domain.FormatBRL(totalExpenses/totalKm)))
	}

	// Aluguel coberto? (carro alugado)
	if config.Profile == domain.ProfileRented {
		if err := uc.rentalInsight(ctx, userID, totalEarnings, totalExpenses, out); err != nil {
			return nil, err
		}
	}

	profit := totalEarnings - totalExpenses
	if totalEarnings > 0 {
		out.ProfitMargin = domain.Round2(profit / totalEarnings * 100)
	}
	out.FuelCostPerKm = domain.Round2(actualFuelPerKm)

	trips, err := uc.trips.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	var totalMinutes int
	for _, t := range trips {
		totalMinutes += t.TimeOnlineMinutes
	}
	if totalMinutes > 0 {
		out.AverageEarningsPerHour = domain.Round2(totalEarnings / float64(totalMinutes) * 60)
	}

	return out, nil
}

func (uc *GetInsights) rentalInsight(ctx context.Context, userID string, earnings, expenses float64, out *InsightsOutput) error {
	costs, err := uc.fixedCosts.FindActiveByUserID(ctx, userID)
	if err != nil {
		return apperrors.Persistence(err)
	}
	var weeklyRental float64
	for _, c := range costs {
		if c.Type == domain.FixedCostRental {
			weeklyRental += c.WeeklyAmount()
		}
	}
	if weeklyRental == 0 {
		return nil
	}

	dailyRental := weeklyRental / 7
	dailyProfit := earnings - expenses - dailyRental
	if dailyProfit > 0 {
		out.Insights = append(out.Insights,
			fmt.Sprintf("✅ Hoje você cobriu o aluguel (%s) e lucrou %s!",
				domain.FormatBRL(dailyRental), domain.FormatBRL(dailyProfit)))
	} else {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("⚠️ Você ainda não cobriu o aluguel de hoje (faltam %s).",
				domain.FormatBRL(math.Abs(dailyProfit))))
	}
	return nil
}
