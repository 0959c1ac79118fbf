package engine

import (
	"context"
	"math"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/repository"
)

// Estimativas padrão usadas quando o motorista ainda não cadastrou o custo
// real correspondente.
const (
	dailyMaintenanceEstimate = 10.0  // R$/dia
	monthlyInsuranceEstimate = 200.0 // R$/mês
	monthlyIPVAEstimate      = 100.0 // R$/mês (proporcional)
	goalProfitMargin         = 0.25  // 25% sobre os custos

	// Depreciação por km para metas: 15% ao ano sobre ~300 dias rodados.
	tripDepreciationRate = 0.15
	workedDaysPerYear    = 300.0
)

type SuggestedGoalOutput struct {
	DailyFuelCost         float64
	DailyMaintenanceCost  float64
	DailyDepreciationCost float64
	DailyFixedCosts       float64
	TotalDailyCost        float64

	SuggestedDailyGoal  float64
	SuggestedWeeklyGoal float64

	DailyProfit   float64
	WeeklyProfit  float64
	MonthlyProfit float64

	WorkDaysPerWeek int
	AvgKmPerDay     float64
	ProfitMargin    float64 // porcentagem
}

// CalculateSuggestedGoal deriva a meta diária/semanal que cobre todos os
// custos do motorista mais a margem de lucro.
type CalculateSuggestedGoal struct {
	configs    repository.DriverConfigRepository
	fixedCosts repository.FixedCostRepository
}

func NewCalculateSuggestedGoal(
	configs repository.DriverConfigRepository,
	fixedCosts repository.FixedCostRepository,
) *CalculateSuggestedGoal {
	return &CalculateSuggestedGoal{configs: configs, fixedCosts: fixedCosts}
}

func (uc *CalculateSuggestedGoal) Execute(ctx context.Context, userID string) (*SuggestedGoalOutput, error) {
	config, err := uc.configs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if config == nil {
		return nil, apperrors.MissingConfig()
	}

	// Custos variáveis por dia
	dailyFuel := config.AvgKmPerDay / config.FuelConsumption * config.AvgFuelPrice
	dailyDepreciation := dailyDepreciationFor(config.CarValue, config.AvgKmPerDay)

	// Custos fixos por dia (parcela, seguro, IPVA e demais cadastrados)
	var monthlyFinancing float64
	if config.FinancingMonthlyPayment != nil {
		monthlyFinancing = *config.FinancingMonthlyPayment
	}

	costs, err := uc.fixedCosts.FindAllByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	var monthlyOther float64
	for _, c := range costs {
		if c.IsActive {
			monthlyOther += c.MonthlyAmount()
		}
	}

	totalMonthlyFixed := monthlyFinancing + monthlyOther + monthlyInsuranceEstimate + monthlyIPVAEstimate
	workDaysPerMonth := float64(config.WorkDaysPerWeek) * domain.WeeksPerMonth
	dailyFixed := totalMonthlyFixed / workDaysPerMonth

	totalDailyCost := dailyFuel + dailyMaintenanceEstimate + dailyDepreciation + dailyFixed

	suggestedDaily := totalDailyCost * (1 + goalProfitMargin)
	suggestedWeekly := suggestedDaily * float64(config.WorkDaysPerWeek)

	dailyProfit := suggestedDaily - totalDailyCost

	return &SuggestedGoalOutput{
		DailyFuelCost:         domain.Round2(dailyFuel),
		DailyMaintenanceCost:  dailyMaintenanceEstimate,
		DailyDepreciationCost: domain.Round2(dailyDepreciation),
		DailyFixedCosts:       domain.Round2(dailyFixed),
		TotalDailyCost:        domain.Round2(totalDailyCost),
		SuggestedDailyGoal:    math.Ceil(suggestedDaily),
		SuggestedWeeklyGoal:   math.Ceil(suggestedWeekly),
		DailyProfit:           domain.Round2(dailyProfit),
		WeeklyProfit:          domain.Round2(dailyProfit * float64(config.WorkDaysPerWeek)),
		MonthlyProfit:         domain.Round2(dailyProfit * workDaysPerMonth),
		WorkDaysPerWeek:       config.WorkDaysPerWeek,
		AvgKmPerDay:           config.AvgKmPerDay,
		ProfitMargin:          goalProfitMargin * 100,
	}, nil
}

func dailyDepreciationFor(carValue *float64, avgKmPerDay float64) float64 {
	if carValue == nil || *carValue == 0 || avgKmPerDay == 0 {
		return 0
	}
	annualDepreciation := *carValue * tripDepreciationRate
	annualKm := avgKmPerDay * workedDaysPerYear
	return annualDepreciation / annualKm * avgKmPerDay
}
