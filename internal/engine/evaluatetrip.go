package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/repository"
)

type Recommendation string

const (
	RecommendAccept  Recommendation = "accept"
	RecommendReject  Recommendation = "reject"
	RecommendNeutral Recommendation = "neutral"
)

// Constantes da avaliação de corrida.
const (
	maintenancePerKm = 0.30 // R$/km estimado

	// Depreciação por km: 15% ao ano sobre uma base de 50.000 km/ano.
	evaluationAnnualKmBase = 50000.0

	// Limiares genéricos quando não há histórico do motorista.
	rejectBelowPerKm = 1.5
	acceptAbovePerKm = 2.5

	// Abaixo de 80% da média própria do motorista → rejeitar.
	belowAverageFactor = 0.8
)

type EvaluateTripOutput struct {
	Earnings         float64
	Km               float64
	FuelCost         float64
	DepreciationCost float64
	MaintenanceCost  float64
	TotalCost        float64
	Profit           float64
	ProfitPerKm      float64
	Recommendation   Recommendation
	Message          string

	// Preenchido quando existe média dos últimos 7 dias.
	UserAverageProfitPerKm *float64
}

// EvaluateTrip responde "essa corrida vale a pena?" comparando o lucro/km
// estimado com a média recente do próprio motorista (ou limiares fixos).
type EvaluateTrip struct {
	configs   repository.DriverConfigRepository
	summaries repository.DailySummaryRepository
}

func NewEvaluateTrip(
	configs repository.DriverConfigRepository,
	summaries repository.DailySummaryRepository,
) *EvaluateTrip {
	return &EvaluateTrip{configs: configs, summaries: summaries}
}

func (uc *EvaluateTrip) Execute(ctx context.Context, userID string, earnings, km float64) (*EvaluateTripOutput, error) {
	if earnings <= 0 || km <= 0 {
		return nil, apperrors.Validation("❌ Valores inválidos. Use: vale VALOR KM\nExemplo: vale 45 12")
	}

	config, err := uc.configs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if config == nil {
		return nil, apperrors.MissingConfig()
	}

	fuelCost := km / config.FuelConsumption * config.AvgFuelPrice
	depreciationCost := evaluationDepreciation(config.CarValue, km)
	maintenanceCost := km * maintenancePerKm

	totalCost := fuelCost + depreciationCost + maintenanceCost
	profit := earnings - totalCost
	profitPerKm := profit / km

	userAverage := uc.averageProfitPerKm(ctx, userID)

	recommendation, message := recommend(profitPerKm, userAverage, profit)

	return &EvaluateTripOutput{
		Earnings:               earnings,
		Km:                     km,
		FuelCost:               domain.Round2(fuelCost),
		DepreciationCost:       domain.Round2(depreciationCost),
		MaintenanceCost:        domain.Round2(maintenanceCost),
		TotalCost:              domain.Round2(totalCost),
		Profit:                 domain.Round2(profit),
		ProfitPerKm:            domain.Round2(profitPerKm),
		Recommendation:         recommendation,
		Message:                message,
		UserAverageProfitPerKm: userAverage,
	}, nil
}

func evaluationDepreciation(carValue *float64, km float64) float64 {
	if carValue == nil || *carValue == 0 {
		return 0
	}
	perKm := *carValue * tripDepreciationRate / evaluationAnnualKmBase
	return km * perKm
}

// averageProfitPerKm devolve a média de lucro/km dos últimos 7 dias, ou nil
// quando não há dados (falha de leitura aqui nunca bloqueia a avaliação).
func (uc *EvaluateTrip) averageProfitPerKm(ctx context.Context, userID string) *float64 {
	now := time.Now()
	summaries, err := uc.summaries.FindByUserAndDateRange(ctx, userID, now.AddDate(0, 0, -7), now)
	if err != nil || len(summaries) == 0 {
		return nil
	}

	var totalProfit, totalKm float64
	for _, s := range summaries {
		totalProfit += s.Profit
		totalKm += s.Km
	}
	if totalKm == 0 {
		return nil
	}
	avg := totalProfit / totalKm
	return &avg
}

func recommend(profitPerKm float64, userAverage *float64, profit float64) (Recommendation, string) {
	if profit <= 0 {
		return RecommendReject, "⛔ *NÃO ACEITE!* Você vai ter prejuízo nessa corrida!"
	}

	if userAverage != nil && *userAverage > 0 {
		avg := *userAverage
		switch {
		case profitPerKm < avg*belowAverageFactor:
			return RecommendReject,
				fmt.Sprintf("⚠️ *ABAIXO DA SUA MÉDIA!* Você costuma lucrar %s/km.", domain.FormatBRL(avg))
		case profitPerKm >= avg:
			return RecommendAccept,
				fmt.Sprintf("✅ *ACIMA DA SUA MÉDIA!* Você lucra em média %s/km.", domain.FormatBRL(avg))
		default:
			return RecommendNeutral,
				fmt.Sprintf("🤔 *RAZOÁVEL.* Perto da sua média de %s/km.", domain.FormatBRL(avg))
		}
	}

	switch {
	case profitPerKm < rejectBelowPerKm:
		return RecommendReject, "⚠️ *LUCRO BAIXO!* Menos de R$ 1,50/km."
	case profitPerKm >= acceptAbovePerKm:
		return RecommendAccept, "✅ *BOM LUCRO!* R$ 2,50/km ou mais."
	default:
		return RecommendNeutral, "🤔 *RAZOÁVEL.* Entre R$ 1,50 e R$ 2,50/km."
	}
}
