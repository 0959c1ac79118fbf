package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
)

// Configuração base dos cenários: 10 km/l a R$6/l (R$0,60/km de
// combustível) e sem carro próprio (sem depreciação). Com manutenção de
// R$0,30/km o custo total fica em R$0,90/km.
func evaluator(summaries *fakeSummaryRepo) *EvaluateTrip {
	configs := &fakeConfigRepo{config: mustConfig("user-1", domain.ProfileRented, nil)}
	return NewEvaluateTrip(configs, summaries)
}

func TestEvaluateTripGenericThresholds(t *testing.T) {
	uc := evaluator(&fakeSummaryRepo{})

	tests := []struct {
		name     string
		earnings float64
		km       float64
		want     Recommendation
	}{
		// lucro/km = (45 - 10.8) / 12 = 2.85
		{"bom lucro", 45, 12, RecommendAccept},
		// lucro/km = (35 - 10.8) / 12 ≈ 2.02
		{"razoável", 35, 12, RecommendNeutral},
		// lucro/km = (24 - 10.8) / 12 = 1.10
		{"lucro baixo", 24, 12, RecommendReject},
		// lucro = 10 - 10.8 < 0
		{"prejuízo", 10, 12, RecommendReject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), "user-1", tt.earnings, tt.km)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Recommendation)
			assert.Nil(t, out.UserAverageProfitPerKm)
		})
	}
}

func TestEvaluateTripCostBreakdown(t *testing.T) {
	uc := evaluator(&fakeSummaryRepo{})

	out, err := uc.Execute(context.Background(), "user-1", 45, 12)
	require.NoError(t, err)

	assert.InDelta(t, 7.2, out.FuelCost, 0.01)
	assert.Equal(t, 0.0, out.DepreciationCost)
	assert.InDelta(t, 3.6, out.MaintenanceCost, 0.01)
	assert.InDelta(t, 10.8, out.TotalCost, 0.01)
	assert.InDelta(t, 34.2, out.Profit, 0.01)
	assert.InDelta(t, 2.85, out.ProfitPerKm, 0.01)
}

func TestEvaluateTripOwnedCarAddsDepreciation(t *testing.T) {
	configs := &fakeConfigRepo{config: mustConfig("user-1", domain.ProfileOwnPaid, floatPtr(50000))}
	uc := NewEvaluateTrip(configs, &fakeSummaryRepo{})

	out, err := uc.Execute(context.Background(), "user-1", 45, 10)
	require.NoError(t, err)

	// 50000 * 15% / 50000 km = R$0,15/km → R$1,50 em 10 km
	assert.InDelta(t, 1.5, out.DepreciationCost, 0.01)
}

func TestEvaluateTripComparesWithUserAverage(t *testing.T) {
	// Histórico: lucro R$300 em 200 km → média R$1,50/km.
	now := time.Now()
	summaries := &fakeSummaryRepo{summaries: []domain.DailySummary{
		mustSummary("user-1", now.AddDate(0, 0, -1), 400, 100, 200),
	}}
	uc := evaluator(summaries)

	// lucro/km 2.85 ≥ média → aceitar.
	out, err := uc.Execute(context.Background(), "user-1", 45, 12)
	require.NoError(t, err)
	require.NotNil(t, out.UserAverageProfitPerKm)
	assert.InDelta(t, 1.5, *out.UserAverageProfitPerKm, 0.01)
	assert.Equal(t, RecommendAccept, out.Recommendation)
	assert.Contains(t, out.Message, "MÉDIA")

	// lucro/km (20 - 10.8)/12 ≈ 0.77 < 80% da média → rejeitar.
	out, err = uc.Execute(context.Background(), "user-1", 20, 12)
	require.NoError(t, err)
	assert.Equal(t, RecommendReject, out.Recommendation)

	// lucro/km (27 - 10.8)/12 = 1.35: entre 1.2 e 1.5 → razoável.
	out, err = uc.Execute(context.Background(), "user-1", 27, 12)
	require.NoError(t, err)
	assert.Equal(t, RecommendNeutral, out.Recommendation)
}

func TestEvaluateTripValidation(t *testing.T) {
	uc := evaluator(&fakeSummaryRepo{})

	_, err := uc.Execute(context.Background(), "user-1", 0, 12)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = uc.Execute(context.Background(), "user-1", 45, -2)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
