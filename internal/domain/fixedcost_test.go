package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedCostConversions(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		frequency CostFrequency
		daily     float64
		weekly    float64
		monthly   float64
	}{
		{"diário", 10, FrequencyDaily, 10, 70, 300},
		{"semanal (aluguel)", 700, FrequencyWeekly, 100, 700, 3031},
		{"mensal (financiamento)", 1200, FrequencyMonthly, 40, 277.14, 1200},
		{"anual (IPVA)", 1200, FrequencyYearly, 3.29, 23.08, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := NewFixedCost("user-1", FixedCostOther, tt.amount, tt.frequency, "")
			require.NoError(t, err)

			assert.InDelta(t, tt.daily, cost.DailyAmount(), 0.01)
			assert.InDelta(t, tt.weekly, cost.WeeklyAmount(), 0.01)
			assert.InDelta(t, tt.monthly, cost.MonthlyAmount(), 0.01)
		})
	}
}

func TestNewFixedCostValidation(t *testing.T) {
	_, err := NewFixedCost("user-1", FixedCostRental, -10, FrequencyWeekly, "")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = NewFixedCost("user-1", FixedCostRental, 700, CostFrequency("biweekly"), "")
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestFixedCostDeactivatePreservesHistory(t *testing.T) {
	cost, err := NewFixedCost("user-1", FixedCostRental, 700, FrequencyWeekly, "Aluguel")
	require.NoError(t, err)
	require.True(t, cost.IsActive)
	require.Nil(t, cost.EndDate)

	cost.Deactivate()

	assert.False(t, cost.IsActive)
	require.NotNil(t, cost.EndDate)
	assert.Equal(t, 700.0, cost.Amount)
}
