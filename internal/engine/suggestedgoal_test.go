package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimobot/backend/internal/domain"
)

func TestSuggestedGoalCoversCostsPlusMargin(t *testing.T) {
	const userID = "user-1"
	configs := &fakeConfigRepo{config: mustConfig(userID, domain.ProfileRented, nil)}
	fixedCosts := &fakeFixedCostRepo{}

	out, err := NewCalculateSuggestedGoal(configs, fixedCosts).Execute(context.Background(), userID)
	require.NoError(t, err)

	// 180 km/dia a 10 km/l e R$6/l.
	assert.InDelta(t, 108.0, out.DailyFuelCost, 0.01)
	assert.Equal(t, 10.0, out.DailyMaintenanceCost)
	assert.Equal(t, 0.0, out.DailyDepreciationCost)

	// Meta = custo total + 25% de margem, arredondada pra cima.
	assert.Equal(t, math.Ceil(out.TotalDailyCost*1.25), out.SuggestedDailyGoal)
	assert.GreaterOrEqual(t, out.SuggestedWeeklyGoal, out.SuggestedDailyGoal*6)
	assert.Equal(t, 25.0, out.ProfitMargin)
	assert.Equal(t, 6, out.WorkDaysPerWeek)
}

func TestSuggestedGoalIncludesFixedCosts(t *testing.T) {
	const userID = "user-1"
	configs := &fakeConfigRepo{config: mustConfig(userID, domain.ProfileRented, nil)}

	base := &fakeFixedCostRepo{}
	baseline, err := NewCalculateSuggestedGoal(configs, base).Execute(context.Background(), userID)
	require.NoError(t, err)

	withRental := &fakeFixedCostRepo{}
	rental, err := domain.NewFixedCost(userID, domain.FixedCostRental, 700, domain.FrequencyWeekly, "")
	require.NoError(t, err)
	require.NoError(t, withRental.Save(context.Background(), rental))

	higher, err := NewCalculateSuggestedGoal(configs, withRental).Execute(context.Background(), userID)
	require.NoError(t, err)

	// Mais custo fixo → meta maior.
	assert.Greater(t, higher.SuggestedDailyGoal, baseline.SuggestedDailyGoal)
	assert.Greater(t, higher.DailyFixedCosts, baseline.DailyFixedCosts)
}

func TestSuggestedGoalOwnedCarAddsDepreciation(t *testing.T) {
	const userID = "user-1"
	rented := &fakeConfigRepo{config: mustConfig(userID, domain.ProfileRented, nil)}
	owned := &fakeConfigRepo{config: mustConfig(userID, domain.ProfileOwnPaid, floatPtr(60000))}
	fixedCosts := &fakeFixedCostRepo{}

	rentedOut, err := NewCalculateSuggestedGoal(rented, fixedCosts).Execute(context.Background(), userID)
	require.NoError(t, err)
	ownedOut, err := NewCalculateSuggestedGoal(owned, fixedCosts).Execute(context.Background(), userID)
	require.NoError(t, err)

	// 60000 * 15% / (180 * 300) * 180 = R$30/dia de depreciação.
	assert.InDelta(t, 30.0, ownedOut.DailyDepreciationCost, 0.01)
	assert.Greater(t, ownedOut.SuggestedDailyGoal, rentedOut.SuggestedDailyGoal)
}

func TestSuggestedGoalIgnoresInactiveCosts(t *testing.T) {
	const userID = "user-1"
	configs := &fakeConfigRepo{config: mustConfig(userID, domain.ProfileRented, nil)}

	fixedCosts := &fakeFixedCostRepo{}
	old, err := domain.NewFixedCost(userID, domain.FixedCostRental, 900, domain.FrequencyWeekly, "")
	require.NoError(t, err)
	old.Deactivate()
	require.NoError(t, fixedCosts.Save(context.Background(), old))

	withInactive, err := NewCalculateSuggestedGoal(configs, fixedCosts).Execute(context.Background(), userID)
	require.NoError(t, err)
	baseline, err := NewCalculateSuggestedGoal(configs, &fakeFixedCostRepo{}).Execute(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, baseline.SuggestedDailyGoal, withInactive.SuggestedDailyGoal)
}
