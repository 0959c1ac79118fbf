package engine

// Fakes em memória dos repositórios, usados pelos testes dos casos de uso.

import (
	"context"
	"time"

	"github.com/kimobot/backend/internal/domain"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	u, _ := f.FindByPhone(ctx, phone)
	return u != nil, nil
}

type fakeConfigRepo struct {
	config *domain.DriverConfig
}

func (f *fakeConfigRepo) Save(_ context.Context, config *domain.DriverConfig) error {
	f.config = config
	return nil
}

func (f *fakeConfigRepo) Update(_ context.Context, config *domain.DriverConfig) error {
	f.config = config
	return nil
}

func (f *fakeConfigRepo) FindByUserID(_ context.Context, userID string) (*domain.DriverConfig, error) {
	if f.config == nil || f.config.UserID != userID {
		return nil, nil
	}
	return f.config, nil
}

func (f *fakeConfigRepo) ExistsByUserID(_ context.Context, userID string) (bool, error) {
	return f.config != nil && f.config.UserID == userID, nil
}

type fakeFixedCostRepo struct {
	costs []domain.FixedCost
}

func (f *fakeFixedCostRepo) Save(_ context.Context, cost *domain.FixedCost) error {
	f.costs = append(f.costs, *cost)
	return nil
}

func (f *fakeFixedCostRepo) Update(_ context.Context, cost *domain.FixedCost) error {
	for i := range f.costs {
		if f.costs[i].ID == cost.ID {
			f.costs[i] = *cost
		}
	}
	return nil
}

func (f *fakeFixedCostRepo) FindActiveByUserID(_ context.Context, userID string) ([]domain.FixedCost, error) {
	var out []domain.FixedCost
	for _, c := range f.costs {
		if c.UserID == userID && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeFixedCostRepo) FindAllByUserID(_ context.Context, userID string) ([]domain.FixedCost, error) {
	var out []domain.FixedCost
	for _, c := range f.costs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeSummaryRepo struct {
	summaries []domain.DailySummary
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, summary *domain.DailySummary) error {
	for i := range f.summaries {
		if f.summaries[i].UserID == summary.UserID && f.summaries[i].Date.Equal(summary.Date) {
			f.summaries[i] = *summary
			return nil
		}
	}
	f.summaries = append(f.summaries, *summary)
	return nil
}

func (f *fakeSummaryRepo) FindByUserAndDate(_ context.Context, userID string, date time.Time) (*domain.DailySummary, error) {
	day := domain.DayOf(date)
	for i := range f.summaries {
		if f.summaries[i].UserID == userID && f.summaries[i].Date.Equal(day) {
			return &f.summaries[i], nil
		}
	}
	return nil, nil
}

func (f *fakeSummaryRepo) FindByUserAndDateRange(_ context.Context, userID string, start, end time.Time) ([]domain.DailySummary, error) {
	startDay := domain.DayOf(start)
	endDay := domain.DayOf(end)
	var out []domain.DailySummary
	for _, s := range f.summaries {
		if s.UserID == userID && !s.Date.Before(startDay) && !s.Date.After(endDay) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSummaryRepo) TotalProfitByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) (float64, error) {
	summaries, _ := f.FindByUserAndDateRange(ctx, userID, start, end)
	var total float64
	for _, s := range summaries {
		total += s.Profit
	}
	return total, nil
}

type fakeTripRepo struct {
	trips []domain.Trip
}

func (f *fakeTripRepo) Save(_ context.Context, trip *domain.Trip) error {
	f.trips = append(f.trips, *trip)
	return nil
}

func (f *fakeTripRepo) FindByUserAndDate(_ context.Context, userID string, date time.Time) ([]domain.Trip, error) {
	day := domain.DayOf(date)
	var out []domain.Trip
	for _, t := range f.trips {
		if t.UserID == userID && domain.DayOf(t.Date).Equal(day) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTripRepo) TotalEarningsByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	trips, _ := f.FindByUserAndDate(ctx, userID, date)
	var total float64
	for _, t := range trips {
		total += t.Earnings
	}
	return total, nil
}

func (f *fakeTripRepo) TotalKmByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	trips, _ := f.FindByUserAndDate(ctx, userID, date)
	var total float64
	for _, t := range trips {
		total += t.Km
	}
	return total, nil
}

type fakeExpenseRepo struct {
	expenses []domain.Expense
}

func (f *fakeExpenseRepo) Save(_ context.Context, expense *domain.Expense) error {
	f.expenses = append(f.expenses, *expense)
	return nil
}

func (f *fakeExpenseRepo) FindByUserAndDate(_ context.Context, userID string, date time.Time) ([]domain.Expense, error) {
	day := domain.DayOf(date)
	var out []domain.Expense
	for _, e := range f.expenses {
		if e.UserID == userID && domain.DayOf(e.Date).Equal(day) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) TotalExpensesByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	expenses, _ := f.FindByUserAndDate(ctx, userID, date)
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total, nil
}

func (f *fakeExpenseRepo) TotalFuelExpensesByUserAndDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	expenses, _ := f.FindByUserAndDate(ctx, userID, date)
	var total float64
	for _, e := range expenses {
		if e.IsFuel() {
			total += e.Amount
		}
	}
	return total, nil
}

// mustConfig monta uma configuração válida para os cenários.
func mustConfig(userID string, profile domain.DriverProfile, carValue *float64) *domain.DriverConfig {
	config, err := domain.NewDriverConfig(domain.DriverConfigParams{
		UserID:          userID,
		Profile:         profile,
		CarValue:        carValue,
		FuelConsumption: 10,
		AvgFuelPrice:    6,
		AvgKmPerDay:     180,
		WorkDaysPerWeek: 6,
	})
	if err != nil {
		panic(err)
	}
	return config
}

func mustSummary(userID string, date time.Time, earnings, expenses, km float64) domain.DailySummary {
	s, err := domain.NewDailySummary(userID, date, earnings, expenses, km)
	if err != nil {
		panic(err)
	}
	return *s
}

func floatPtr(v float64) *float64 { return &v }
