package conversation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/engine"
)

const testPhone = "5511999998888"

type fakeMessenger struct {
	sent []string
}

func (f *fakeMessenger) SendText(_ context.Context, _, message string) error {
	f.sent = append(f.sent, message)
	return nil
}

func (f *fakeMessenger) SendButtons(_ context.Context, _, message string, _ []Button) error {
	f.sent = append(f.sent, message)
	return nil
}

func (f *fakeMessenger) SendImage(_ context.Context, _, imageURL, caption string) error {
	f.sent = append(f.sent, caption)
	return nil
}

func (f *fakeMessenger) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeUserRepo struct{ users map[string]*domain.User }

func (f *fakeUserRepo) Save(_ context.Context, u *domain.User) error   { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error { f.users[u.ID] = u; return nil }
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
	var out []domain.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}
func (f *fakeUserRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	u, _ := f.FindByPhone(ctx, phone)
	return u != nil, nil
}

type fakeConfigRepo struct{ config *domain.DriverConfig }

func (f *fakeConfigRepo) Save(_ context.Context, c *domain.DriverConfig) error {
	f.config = c
	return nil
}
func (f *fakeConfigRepo) Update(_ context.Context, c *domain.DriverConfig) error {
	f.config = c
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

type fakeFixedCostRepo struct{ costs []domain.FixedCost }

func (f *fakeFixedCostRepo) Save(_ context.Context, c *domain.FixedCost) error {
	f.costs = append(f.costs, *c)
	return nil
}
func (f *fakeFixedCostRepo) Update(_ context.Context, c *domain.FixedCost) error {
	for i := range f.costs {
		if f.costs[i].ID == c.ID {
			f.costs[i] = *c
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

type fakeTripRepo struct{ trips []domain.Trip }

func (f *fakeTripRepo) Save(_ context.Context, t *domain.Trip) error {
	f.trips = append(f.trips, *t)
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

type fakeExpenseRepo struct{ expenses []domain.Expense }

func (f *fakeExpenseRepo) Save(_ context.Context, e *domain.Expense) error {
	f.expenses = append(f.expenses, *e)
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

type fakeSummaryRepo struct{ summaries []domain.DailySummary }

func (f *fakeSummaryRepo) Upsert(_ context.Context, s *domain.DailySummary) error {
	for i := range f.summaries {
		if f.summaries[i].UserID == s.UserID && f.summaries[i].Date.Equal(s.Date) {
			f.summaries[i] = *s
			return nil
		}
	}
	f.summaries = append(f.summaries, *s)
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

type fakePendingTripRepo struct{ trips []domain.PendingTrip }

func (f *fakePendingTripRepo) Save(_ context.Context, t *domain.PendingTrip) error {
	f.trips = append(f.trips, *t)
	return nil
}
func (f *fakePendingTripRepo) Update(_ context.Context, t *domain.PendingTrip) error {
	for i := range f.trips {
		if f.trips[i].ID == t.ID {
			f.trips[i] = *t
		}
	}
	return nil
}
func (f *fakePendingTripRepo) FindLatestPendingByUserID(_ context.Context, userID string) (*domain.PendingTrip, error) {
	var latest *domain.PendingTrip
	for i := range f.trips {
		t := &f.trips[i]
		if t.UserID != userID {
			continue
		}
		if t.Status != domain.PendingTripPending && t.Status != domain.PendingTripInProgress {
			continue
		}
		if latest == nil || t.EvaluatedAt.After(latest.EvaluatedAt) {
			latest = t
		}
	}
	return latest, nil
}
func (f *fakePendingTripRepo) FindPendingForReminders(_ context.Context) ([]domain.PendingTrip, error) {
	var out []domain.PendingTrip
	for _, t := range f.trips {
		if t.ShouldSendReminder(time.Now()) {
			out = append(out, t)
		}
	}
	return out, nil
}
func (f *fakePendingTripRepo) DeleteOldCompleted(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

type harness struct {
	service      *Service
	messenger    *fakeMessenger
	users        *fakeUserRepo
	configs      *fakeConfigRepo
	fixedCosts   *fakeFixedCostRepo
	trips        *fakeTripRepo
	expenses     *fakeExpenseRepo
	summaries    *fakeSummaryRepo
	pendingTrips *fakePendingTripRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		messenger:    &fakeMessenger{},
		users:        &fakeUserRepo{users: make(map[string]*domain.User)},
		configs:      &fakeConfigRepo{},
		fixedCosts:   &fakeFixedCostRepo{},
		trips:        &fakeTripRepo{},
		expenses:     &fakeExpenseRepo{},
		summaries:    &fakeSummaryRepo{},
		pendingTrips: &fakePendingTripRepo{},
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	h.service = NewService(Deps{
		Sessions:  NewMemoryStore(),
		Messenger: h.messenger,

		Users:        h.users,
		Configs:      h.configs,
		FixedCosts:   h.fixedCosts,
		Trips:        h.trips,
		Expenses:     h.expenses,
		Summaries:    h.summaries,
		PendingTrips: h.pendingTrips,

		CreateUser:      engine.NewCreateUser(h.users),
		RegisterTrip:    engine.NewRegisterTrip(h.trips),
		RegisterExpense: engine.NewRegisterExpense(h.expenses),
		DailySummary:    engine.NewCalculateDailySummary(h.trips, h.expenses, h.summaries),
		Breakeven:       engine.NewCalculateBreakeven(h.configs, h.fixedCosts, h.summaries),
		SuggestedGoal:   engine.NewCalculateSuggestedGoal(h.configs, h.fixedCosts),
		EvaluateTrip:    engine.NewEvaluateTrip(h.configs, h.summaries),
		Insights:        engine.NewGetInsights(h.configs, h.fixedCosts, h.trips, h.expenses),
		WeeklyProgress:  engine.NewGetWeeklyProgress(h.users, h.summaries),

		Log: log,
	})
	return h
}

// registeredUser cadastra um usuário com configuração pronta.
func (h *harness) registeredUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser(testPhone, "Carlos")
	require.NoError(t, err)
	require.NoError(t, h.users.Save(context.Background(), user))

	config, err := domain.NewDriverConfig(domain.DriverConfigParams{
		UserID:          user.ID,
		Profile:         domain.ProfileRented,
		FuelConsumption: 10,
		AvgFuelPrice:    6,
		AvgKmPerDay:     180,
	})
	require.NoError(t, err)
	require.NoError(t, h.configs.Save(context.Background(), config))
	return user
}

func (h *harness) message(text string) {
	h.service.ProcessMessage(context.Background(), testPhone, text)
}

func TestUnknownNumberIsIgnoredWithoutGreeting(t *testing.T) {
	h := newHarness(t)

	h.message("quanto custa?")

	assert.Empty(t, h.messenger.sent)
}

func TestGreetingStartsOnboarding(t *testing.T) {
	h := newHarness(t)

	h.message("oi")

	require.NotEmpty(t, h.messenger.sent)
	assert.Contains(t, h.messenger.last(), "KIMO")

	session, ok := h.service.deps.Sessions.Get(testPhone)
	require.True(t, ok)
	assert.Equal(t, StateOnboardingProfile, session.State)
}

func TestOnboardingRentedEndToEnd(t *testing.T) {
	h := newHarness(t)

	h.message("oi")
	h.message("3")    // alugado
	h.message("700")  // aluguel semanal
	h.message("11")   // km/l
	h.message("6,10") // preço do litro
	h.message("180")  // km/dia

	// Usuário e configuração persistidos.
	user, err := h.users.FindByPhone(context.Background(), testPhone)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, h.configs.config)
	assert.Equal(t, domain.ProfileRented, h.configs.config.Profile)
	assert.Nil(t, h.configs.config.CarValue)

	// Aluguel virou custo fixo semanal.
	costs, err := h.fixedCosts.FindActiveByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, costs, 1)
	assert.Equal(t, domain.FixedCostRental, costs[0].Type)
	assert.Equal(t, 700.0, costs[0].Amount)
	assert.Equal(t, domain.FrequencyWeekly, costs[0].Frequency)

	// Meta sugerida foi gravada e informada.
	require.NotNil(t, user.WeeklyGoal)
	assert.Greater(t, *user.WeeklyGoal, 0.0)
	assert.Contains(t, h.messenger.last(), "Meta sugerida")

	session, ok := h.service.deps.Sessions.Get(testPhone)
	require.True(t, ok)
	assert.Equal(t, StateIdle, session.State)
}

func TestOnboardingFinancedCollectsFinancing(t *testing.T) {
	h := newHarness(t)

	h.message("oi")
	h.message("2")     // financiado
	h.message("65000") // valor do carro
	h.message("40000") // saldo devedor
	h.message("1200")  // parcela
	h.message("36")    // meses
	h.message("11")
	h.message("6,10")
	h.message("180")

	require.NotNil(t, h.configs.config)
	require.NotNil(t, h.configs.config.CarValue)
	assert.Equal(t, 65000.0, *h.configs.config.CarValue)
	require.NotNil(t, h.configs.config.FinancingMonthlyPayment)
	assert.Equal(t, 1200.0, *h.configs.config.FinancingMonthlyPayment)

	// Parcela do financiamento virou custo fixo mensal.
	user, err := h.users.FindByPhone(context.Background(), testPhone)
	require.NoError(t, err)
	costs, err := h.fixedCosts.FindActiveByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, costs, 1)
	assert.Equal(t, domain.FixedCostFinancing, costs[0].Type)
}

func TestOnboardingRejectsInvalidInputAndStays(t *testing.T) {
	h := newHarness(t)

	h.message("oi")
	h.message("9") // opção inexistente

	assert.Contains(t, h.messenger.last(), "Não entendi")
	session, _ := h.service.deps.Sessions.Get(testPhone)
	assert.Equal(t, StateOnboardingProfile, session.State)
}

func TestQuickTripConfirmPersists(t *testing.T) {
	h := newHarness(t)
	h.registeredUser(t)

	h.message("45 12 30")
	assert.Contains(t, h.messenger.last(), "Confirma")

	h.message("sim")

	require.Len(t, h.trips.trips, 1)
	assert.Equal(t, 45.0, h.trips.trips[0].Earnings)
	assert.Equal(t, 12.0, h.trips.trips[0].Km)

	require.Len(t, h.expenses.expenses, 1)
	assert.Equal(t, domain.ExpenseFuel, h.expenses.expenses[0].Type)
	assert.Equal(t, 30.0, h.expenses.expenses[0].Amount)

	// Resumo do dia recalculado.
	require.Len(t, h.summaries.summaries, 1)
	assert.Equal(t, 15.0, h.summaries.summaries[0].Profit)
}

func TestConfirmationNoDiscardsEverything(t *testing.T) {
	scenarios := []struct {
		name  string
		setup func(h *harness)
	}{
		{"corrida rápida", func(h *harness) { h.message("45 12 30") }},
		{"despesa rápida", func(h *harness) { h.message("g80") }},
		{"fluxo guiado de despesas", func(h *harness) {
			h.message("despesa")
			h.message("80")
			h.message("20")
		}},
	}
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			h := newHarness(t)
			h.registeredUser(t)

			sc.setup(h)
			h.message("não")

			assert.Empty(t, h.trips.trips)
			assert.Empty(t, h.expenses.expenses)
			assert.Empty(t, h.summaries.summaries)
			assert.Contains(t, h.messenger.last(), "descartado")

			session, _ := h.service.deps.Sessions.Get(testPhone)
			assert.Equal(t, StateIdle, session.State)
			assert.Nil(t, session.Pending)
		})
	}
}

func TestQuickExpenseConfirmPersists(t *testing.T) {
	h := newHarness(t)
	h.registeredUser(t)

	h.message("m150 troca de óleo")
	h.message("sim")

	require.Len(t, h.expenses.expenses, 1)
	assert.Equal(t, domain.ExpenseMaintenanceCorrective, h.expenses.expenses[0].Type)
	assert.Equal(t, 150.0, h.expenses.expenses[0].Amount)
	assert.Equal(t, "troca de óleo", h.expenses.expenses[0].Note)
}

func TestGuidedTripPersistsOnKm(t *testing.T) {
	h := newHarness(t)
	h.registeredUser(t)

	h.message("registrar")
	h.message("120")
	h.message("45")

	require.Len(t, h.trips.trips, 1)
	assert.Equal(t, 120.0, h.trips.trips[0].Earnings)
	assert.Equal(t, 45.0, h.trips.trips[0].Km)
	assert.Contains(t, h.messenger.last(), "Corrida salva")
}

func TestSetWeeklyGoalCommand(t *testing.T) {
	h := newHarness(t)
	h.registeredUser(t)

	h.message("meta 800")

	user, err := h.users.FindByPhone(context.Background(), testPhone)
	require.NoError(t, err)
	require.NotNil(t, user.WeeklyGoal)
	assert.Equal(t, 800.0, *user.WeeklyGoal)

	// Fora da faixa: rejeitada.
	h.message("meta 150000")
	assert.Contains(t, h.messenger.last(), "inválida")
	assert.Equal(t, 800.0, *user.WeeklyGoal)
}

func TestSetFuelPriceCommand(t *testing.T) {
	h := newHarness(t)
	h.registeredUser(t)

	h.message("preco 6,50")

	assert.Equal(t, 6.5, h.configs.config.AvgFuelPrice)

	h.message("preco 25")
	assert.Contains(t, h.messenger.last(), "inválido")
	assert.Equal(t, 6.5, h.configs.config.AvgFuelPrice)
}

func TestRestModeToggle(t *testing.T) {
	h := newHarness(t)
	user := h.registeredUser(t)

	h.message("descanso")
	assert.False(t, h.users.users[user.ID].IsActive)

	h.message("voltar")
	assert.True(t, h.users.users[user.ID].IsActive)
}

func TestEvaluateCreatesPendingTripAndOKRegistersIt(t *testing.T) {
	h := newHarness(t)
	h.registeredUser(t)

	h.message("vale 45 12")
	require.Len(t, h.pendingTrips.trips, 1)
	assert.Equal(t, domain.PendingTripPending, h.pendingTrips.trips[0].Status)

	h.message("ok g30")

	assert.Equal(t, domain.PendingTripCompleted, h.pendingTrips.trips[0].Status)
	require.Len(t, h.trips.trips, 1)
	assert.Equal(t, 45.0, h.trips.trips[0].Earnings)
	require.Len(t, h.expenses.expenses, 1)
	assert.Equal(t, 30.0, h.expenses.expenses[0].Amount)
}

func TestCancelDiscardsPendingTrip(t *testing.T) {
	h := newHarness(t)
	h.registeredUser(t)

	h.message("vale 45 12")
	h.message("cancelar")

	assert.Equal(t, domain.PendingTripCancelled, h.pendingTrips.trips[0].Status)
	assert.Empty(t, h.trips.trips)
}

func TestMessageRecordsLastActivity(t *testing.T) {
	h := newHarness(t)
	user := h.registeredUser(t)
	user.LastActivityAt = time.Now().Add(-24 * time.Hour)

	h.message("r")

	assert.WithinDuration(t, time.Now(), h.users.users[user.ID].LastActivityAt, time.Minute)
}

func TestCancelInsideFlowKeepsEvaluatedTrip(t *testing.T) {
	h := newHarness(t)
	h.registeredUser(t)

	h.message("vale 45 12")
	require.Len(t, h.pendingTrips.trips, 1)

	// "cancelar" no meio do registro guiado aborta só o fluxo.
	h.message("registrar")
	h.message("cancelar")

	assert.Equal(t, domain.PendingTripPending, h.pendingTrips.trips[0].Status)
	session, _ := h.service.deps.Sessions.Get(testPhone)
	assert.Equal(t, StateIdle, session.State)

	// Fora de qualquer fluxo, "cancelar" descarta a corrida avaliada.
	h.message("cancelar")
	assert.Equal(t, domain.PendingTripCancelled, h.pendingTrips.trips[0].Status)
}

func TestUnregisteredUserGetsInvite(t *testing.T) {
	h := newHarness(t)

	h.message("45 12")

	require.NotEmpty(t, h.messenger.sent)
	assert.Contains(t, strings.ToLower(h.messenger.last()), "oi")
	assert.Empty(t, h.trips.trips)
}
