package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimobot/backend/internal/conversation"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/engine"
)

type fakeUserRepo struct{ user *domain.User }

func (f *fakeUserRepo) Save(_ context.Context, u *domain.User) error   { f.user = u; return nil }
func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error { f.user = u; return nil }
func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, nil
}
func (f *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	if f.user != nil && f.user.Phone == phone {
		return f.user, nil
	}
	return nil, nil
}
func (f *fakeUserRepo) FindAll(_ context.Context) ([]domain.User, error) { return nil, nil }
func (f *fakeUserRepo) ExistsByPhone(_ context.Context, _ string) (bool, error) {
	return f.user != nil, nil
}

type fakeConfigRepo struct{ config *domain.DriverConfig }

func (f *fakeConfigRepo) Save(_ context.Context, c *domain.DriverConfig) error   { f.config = c; return nil }
func (f *fakeConfigRepo) Update(_ context.Context, c *domain.DriverConfig) error { f.config = c; return nil }
func (f *fakeConfigRepo) FindByUserID(_ context.Context, userID string) (*domain.DriverConfig, error) {
	if f.config != nil && f.config.UserID == userID {
		return f.config, nil
	}
	return nil, nil
}
func (f *fakeConfigRepo) ExistsByUserID(_ context.Context, _ string) (bool, error) {
	return f.config != nil, nil
}

type fakeSummaryRepo struct{}

func (fakeSummaryRepo) Upsert(_ context.Context, _ *domain.DailySummary) error { return nil }
func (fakeSummaryRepo) FindByUserAndDate(_ context.Context, _ string, _ time.Time) (*domain.DailySummary, error) {
	return nil, nil
}
func (fakeSummaryRepo) FindByUserAndDateRange(_ context.Context, _ string, _, _ time.Time) ([]domain.DailySummary, error) {
	return nil, nil
}
func (fakeSummaryRepo) TotalProfitByUserAndDateRange(_ context.Context, _ string, _, _ time.Time) (float64, error) {
	return 0, nil
}

func testRouter(t *testing.T) (*gin.Engine, *fakeUserRepo, *fakeConfigRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	users := &fakeUserRepo{}
	configs := &fakeConfigRepo{}

	router := NewRouter(Deps{
		Conversation: conversation.NewService(conversation.Deps{Log: log}),
		EvaluateTrip: engine.NewEvaluateTrip(configs, fakeSummaryRepo{}),
		Users:        users,
		Configs:      configs,
		Log:          log,
	})
	return router, users, configs
}

func seedUser(t *testing.T, users *fakeUserRepo, configs *fakeConfigRepo) *domain.User {
	t.Helper()
	user, err := domain.NewUser("5511999998888", "Carlos")
	require.NoError(t, err)
	users.user = user

	config, err := domain.NewDriverConfig(domain.DriverConfigParams{
		UserID:          user.ID,
		Profile:         domain.ProfileRented,
		FuelConsumption: 10,
		AvgFuelPrice:    6,
		AvgKmPerDay:     180,
	})
	require.NoError(t, err)
	configs.config = config
	return user
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	router, _, _ := testRouter(t)

	// Payload malformado não derruba o webhook.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json")))
	assert.Equal(t, http.StatusOK, w.Code)

	// Mensagem do próprio bot: ignorada, mas confirmada.
	own := `{"data": {"key": {"remoteJid": "5511999998888@s.whatsapp.net", "fromMe": true}, "message": {"conversation": "eco"}}}`
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(own)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMobileAuth(t *testing.T) {
	router, users, configs := testRouter(t)
	user := seedUser(t, users, configs)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/mobile/auth",
		strings.NewReader(`{"phone": "+55 (11) 99999-8888"}`)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp["user_id"])

	// Número desconhecido → 404.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/mobile/auth",
		strings.NewReader(`{"phone": "5511988887777"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMobileAnalyze(t *testing.T) {
	router, users, configs := testRouter(t)
	user := seedUser(t, users, configs)

	body := `{"user_id": "` + user.ID + `", "earnings": 45, "km": 12}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/mobile/analyze", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// custo = combustível 7.20 + manutenção 3.60
	assert.InDelta(t, 10.8, resp["total_cost"].(float64), 0.01)
	assert.Equal(t, "accept", resp["recommendation"])
}

func TestMobileCriteria(t *testing.T) {
	router, users, configs := testRouter(t)
	user := seedUser(t, users, configs)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/mobile/criteria/"+user.ID, nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rented", resp["profile"])
	assert.InDelta(t, 0.6, resp["fuel_cost_per_km"].(float64), 0.001)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/mobile/criteria/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
