// Package conversation implementa o núcleo conversacional: roteador de
// comandos rápidos, máquina de estados dos fluxos guiados e sessões.
package conversation

import (
	"sync"
	"time"

	"github.com/kimobot/backend/internal/domain"
)

// Estado da conversa. Idle é o estado inicial e também o de repouso após
// qualquer fluxo completado ou erro.
type State int

const (
	StateIdle State = iota

	StateOnboardingProfile
	StateOnboardingRental
	StateOnboardingCarValue
	StateOnboardingFinancingBalance
	StateOnboardingFinancingPayment
	StateOnboardingFinancingMonths
	StateOnboardingFuelConsumption
	StateOnboardingFuelPrice
	StateOnboardingAvgKm

	StateRegisterEarnings
	StateRegisterKm
	StateRegisterFuel
	StateRegisterOtherExpenses
	StateRegisterConfirm
)

// PendingKind identifica qual produtor preencheu a confirmação pendente,
// para o estado de confirmação despachar sem sondar campos.
type PendingKind int

const (
	PendingQuickTrip PendingKind = iota
	PendingQuickExpense
	PendingGuided
	PendingAudioTrip
	PendingAudioExpense
)

// PendingConfirmation guarda os dados aguardando o "sim" do usuário.
type PendingConfirmation struct {
	Kind PendingKind

	// Corrida (quick-trip, audio-trip)
	Earnings float64
	Km       float64
	Fuel     float64
	HasFuel  bool

	// Despesa (quick-expense, audio-expense)
	ExpenseType domain.ExpenseType
	ExpenseName string
	Amount      float64
	Note        string

	// Fluxo guiado de despesas
	GuidedFuel  float64
	GuidedOther float64
}

// OnboardingData é o rascunho do fluxo de onboarding.
type OnboardingData struct {
	Profile          domain.DriverProfile
	ProfileName      string
	Rental           float64
	CarValue         float64
	FinancingBalance float64
	FinancingPayment float64
	FinancingMonths  int
	FuelConsumption  float64
	FuelPrice        float64
	AvgKm            float64
}

// RegistrationData é o rascunho do fluxo guiado de registro.
type RegistrationData struct {
	Earnings float64
	Km       float64
}

// Session é o estado transitório de conversa de um usuário. Volátil:
// vive apenas enquanto o processo vive.
type Session struct {
	Phone           string
	UserID          string
	State           State
	Onboarding      *OnboardingData
	Registration    *RegistrationData
	Pending         *PendingConfirmation
	LastInteraction time.Time
}

// Reset volta ao estado inicial descartando todos os rascunhos.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Onboarding = nil
	s.Registration = nil
	s.Pending = nil
}

// Store abstrai o armazenamento de sessões por telefone. A implementação
// padrão é em memória; um backend durável pode ser plugado sem tocar no
// núcleo.
type Store interface {
	Get(phone string) (*Session, bool)
	Put(session *Session)
	Delete(phone string)
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (m *memoryStore) Get(phone string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[phone]
	return s, ok
}

func (m *memoryStore) Put(session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Phone] = session
}

func (m *memoryStore) Delete(phone string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, phone)
}
