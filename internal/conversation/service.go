package conversation

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/engine"
	"github.com/kimobot/backend/internal/nlp"
	"github.com/kimobot/backend/internal/repository"
)

// Messenger é o canal de saída para o usuário. O cliente da Evolution
// API implementa essa interface.
type Messenger interface {
	SendText(ctx context.Context, to, message string) error
	SendButtons(ctx context.Context, to, message string, buttons []Button) error
	SendImage(ctx context.Context, to, imageURL, caption string) error
}

// Button é um botão de resposta rápida.
type Button struct {
	ID   string
	Text string
}

// Transcriber converte áudio em texto.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

// Extractor interpreta linguagem natural em dados estruturados.
type Extractor interface {
	Extract(ctx context.Context, text string) (*nlp.ExtractedData, error)
}

// ChartRenderer monta a URL de um gráfico de ganhos semanais.
type ChartRenderer interface {
	WeeklyEarningsURL(labels []string, earnings, profits []float64) string
}

// Deps agrupa os colaboradores do serviço de conversa.
type Deps struct {
	Sessions    Store
	Messenger   Messenger
	Transcriber Transcriber
	Extractor   Extractor
	Chart       ChartRenderer

	Users        repository.UserRepository
	Configs      repository.DriverConfigRepository
	FixedCosts   repository.FixedCostRepository
	Trips        repository.TripRepository
	Expenses     repository.ExpenseRepository
	Summaries    repository.DailySummaryRepository
	PendingTrips repository.PendingTripRepository

	CreateUser      *engine.CreateUser
	RegisterTrip    *engine.RegisterTrip
	RegisterExpense *engine.RegisterExpense
	DailySummary    *engine.CalculateDailySummary
	Breakeven       *engine.CalculateBreakeven
	SuggestedGoal   *engine.CalculateSuggestedGoal
	EvaluateTrip    *engine.EvaluateTrip
	Insights        *engine.GetInsights
	WeeklyProgress  *engine.GetWeeklyProgress

	Log *logrus.Logger
}

// Service processa mensagens recebidas e conduz os fluxos de conversa.
type Service struct {
	deps Deps
	now  func() time.Time
}

func NewService(deps Deps) *Service {
	if deps.Sessions == nil {
		deps.Sessions = NewMemoryStore()
	}
	if deps.Log == nil {
		deps.Log = logrus.New()
	}
	return &Service{deps: deps, now: time.Now}
}

// ProcessMessage trata uma mensagem de texto recebida. Nunca propaga
// panic: qualquer falha vira uma resposta genérica e a sessão volta ao
// estado inicial.
func (s *Service) ProcessMessage(ctx context.Context, phone, text string) {
	defer s.recoverBoundary(ctx, phone)

	session := s.session(phone)
	session.LastInteraction = s.now()

	if cmd, ok := parseCommand(text); ok {
		s.executeCommand(ctx, session, cmd)
		return
	}

	switch session.State {
	case StateIdle:
		s.handleIdle(ctx, session, text)
	case StateOnboardingProfile,
		StateOnboardingRental,
		StateOnboardingCarValue,
		StateOnboardingFinancingBalance,
		StateOnboardingFinancingPayment,
		StateOnboardingFinancingMonths,
		StateOnboardingFuelConsumption,
		StateOnboardingFuelPrice,
		StateOnboardingAvgKm:
		s.handleOnboarding(ctx, session, text)
	case StateRegisterEarnings,
		StateRegisterKm,
		StateRegisterFuel,
		StateRegisterOtherExpenses:
		s.handleRegistration(ctx, session, text)
	case StateRegisterConfirm:
		s.handleConfirmation(ctx, session, text)
	default:
		session.Reset()
		s.send(ctx, session.Phone, msgGenericError)
	}
}

// executeCommand despacha um comando rápido. O estado atual é descartado:
// comandos rápidos funcionam de qualquer ponto da conversa. Exceção: ok e
// cancelar respondem à confirmação pendente quando há uma.
func (s *Service) executeCommand(ctx context.Context, session *Session, cmd command) {
	if session.State == StateRegisterConfirm && session.Pending != nil {
		switch cmd.kind {
		case cmdPendingOK:
			s.handleConfirmation(ctx, session, "sim")
			return
		case cmdPendingCancel:
			s.handleConfirmation(ctx, session, "não")
			return
		}
	}

	// No meio de um fluxo, ok/cancelar encerram só o fluxo atual. A
	// última corrida avaliada fica como está.
	if session.State != StateIdle {
		switch cmd.kind {
		case cmdPendingOK, cmdPendingCancel:
			session.Reset()
			s.send(ctx, session.Phone, "👍 Tudo bem, saímos do fluxo. Nada foi salvo.")
			return
		}
	}

	session.Reset()

	switch cmd.kind {
	case cmdQuickTrip:
		s.quickTrip(ctx, session, cmd)
	case cmdEvaluate:
		s.evaluateTrip(ctx, session, cmd)
	case cmdQuickExpense:
		s.quickExpense(ctx, session, cmd)
	case cmdSummary:
		s.showSummary(ctx, session)
	case cmdWeeklyGoal:
		s.showWeeklyGoal(ctx, session)
	case cmdYesterday:
		s.showDaySummary(ctx, session, s.today().AddDate(0, 0, -1), "ontem")
	case cmdLastWeek:
		s.showLastWeek(ctx, session)
	case cmdSetGoal:
		s.setWeeklyGoal(ctx, session, cmd.value)
	case cmdSetFuelPrice:
		s.setFuelPrice(ctx, session, cmd.value)
	case cmdRest:
		s.setRestMode(ctx, session, true)
	case cmdResume:
		s.setRestMode(ctx, session, false)
	case cmdPendingOK:
		s.resolvePendingTrip(ctx, session, true, cmd)
	case cmdPendingCancel:
		s.resolvePendingTrip(ctx, session, false, cmd)
	}
}

// handleIdle trata texto livre fora de qualquer fluxo. Números
// desconhecidos só entram no onboarding com uma saudação explícita.
func (s *Service) handleIdle(ctx context.Context, session *Session, text string) {
	user := s.findUser(ctx, session)
	if user == nil {
		if isGreeting(text) {
			s.startOnboarding(ctx, session)
		}
		return
	}

	switch normalize(text) {
	case "registrar", "corrida", "c", "1":
		s.startRegistration(ctx, session)
	case "despesa", "despesas", "d", "2":
		s.startExpenseFlow(ctx, session)
	case "3":
		s.showSummary(ctx, session)
	case "4":
		s.showWeeklyGoal(ctx, session)
	case "insights", "i", "5":
		s.showInsights(ctx, session)
	case "grafico", "gráfico", "g", "6":
		s.sendWeeklyChart(ctx, session)
	case "ajuda", "comandos":
		s.send(ctx, session.Phone, msgHelp)
	default:
		s.sendMenu(ctx, session, user)
	}
}

// session devolve a sessão do telefone, criando uma nova quando não há.
func (s *Service) session(phone string) *Session {
	if existing, ok := s.deps.Sessions.Get(phone); ok {
		return existing
	}
	created := &Session{Phone: phone, State: StateIdle}
	s.deps.Sessions.Put(created)
	return created
}

// findUser resolve o usuário da sessão, populando o UserID no primeiro
// acerto para poupar idas ao banco. Todo acerto marca atividade.
func (s *Service) findUser(ctx context.Context, session *Session) *domain.User {
	if session.UserID != "" {
		user, err := s.deps.Users.FindByID(ctx, session.UserID)
		if err == nil && user != nil {
			s.touch(ctx, user)
			return user
		}
	}
	user, err := s.deps.Users.FindByPhone(ctx, session.Phone)
	if err != nil || user == nil {
		return nil
	}
	session.UserID = user.ID
	s.touch(ctx, user)
	return user
}

// touch registra a última atividade do usuário. Melhor esforço: falha
// aqui não interrompe o atendimento da mensagem.
func (s *Service) touch(ctx context.Context, user *domain.User) {
	user.Touch()
	if err := s.deps.Users.Update(ctx, user); err != nil {
		s.deps.Log.WithError(err).WithField("user", user.ID).Debug("failed to record last activity")
	}
}

// requireUser resolve o usuário ou envia o convite de cadastro.
func (s *Service) requireUser(ctx context.Context, session *Session) *domain.User {
	user := s.findUser(ctx, session)
	if user == nil {
		s.send(ctx, session.Phone, msgNotRegistered)
	}
	return user
}

func (s *Service) send(ctx context.Context, phone, message string) {
	if err := s.deps.Messenger.SendText(ctx, phone, message); err != nil {
		s.deps.Log.WithError(err).WithField("phone", phone).Error("failed to send message")
	}
}

func (s *Service) sendButtons(ctx context.Context, phone, message string, buttons []Button) {
	if err := s.deps.Messenger.SendButtons(ctx, phone, message, buttons); err != nil {
		s.deps.Log.WithError(err).WithField("phone", phone).Error("failed to send buttons")
	}
}

func (s *Service) recoverBoundary(ctx context.Context, phone string) {
	if r := recover(); r != nil {
		s.deps.Log.WithField("phone", phone).WithField("panic", r).Error("recovered from panic in message handler")
		if session, ok := s.deps.Sessions.Get(phone); ok {
			session.Reset()
		}
		s.send(ctx, phone, msgGenericError)
	}
}

func (s *Service) today() time.Time {
	return domain.DayOf(s.now())
}
