package conversation

import (
	"context"
	"fmt"

	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/engine"
)

// startRegistration abre o fluxo guiado de registro de corrida.
func (s *Service) startRegistration(ctx context.Context, session *Session) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}
	session.Registration = &RegistrationData{}
	session.State = StateRegisterEarnings
	s.send(ctx, session.Phone, "🚗 *Registrar corrida*\n\nQuanto você ganhou? (só o número, ex: 45)")
}

// startExpenseFlow abre o sub-fluxo guiado de despesas do dia.
func (s *Service) startExpenseFlow(ctx context.Context, session *Session) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}
	session.Pending = &PendingConfirmation{Kind: PendingGuided}
	if session.Registration != nil {
		session.Pending.Earnings = session.Registration.Earnings
		session.Pending.Km = session.Registration.Km
	}
	session.State = StateRegisterFuel
	s.send(ctx, session.Phone, "⛽ Quanto você gastou de combustível hoje? (0 se não abasteceu)")
}

// handleRegistration conduz ganhos → km → combustível → outras despesas.
func (s *Service) handleRegistration(ctx context.Context, session *Session, text string) {
	switch session.State {
	case StateRegisterEarnings:
		value, ok := parsePositiveNumber(text)
		if !ok {
			s.send(ctx, session.Phone, "❌ Valor inválido. Digite só o número, ex: 45")
			return
		}
		if session.Registration == nil {
			session.Registration = &RegistrationData{}
		}
		session.Registration.Earnings = value
		session.State = StateRegisterKm
		s.send(ctx, session.Phone, "📏 Quantos km você rodou? (ex: 12)")

	case StateRegisterKm:
		value, ok := parsePositiveNumber(text)
		if !ok {
			s.send(ctx, session.Phone, "❌ Valor inválido. Digite só os km, ex: 12")
			return
		}
		session.Registration.Km = value
		s.saveGuidedTrip(ctx, session)

	case StateRegisterFuel:
		value, ok := parseNumber(text)
		if !ok || value < 0 {
			s.send(ctx, session.Phone, "❌ Valor inválido. Digite só o número (0 se não abasteceu).")
			return
		}
		if session.Pending == nil {
			session.Pending = &PendingConfirmation{Kind: PendingGuided}
		}
		session.Pending.GuidedFuel = value
		session.State = StateRegisterOtherExpenses
		s.send(ctx, session.Phone, "💸 Teve outras despesas hoje? Pedágio, lavagem, almoço... (0 se não)")

	case StateRegisterOtherExpenses:
		value, ok := parseNumber(text)
		if !ok || value < 0 {
			s.send(ctx, session.Phone, "❌ Valor inválido. Digite só o número (0 se não teve).")
			return
		}
		session.Pending.GuidedOther = value
		session.State = StateRegisterConfirm
		s.send(ctx, session.Phone, confirmationText(session.Pending))
	}
}

// saveGuidedTrip persiste a corrida assim que ganhos e km chegam e oferece
// os próximos passos.
func (s *Service) saveGuidedTrip(ctx context.Context, session *Session) {
	user := s.requireUser(ctx, session)
	if user == nil {
		session.Reset()
		return
	}

	data := session.Registration
	if _, err := s.deps.RegisterTrip.Execute(ctx, engine.RegisterTripInput{
		UserID:   user.ID,
		Date:     s.now(),
		Earnings: data.Earnings,
		Km:       data.Km,
	}); err != nil {
		s.fail(ctx, session.Phone, err)
		session.Reset()
		return
	}

	summary, err := s.deps.DailySummary.Execute(ctx, user.ID, s.now())
	if err != nil {
		s.fail(ctx, session.Phone, err)
		session.Reset()
		return
	}

	session.State = StateIdle
	msg := fmt.Sprintf("✅ Corrida salva: %s em %.1f km\n\n📊 Hoje: %s de lucro\n\nE agora?\n1️⃣ Registrar outra corrida\n2️⃣ Registrar despesas\n3️⃣ Ver resumo do dia",
		domain.FormatBRL(data.Earnings), data.Km, domain.FormatBRL(summary.Profit))
	s.send(ctx, session.Phone, msg)
}

// handleConfirmation resolve o "sim"/"não" de qualquer confirmação
// pendente. O despacho é pelo Kind do rascunho; "não" sempre descarta sem
// persistir nada.
func (s *Service) handleConfirmation(ctx context.Context, session *Session, text string) {
	pending := session.Pending
	if pending == nil {
		session.Reset()
		s.send(ctx, session.Phone, msgGenericError)
		return
	}

	if isNo(text) {
		session.Reset()
		s.send(ctx, session.Phone, "🗑️ Registro descartado. Nada foi salvo.")
		return
	}
	if !isYes(text) {
		s.send(ctx, session.Phone, "🤔 Responda *sim* para salvar ou *não* para descartar.")
		return
	}

	user := s.requireUser(ctx, session)
	if user == nil {
		session.Reset()
		return
	}

	switch pending.Kind {
	case PendingQuickTrip, PendingAudioTrip:
		s.persistTripConfirmation(ctx, session, user.ID, pending)
	case PendingQuickExpense, PendingAudioExpense:
		s.persistExpenseConfirmation(ctx, session, user.ID, pending)
	case PendingGuided:
		s.persistGuidedConfirmation(ctx, session, user.ID, pending)
	default:
		session.Reset()
		s.send(ctx, session.Phone, msgGenericError)
	}
}

func (s *Service) persistTripConfirmation(ctx context.Context, session *Session, userID string, pending *PendingConfirmation) {
	now := s.now()
	if _, err := s.deps.RegisterTrip.Execute(ctx, engine.RegisterTripInput{
		UserID:   userID,
		Date:     now,
		Earnings: pending.Earnings,
		Km:       pending.Km,
	}); err != nil {
		session.Reset()
		s.fail(ctx, session.Phone, err)
		return
	}
	if pending.HasFuel && pending.Fuel > 0 {
		if _, err := s.deps.RegisterExpense.Execute(ctx, engine.RegisterExpenseInput{
			UserID: userID,
			Date:   now,
			Type:   domain.ExpenseFuel,
			Amount: pending.Fuel,
		}); err != nil {
			session.Reset()
			s.fail(ctx, session.Phone, err)
			return
		}
	}

	summary, err := s.deps.DailySummary.Execute(ctx, userID, now)
	if err != nil {
		session.Reset()
		s.fail(ctx, session.Phone, err)
		return
	}

	session.Reset()
	s.send(ctx, session.Phone, fmt.Sprintf("✅ *Salvo!*\n\n📊 Hoje: %s ganhos | %s de lucro",
		domain.FormatBRL(summary.Earnings), domain.FormatBRL(summary.Profit)))
}

func (s *Service) persistExpenseConfirmation(ctx context.Context, session *Session, userID string, pending *PendingConfirmation) {
	now := s.now()
	if _, err := s.deps.RegisterExpense.Execute(ctx, engine.RegisterExpenseInput{
		UserID: userID,
		Date:   now,
		Type:   pending.ExpenseType,
		Amount: pending.Amount,
		Note:   pending.Note,
	}); err != nil {
		session.Reset()
		s.fail(ctx, session.Phone, err)
		return
	}

	summary, err := s.deps.DailySummary.Execute(ctx, userID, now)
	if err != nil {
		session.Reset()
		s.fail(ctx, session.Phone, err)
		return
	}

	session.Reset()
	s.send(ctx, session.Phone, fmt.Sprintf("✅ *%s de %s registrado!*\n\n📊 Despesas de hoje: %s",
		pending.ExpenseName, domain.FormatBRL(pending.Amount), domain.FormatBRL(summary.Expenses)))
}

func (s *Service) persistGuidedConfirmation(ctx context.Context, session *Session, userID string, pending *PendingConfirmation) {
	now := s.now()
	if pending.GuidedFuel > 0 {
		if _, err := s.deps.RegisterExpense.Execute(ctx, engine.RegisterExpenseInput{
			UserID: userID,
			Date:   now,
			Type:   domain.ExpenseFuel,
			Amount: pending.GuidedFuel,
		}); err != nil {
			session.Reset()
			s.fail(ctx, session.Phone, err)
			return
		}
	}
	if pending.GuidedOther > 0 {
		if _, err := s.deps.RegisterExpense.Execute(ctx, engine.RegisterExpenseInput{
			UserID: userID,
			Date:   now,
			Type:   domain.ExpenseOther,
			Amount: pending.GuidedOther,
		}); err != nil {
			session.Reset()
			s.fail(ctx, session.Phone, err)
			return
		}
	}

	summary, err := s.deps.DailySummary.Execute(ctx, userID, now)
	if err != nil {
		session.Reset()
		s.fail(ctx, session.Phone, err)
		return
	}

	session.Reset()

	var costPerKm string
	if summary.CostPerKm != nil {
		costPerKm = fmt.Sprintf("\n📈 Custo por km: %s", domain.FormatBRL(*summary.CostPerKm))
	}
	s.send(ctx, session.Phone, fmt.Sprintf("✅ *Dia registrado!*\n\n💰 Ganhos: %s\n💸 Despesas: %s\n🤑 Lucro: %s%s",
		domain.FormatBRL(summary.Earnings), domain.FormatBRL(summary.Expenses), domain.FormatBRL(summary.Profit), costPerKm))

	s.sendDailyInsights(ctx, session, userID)
}

// sendDailyInsights envia observações do dia logo após um registro
// completo. Falha aqui não estraga o fluxo principal.
func (s *Service) sendDailyInsights(ctx context.Context, session *Session, userID string) {
	out, err := s.deps.Insights.Execute(ctx, userID, s.now())
	if err != nil || out == nil {
		return
	}
	if len(out.Insights) == 0 && len(out.Warnings) == 0 && len(out.Tips) == 0 {
		return
	}

	var parts []string
	parts = append(parts, out.Warnings...)
	parts = append(parts, out.Insights...)
	parts = append(parts, out.Tips...)

	msg := "💡 *Observações do dia:*\n\n"
	for _, p := range parts {
		msg += "• " + p + "\n"
	}
	s.send(ctx, session.Phone, msg)
}
