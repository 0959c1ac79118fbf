package conversation

import (
	"context"
	"fmt"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/engine"
)

// Duração estimada de uma corrida avaliada, em minutos, assumindo uma
// média urbana de ~30 km/h. Piso de 15 minutos para corridas curtas.
func estimateTripMinutes(km float64) int {
	minutes := int(km * 2)
	if minutes < 15 {
		return 15
	}
	return minutes
}

// fail envia a mensagem amigável do erro e registra o detalhe no log.
func (s *Service) fail(ctx context.Context, phone string, err error) {
	s.deps.Log.WithError(err).WithField("phone", phone).Warn("command failed")
	s.send(ctx, phone, apperrors.UserMessage(err))
}

// quickTrip coloca "GANHOS KM [COMBUSTÍVEL]" em confirmação pendente.
func (s *Service) quickTrip(ctx context.Context, session *Session, cmd command) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}
	if cmd.earnings <= 0 || cmd.km <= 0 {
		s.send(ctx, session.Phone, "❌ Valores inválidos. Use: VALOR KM\nExemplo: 45 12")
		return
	}

	session.Pending = &PendingConfirmation{
		Kind:     PendingQuickTrip,
		Earnings: cmd.earnings,
		Km:       cmd.km,
		Fuel:     cmd.fuel,
		HasFuel:  cmd.hasFuel,
	}
	session.State = StateRegisterConfirm
	s.send(ctx, session.Phone, confirmationText(session.Pending))
}

// quickExpense coloca "g80", "m150 reparo" etc. em confirmação pendente.
func (s *Service) quickExpense(ctx context.Context, session *Session, cmd command) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}
	if cmd.value <= 0 {
		s.send(ctx, session.Phone, "❌ Valor inválido.\n\nExemplos:\ng80 → Combustível R$80\nm150 reparo freio → Manutenção R$150")
		return
	}

	session.Pending = &PendingConfirmation{
		Kind:        PendingQuickExpense,
		ExpenseType: cmd.expenseType,
		ExpenseName: cmd.expenseName,
		Amount:      cmd.value,
		Note:        cmd.note,
	}
	session.State = StateRegisterConfirm
	s.send(ctx, session.Phone, confirmationText(session.Pending))
}

// evaluateTrip responde "vale GANHOS KM" e deixa a corrida pendente de
// resolução (ok / ok gN / cancelar).
func (s *Service) evaluateTrip(ctx context.Context, session *Session, cmd command) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}

	out, err := s.deps.EvaluateTrip.Execute(ctx, user.ID, cmd.earnings, cmd.km)
	if err != nil {
		s.fail(ctx, session.Phone, err)
		return
	}

	pending, err := domain.NewPendingTrip(user.ID, cmd.earnings, cmd.km, estimateTripMinutes(cmd.km))
	if err != nil {
		s.fail(ctx, session.Phone, err)
		return
	}
	if err := s.deps.PendingTrips.Save(ctx, pending); err != nil {
		s.deps.Log.WithError(err).Error("failed to save pending trip")
	}

	s.send(ctx, session.Phone, out.Message+"\n\n✅ Se fizer a corrida, responda *ok* ao terminar (ou *ok g30* para incluir combustível). Para descartar, *cancelar*.")
}

// resolvePendingTrip fecha a última corrida avaliada: *ok* registra, com
// combustível opcional, e *cancelar* descarta.
func (s *Service) resolvePendingTrip(ctx context.Context, session *Session, accept bool, cmd command) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}

	pending, err := s.deps.PendingTrips.FindLatestPendingByUserID(ctx, user.ID)
	if err != nil {
		s.fail(ctx, session.Phone, apperrors.Persistence(err))
		return
	}
	if pending == nil {
		if accept {
			s.send(ctx, session.Phone, "🤔 Não encontrei nenhuma corrida pendente. Use *vale VALOR KM* para avaliar uma.")
		} else {
			s.send(ctx, session.Phone, "👍 Nada para cancelar.")
		}
		return
	}

	if !accept {
		pending.Cancel()
		if err := s.deps.PendingTrips.Update(ctx, pending); err != nil {
			s.fail(ctx, session.Phone, apperrors.Persistence(err))
			return
		}
		s.send(ctx, session.Phone, "🗑️ Corrida descartada. Bora pra próxima!")
		return
	}

	pending.Complete()
	if cmd.hasFuel {
		pending.SetFuel(cmd.fuel)
	}
	if err := s.deps.PendingTrips.Update(ctx, pending); err != nil {
		s.fail(ctx, session.Phone, apperrors.Persistence(err))
		return
	}

	now := s.now()
	if _, err := s.deps.RegisterTrip.Execute(ctx, engine.RegisterTripInput{
		UserID:            user.ID,
		Date:              now,
		Earnings:          pending.Earnings,
		Km:                pending.Km,
		TimeOnlineMinutes: pending.ElapsedMinutes(now),
	}); err != nil {
		s.fail(ctx, session.Phone, err)
		return
	}

	if cmd.hasFuel && cmd.fuel > 0 {
		if _, err := s.deps.RegisterExpense.Execute(ctx, engine.RegisterExpenseInput{
			UserID: user.ID,
			Date:   now,
			Type:   domain.ExpenseFuel,
			Amount: cmd.fuel,
		}); err != nil {
			s.fail(ctx, session.Phone, err)
			return
		}
	}

	summary, err := s.deps.DailySummary.Execute(ctx, user.ID, now)
	if err != nil {
		s.fail(ctx, session.Phone, err)
		return
	}

	msg := fmt.Sprintf("✅ *Corrida registrada!*\n\n💰 %s em %.1f km", domain.FormatBRL(pending.Earnings), pending.Km)
	if cmd.hasFuel && cmd.fuel > 0 {
		msg += fmt.Sprintf("\n⛽ Combustível: %s", domain.FormatBRL(cmd.fuel))
	}
	msg += fmt.Sprintf("\n\n📊 Hoje: %s de lucro", domain.FormatBRL(summary.Profit))
	s.send(ctx, session.Phone, msg)
}

// setWeeklyGoal define a meta semanal manualmente.
func (s *Service) setWeeklyGoal(ctx context.Context, session *Session, value float64) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}
	if value <= 0 || value > 100000 {
		s.send(ctx, session.Phone, "❌ Meta inválida. Use um valor entre R$ 1 e R$ 100.000.\nExemplo: meta 800")
		return
	}
	if err := user.SetWeeklyGoal(value); err != nil {
		s.fail(ctx, session.Phone, apperrors.Validation("❌ Meta inválida."))
		return
	}
	if err := s.deps.Users.Update(ctx, user); err != nil {
		s.fail(ctx, session.Phone, apperrors.Persistence(err))
		return
	}
	s.send(ctx, session.Phone, fmt.Sprintf("🎯 Meta semanal atualizada para %s!\n\nDigite *meta* para acompanhar o progresso.", domain.FormatBRL(value)))
}

// setFuelPrice atualiza o preço médio do combustível.
func (s *Service) setFuelPrice(ctx context.Context, session *Session, value float64) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}
	if value <= 0 || value > 20 {
		s.send(ctx, session.Phone, "❌ Preço inválido. Use um valor entre R$ 0,01 e R$ 20.\nExemplo: preco 6,10")
		return
	}

	config, err := s.deps.Configs.FindByUserID(ctx, user.ID)
	if err != nil {
		s.fail(ctx, session.Phone, apperrors.Persistence(err))
		return
	}
	if config == nil {
		s.fail(ctx, session.Phone, apperrors.MissingConfig())
		return
	}
	if err := config.UpdateFuelPrice(value); err != nil {
		s.fail(ctx, session.Phone, apperrors.Validation("❌ Preço inválido."))
		return
	}
	if err := s.deps.Configs.Update(ctx, config); err != nil {
		s.fail(ctx, session.Phone, apperrors.Persistence(err))
		return
	}
	s.send(ctx, session.Phone, fmt.Sprintf("⛽ Preço do combustível atualizado para %s/litro!", domain.FormatBRL(value)))
}

// setRestMode liga e desliga o modo descanso (pausa os lembretes).
func (s *Service) setRestMode(ctx context.Context, session *Session, rest bool) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}
	if rest {
		user.EnterRestMode()
	} else {
		user.LeaveRestMode()
	}
	if err := s.deps.Users.Update(ctx, user); err != nil {
		s.fail(ctx, session.Phone, apperrors.Persistence(err))
		return
	}
	if rest {
		s.send(ctx, session.Phone, "😴 Modo descanso ativado. Não vou te enviar lembretes.\n\nDigite *voltar* quando retomar o trabalho. Bom descanso!")
	} else {
		s.send(ctx, session.Phone, "🚀 Bem-vindo de volta! Lembretes reativados.\n\nBora fazer uma boa semana! 💪")
	}
}
