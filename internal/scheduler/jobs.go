package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kimobot/backend/internal/conversation"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/engine"
	"github.com/kimobot/backend/internal/repository"
)

// Pausa entre envios consecutivos para não estourar rate limit do
// WhatsApp.
const interSendDelay = time.Second

// Expressões cron padrão dos jobs.
const (
	SpecDailyGreeting        = "0 8 * * *"
	SpecWeeklySummary        = "0 20 * * 0"
	SpecRegistrationReminder = "0 10,13,16,19 * * *"
	SpecPendingTripReminder  = "*/10 * * * *"
)

// broadcast percorre os usuários ativos e envia a mensagem produzida por
// fn. Usuários em descanso (IsActive=false) são pulados; erro em um
// destinatário não interrompe os demais.
func broadcast(
	ctx context.Context,
	users repository.UserRepository,
	messenger conversation.Messenger,
	log *logrus.Logger,
	jobName string,
	fn func(ctx context.Context, user *domain.User) (string, bool),
) error {
	all, err := users.FindAll(ctx)
	if err != nil {
		return err
	}

	for i := range all {
		user := &all[i]
		if !user.IsActive {
			continue
		}

		message, send := fn(ctx, user)
		if !send {
			continue
		}
		if err := messenger.SendText(ctx, user.Phone, message); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"job":   jobName,
				"phone": domain.MaskPhone(user.Phone),
			}).Warn("broadcast send failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interSendDelay):
		}
	}
	return nil
}

// DailyGreetingJob manda o bom-dia às 08:00 com o resumo de ontem (se
// houver) e a meta do dia.
type DailyGreetingJob struct {
	users     repository.UserRepository
	summaries repository.DailySummaryRepository
	breakeven *engine.CalculateBreakeven
	messenger conversation.Messenger
	log       *logrus.Logger
	now       func() time.Time
}

func NewDailyGreetingJob(
	users repository.UserRepository,
	summaries repository.DailySummaryRepository,
	breakeven *engine.CalculateBreakeven,
	messenger conversation.Messenger,
	log *logrus.Logger,
) *DailyGreetingJob {
	return &DailyGreetingJob{users: users, summaries: summaries, breakeven: breakeven, messenger: messenger, log: log, now: time.Now}
}

func (j *DailyGreetingJob) Name() string { return "daily_greeting" }

// Run monta o bom-dia de cada usuário ativo. Falha em qualquer consulta
// não cala a saudação: o usuário recebe ao menos o incentivo do dia.
func (j *DailyGreetingJob) Run(ctx context.Context) error {
	return broadcast(ctx, j.users, j.messenger, j.log, j.Name(), func(ctx context.Context, user *domain.User) (string, bool) {
		now := j.now()

		var b strings.Builder
		b.WriteString("☀️ Bom dia! Bora pra mais um dia de trabalho?\n")

		yesterday, err := j.summaries.FindByUserAndDate(ctx, user.ID, now.AddDate(0, 0, -1))
		if err != nil {
			j.log.WithError(err).WithField("user", user.ID).Warn("yesterday summary lookup failed")
		}
		if yesterday != nil && yesterday.HasWorked() {
			b.WriteString("\n📊 *Resumo de ontem:*\n")
			fmt.Fprintf(&b, "💰 Ganhos: %s\n", domain.FormatBRL(yesterday.Earnings))
			fmt.Fprintf(&b, "💸 Despesas: %s\n", domain.FormatBRL(yesterday.Expenses))
			fmt.Fprintf(&b, "🤑 Lucro: %s\n", domain.FormatBRL(yesterday.Profit))
			if yesterday.Km > 0 {
				fmt.Fprintf(&b, "📏 Rodados: %.1f km\n", yesterday.Km)
			}
		} else {
			b.WriteString("\nOntem não teve registros. Hoje é dia de recuperar! 💪\n")
		}

		if out, err := j.breakeven.Execute(ctx, user.ID, now); err == nil && out.DailyTarget > 0 {
			fmt.Fprintf(&b, "\n🎯 Pra fechar a semana no azul: %s por dia.\n", domain.FormatBRL(out.DailyTarget))
		}

		b.WriteString("\nTerminou uma corrida? Manda `45 12`!")
		return b.String(), true
	})
}

// WeeklySummaryJob manda o fechamento da semana no domingo às 20:00.
type WeeklySummaryJob struct {
	users     repository.UserRepository
	progress  *engine.GetWeeklyProgress
	messenger conversation.Messenger
	log       *logrus.Logger
	now       func() time.Time
}

func NewWeeklySummaryJob(
	users repository.UserRepository,
	progress *engine.GetWeeklyProgress,
	messenger conversation.Messenger,
	log *logrus.Logger,
) *WeeklySummaryJob {
	return &WeeklySummaryJob{users: users, progress: progress, messenger: messenger, log: log, now: time.Now}
}

func (j *WeeklySummaryJob) Name() string { return "weekly_summary" }

func (j *WeeklySummaryJob) Run(ctx context.Context) error {
	return broadcast(ctx, j.users, j.messenger, j.log, j.Name(), func(ctx context.Context, user *domain.User) (string, bool) {
		out, err := j.progress.Execute(ctx, user.ID, j.now())
		if err != nil || out.DaysWithData == 0 {
			return "", false
		}

		msg := fmt.Sprintf("📊 *Fechamento da semana*\n\n🤑 Lucro: %s\n📅 Dias trabalhados: %d",
			domain.FormatBRL(out.TotalProfit), out.DaysWithData)
		if out.WeeklyGoal != nil {
			if out.PercentageComplete >= 100 {
				msg += fmt.Sprintf("\n\n🎉 Meta batida! %.0f%% de %s. Mandou muito! 👏", out.PercentageComplete, domain.FormatBRL(*out.WeeklyGoal))
			} else {
				msg += fmt.Sprintf("\n🎯 Meta: %.0f%% de %s", out.PercentageComplete, domain.FormatBRL(*out.WeeklyGoal))
			}
		}
		msg += "\n\nDescansa bem. Semana que vem tem mais! 💪"
		return msg, true
	})
}

// RegistrationReminderJob cutuca quem ainda não registrou nada no dia,
// nos horários de pico (10h, 13h, 16h, 19h).
type RegistrationReminderJob struct {
	users     repository.UserRepository
	summaries repository.DailySummaryRepository
	messenger conversation.Messenger
	log       *logrus.Logger
	now       func() time.Time
}

func NewRegistrationReminderJob(
	users repository.UserRepository,
	summaries repository.DailySummaryRepository,
	messenger conversation.Messenger,
	log *logrus.Logger,
) *RegistrationReminderJob {
	return &RegistrationReminderJob{users: users, summaries: summaries, messenger: messenger, log: log, now: time.Now}
}

func (j *RegistrationReminderJob) Name() string { return "registration_reminder" }

func (j *RegistrationReminderJob) Run(ctx context.Context) error {
	today := domain.DayOf(j.now())
	return broadcast(ctx, j.users, j.messenger, j.log, j.Name(), func(ctx context.Context, user *domain.User) (string, bool) {
		summary, err := j.summaries.FindByUserAndDate(ctx, user.ID, today)
		if err != nil {
			j.log.WithError(err).WithField("user", user.ID).Warn("reminder lookup failed")
			return "", false
		}
		if summary != nil && summary.HasWorked() {
			return "", false
		}
		return "👋 E aí, como tá o movimento hoje?\n\nRegistra suas corridas pra gente acompanhar o lucro: `45 12` (ganhos e km)\n\nSe hoje é folga, digite *descanso* que eu paro de incomodar. 😉", true
	})
}

// PendingTripReminderJob pergunta o resultado das corridas avaliadas cujo
// tempo estimado já passou. Cada avaliação lembra no máximo uma vez.
type PendingTripReminderJob struct {
	users        repository.UserRepository
	pendingTrips repository.PendingTripRepository
	messenger    conversation.Messenger
	log          *logrus.Logger
	now          func() time.Time
}

func NewPendingTripReminderJob(
	users repository.UserRepository,
	pendingTrips repository.PendingTripRepository,
	messenger conversation.Messenger,
	log *logrus.Logger,
) *PendingTripReminderJob {
	return &PendingTripReminderJob{users: users, pendingTrips: pendingTrips, messenger: messenger, log: log, now: time.Now}
}

func (j *PendingTripReminderJob) Name() string { return "pending_trip_reminder" }

func (j *PendingTripReminderJob) Run(ctx context.Context) error {
	candidates, err := j.pendingTrips.FindPendingForReminders(ctx)
	if err != nil {
		return err
	}

	now := j.now()
	for i := range candidates {
		trip := &candidates[i]
		if !trip.ShouldSendReminder(now) {
			continue
		}

		user, err := j.users.FindByID(ctx, trip.UserID)
		if err != nil || user == nil || !user.IsActive {
			continue
		}

		msg := fmt.Sprintf("🚗 E aquela corrida de %s em %.1f km, fez?\n\n• *ok* → registro pra você\n• *ok g30* → registro com R$30 de combustível\n• *cancelar* → descarto",
			domain.FormatBRL(trip.Earnings), trip.Km)
		if err := j.messenger.SendText(ctx, user.Phone, msg); err != nil {
			j.log.WithError(err).WithField("phone", domain.MaskPhone(user.Phone)).Warn("pending trip reminder failed")
			continue
		}

		trip.MarkReminderSent()
		if err := j.pendingTrips.Update(ctx, trip); err != nil {
			j.log.WithError(err).WithField("trip", trip.ID).Error("failed to mark reminder sent")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interSendDelay):
		}
	}
	return nil
}
