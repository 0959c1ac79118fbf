package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
)

var weekdayShort = [...]string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"}

// showSummary envia o resumo do dia atual recalculado na hora.
func (s *Service) showSummary(ctx context.Context, session *Session) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}

	summary, err := s.deps.DailySummary.Execute(ctx, user.ID, s.now())
	if err != nil {
		s.fail(ctx, session.Phone, err)
		return
	}

	if summary.Earnings == 0 && summary.Expenses == 0 {
		s.send(ctx, session.Phone, "📊 Ainda não tem nada registrado hoje.\n\nTerminou uma corrida? Manda `45 12` (ganhos e km)!")
		return
	}

	var b strings.Builder
	b.WriteString("📊 *Resumo de hoje*\n\n")
	fmt.Fprintf(&b, "💰 Ganhos: %s\n", domain.FormatBRL(summary.Earnings))
	fmt.Fprintf(&b, "💸 Despesas: %s\n", domain.FormatBRL(summary.Expenses))
	fmt.Fprintf(&b, "🤑 Lucro: %s\n", domain.FormatBRL(summary.Profit))
	if summary.Km > 0 {
		fmt.Fprintf(&b, "📏 Rodados: %.1f km\n", summary.Km)
	}
	if summary.CostPerKm != nil {
		fmt.Fprintf(&b, "📈 Custo por km: %s\n", domain.FormatBRL(*summary.CostPerKm))
	}
	s.send(ctx, session.Phone, b.String())
}

// showWeeklyGoal mostra o ponto de equilíbrio da semana e o progresso
// rumo à meta.
func (s *Service) showWeeklyGoal(ctx context.Context, session *Session) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}

	breakeven, err := s.deps.Breakeven.Execute(ctx, user.ID, s.now())
	if err != nil {
		s.fail(ctx, session.Phone, err)
		return
	}

	var b strings.Builder
	b.WriteString("🎯 *Meta semanal*\n\n")
	fmt.Fprintf(&b, "💰 Ganhos da semana: %s\n", domain.FormatBRL(breakeven.WeeklyEarnings))
	fmt.Fprintf(&b, "💸 Custos da semana: %s\n", domain.FormatBRL(breakeven.WeeklyTotalCosts))
	fmt.Fprintf(&b, "🤑 Lucro: %s\n\n", domain.FormatBRL(breakeven.WeeklyProfit))
	b.WriteString(breakeven.Message)

	if user.WeeklyGoal != nil {
		progress, err := s.deps.WeeklyProgress.Execute(ctx, user.ID, s.now())
		if err == nil && progress != nil {
			fmt.Fprintf(&b, "\n\n📊 Meta: %s | Completado: %.0f%%", domain.FormatBRL(*user.WeeklyGoal), progress.PercentageComplete)
		}
	}

	s.send(ctx, session.Phone, b.String())
}

// showDaySummary mostra o resumo persistido de um dia específico.
func (s *Service) showDaySummary(ctx context.Context, session *Session, date time.Time, label string) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}

	summary, err := s.deps.Summaries.FindByUserAndDate(ctx, user.ID, date)
	if err != nil {
		s.fail(ctx, session.Phone, apperrors.Persistence(err))
		return
	}
	if summary == nil || !summary.HasWorked() {
		s.send(ctx, session.Phone, fmt.Sprintf("📊 Sem registros de %s.", label))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Resumo de %s (%s)*\n\n", label, date.Format("02/01"))
	fmt.Fprintf(&b, "💰 Ganhos: %s\n", domain.FormatBRL(summary.Earnings))
	fmt.Fprintf(&b, "💸 Despesas: %s\n", domain.FormatBRL(summary.Expenses))
	fmt.Fprintf(&b, "🤑 Lucro: %s\n", domain.FormatBRL(summary.Profit))
	if summary.Km > 0 {
		fmt.Fprintf(&b, "📏 Rodados: %.1f km\n", summary.Km)
	}
	s.send(ctx, session.Phone, b.String())
}

// showLastWeek mostra o desempenho dos últimos 7 dias, dia a dia.
func (s *Service) showLastWeek(ctx context.Context, session *Session) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}

	progress, err := s.deps.WeeklyProgress.Execute(ctx, user.ID, s.now())
	if err != nil {
		s.fail(ctx, session.Phone, err)
		return
	}
	if progress.DaysWithData == 0 {
		s.send(ctx, session.Phone, "📊 Sem registros nos últimos 7 dias.\n\nBora começar? Manda `45 12` quando terminar uma corrida!")
		return
	}

	var b strings.Builder
	b.WriteString("📊 *Últimos 7 dias*\n\n")
	for _, day := range progress.Days {
		if day.Earnings == 0 && day.Expenses == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s %s: %s ganhos | %s lucro\n",
			weekdayShort[int(day.Date.Weekday())], day.Date.Format("02/01"),
			domain.FormatBRL(day.Earnings), domain.FormatBRL(day.Profit))
	}
	fmt.Fprintf(&b, "\n🤑 *Lucro total: %s*", domain.FormatBRL(progress.TotalProfit))
	if progress.WeeklyGoal != nil {
		fmt.Fprintf(&b, "\n🎯 Meta: %s (%.0f%%)", domain.FormatBRL(*progress.WeeklyGoal), progress.PercentageComplete)
	}
	s.send(ctx, session.Phone, b.String())
}

// showInsights envia as observações do dia sob demanda.
func (s *Service) showInsights(ctx context.Context, session *Session) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}

	out, err := s.deps.Insights.Execute(ctx, user.ID, s.now())
	if err != nil {
		s.fail(ctx, session.Phone, err)
		return
	}
	if len(out.Insights) == 0 && len(out.Warnings) == 0 && len(out.Tips) == 0 {
		s.send(ctx, session.Phone, "💡 Ainda não tenho observações pra hoje. Registre corridas e despesas que eu analiso!")
		return
	}

	var b strings.Builder
	b.WriteString("💡 *Análise do dia*\n\n")
	for _, w := range out.Warnings {
		b.WriteString("⚠️ " + w + "\n")
	}
	for _, i := range out.Insights {
		b.WriteString("• " + i + "\n")
	}
	for _, t := range out.Tips {
		b.WriteString("💭 " + t + "\n")
	}
	s.send(ctx, session.Phone, b.String())
}

// sendWeeklyChart envia o gráfico de ganhos e lucro dos últimos 7 dias.
func (s *Service) sendWeeklyChart(ctx context.Context, session *Session) {
	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}
	if s.deps.Chart == nil {
		s.showLastWeek(ctx, session)
		return
	}

	progress, err := s.deps.WeeklyProgress.Execute(ctx, user.ID, s.now())
	if err != nil {
		s.fail(ctx, session.Phone, err)
		return
	}
	if progress.DaysWithData == 0 {
		s.send(ctx, session.Phone, "📊 Sem dados suficientes pro gráfico. Registre alguns dias primeiro!")
		return
	}

	labels := make([]string, 0, len(progress.Days))
	earnings := make([]float64, 0, len(progress.Days))
	profits := make([]float64, 0, len(progress.Days))
	for _, day := range progress.Days {
		labels = append(labels, weekdayShort[int(day.Date.Weekday())])
		earnings = append(earnings, day.Earnings)
		profits = append(profits, day.Profit)
	}

	url := s.deps.Chart.WeeklyEarningsURL(labels, earnings, profits)
	caption := fmt.Sprintf("📊 Seus últimos 7 dias\n🤑 Lucro total: %s", domain.FormatBRL(progress.TotalProfit))
	if err := s.deps.Messenger.SendImage(ctx, session.Phone, url, caption); err != nil {
		s.deps.Log.WithError(err).Error("failed to send chart image")
		s.showLastWeek(ctx, session)
	}
}
