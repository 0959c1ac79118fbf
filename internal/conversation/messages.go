package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/kimobot/backend/internal/domain"
)

const (
	msgGenericError = "❌ Desculpe, ocorreu um erro. Digite \"oi\" para recomeçar."

	msgNotRegistered = "👋 Ainda não nos conhecemos!\n\nDigite *oi* para começar seu cadastro. Leva menos de 2 minutos. 🚗"

	msgHelp = `📖 *Comandos rápidos*

🚗 *Corridas*
• ` + "`45 12`" + ` → ganhou R$45 em 12km
• ` + "`45 12 30`" + ` → idem, com R$30 de combustível
• ` + "`vale 45 12`" + ` → avalio se a corrida compensa

💸 *Despesas*
• ` + "`g80`" + ` → combustível R$80
• ` + "`m150 troca de óleo`" + ` → manutenção R$150
• ` + "`p15`" + ` pedágio | ` + "`e20`" + ` estacionamento | ` + "`l30`" + ` limpeza

📊 *Relatórios*
• ` + "`r`" + ` ou ` + "`resumo`" + ` → resumo de hoje
• ` + "`meta`" + ` → progresso da semana
• ` + "`ontem`" + ` | ` + "`semana`" + ` → dias anteriores

⚙️ *Ajustes*
• ` + "`meta 800`" + ` → define meta semanal
• ` + "`preco 6,10`" + ` → atualiza preço do combustível
• ` + "`descanso`" + ` / ` + "`voltar`" + ` → pausa e retoma os lembretes`
)

// sendMenu mostra o menu principal com botões; o fallback numerado fica
// por conta do cliente de WhatsApp quando botões não são suportados.
func (s *Service) sendMenu(ctx context.Context, session *Session, user *domain.User) {
	name := strings.TrimSpace(user.Name)
	greeting := "Oi! 👋"
	if name != "" {
		greeting = fmt.Sprintf("Oi, %s! 👋", name)
	}
	message := greeting + "\n\nO que vamos fazer agora?"
	buttons := []Button{
		{ID: "registrar", Text: "🚗 Registrar corrida"},
		{ID: "despesa", Text: "💸 Registrar despesa"},
		{ID: "resumo", Text: "📊 Ver resumo"},
	}
	s.sendButtons(ctx, session.Phone, message, buttons)
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// confirmationText monta a mensagem de confirmação conforme o produtor.
func confirmationText(p *PendingConfirmation) string {
	switch p.Kind {
	case PendingQuickTrip, PendingAudioTrip:
		var b strings.Builder
		b.WriteString("🚗 *Confirma o registro?*\n\n")
		fmt.Fprintf(&b, "💰 Ganhos: %s\n", domain.FormatBRL(p.Earnings))
		fmt.Fprintf(&b, "📏 Distância: %.1f km\n", p.Km)
		if p.HasFuel {
			fmt.Fprintf(&b, "⛽ Combustível: %s\n", domain.FormatBRL(p.Fuel))
		}
		b.WriteString("\nResponda *sim* para salvar ou *não* para descartar.")
		return b.String()
	case PendingQuickExpense, PendingAudioExpense:
		var b strings.Builder
		b.WriteString("💸 *Confirma a despesa?*\n\n")
		fmt.Fprintf(&b, "📌 %s: %s\n", p.ExpenseName, domain.FormatBRL(p.Amount))
		if p.Note != "" {
			fmt.Fprintf(&b, "📝 %s\n", p.Note)
		}
		b.WriteString("\nResponda *sim* para salvar ou *não* para descartar.")
		return b.String()
	case PendingGuided:
		var b strings.Builder
		b.WriteString("📋 *Confira o registro do dia:*\n\n")
		fmt.Fprintf(&b, "💰 Ganhos: %s\n", domain.FormatBRL(p.Earnings))
		fmt.Fprintf(&b, "📏 Distância: %.1f km\n", p.Km)
		fmt.Fprintf(&b, "⛽ Combustível: %s\n", domain.FormatBRL(p.GuidedFuel))
		fmt.Fprintf(&b, "💸 Outras despesas: %s\n", domain.FormatBRL(p.GuidedOther))
		b.WriteString("\nResponda *sim* para salvar ou *não* para descartar.")
		return b.String()
	}
	return msgGenericError
}
