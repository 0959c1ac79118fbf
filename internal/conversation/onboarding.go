package conversation

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/engine"
)

// startOnboarding abre o cadastro de um número desconhecido.
func (s *Service) startOnboarding(ctx context.Context, session *Session) {
	session.Onboarding = &OnboardingData{}
	session.State = StateOnboardingProfile

	message := `👋 *Olá! Eu sou o KIMO*, seu assistente financeiro de motorista de app.

Vou te ajudar a saber *quanto você realmente lucra* (descontando combustível, manutenção e depreciação).

Primeiro, me conta: qual é a situação do seu carro?

1️⃣ Próprio quitado
2️⃣ Próprio financiado
3️⃣ Alugado
4️⃣ Uso pessoal + aplicativo`
	s.send(ctx, session.Phone, message)
}

// handleOnboarding conduz o fluxo de cadastro passo a passo.
func (s *Service) handleOnboarding(ctx context.Context, session *Session, text string) {
	if session.Onboarding == nil {
		session.Onboarding = &OnboardingData{}
	}
	data := session.Onboarding

	switch session.State {
	case StateOnboardingProfile:
		profile, name, ok := parseProfile(text)
		if !ok {
			s.send(ctx, session.Phone, "❌ Não entendi. Responda com o número da opção (1 a 4).")
			return
		}
		data.Profile = profile
		data.ProfileName = name

		switch profile {
		case domain.ProfileRented:
			session.State = StateOnboardingRental
			s.send(ctx, session.Phone, "🚗 Carro alugado, entendi!\n\nQuanto você paga de aluguel *por semana*? (só o número, ex: 700)")
		case domain.ProfileOwnFinanced:
			session.State = StateOnboardingCarValue
			s.send(ctx, session.Phone, "🚗 Carro financiado, entendi!\n\nQuanto vale o seu carro hoje, aproximadamente? (ex: 65000)")
		default:
			session.State = StateOnboardingCarValue
			s.send(ctx, session.Phone, fmt.Sprintf("🚗 %s, entendi!\n\nQuanto vale o seu carro hoje, aproximadamente? (ex: 65000)", name))
		}

	case StateOnboardingRental:
		value, ok := parsePositiveNumber(text)
		if !ok {
			s.send(ctx, session.Phone, "❌ Valor inválido. Digite só o número, ex: 700")
			return
		}
		data.Rental = value
		session.State = StateOnboardingFuelConsumption
		s.askFuelConsumption(ctx, session)

	case StateOnboardingCarValue:
		value, ok := parsePositiveNumber(text)
		if !ok || value < 1000 {
			s.send(ctx, session.Phone, "❌ Valor inválido. Digite só o número, ex: 65000")
			return
		}
		data.CarValue = value
		if data.Profile == domain.ProfileOwnFinanced {
			session.State = StateOnboardingFinancingBalance
			s.send(ctx, session.Phone, "💳 Quanto ainda falta pagar do financiamento? (ex: 40000)")
		} else {
			session.State = StateOnboardingFuelConsumption
			s.askFuelConsumption(ctx, session)
		}

	case StateOnboardingFinancingBalance:
		value, ok := parsePositiveNumber(text)
		if !ok {
			s.send(ctx, session.Phone, "❌ Valor inválido. Digite só o número, ex: 40000")
			return
		}
		data.FinancingBalance = value
		session.State = StateOnboardingFinancingPayment
		s.send(ctx, session.Phone, "💳 Qual o valor da parcela mensal? (ex: 1200)")

	case StateOnboardingFinancingPayment:
		value, ok := parsePositiveNumber(text)
		if !ok {
			s.send(ctx, session.Phone, "❌ Valor inválido. Digite só o número, ex: 1200")
			return
		}
		data.FinancingPayment = value
		session.State = StateOnboardingFinancingMonths
		s.send(ctx, session.Phone, "💳 Quantos meses faltam? (ex: 36)")

	case StateOnboardingFinancingMonths:
		months, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || months <= 0 || months > 600 {
			s.send(ctx, session.Phone, "❌ Número inválido. Digite só os meses, ex: 36")
			return
		}
		data.FinancingMonths = months
		session.State = StateOnboardingFuelConsumption
		s.askFuelConsumption(ctx, session)

	case StateOnboardingFuelConsumption:
		value, ok := parsePositiveNumber(text)
		if !ok || value > 30 {
			s.send(ctx, session.Phone, "❌ Valor inválido. Digite o consumo em km/l, ex: 11")
			return
		}
		data.FuelConsumption = value
		session.State = StateOnboardingFuelPrice
		s.send(ctx, session.Phone, "⛽ Quanto custa o litro do combustível que você usa? (ex: 6,10)")

	case StateOnboardingFuelPrice:
		value, ok := parsePositiveNumber(text)
		if !ok || value > 20 {
			s.send(ctx, session.Phone, "❌ Preço inválido. Digite o valor por litro, ex: 6,10")
			return
		}
		data.FuelPrice = value
		session.State = StateOnboardingAvgKm
		s.send(ctx, session.Phone, "📏 Quantos km você roda por dia de trabalho, em média? (ex: 180)")

	case StateOnboardingAvgKm:
		value, ok := parsePositiveNumber(text)
		if !ok || value > 1000 {
			s.send(ctx, session.Phone, "❌ Valor inválido. Digite só os km, ex: 180")
			return
		}
		data.AvgKm = value
		s.completeOnboarding(ctx, session)
	}
}

func (s *Service) askFuelConsumption(ctx context.Context, session *Session) {
	s.send(ctx, session.Phone, "⛽ Quantos km o carro faz por litro? (ex: 11)")
}

// completeOnboarding persiste usuário, configuração e custos fixos, calcula
// a meta sugerida e envia o resumo de boas-vindas.
func (s *Service) completeOnboarding(ctx context.Context, session *Session) {
	data := session.Onboarding

	created, err := s.deps.CreateUser.Execute(ctx, engine.CreateUserInput{Phone: session.Phone})
	if err != nil {
		s.fail(ctx, session.Phone, err)
		session.Reset()
		return
	}
	session.UserID = created.UserID

	params := domain.DriverConfigParams{
		UserID:          created.UserID,
		Profile:         data.Profile,
		FuelConsumption: data.FuelConsumption,
		AvgFuelPrice:    data.FuelPrice,
		AvgKmPerDay:     data.AvgKm,
	}
	if data.Profile.OwnsCar() {
		carValue := data.CarValue
		params.CarValue = &carValue
	}
	if data.Profile == domain.ProfileOwnFinanced {
		balance := data.FinancingBalance
		payment := data.FinancingPayment
		months := data.FinancingMonths
		params.FinancingBalance = &balance
		params.FinancingMonthlyPayment = &payment
		params.FinancingMonthsLeft = &months
	}

	config, err := domain.NewDriverConfig(params)
	if err != nil {
		s.fail(ctx, session.Phone, apperrors.Validation(msgGenericError))
		session.Reset()
		return
	}
	if err := s.deps.Configs.Save(ctx, config); err != nil {
		s.fail(ctx, session.Phone, apperrors.Persistence(err))
		session.Reset()
		return
	}

	if data.Profile == domain.ProfileRented && data.Rental > 0 {
		cost, err := domain.NewFixedCost(created.UserID, domain.FixedCostRental, data.Rental, domain.FrequencyWeekly, "Aluguel do carro")
		if err == nil {
			if err := s.deps.FixedCosts.Save(ctx, cost); err != nil {
				s.deps.Log.WithError(err).Error("failed to save rental fixed cost")
			}
		}
	}
	if data.Profile == domain.ProfileOwnFinanced && data.FinancingPayment > 0 {
		cost, err := domain.NewFixedCost(created.UserID, domain.FixedCostFinancing, data.FinancingPayment, domain.FrequencyMonthly, "Parcela do financiamento")
		if err == nil {
			if err := s.deps.FixedCosts.Save(ctx, cost); err != nil {
				s.deps.Log.WithError(err).Error("failed to save financing fixed cost")
			}
		}
	}

	goal, err := s.deps.SuggestedGoal.Execute(ctx, created.UserID)
	if err != nil {
		s.fail(ctx, session.Phone, err)
		session.Reset()
		return
	}

	if user := s.findUser(ctx, session); user != nil {
		if err := user.SetWeeklyGoal(goal.SuggestedWeeklyGoal); err == nil {
			if err := s.deps.Users.Update(ctx, user); err != nil {
				s.deps.Log.WithError(err).Error("failed to persist suggested goal")
			}
		}
	}

	session.Reset()
	s.send(ctx, session.Phone, onboardingSummary(data, goal))
}

func onboardingSummary(data *OnboardingData, goal *engine.SuggestedGoalOutput) string {
	var b strings.Builder
	b.WriteString("🎉 *Cadastro completo!*\n\n")
	b.WriteString("📋 *Seus custos por dia de trabalho:*\n")
	fmt.Fprintf(&b, "⛽ Combustível: %s\n", domain.FormatBRL(goal.DailyFuelCost))
	fmt.Fprintf(&b, "🔧 Manutenção: %s\n", domain.FormatBRL(goal.DailyMaintenanceCost))
	if goal.DailyDepreciationCost > 0 {
		fmt.Fprintf(&b, "📉 Depreciação: %s\n", domain.FormatBRL(goal.DailyDepreciationCost))
	}
	if goal.DailyFixedCosts > 0 {
		fmt.Fprintf(&b, "🏦 Custos fixos: %s\n", domain.FormatBRL(goal.DailyFixedCosts))
	}
	fmt.Fprintf(&b, "💸 *Total: %s/dia*\n\n", domain.FormatBRL(goal.TotalDailyCost))
	fmt.Fprintf(&b, "🎯 *Meta sugerida: %s/dia* (%s/semana)\n", domain.FormatBRL(goal.SuggestedDailyGoal), domain.FormatBRL(goal.SuggestedWeeklyGoal))
	fmt.Fprintf(&b, "Batendo a meta, seu lucro fica em ~%s/mês.\n\n", domain.FormatBRL(goal.MonthlyProfit))
	b.WriteString("🚀 *Pra começar:*\n")
	b.WriteString("• Terminou uma corrida? Manda `45 12` (ganhos e km)\n")
	b.WriteString("• Abasteceu? Manda `g80`\n")
	b.WriteString("• Digite *ajuda* para ver todos os comandos")
	return b.String()
}

func parseProfile(text string) (domain.DriverProfile, string, bool) {
	switch normalize(text) {
	case "1", "quitado", "proprio quitado", "próprio quitado":
		return domain.ProfileOwnPaid, "Carro quitado", true
	case "2", "financiado", "proprio financiado", "próprio financiado":
		return domain.ProfileOwnFinanced, "Carro financiado", true
	case "3", "alugado", "aluguel":
		return domain.ProfileRented, "Carro alugado", true
	case "4", "hibrido", "híbrido", "uso pessoal":
		return domain.ProfileHybrid, "Uso misto", true
	}
	return "", "", false
}

// parsePositiveNumber aceita vírgula ou ponto e rejeita zero, negativos,
// NaN e infinito.
func parsePositiveNumber(text string) (float64, bool) {
	v, ok := parseNumber(text)
	if !ok || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
