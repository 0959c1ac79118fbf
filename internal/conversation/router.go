package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kimobot/backend/internal/domain"
)

// Comandos rápidos reconhecidos de qualquer estado. A ordem de checagem
// define a prioridade: corrida rápida, avaliação, despesa rápida, tokens
// de relatório, meta, preço, descanso e resolução de corrida pendente.
type commandKind int

const (
	cmdNone commandKind = iota
	cmdQuickTrip
	cmdEvaluate
	cmdQuickExpense
	cmdSummary
	cmdWeeklyGoal
	cmdYesterday
	cmdLastWeek
	cmdSetGoal
	cmdSetFuelPrice
	cmdRest
	cmdResume
	cmdPendingOK
	cmdPendingCancel
)

type command struct {
	kind commandKind

	earnings float64
	km       float64
	fuel     float64
	hasFuel  bool

	expenseType domain.ExpenseType
	expenseName string
	note        string

	value float64
}

var (
	quickTripRe    = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s+(\d+(?:[.,]\d+)?)(?:\s+(\d+(?:[.,]\d+)?))?$`)
	evaluateRe     = regexp.MustCompile(`^(?:vale|v)\s+(\d+(?:[.,]\d+)?)\s+(\d+(?:[.,]\d+)?)$`)
	quickExpenseRe = regexp.MustCompile(`^([gmpel])(\d+(?:[.,]\d+)?)(?:\s+(.+))?$`)
	setGoalRe      = regexp.MustCompile(`^(?:meta|definir meta)\s+(\d+(?:[.,]\d+)?)$`)
	fuelPriceRe    = regexp.MustCompile(`^pre[çc]o\s+(\d+(?:[.,]\d+)?)$`)
	pendingOKRe    = regexp.MustCompile(`^ok(?:\s+g(\d+(?:[.,]\d+)?))?$`)
)

// Letra do atalho de despesa para o tipo correspondente.
var expenseShortcuts = map[string]struct {
	expType domain.ExpenseType
	name    string
}{
	"g": {domain.ExpenseFuel, "Combustível"},
	"m": {domain.ExpenseMaintenanceCorrective, "Manutenção"},
	"p": {domain.ExpenseToll, "Pedágio"},
	"e": {domain.ExpenseParking, "Estacionamento"},
	"l": {domain.ExpenseCleaning, "Limpeza"},
}

// parseNumber aceita vírgula ou ponto como separador decimal.
func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseCommand tenta classificar o texto como comando rápido. Retorna
// ok=false quando o texto deve seguir para a máquina de estados.
func parseCommand(text string) (command, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))

	if m := quickTripRe.FindStringSubmatch(normalized); m != nil {
		earnings, _ := parseNumber(m[1])
		km, _ := parseNumber(m[2])
		cmd := command{kind: cmdQuickTrip, earnings: earnings, km: km}
		if m[3] != "" {
			cmd.fuel, _ = parseNumber(m[3])
			cmd.hasFuel = true
		}
		return cmd, true
	}

	if m := evaluateRe.FindStringSubmatch(normalized); m != nil {
		earnings, _ := parseNumber(m[1])
		km, _ := parseNumber(m[2])
		return command{kind: cmdEvaluate, earnings: earnings, km: km}, true
	}

	if m := quickExpenseRe.FindStringSubmatch(normalized); m != nil {
		shortcut := expenseShortcuts[m[1]]
		amount, _ := parseNumber(m[2])
		return command{
			kind:        cmdQuickExpense,
			value:       amount,
			expenseType: shortcut.expType,
			expenseName: shortcut.name,
			note:        strings.TrimSpace(m[3]),
		}, true
	}

	switch normalized {
	case "r", "resumo":
		return command{kind: cmdSummary}, true
	case "meta":
		return command{kind: cmdWeeklyGoal}, true
	case "ontem":
		return command{kind: cmdYesterday}, true
	case "semana", "semana passada":
		return command{kind: cmdLastWeek}, true
	case "descanso", "folga":
		return command{kind: cmdRest}, true
	case "voltar", "ativar":
		return command{kind: cmdResume}, true
	case "cancelar":
		return command{kind: cmdPendingCancel}, true
	}

	if m := setGoalRe.FindStringSubmatch(normalized); m != nil {
		v, _ := parseNumber(m[1])
		return command{kind: cmdSetGoal, value: v}, true
	}

	if m := fuelPriceRe.FindStringSubmatch(normalized); m != nil {
		v, _ := parseNumber(m[1])
		return command{kind: cmdSetFuelPrice, value: v}, true
	}

	if m := pendingOKRe.FindStringSubmatch(normalized); m != nil {
		cmd := command{kind: cmdPendingOK}
		if m[1] != "" {
			cmd.fuel, _ = parseNumber(m[1])
			cmd.hasFuel = true
		}
		return cmd, true
	}

	return command{}, false
}

// isGreeting reconhece as saudações que destravam o onboarding para
// números desconhecidos.
func isGreeting(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "oi", "olá", "ola", "começar", "comecar", "start", "oi kimo", "menu":
		return true
	}
	return false
}

func isYes(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "sim", "s", "confirmar", "ok", "1":
		return true
	}
	return false
}

func isNo(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "não", "nao", "n", "cancelar", "2":
		return true
	}
	return false
}
