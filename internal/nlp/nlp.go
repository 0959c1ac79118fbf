// Package nlp interpreta mensagens em linguagem natural (transcrições de
// áudio, texto livre) e extrai intenção e valores estruturados.
package nlp

import (
	"github.com/kimobot/backend/internal/domain"
)

type Intent string

const (
	IntentRegisterTrip    Intent = "register_trip"
	IntentRegisterExpense Intent = "register_expense"
	IntentSummary         Intent = "summary"
	IntentUnknown         Intent = "unknown"
)

// ExtractedData é o resultado estruturado da interpretação. Campos nil
// indicam que o modelo não encontrou o valor.
type ExtractedData struct {
	Intent        Intent              `json:"intent"`
	Earnings      *float64            `json:"earnings"`
	Km            *float64            `json:"km"`
	ExpenseAmount *float64            `json:"expense_amount"`
	ExpenseType   *domain.ExpenseType `json:"expense_type"`
	Confidence    float64             `json:"confidence"`
}
