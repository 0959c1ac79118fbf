package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
)

const extractionTimeout = 20 * time.Second

const extractionPrompt = `Você analisa mensagens de motoristas de aplicativo (Uber, 99) sobre finanças.
Responda com um JSON PURO, sem markdown, no formato:
{"intent": "register_trip" | "register_expense" | "summary" | "unknown",
 "earnings": number | null,
 "km": number | null,
 "expense_amount": number | null,
 "expense_type": "fuel" | "maintenance_corrective" | "toll" | "parking" | "cleaning" | "other" | null,
 "confidence": number entre 0 e 1}

Exemplos:
"fiz uma corrida de 45 reais em 12 quilômetros" -> {"intent":"register_trip","earnings":45,"km":12,"expense_amount":null,"expense_type":null,"confidence":0.95}
"abasteci 80 reais" -> {"intent":"register_expense","earnings":null,"km":null,"expense_amount":80,"expense_type":"fuel","confidence":0.95}
"como foi meu dia" -> {"intent":"summary","earnings":null,"km":null,"expense_amount":null,"expense_type":null,"confidence":0.9}

Mensagem: `

// GeminiExtractor usa o Gemini para extrair dados estruturados de texto
// livre em português.
type GeminiExtractor struct {
	apiKey string
	model  string
}

func NewGeminiExtractor(apiKey string) *GeminiExtractor {
	return &GeminiExtractor{apiKey: apiKey, model: "gemini-1.5-flash"}
}

func (g *GeminiExtractor) Extract(ctx context.Context, text string) (*ExtractedData, error) {
	ctx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return nil, apperrors.Collaborator("gemini", err)
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(extractionPrompt+text), nil)
	if err != nil {
		return nil, apperrors.Collaborator("gemini", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.Collaborator("gemini", fmt.Errorf("empty response"))
	}

	raw := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		raw += part.Text
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var data ExtractedData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, apperrors.Collaborator("gemini", fmt.Errorf("parse response: %w", err))
	}

	normalizeExtraction(&data)
	return &data, nil
}

// normalizeExtraction descarta valores fora de faixa ou incoerentes com a
// intenção, puxando a confiança pra baixo quando necessário.
func normalizeExtraction(data *ExtractedData) {
	switch data.Intent {
	case IntentRegisterTrip, IntentRegisterExpense, IntentSummary:
	default:
		data.Intent = IntentUnknown
	}

	if data.Confidence < 0 {
		data.Confidence = 0
	}
	if data.Confidence > 1 {
		data.Confidence = 1
	}

	if data.Earnings != nil && (*data.Earnings <= 0 || *data.Earnings > 100000) {
		data.Earnings = nil
	}
	if data.Km != nil && (*data.Km <= 0 || *data.Km > 2000) {
		data.Km = nil
	}
	if data.ExpenseAmount != nil && (*data.ExpenseAmount <= 0 || *data.ExpenseAmount > 100000) {
		data.ExpenseAmount = nil
	}
	if data.ExpenseType != nil {
		switch *data.ExpenseType {
		case domain.ExpenseFuel, domain.ExpenseMaintenancePreventive, domain.ExpenseMaintenanceCorrective,
			domain.ExpenseTires, domain.ExpenseCleaning, domain.ExpenseToll, domain.ExpenseParking,
			domain.ExpenseAppFee, domain.ExpenseOther:
		default:
			data.ExpenseType = nil
		}
	}
}
