package conversation

import (
	"context"

	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/nlp"
)

// Abaixo dessa confiança a interpretação do áudio é descartada e pedimos
// pro usuário repetir por texto.
const minExtractionConfidence = 0.6

// ProcessAudio transcreve a mensagem de voz, extrai a intenção e segue o
// mesmo caminho de confirmação das mensagens de texto.
func (s *Service) ProcessAudio(ctx context.Context, phone, audioURL string) {
	defer s.recoverBoundary(ctx, phone)

	session := s.session(phone)
	session.LastInteraction = s.now()

	user := s.requireUser(ctx, session)
	if user == nil {
		return
	}

	if s.deps.Transcriber == nil || s.deps.Extractor == nil {
		s.send(ctx, phone, "🎤 Ainda não consigo ouvir áudios. Manda por texto, ex: `45 12`")
		return
	}

	transcript, err := s.deps.Transcriber.Transcribe(ctx, audioURL)
	if err != nil {
		s.deps.Log.WithError(err).WithField("phone", phone).Error("transcription failed")
		s.send(ctx, phone, "🎤 Não consegui entender o áudio. Tenta de novo ou manda por texto, ex: `45 12`")
		return
	}

	extracted, err := s.deps.Extractor.Extract(ctx, transcript)
	if err != nil {
		s.deps.Log.WithError(err).WithField("phone", phone).Error("extraction failed")
		s.send(ctx, phone, "🎤 Não consegui interpretar. Manda por texto, ex: `45 12` ou `g80`")
		return
	}

	if extracted.Confidence < minExtractionConfidence {
		s.send(ctx, phone, "🤔 Não tenho certeza do que entendi: \""+transcript+"\"\n\nConfirma por texto? Ex: `45 12` (corrida) ou `g80` (combustível)")
		return
	}

	switch extracted.Intent {
	case nlp.IntentRegisterTrip:
		if extracted.Earnings == nil || extracted.Km == nil || *extracted.Earnings <= 0 || *extracted.Km <= 0 {
			s.send(ctx, phone, "🤔 Entendi que foi uma corrida, mas faltou valor ou km. Manda por texto: `45 12`")
			return
		}
		session.Reset()
		session.Pending = &PendingConfirmation{
			Kind:     PendingAudioTrip,
			Earnings: *extracted.Earnings,
			Km:       *extracted.Km,
		}
		session.State = StateRegisterConfirm
		s.send(ctx, phone, "🎤 Entendi: \""+transcript+"\"\n\n"+confirmationText(session.Pending))

	case nlp.IntentRegisterExpense:
		if extracted.ExpenseAmount == nil || *extracted.ExpenseAmount <= 0 {
			s.send(ctx, phone, "🤔 Entendi que foi uma despesa, mas faltou o valor. Manda por texto: `g80`")
			return
		}
		expenseType := domain.ExpenseOther
		expenseName := "Despesa"
		if extracted.ExpenseType != nil {
			expenseType = *extracted.ExpenseType
			expenseName = expenseLabel(expenseType)
		}
		session.Reset()
		session.Pending = &PendingConfirmation{
			Kind:        PendingAudioExpense,
			ExpenseType: expenseType,
			ExpenseName: expenseName,
			Amount:      *extracted.ExpenseAmount,
		}
		session.State = StateRegisterConfirm
		s.send(ctx, phone, "🎤 Entendi: \""+transcript+"\"\n\n"+confirmationText(session.Pending))

	case nlp.IntentSummary:
		s.showSummary(ctx, session)

	default:
		s.send(ctx, phone, "🎤 Entendi: \""+transcript+"\"\n\nMas não sei o que fazer com isso. 😅 Digite *ajuda* para ver os comandos.")
	}
}

func expenseLabel(t domain.ExpenseType) string {
	switch t {
	case domain.ExpenseFuel:
		return "Combustível"
	case domain.ExpenseMaintenancePreventive, domain.ExpenseMaintenanceCorrective:
		return "Manutenção"
	case domain.ExpenseTires:
		return "Pneus"
	case domain.ExpenseCleaning:
		return "Limpeza"
	case domain.ExpenseToll:
		return "Pedágio"
	case domain.ExpenseParking:
		return "Estacionamento"
	case domain.ExpenseAppFee:
		return "Taxa do app"
	}
	return "Despesa"
}
