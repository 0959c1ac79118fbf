package whatsapp

import (
	"strings"
)

// WebhookPayload é o evento bruto entregue pela Evolution API.
type WebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Key struct {
			RemoteJID string `json:"remoteJid"`
			FromMe    bool   `json:"fromMe"`
			ID        string `json:"id"`
		} `json:"key"`
		PushName string `json:"pushName"`
		Message  struct {
			Conversation        string `json:"conversation"`
			ExtendedTextMessage *struct {
				Text string `json:"text"`
			} `json:"extendedTextMessage"`
			AudioMessage *struct {
				URL     string `json:"url"`
				Seconds int    `json:"seconds"`
			} `json:"audioMessage"`
		} `json:"message"`
	} `json:"data"`
}

// IncomingKind distingue os tipos de mensagem que o bot trata.
type IncomingKind int

const (
	IncomingIgnored IncomingKind = iota
	IncomingText
	IncomingAudio
)

// IncomingMessage é o evento já normalizado para o núcleo conversacional.
type IncomingMessage struct {
	Kind     IncomingKind
	Phone    string
	PushName string
	Text     string
	AudioURL string
}

// ParseWebhook normaliza o payload: descarta mensagens enviadas pelo
// próprio bot e eventos sem conteúdo tratável, e extrai o telefone do JID.
func ParseWebhook(payload *WebhookPayload) IncomingMessage {
	if payload.Data.Key.FromMe {
		return IncomingMessage{Kind: IncomingIgnored}
	}

	jid := payload.Data.Key.RemoteJID
	if strings.HasSuffix(jid, "@g.us") {
		// Mensagens de grupo não são atendidas.
		return IncomingMessage{Kind: IncomingIgnored}
	}
	phone := strings.TrimSuffix(jid, "@s.whatsapp.net")
	if phone == "" {
		return IncomingMessage{Kind: IncomingIgnored}
	}

	msg := IncomingMessage{
		Phone:    phone,
		PushName: payload.Data.PushName,
	}

	if audio := payload.Data.Message.AudioMessage; audio != nil && audio.URL != "" {
		msg.Kind = IncomingAudio
		msg.AudioURL = audio.URL
		return msg
	}

	text := payload.Data.Message.Conversation
	if text == "" && payload.Data.Message.ExtendedTextMessage != nil {
		text = payload.Data.Message.ExtendedTextMessage.Text
	}
	if strings.TrimSpace(text) == "" {
		return IncomingMessage{Kind: IncomingIgnored}
	}

	msg.Kind = IncomingText
	msg.Text = text
	return msg
}
