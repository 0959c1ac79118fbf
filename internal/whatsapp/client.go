// Package whatsapp integra com a Evolution API: envio de mensagens e
// parsing dos webhooks de entrada.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/conversation"
)

const sendTimeout = 10 * time.Second

// Client fala com uma instância da Evolution API.
type Client struct {
	baseURL  string
	instance string
	apiKey   string
	http     *http.Client
	log      *logrus.Logger
}

func NewClient(baseURL, instance, apiKey string, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		baseURL:  baseURL,
		instance: instance,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: sendTimeout},
		log:      log,
	}
}

// SendText envia uma mensagem de texto simples.
func (c *Client) SendText(ctx context.Context, to, message string) error {
	payload := map[string]any{
		"number": to,
		"text":   message,
	}
	return c.post(ctx, fmt.Sprintf("/message/sendText/%s", c.instance), payload)
}

// SendButtons envia botões de resposta rápida. Instâncias sem suporte a
// botões recebem o fallback numerado em texto puro.
func (c *Client) SendButtons(ctx context.Context, to, message string, buttons []conversation.Button) error {
	wireButtons := make([]map[string]any, 0, len(buttons))
	for _, b := range buttons {
		wireButtons = append(wireButtons, map[string]any{
			"type": "reply",
			"id":   b.ID,
			"text": b.Text,
		})
	}
	payload := map[string]any{
		"number":  to,
		"title":   "",
		"text":    message,
		"buttons": wireButtons,
	}
	if err := c.post(ctx, fmt.Sprintf("/message/sendButtons/%s", c.instance), payload); err != nil {
		c.log.WithError(err).Debug("button send failed, falling back to numbered text")
		return c.SendText(ctx, to, numberedFallback(message, buttons))
	}
	return nil
}

// SendImage envia uma imagem por URL com legenda.
func (c *Client) SendImage(ctx context.Context, to, imageURL, caption string) error {
	payload := map[string]any{
		"number":    to,
		"mediatype": "image",
		"media":     imageURL,
		"caption":   caption,
	}
	return c.post(ctx, fmt.Sprintf("/message/sendMedia/%s", c.instance), payload)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Collaborator("whatsapp", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apperrors.Collaborator("whatsapp", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Collaborator("whatsapp", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"path":   path,
			"body":   string(detail),
		}).Warn("whatsapp api returned error")
		return apperrors.Collaborator("whatsapp", fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

func numberedFallback(message string, buttons []conversation.Button) string {
	out := message + "\n"
	for i, b := range buttons {
		out += fmt.Sprintf("\n%d️⃣ %s", i+1, b.Text)
	}
	return out
}
