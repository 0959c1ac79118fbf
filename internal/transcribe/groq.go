// Package transcribe converte mensagens de voz em texto usando o Whisper
// hospedado na Groq.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/kimobot/backend/internal/apperrors"
)

const (
	downloadTimeout      = 20 * time.Second
	transcriptionTimeout = 30 * time.Second

	groqTranscriptionURL = "https://api.groq.com/openai/v1/audio/transcriptions"
	whisperModel         = "whisper-large-v3"

	// Áudios maiores que isso não são baixados (25 MB, limite da API).
	maxAudioBytes = 25 << 20
)

// GroqTranscriber baixa o áudio do WhatsApp e envia para transcrição.
type GroqTranscriber struct {
	apiKey   string
	download *http.Client
	api      *http.Client
}

func NewGroqTranscriber(apiKey string) *GroqTranscriber {
	return &GroqTranscriber{
		apiKey:   apiKey,
		download: &http.Client{Timeout: downloadTimeout},
		api:      &http.Client{Timeout: transcriptionTimeout},
	}
}

func (g *GroqTranscriber) Transcribe(ctx context.Context, audioURL string) (string, error) {
	audio, err := g.fetchAudio(ctx, audioURL)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.ogg")
	if err != nil {
		return "", apperrors.Collaborator("groq", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", apperrors.Collaborator("groq", err)
	}
	if err := writer.WriteField("model", whisperModel); err != nil {
		return "", apperrors.Collaborator("groq", err)
	}
	if err := writer.WriteField("language", "pt"); err != nil {
		return "", apperrors.Collaborator("groq", err)
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.Collaborator("groq", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqTranscriptionURL, &body)
	if err != nil {
		return "", apperrors.Collaborator("groq", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.api.Do(req)
	if err != nil {
		return "", apperrors.Collaborator("groq", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", apperrors.Collaborator("groq", fmt.Errorf("status %d: %s", resp.StatusCode, detail))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperrors.Collaborator("groq", err)
	}
	return result.Text, nil
}

func (g *GroqTranscriber) fetchAudio(ctx context.Context, audioURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, apperrors.Collaborator("whatsapp", err)
	}
	resp, err := g.download.Do(req)
	if err != nil {
		return nil, apperrors.Collaborator("whatsapp", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Collaborator("whatsapp", fmt.Errorf("audio download status %d", resp.StatusCode))
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes+1))
	if err != nil {
		return nil, apperrors.Collaborator("whatsapp", err)
	}
	if len(audio) > maxAudioBytes {
		return nil, apperrors.Collaborator("whatsapp", fmt.Errorf("audio larger than %d bytes", maxAudioBytes))
	}
	return audio, nil
}
