// Package httpapi expõe as rotas HTTP: webhook do WhatsApp, health check
// e a API REST usada pelo app mobile.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kimobot/backend/internal/conversation"
	"github.com/kimobot/backend/internal/engine"
	"github.com/kimobot/backend/internal/repository"
	"github.com/kimobot/backend/internal/whatsapp"
)

// Deps agrupa o que as rotas precisam.
type Deps struct {
	Conversation *conversation.Service
	EvaluateTrip *engine.EvaluateTrip
	Users        repository.UserRepository
	Configs      repository.DriverConfigRepository
	Log          *logrus.Logger
}

// NewRouter monta o gin.Engine com todas as rotas.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = logrus.New()
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/webhook", webhookVerifyHandler())
	r.POST("/webhook", webhookHandler(deps))

	mobile := r.Group("/api/mobile")
	{
		mobile.POST("/auth", mobileAuthHandler(deps))
		mobile.GET("/criteria/:userId", mobileCriteriaHandler(deps))
		mobile.POST("/analyze", mobileAnalyzeHandler(deps))
	}

	return r
}

// webhookVerifyHandler responde pings de verificação da Evolution API.
func webhookVerifyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "webhook ativo"})
	}
}

// webhookHandler recebe os eventos da Evolution API e despacha para o
// núcleo conversacional. A resposta é sempre 200 imediata: o
// processamento segue em background para não segurar o gateway.
func webhookHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload whatsapp.WebhookPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			deps.Log.WithError(err).Debug("malformed webhook payload")
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}

		// O contexto da requisição morre junto com o handler; o
		// processamento em background ganha um contexto próprio.
		incoming := whatsapp.ParseWebhook(&payload)
		switch incoming.Kind {
		case whatsapp.IncomingText:
			go deps.Conversation.ProcessMessage(context.Background(), incoming.Phone, incoming.Text)
		case whatsapp.IncomingAudio:
			go deps.Conversation.ProcessAudio(context.Background(), incoming.Phone, incoming.AudioURL)
		}

		c.JSON(http.StatusOK, gin.H{"status": "received"})
	}
}
