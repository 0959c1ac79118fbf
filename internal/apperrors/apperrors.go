// Package apperrors define a taxonomia de erros do núcleo conversacional.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Entrada do usuário malformada: re-perguntar, sem avançar estado.
	KindValidation Kind = iota
	// Motor financeiro chamado antes do onboarding completar.
	KindMissingConfig
	// Falha de repositório: logar, mensagem genérica, sessão volta a Idle.
	KindPersistence
	// Falha de colaborador externo (mensageria, transcrição, NLP).
	KindCollaborator
)

type AppError struct {
	Kind    Kind
	Msg     string // mensagem para o usuário (PT-BR)
	Wrapped error
}

func (e *AppError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Wrapped)
	}
	return e.Msg
}

func (e *AppError) Unwrap() error { return e.Wrapped }

func Validation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Msg: msg}
}

func MissingConfig() *AppError {
	return &AppError{
		Kind: KindMissingConfig,
		Msg:  "⚠️ Você ainda não completou a configuração. Digite *oi* para configurar seu perfil.",
	}
}

func Persistence(err error) *AppError {
	return &AppError{
		Kind:    KindPersistence,
		Msg:     "❌ Erro ao salvar. Tente novamente mais tarde.",
		Wrapped: err,
	}
}

func Collaborator(service string, err error) *AppError {
	return &AppError{
		Kind:    KindCollaborator,
		Msg:     "❌ Serviço indisponível no momento. Tente novamente.",
		Wrapped: fmt.Errorf("%s: %w", service, err),
	}
}

// KindOf devolve o Kind de um erro, ou KindPersistence para erros não
// classificados (comportamento mais conservador para o usuário).
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

// UserMessage devolve a mensagem amigável de um erro classificado.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Msg
	}
	return "❌ Desculpe, ocorreu um erro. Digite \"oi\" para recomeçar."
}

func IsMissingConfig(err error) bool {
	return KindOf(err) == KindMissingConfig
}
