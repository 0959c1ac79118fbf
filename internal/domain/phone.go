package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidPhone = errors.New("número de telefone inválido")

var nonDigits = regexp.MustCompile(`\D`)

// SanitizePhone remove caracteres não numéricos.
func SanitizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// NormalizePhone valida e normaliza um telefone brasileiro:
// aceita 10~13 dígitos e garante o código do país (55) no resultado.
func NormalizePhone(phone string) (string, error) {
	clean := SanitizePhone(phone)
	if len(clean) < 10 || len(clean) > 13 {
		return "", ErrInvalidPhone
	}
	if !strings.HasPrefix(clean, "55") {
		clean = "55" + clean
	}
	if len(clean) < 12 || len(clean) > 13 {
		return "", ErrInvalidPhone
	}
	return clean, nil
}

// FormatPhone formata um número já normalizado: +55 11 99999-9999.
func FormatPhone(phone string) string {
	if len(phone) == 13 {
		return fmt.Sprintf("+%s %s %s-%s", phone[0:2], phone[2:4], phone[4:9], phone[9:])
	}
	if len(phone) == 12 {
		return fmt.Sprintf("+%s %s %s-%s", phone[0:2], phone[2:4], phone[4:8], phone[8:])
	}
	return phone
}

// MaskPhone mascara todos os dígitos menos os 4 últimos (para logs).
func MaskPhone(phone string) string {
	clean := SanitizePhone(phone)
	if len(clean) <= 4 {
		return clean
	}
	return strings.Repeat("*", len(clean)-4) + clean[len(clean)-4:]
}
