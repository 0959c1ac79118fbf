package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type PendingTripStatus string

const (
	PendingTripPending    PendingTripStatus = "pending"
	PendingTripInProgress PendingTripStatus = "in_progress"
	PendingTripCompleted  PendingTripStatus = "completed"
	PendingTripCancelled  PendingTripStatus = "cancelled"
)

var ErrNonPositiveValue = errors.New("valor deve ser maior que zero")

// Corrida avaliada ("vale a pena?") mas ainda não confirmada.
// Fecha o ciclo: avaliar → fazer a corrida → registrar o que aconteceu.
type PendingTrip struct {
	ID                string  `gorm:"primaryKey"`
	UserID            string  `gorm:"index;not null"`
	Earnings          float64 `gorm:"not null"`
	Km                float64 `gorm:"not null"`
	Fuel              *float64
	EstimatedDuration int               `gorm:"not null"` // minutos
	Status            PendingTripStatus `gorm:"index;not null"`
	EvaluatedAt       time.Time         `gorm:"not null"`
	CompletedAt       *time.Time
	ReminderSentAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewPendingTrip(userID string, earnings, km float64, estimatedDuration int) (*PendingTrip, error) {
	if earnings <= 0 || km <= 0 {
		return nil, ErrNonPositiveValue
	}
	if estimatedDuration < 0 {
		estimatedDuration = 0
	}
	now := time.Now()
	return &PendingTrip{
		ID:                uuid.NewString(),
		UserID:            userID,
		Earnings:          Round2(earnings),
		Km:                Round2(km),
		EstimatedDuration: estimatedDuration,
		Status:            PendingTripPending,
		EvaluatedAt:       now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (p *PendingTrip) Complete() {
	now := time.Now()
	p.Status = PendingTripCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
}

func (p *PendingTrip) Cancel() {
	p.Status = PendingTripCancelled
	p.UpdatedAt = time.Now()
}

func (p *PendingTrip) MarkReminderSent() {
	now := time.Now()
	p.ReminderSentAt = &now
	p.UpdatedAt = now
}

func (p *PendingTrip) SetFuel(amount float64) {
	v := Round2(amount)
	p.Fuel = &v
	p.UpdatedAt = time.Now()
}

// ShouldSendReminder: pendente/em andamento, sem lembrete anterior e com
// tempo decorrido além da duração estimada. Idempotente por construção.
func (p *PendingTrip) ShouldSendReminder(now time.Time) bool {
	if p.Status != PendingTripPending && p.Status != PendingTripInProgress {
		return false
	}
	if p.ReminderSentAt != nil {
		return false
	}
	elapsed := now.Sub(p.EvaluatedAt).Minutes()
	return elapsed >= float64(p.EstimatedDuration)
}

func (p *PendingTrip) ElapsedMinutes(now time.Time) int {
	return int(now.Sub(p.EvaluatedAt).Minutes())
}
