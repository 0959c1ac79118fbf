package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Usuário do sistema (motorista)
type User struct {
	ID             string  `gorm:"primaryKey"`
	Phone          string  `gorm:"uniqueIndex;not null"`
	Name           string
	WeeklyGoal     *float64
	IsActive       bool `gorm:"default:true"` // false = modo descanso (sem mensagens proativas)
	LastActivityAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var ErrNegativeGoal = errors.New("meta semanal não pode ser negativa")

// NewUser cria um usuário com telefone já normalizado.
func NewUser(phone, name string) (*User, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &User{
		ID:             uuid.NewString(),
		Phone:          normalized,
		Name:           name,
		IsActive:       true,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (u *User) SetWeeklyGoal(goal float64) error {
	if goal < 0 {
		return ErrNegativeGoal
	}
	rounded := Round2(goal)
	u.WeeklyGoal = &rounded
	u.UpdatedAt = time.Now()
	return nil
}

// EnterRestMode pausa mensagens proativas para o usuário.
func (u *User) EnterRestMode() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
}

func (u *User) LeaveRestMode() {
	u.IsActive = true
	u.UpdatedAt = time.Now()
}

func (u *User) Touch() {
	u.LastActivityAt = time.Now()
	u.UpdatedAt = u.LastActivityAt
}
