package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidFrequency = errors.New("frequência de custo fixo inválida")

// Custo fixo recorrente do motorista (aluguel, financiamento, seguro...)
type FixedCost struct {
	ID          string        `gorm:"primaryKey"`
	UserID      string        `gorm:"index;not null"`
	Type        FixedCostType `gorm:"not null"`
	Amount      float64       `gorm:"not null"`
	Frequency   CostFrequency `gorm:"not null"`
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	IsActive    bool `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewFixedCost(userID string, costType FixedCostType, amount float64, frequency CostFrequency, description string) (*FixedCost, error) {
	money, err := NewMoney(amount)
	if err != nil {
		return nil, err
	}
	if !frequency.Valid() {
		return nil, ErrInvalidFrequency
	}
	now := time.Now()
	return &FixedCost{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        costType,
		Amount:      money.Value(),
		Frequency:   frequency,
		Description: description,
		StartDate:   now,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Deactivate encerra o custo preservando o histórico (nunca deletamos).
func (f *FixedCost) Deactivate() {
	now := time.Now()
	f.IsActive = false
	f.EndDate = &now
	f.UpdatedAt = now
}

// DailyAmount converte o custo para o equivalente diário.
func (f *FixedCost) DailyAmount() float64 {
	switch f.Frequency {
	case FrequencyDaily:
		return f.Amount
	case FrequencyWeekly:
		return Round2(f.Amount / 7)
	case FrequencyMonthly:
		return Round2(f.Amount / 30)
	case FrequencyYearly:
		return Round2(f.Amount / 365)
	}
	panic(fmt.Sprintf("frequência desconhecida: %s", f.Frequency))
}

// WeeklyAmount converte o custo para o equivalente semanal.
func (f *FixedCost) WeeklyAmount() float64 {
	switch f.Frequency {
	case FrequencyDaily:
		return Round2(f.Amount * 7)
	case FrequencyWeekly:
		return f.Amount
	case FrequencyMonthly:
		return Round2(f.Amount / WeeksPerMonth)
	case FrequencyYearly:
		return Round2(f.Amount / 52)
	}
	panic(fmt.Sprintf("frequência desconhecida: %s", f.Frequency))
}

// MonthlyAmount converte o custo para o equivalente mensal.
func (f *FixedCost) MonthlyAmount() float64 {
	switch f.Frequency {
	case FrequencyDaily:
		return Round2(f.Amount * 30)
	case FrequencyWeekly:
		return Round2(f.Amount * WeeksPerMonth)
	case FrequencyMonthly:
		return f.Amount
	case FrequencyYearly:
		return Round2(f.Amount / 12)
	}
	panic(fmt.Sprintf("frequência desconhecida: %s", f.Frequency))
}
