package domain

import (
	"time"

	"github.com/google/uuid"
)

// Resumo diário: agregado derivado de corridas e despesas do dia.
// Recalculado (upsert) sempre que uma corrida ou despesa é registrada.
type DailySummary struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"index:idx_summary_user_date,unique;not null"`
	Date      time.Time `gorm:"index:idx_summary_user_date,unique;not null"`
	Earnings  float64
	Expenses  float64
	Km        float64
	Profit    float64
	CostPerKm *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDailySummary deriva lucro e custo/km a partir dos totais do dia.
// A data é truncada para o dia (chave natural: usuário + dia).
func NewDailySummary(userID string, date time.Time, earnings, expenses, km float64) (*DailySummary, error) {
	earn, err := NewMoney(earnings)
	if err != nil {
		return nil, err
	}
	spent, err := NewMoney(expenses)
	if err != nil {
		return nil, err
	}
	dist, err := NewDistance(km)
	if err != nil {
		return nil, err
	}

	s := &DailySummary{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      DayOf(date),
		Earnings:  earn.Value(),
		Expenses:  spent.Value(),
		Km:        dist.Value(),
		Profit:    Round2(earn.Value() - spent.Value()),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if s.Km > 0 {
		cpk := Round2(s.Expenses / s.Km)
		s.CostPerKm = &cpk
	}
	return s, nil
}

func (s *DailySummary) IsProfitable() bool {
	return s.Profit > 0
}

func (s *DailySummary) HasWorked() bool {
	return s.Km > 0 || s.Earnings > 0
}

// DayOf trunca um timestamp para o início do dia (UTC do processo).
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
