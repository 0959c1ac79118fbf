package domain

import (
	"time"

	"github.com/google/uuid"
)

// Corrida (evento de ganho): imutável depois de criada
type Trip struct {
	ID                string    `gorm:"primaryKey"`
	UserID            string    `gorm:"index;not null"`
	Date              time.Time `gorm:"index;not null"`
	Earnings          float64   `gorm:"not null"`
	Km                float64   `gorm:"not null"`
	TimeOnlineMinutes int
	IsPersonalUse     bool // Perfil híbrido: km rodado fora dos apps
	Note              string
	CreatedAt         time.Time
}

func NewTrip(userID string, date time.Time, earnings, km float64, timeOnlineMinutes int, note string) (*Trip, error) {
	earn, err := NewMoney(earnings)
	if err != nil {
		return nil, err
	}
	dist, err := NewDistance(km)
	if err != nil {
		return nil, err
	}
	if timeOnlineMinutes < 0 {
		timeOnlineMinutes = 0
	}
	return &Trip{
		ID:                uuid.NewString(),
		UserID:            userID,
		Date:              date,
		Earnings:          earn.Value(),
		Km:                dist.Value(),
		TimeOnlineMinutes: timeOnlineMinutes,
		Note:              note,
		CreatedAt:         time.Now(),
	}, nil
}

// EarningsPerHour retorna nil quando o tempo online não foi informado.
func (t *Trip) EarningsPerHour() *float64 {
	if t.TimeOnlineMinutes == 0 {
		return nil
	}
	v := Round2(t.Earnings / (float64(t.TimeOnlineMinutes) / 60))
	return &v
}
