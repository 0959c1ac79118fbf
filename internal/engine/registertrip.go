package engine

import (
	"context"
	"time"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/repository"
)

type RegisterTripInput struct {
	UserID            string
	Date              time.Time
	Earnings          float64
	Km                float64
	TimeOnlineMinutes int
	Note              string
}

type RegisterTrip struct {
	trips repository.TripRepository
}

func NewRegisterTrip(trips repository.TripRepository) *RegisterTrip {
	return &RegisterTrip{trips: trips}
}

func (uc *RegisterTrip) Execute(ctx context.Context, in RegisterTripInput) (string, error) {
	trip, err := domain.NewTrip(in.UserID, in.Date, in.Earnings, in.Km, in.TimeOnlineMinutes, in.Note)
	if err != nil {
		return "", apperrors.Validation("❌ Valores inválidos. Use: VALOR KM\nExemplo: 45 12")
	}
	if err := uc.trips.Save(ctx, trip); err != nil {
		return "", apperrors.Persistence(err)
	}
	return trip.ID, nil
}
