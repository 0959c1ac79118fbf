// Package engine implementa o motor financeiro: casos de uso de cálculo
// e registro sobre o perfil de custos do motorista.
package engine

import (
	"context"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/repository"
)

type CreateUserInput struct {
	Phone      string
	Name       string
	WeeklyGoal *float64
}

type CreateUserOutput struct {
	UserID    string
	Phone     string
	IsNewUser bool
}

type CreateUser struct {
	users repository.UserRepository
}

func NewCreateUser(users repository.UserRepository) *CreateUser {
	return &CreateUser{users: users}
}

func (uc *CreateUser) Execute(ctx context.Context, in CreateUserInput) (*CreateUserOutput, error) {
	phone, err := domain.NormalizePhone(in.Phone)
	if err != nil {
		return nil, apperrors.Validation("❌ Telefone inválido.")
	}

	existing, err := uc.users.FindByPhone(ctx, phone)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if existing != nil {
		return &CreateUserOutput{UserID: existing.ID, Phone: existing.Phone, IsNewUser: false}, nil
	}

	user, err := domain.NewUser(phone, in.Name)
	if err != nil {
		return nil, apperrors.Validation("❌ Telefone inválido.")
	}
	if in.WeeklyGoal != nil {
		if err := user.SetWeeklyGoal(*in.WeeklyGoal); err != nil {
			return nil, apperrors.Validation("❌ Meta semanal inválida.")
		}
	}

	if err := uc.users.Save(ctx, user); err != nil {
		return nil, apperrors.Persistence(err)
	}
	return &CreateUserOutput{UserID: user.ID, Phone: user.Phone, IsNewUser: true}, nil
}
