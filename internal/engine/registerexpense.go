package engine

import (
	"context"
	"time"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
	"github.com/kimobot/backend/internal/repository"
)

type RegisterExpenseInput struct {
	UserID string
	Date   time.Time
	Type   domain.ExpenseType
	Amount float64
	Note   string
}

type RegisterExpense struct {
	expenses repository.ExpenseRepository
}

func NewRegisterExpense(expenses repository.ExpenseRepository) *RegisterExpense {
	return &RegisterExpense{expenses: expenses}
}

func (uc *RegisterExpense) Execute(ctx context.Context, in RegisterExpenseInput) (string, error) {
	expense, err := domain.NewExpense(in.UserID, in.Date, in.Type, in.Amount, in.Note)
	if err != nil {
		return "", apperrors.Validation("❌ Valor inválido.\n\nExemplos:\ng80 → Combustível R$80\nm150 reparo freio → Manutenção R$150")
	}
	if err := uc.expenses.Save(ctx, expense); err != nil {
		return "", apperrors.Persistence(err)
	}
	return expense.ID, nil
}
