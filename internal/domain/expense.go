package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidExpenseType = errors.New("tipo de despesa inválido")

// Despesa (evento de custo): imutável depois de criada
type Expense struct {
	ID        string      `gorm:"primaryKey"`
	UserID    string      `gorm:"index;not null"`
	Date      time.Time   `gorm:"index;not null"`
	Type      ExpenseType `gorm:"not null"`
	Amount    float64     `gorm:"not null"`
	Note      string
	CreatedAt time.Time
}

func NewExpense(userID string, date time.Time, expenseType ExpenseType, amount float64, note string) (*Expense, error) {
	if expenseType == "" {
		return nil, ErrInvalidExpenseType
	}
	money, err := NewMoney(amount)
	if err != nil {
		return nil, err
	}
	return &Expense{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		Type:      expenseType,
		Amount:    money.Value(),
		Note:      note,
		CreatedAt: time.Now(),
	}, nil
}

func (e *Expense) IsFuel() bool {
	return e.Type == ExpenseFuel
}
