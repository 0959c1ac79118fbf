package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNegativeAmount   = errors.New("valor não pode ser negativo")
	ErrNegativeDistance = errors.New("distância não pode ser negativa")
)

// Round2 arredonda para 2 casas decimais (centavos).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Money representa um valor monetário em reais, sempre não-negativo
// e com precisão de 2 casas decimais.
type Money struct {
	amount float64
}

func NewMoney(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, fmt.Errorf("valor inválido: %v", amount)
	}
	if amount < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: Round2(amount)}, nil
}

// MustMoney é usado para valores já validados ou constantes.
func MustMoney(amount float64) Money {
	m, err := NewMoney(amount)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Value() float64 { return m.amount }

func (m Money) Add(other Money) Money {
	return Money{amount: Round2(m.amount + other.amount)}
}

// Sub satura em zero: valores monetários nunca ficam negativos.
func (m Money) Sub(other Money) Money {
	v := m.amount - other.amount
	if v < 0 {
		v = 0
	}
	return Money{amount: Round2(v)}
}

func (m Money) Mul(factor float64) Money {
	return Money{amount: Round2(m.amount * factor)}
}

func (m Money) Div(divisor float64) Money {
	if divisor == 0 {
		panic("divisão por zero em Money.Div")
	}
	return Money{amount: Round2(m.amount / divisor)}
}

func (m Money) IsZero() bool { return m.amount == 0 }

func (m Money) String() string {
	return fmt.Sprintf("R$ %.2f", m.amount)
}

// FormatBRL formata um float64 como moeda, sem passar pelo Money
// (aceita negativos: usado para lucros/prejuízos).
func FormatBRL(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}
