package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidProfile         = errors.New("perfil de motorista inválido")
	ErrInvalidFuelConsumption = errors.New("consumo deve ser maior que zero")
	ErrInvalidFuelPrice       = errors.New("preço do combustível deve ser maior que zero")
	ErrInvalidWorkDays        = errors.New("dias trabalhados deve estar entre 1 e 7")
)

// Configuração do motorista: base de todos os cálculos financeiros
type DriverConfig struct {
	ID              string        `gorm:"primaryKey"`
	UserID          string        `gorm:"uniqueIndex;not null"`
	Profile         DriverProfile `gorm:"not null"`
	CarValue        *float64      // Valor do carro (para depreciação); nil para alugado
	FuelConsumption float64       `gorm:"not null"` // km por litro, > 0
	AvgFuelPrice    float64       `gorm:"not null"` // R$ por litro
	AvgKmPerDay     float64       `gorm:"not null"`
	WorkDaysPerWeek int           `gorm:"not null;default:6"`

	// Financiamento (perfil own_financed)
	FinancingBalance        *float64
	FinancingMonthlyPayment *float64
	FinancingMonthsLeft     *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type DriverConfigParams struct {
	UserID          string
	Profile         DriverProfile
	CarValue        *float64
	FuelConsumption float64
	AvgFuelPrice    float64
	AvgKmPerDay     float64
	WorkDaysPerWeek int

	FinancingBalance        *float64
	FinancingMonthlyPayment *float64
	FinancingMonthsLeft     *int
}

func NewDriverConfig(p DriverConfigParams) (*DriverConfig, error) {
	if !p.Profile.Valid() {
		return nil, ErrInvalidProfile
	}
	if p.FuelConsumption <= 0 {
		return nil, ErrInvalidFuelConsumption
	}
	if p.AvgFuelPrice <= 0 {
		return nil, ErrInvalidFuelPrice
	}
	if p.AvgKmPerDay < 0 {
		return nil, ErrNegativeDistance
	}
	if p.WorkDaysPerWeek == 0 {
		p.WorkDaysPerWeek = 6
	}
	if p.WorkDaysPerWeek < 1 || p.WorkDaysPerWeek > 7 {
		return nil, ErrInvalidWorkDays
	}
	now := time.Now()
	return &DriverConfig{
		ID:                      uuid.NewString(),
		UserID:                  p.UserID,
		Profile:                 p.Profile,
		CarValue:                p.CarValue,
		FuelConsumption:         p.FuelConsumption,
		AvgFuelPrice:            Round2(p.AvgFuelPrice),
		AvgKmPerDay:             Round2(p.AvgKmPerDay),
		WorkDaysPerWeek:         p.WorkDaysPerWeek,
		FinancingBalance:        p.FinancingBalance,
		FinancingMonthlyPayment: p.FinancingMonthlyPayment,
		FinancingMonthsLeft:     p.FinancingMonthsLeft,
		CreatedAt:               now,
		UpdatedAt:               now,
	}, nil
}

// FuelCostPerKm = preço do combustível / consumo (km/l).
// O invariante FuelConsumption > 0 evita divisão por zero.
func (c *DriverConfig) FuelCostPerKm() float64 {
	return Round2(c.AvgFuelPrice / c.FuelConsumption)
}

// Depreciação anual típica: 18% do valor do carro.
const annualDepreciationRate = 0.18

// MonthlyDepreciation retorna nil quando não há valor de carro configurado
// (perfil alugado).
func (c *DriverConfig) MonthlyDepreciation() *float64 {
	if c.CarValue == nil || *c.CarValue == 0 {
		return nil
	}
	v := Round2(*c.CarValue * annualDepreciationRate / 12)
	return &v
}

func (c *DriverConfig) WeeklyDepreciation() *float64 {
	monthly := c.MonthlyDepreciation()
	if monthly == nil {
		return nil
	}
	v := Round2(*monthly / WeeksPerMonth)
	return &v
}

func (c *DriverConfig) EstimateWeeklyKm() float64 {
	return c.AvgKmPerDay * float64(c.WorkDaysPerWeek)
}

func (c *DriverConfig) UpdateFuelPrice(pricePerLiter float64) error {
	if pricePerLiter <= 0 {
		return ErrInvalidFuelPrice
	}
	c.AvgFuelPrice = Round2(pricePerLiter)
	c.UpdatedAt = time.Now()
	return nil
}

func (c *DriverConfig) UpdateFuelConsumption(kmPerLiter float64) error {
	if kmPerLiter <= 0 {
		return ErrInvalidFuelConsumption
	}
	c.FuelConsumption = kmPerLiter
	c.UpdatedAt = time.Now()
	return nil
}
