package domain

import (
	"fmt"
	"math"
)

// Distance representa uma distância em quilômetros, não-negativa,
// com precisão de 2 casas decimais.
type Distance struct {
	km float64
}

func NewDistance(km float64) (Distance, error) {
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return Distance{}, fmt.Errorf("distância inválida: %v", km)
	}
	if km < 0 {
		return Distance{}, ErrNegativeDistance
	}
	return Distance{km: Round2(km)}, nil
}

func MustDistance(km float64) Distance {
	d, err := NewDistance(km)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Distance) Value() float64 { return d.km }

func (d Distance) Add(other Distance) Distance {
	return Distance{km: Round2(d.km + other.km)}
}

func (d Distance) String() string {
	return fmt.Sprintf("%.2f km", d.km)
}
