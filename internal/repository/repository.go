// Package repository implementa a persistência via GORM/Postgres.
// Cada entidade é mutada apenas pelo seu próprio repositório.
package repository

import (
	"time"

	"github.com/kimobot/backend/internal/domain"
)

// dayRange devolve [início do dia, início do dia seguinte) para consultas
// por data.
func dayRange(date time.Time) (time.Time, time.Time) {
	start := domain.DayOf(date)
	return start, start.AddDate(0, 0, 1)
}
