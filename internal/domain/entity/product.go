package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU recibible.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Cost        decimal.Decimal // costo de referencia para valoración
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
