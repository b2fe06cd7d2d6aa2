package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de producto de la tienda social.
const (
	CategoryFood     = "food"     // alimentos
	CategoryHygiene  = "hygiene"  // higiene personal
	CategoryCleaning = "cleaning" // aseo y limpieza
	CategoryOther    = "other"
)

// Unidades de medida soportadas.
const (
	UnitUnit     = "unit"
	UnitKilogram = "kilogram"
	UnitLiter    = "liter"
	UnitPackage  = "package"
)

// ValidCategory indica si la categoría es una de las soportadas.
func ValidCategory(c string) bool {
	switch c {
	case CategoryFood, CategoryHygiene, CategoryCleaning, CategoryOther:
		return true
	}
	return false
}

// ValidUnit indica si la unidad de medida es una de las soportadas.
func ValidUnit(u string) bool {
	switch u {
	case UnitUnit, UnitKilogram, UnitLiter, UnitPackage:
		return true
	}
	return false
}

// Product representa un producto del inventario de la tienda social.
// CurrentStock solo se modifica a través de movimientos de stock (ver motor
// de inventario); la única excepción conceptual es el movimiento ADJUSTMENT,
// que fija el stock a un valor absoluto tras un conteo físico.
// Los productos nunca se borran físicamente: IsActive=false preserva la
// integridad referencial del libro de movimientos.
type Product struct {
	ID           string
	Name         string
	Barcode      string // opcional; único entre productos activos cuando no es vacío
	Category     string
	Unit         string
	CurrentStock decimal.Decimal
	MinimumStock decimal.Decimal // umbral de alerta de stock bajo
	ExpiryDate   *time.Time      // opcional (alimentos)
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si el producto está en o por debajo del stock mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.MinimumStock)
}
