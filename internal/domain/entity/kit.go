package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// KitItem es un renglón de un kit: referencia débil a un producto (por ID)
// más una cantidad requerida. ProductName es una copia desnormalizada para
// visualización; puede divergir del nombre vivo del producto sin afectar
// el cálculo de disponibilidad, que siempre consulta el producto por ID.
type KitItem struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
}

// Kit es un paquete nombrado de productos que se entrega como una unidad
// a un beneficiario (ej. "kit de aseo", "mercado básico").
type Kit struct {
	ID          string
	Name        string
	Description string
	Items       []KitItem
	IsActive    bool
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// KitItemAvailability es el resultado derivado (no persistido) de evaluar
// un renglón del kit contra el stock vivo. Es una foto del momento de la
// consulta: puede quedar obsoleta inmediatamente después (la confirmación
// de una entrega es la única autoridad que consume stock).
type KitItemAvailability struct {
	ProductID        string
	ProductName      string
	RequiredQuantity decimal.Decimal
	AvailableStock   decimal.Decimal
	IsActive         bool
	IsAvailable      bool // IsActive && AvailableStock >= RequiredQuantity
}
