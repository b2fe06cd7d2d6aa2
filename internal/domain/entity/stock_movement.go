package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeEntry      = "entry"      // entrada (donación, compra)
	MovementTypeExit       = "exit"       // salida (entrega, baja)
	MovementTypeAdjustment = "adjustment" // fija el stock a un valor absoluto (conteo físico)
	MovementTypeTransfer   = "transfer"   // transferencia: solo se registra la salida
)

// ValidMovementType indica si el tipo de movimiento es uno de los soportados.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustment, MovementTypeTransfer:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del libro de movimientos: registra
// un cambio de stock y su causa. Nunca se actualiza ni se borra; el campo
// CurrentStock del producto es una vista materializada de este libro.
// PreviousStock/NewStock guardan el stock antes y después de aplicar el
// movimiento, de modo que cada fila es auditable por sí sola.
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string // entry, exit, adjustment, transfer
	Quantity      decimal.Decimal
	Unit          string
	Reason        string
	ReferenceDoc  string // documento que originó el movimiento (ej. ID de entrega)
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	PerformedBy   string // identidad del actor, provista por la capa llamante
	CreatedAt     time.Time
}
