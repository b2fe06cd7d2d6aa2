package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest datos para asentar un movimiento de stock.
// Para adjustment, Quantity es el valor absoluto al que queda el stock;
// para entry/exit/transfer es el delta (siempre positivo).
type RecordMovementRequest struct {
	ProductID    string          `json:"product_id"`
	Type         string          `json:"type"` // entry, exit, adjustment, transfer
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	ReferenceDoc string          `json:"reference_doc"`
}

// MovementResponse representación de un movimiento en respuestas.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	Reason        string          `json:"reason,omitempty"`
	ReferenceDoc  string          `json:"reference_doc,omitempty"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	PerformedBy   string          `json:"performed_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListResponse listado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Count int                `json:"count"`
}
