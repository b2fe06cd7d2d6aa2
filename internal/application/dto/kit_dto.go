package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// KitItemRequest renglón de un kit en peticiones de creación/actualización.
type KitItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateKitRequest datos para crear un kit.
type CreateKitRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Items       []KitItemRequest `json:"items"`
}

// UpdateKitRequest datos para actualizar un kit. Items, si viene, reemplaza
// todos los renglones.
type UpdateKitRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Items       []KitItemRequest `json:"items"`
}

// KitItemResponse renglón de un kit en respuestas.
type KitItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// KitResponse representación de un kit en respuestas.
type KitResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Items       []KitItemResponse `json:"items"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// KitListResponse listado de kits.
type KitListResponse struct {
	Items []KitResponse `json:"items"`
	Count int           `json:"count"`
}

// KitItemAvailabilityResponse disponibilidad de un renglón del kit.
type KitItemAvailabilityResponse struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	AvailableStock   decimal.Decimal `json:"available_stock"`
	IsActive         bool            `json:"is_active"`
	IsAvailable      bool            `json:"is_available"`
}

// KitAvailabilityResponse disponibilidad agregada y por renglón de un kit.
type KitAvailabilityResponse struct {
	KitID     string                                 `json:"kit_id"`
	Available bool                                   `json:"available"`
	Items     map[string]KitItemAvailabilityResponse `json:"items"`
}
