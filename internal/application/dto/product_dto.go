package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest datos para crear un producto.
type CreateProductRequest struct {
	Name         string           `json:"name"`
	Barcode      string           `json:"barcode"`
	Category     string           `json:"category"` // food, hygiene, cleaning, other
	Unit         string           `json:"unit"`     // unit, kilogram, liter, package
	MinimumStock decimal.Decimal  `json:"minimum_stock"`
	ExpiryDate   *time.Time       `json:"expiry_date"`
	InitialStock *decimal.Decimal `json:"initial_stock"` // opcional; se asienta como movimiento de entrada
}

// UpdateProductRequest datos para actualizar un producto (campos opcionales).
// No incluye stock: el stock solo cambia vía movimientos.
type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Barcode      *string          `json:"barcode"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
	ExpiryDate   *time.Time       `json:"expiry_date"`
}

// ProductResponse representación de un producto en respuestas.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode,omitempty"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	IsActive     bool            `json:"is_active"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse listado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Count int               `json:"count"`
}
