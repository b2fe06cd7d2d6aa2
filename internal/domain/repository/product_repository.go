package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el registro no existe.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetByBarcode busca por código de barras solo entre productos activos.
	GetByBarcode(barcode string) (*entity.Product, error)
	// Update actualiza los datos del producto sin tocar CurrentStock
	// (el stock se modifica únicamente vía movimientos).
	Update(product *entity.Product) error
	// UpdateStock fija CurrentStock y UpdatedAt. Solo debe invocarse desde
	// el motor de inventario, dentro de una transacción.
	UpdateStock(productID string, stock decimal.Decimal, updatedAt time.Time) error
	// SoftDelete marca el producto como inactivo; nunca borra la fila.
	SoftDelete(id string, updatedAt time.Time) error
	ListByCategory(category string, limit, offset int) ([]*entity.Product, error)
	// ListLowStock devuelve productos activos con CurrentStock <= MinimumStock.
	ListLowStock() ([]*entity.Product, error)
	// ListNearExpiry devuelve productos activos cuya fecha de vencimiento
	// cae dentro de los próximos days días.
	ListNearExpiry(days int) ([]*entity.Product, error)
	// Search busca por texto normalizado (minúsculas, sin tildes) entre activos.
	Search(query string, limit, offset int) ([]*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE).
	// Usar solo dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
}
