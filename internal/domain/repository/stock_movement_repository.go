package repository

import (
	"time"

	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el libro de
// movimientos. Solo hay inserción y consulta: los movimientos son inmutables.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ListByReference devuelve los movimientos originados por un documento
	// (ej. todos los descuentos de una entrega confirmada).
	ListByReference(referenceDoc string) ([]*entity.StockMovement, error)
}
