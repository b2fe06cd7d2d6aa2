package inventory

import (
	"context"

	"github.com/tu-usuario/tienda-social-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa transacción. Garantiza que el asiento del
// movimiento y la actualización del stock del producto se confirmen o
// reviertan como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
