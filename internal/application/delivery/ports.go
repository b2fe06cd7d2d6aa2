package delivery

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que la confirmación de una entrega necesita: releer la
// entrega con bloqueo, resolver el kit vivo, descontar cada producto y
// asentar los movimientos, todo como una sola unidad atómica.
type TxRunner interface {
	RunDelivery(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		kitRepo repository.KitRepository,
		deliveryRepo repository.DeliveryRepository,
	) error) error
}

// StockRecorder es el puerto hacia el motor de inventario: aplica una salida
// usando los repositorios de la transacción del caller.
type StockRecorder interface {
	RecordExitInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		productID string,
		quantity decimal.Decimal,
		reason, referenceDoc, performedBy string,
		now time.Time,
	) (*entity.StockMovement, error)
}
