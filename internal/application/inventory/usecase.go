package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-social-api/internal/application/events"
	"github.com/tu-usuario/tienda-social-api/internal/domain"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/domain/repository"
)

// RecordMovementUseCase es el motor del libro de movimientos: asienta cada
// cambio de stock como un registro inmutable y actualiza la vista
// materializada (Product.CurrentStock) en la misma transacción, con bloqueo
// de fila (SELECT FOR UPDATE) para serializar escritores concurrentes.
type RecordMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	notifier    events.Notifier
}

// NewRecordMovementUseCase construye el caso de uso. notifier puede ser
// events.NopNotifier{} si nadie consume los eventos post-commit.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	notifier events.Notifier,
) *RecordMovementUseCase {
	return &RecordMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		notifier:    notifier,
	}
}

// MovementInput entrada para asentar un movimiento de stock.
// Para adjustment, Quantity es el stock absoluto resultante (conteo físico);
// para entry/exit/transfer es el delta, siempre positivo.
type MovementInput struct {
	ProductID    string
	Type         string
	Quantity     decimal.Decimal
	Reason       string
	ReferenceDoc string
	PerformedBy  string
}

// RecordMovement valida la entrada, abre una transacción, bloquea la fila
// del producto, aplica la regla según el tipo y asienta el movimiento.
// Reglas: entry suma, exit y transfer restan, adjustment fija el valor
// absoluto. No se rechaza un stock resultante negativo en exit/transfer:
// el libro registra lo que ocurrió físicamente y el faltante se corrige
// después con un adjustment (decisión heredada del flujo operativo).
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.ProductID == "" || !entity.ValidMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.MovementTypeAdjustment:
		if input.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	default:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Verificación rápida de existencia fuera de la transacción; dentro se
	// vuelve a leer con bloqueo de fila.
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var mov *entity.StockMovement

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		mov, err = applyMovement(movRepo, productRepo, input, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Publish(events.Event{Type: events.MovementRecorded, EntityID: mov.ID, At: now})
	return mov, nil
}

// RecordExitInTx aplica una salida usando los repositorios de la transacción
// del caller (misma unidad atómica). Lo usa la confirmación de entregas para
// descontar cada renglón del kit dentro de su propia transacción.
func (uc *RecordMovementUseCase) RecordExitInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	quantity decimal.Decimal,
	reason, referenceDoc, performedBy string,
	now time.Time,
) (*entity.StockMovement, error) {
	return applyMovement(movRepo, productRepo, MovementInput{
		ProductID:    productID,
		Type:         entity.MovementTypeExit,
		Quantity:     quantity,
		Reason:       reason,
		ReferenceDoc: referenceDoc,
		PerformedBy:  performedBy,
	}, now)
}

// applyMovement bloquea la fila del producto, calcula el stock resultante
// según el tipo y persiste movimiento + stock. Debe ejecutarse dentro de
// una transacción.
func applyMovement(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	input MovementInput,
	now time.Time,
) (*entity.StockMovement, error) {
	product, err := productRepo.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	previous := product.CurrentStock
	var current decimal.Decimal
	switch input.Type {
	case entity.MovementTypeEntry:
		current = previous.Add(input.Quantity)
	case entity.MovementTypeExit, entity.MovementTypeTransfer:
		current = previous.Sub(input.Quantity)
	case entity.MovementTypeAdjustment:
		current = input.Quantity
	default:
		return nil, domain.ErrInvalidInput
	}

	if err := productRepo.UpdateStock(product.ID, current, now); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Type:          input.Type,
		Quantity:      input.Quantity,
		Unit:          product.Unit,
		Reason:        input.Reason,
		ReferenceDoc:  input.ReferenceDoc,
		PreviousStock: previous,
		NewStock:      current,
		PerformedBy:   input.PerformedBy,
		CreatedAt:     now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// ListByProduct devuelve el historial de movimientos de un producto,
// opcionalmente acotado por fechas.
func (uc *RecordMovementUseCase) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByProduct(productID, from, to, limit, offset)
}

// ListByReference devuelve los movimientos originados por un documento
// (ej. los descuentos de una entrega confirmada).
func (uc *RecordMovementUseCase) ListByReference(referenceDoc string) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByReference(referenceDoc)
}
