package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tienda-social-api/internal/application/dto"
	"github.com/tu-usuario/tienda-social-api/internal/application/events"
	"github.com/tu-usuario/tienda-social-api/internal/domain"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/domain/repository"
)

// ReasonDeliveryConfirmed motivo asentado en cada movimiento de salida
// generado por la confirmación de una entrega.
const ReasonDeliveryConfirmed = "entrega confirmada"

// DeliveryUseCase implementa la máquina de estados de entregas:
// PENDING_APPROVAL -> APPROVED | REJECTED; APPROVED -> SCHEDULED;
// SCHEDULED -> CONFIRMED | CANCELLED; todo estado no terminal -> CANCELLED.
// Confirm es la única operación que consume stock y lo hace de forma
// atómica contra todos los renglones del kit.
type DeliveryUseCase struct {
	txRunner     TxRunner
	deliveryRepo repository.DeliveryRepository
	kitRepo      repository.KitRepository
	recorder     StockRecorder
	notifier     events.Notifier
}

// NewDeliveryUseCase construye el caso de uso. notifier puede ser
// events.NopNotifier{} si nadie consume los eventos post-commit.
func NewDeliveryUseCase(
	txRunner TxRunner,
	deliveryRepo repository.DeliveryRepository,
	kitRepo repository.KitRepository,
	recorder StockRecorder,
	notifier events.Notifier,
) *DeliveryUseCase {
	return &DeliveryUseCase{
		txRunner:     txRunner,
		deliveryRepo: deliveryRepo,
		kitRepo:      kitRepo,
		recorder:     recorder,
		notifier:     notifier,
	}
}

// Create registra una solicitud de entrega. Si viene fecha agendada nace
// directamente en SCHEDULED (flujo corto del mostrador); si no, nace en
// PENDING_APPROVAL para el circuito de aprobación.
func (uc *DeliveryUseCase) Create(actorID string, in dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error) {
	if in.BeneficiaryID == "" || in.KitID == "" {
		return nil, domain.ErrInvalidInput
	}
	k, err := uc.kitRepo.GetByID(in.KitID)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	d := &entity.Delivery{
		ID:            uuid.New().String(),
		BeneficiaryID: in.BeneficiaryID,
		KitID:         in.KitID,
		Status:        entity.DeliveryStatusPendingApproval,
		Notes:         in.Notes,
		RequestedAt:   &now,
		CreatedBy:     actorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.ScheduledDate != nil {
		d.Status = entity.DeliveryStatusScheduled
		d.ScheduledDate = in.ScheduledDate
	}
	if err := uc.deliveryRepo.Create(d); err != nil {
		return nil, err
	}
	uc.notifier.Publish(events.Event{Type: events.DeliveryCreated, EntityID: d.ID, At: now})
	return toDeliveryResponse(d), nil
}

// Approve pasa la entrega de PENDING_APPROVAL a APPROVED.
func (uc *DeliveryUseCase) Approve(id, approverID string) (*dto.DeliveryResponse, error) {
	d, err := uc.getDelivery(id)
	if err != nil {
		return nil, err
	}
	if d.Status != entity.DeliveryStatusPendingApproval {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	d.Status = entity.DeliveryStatusApproved
	d.ApprovedAt = &now
	d.ApprovedBy = approverID
	d.UpdatedAt = now
	if err := uc.deliveryRepo.Update(d); err != nil {
		return nil, err
	}
	uc.notifier.Publish(events.Event{Type: events.DeliveryApproved, EntityID: d.ID, At: now})
	return toDeliveryResponse(d), nil
}

// Reject pasa la entrega de PENDING_APPROVAL a REJECTED (terminal).
// El motivo es obligatorio.
func (uc *DeliveryUseCase) Reject(id, approverID, reason string) (*dto.DeliveryResponse, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	d, err := uc.getDelivery(id)
	if err != nil {
		return nil, err
	}
	if d.Status != entity.DeliveryStatusPendingApproval {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	d.Status = entity.DeliveryStatusRejected
	d.RejectedAt = &now
	d.RejectedBy = approverID
	d.RejectionReason = reason
	d.UpdatedAt = now
	if err := uc.deliveryRepo.Update(d); err != nil {
		return nil, err
	}
	uc.notifier.Publish(events.Event{Type: events.DeliveryRejected, EntityID: d.ID, At: now})
	return toDeliveryResponse(d), nil
}

// Schedule pasa la entrega de APPROVED a SCHEDULED con fecha y notas.
func (uc *DeliveryUseCase) Schedule(id string, date time.Time, notes string) (*dto.DeliveryResponse, error) {
	if date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	d, err := uc.getDelivery(id)
	if err != nil {
		return nil, err
	}
	if d.Status != entity.DeliveryStatusApproved {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	d.Status = entity.DeliveryStatusScheduled
	d.ScheduledDate = &date
	if notes != "" {
		d.Notes = notes
	}
	d.UpdatedAt = now
	if err := uc.deliveryRepo.Update(d); err != nil {
		return nil, err
	}
	uc.notifier.Publish(events.Event{Type: events.DeliveryScheduled, EntityID: d.ID, At: now})
	return toDeliveryResponse(d), nil
}

// Confirm pasa la entrega de SCHEDULED a CONFIRMED consumiendo el stock de
// todos los renglones del kit en una sola transacción: relee la entrega con
// bloqueo de fila (guardia de idempotencia: reintentar un Confirm ya
// aplicado falla con ErrInvalidState en vez de volver a descontar), resuelve
// el kit vivo y asienta una salida por renglón con referencia a la entrega.
// Si falta el kit o cualquier producto, o falla cualquier descuento, se
// revierte todo y la entrega queda en SCHEDULED.
func (uc *DeliveryUseCase) Confirm(ctx context.Context, id, confirmerID string) (*dto.DeliveryResponse, error) {
	// Lectura rápida fuera de la transacción para fallar temprano.
	d, err := uc.getDelivery(id)
	if err != nil {
		return nil, err
	}
	if d.Status != entity.DeliveryStatusScheduled {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	var confirmed *entity.Delivery

	err = uc.txRunner.RunDelivery(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		kitRepo repository.KitRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		d, err := deliveryRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.Status != entity.DeliveryStatusScheduled {
			return domain.ErrInvalidState
		}
		k, err := kitRepo.GetByID(d.KitID)
		if err != nil {
			return err
		}
		if k == nil {
			return domain.ErrNotFound
		}
		for _, item := range k.Items {
			if _, err := uc.recorder.RecordExitInTx(
				movRepo, productRepo,
				item.ProductID, item.Quantity,
				ReasonDeliveryConfirmed, d.ID, confirmerID, now,
			); err != nil {
				return err
			}
		}
		d.Status = entity.DeliveryStatusConfirmed
		d.ConfirmedAt = &now
		d.ConfirmedBy = confirmerID
		d.UpdatedAt = now
		if err := deliveryRepo.Update(d); err != nil {
			return err
		}
		confirmed = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Publish(events.Event{Type: events.DeliveryConfirmed, EntityID: confirmed.ID, At: now})
	return toDeliveryResponse(confirmed), nil
}

// Cancel pasa cualquier estado no terminal a CANCELLED. Una entrega
// CONFIRMED no se puede cancelar: no existe camino de reversa del stock.
func (uc *DeliveryUseCase) Cancel(id, actorID, reason string) (*dto.DeliveryResponse, error) {
	d, err := uc.getDelivery(id)
	if err != nil {
		return nil, err
	}
	if d.IsTerminal() {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	d.Status = entity.DeliveryStatusCancelled
	d.CancelledAt = &now
	d.CancelledBy = actorID
	d.CancelReason = reason
	d.UpdatedAt = now
	if err := uc.deliveryRepo.Update(d); err != nil {
		return nil, err
	}
	uc.notifier.Publish(events.Event{Type: events.DeliveryCancelled, EntityID: d.ID, At: now})
	return toDeliveryResponse(d), nil
}

// GetByID obtiene una entrega por ID.
func (uc *DeliveryUseCase) GetByID(id string) (*dto.DeliveryResponse, error) {
	d, err := uc.getDelivery(id)
	if err != nil {
		return nil, err
	}
	return toDeliveryResponse(d), nil
}

// ListByStatus lista entregas en un estado dado.
func (uc *DeliveryUseCase) ListByStatus(status string, limit, offset int) (*dto.DeliveryListResponse, error) {
	if !entity.ValidDeliveryStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	deliveries, err := uc.deliveryRepo.ListByStatus(status, limit, offset)
	if err != nil {
		return nil, err
	}
	return toDeliveryListResponse(deliveries), nil
}

// ListByBeneficiary lista el historial de entregas de un beneficiario.
func (uc *DeliveryUseCase) ListByBeneficiary(beneficiaryID string, limit, offset int) (*dto.DeliveryListResponse, error) {
	if beneficiaryID == "" {
		return nil, domain.ErrInvalidInput
	}
	deliveries, err := uc.deliveryRepo.ListByBeneficiary(beneficiaryID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toDeliveryListResponse(deliveries), nil
}

func (uc *DeliveryUseCase) getDelivery(id string) (*entity.Delivery, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	d, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func toDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	return &dto.DeliveryResponse{
		ID:              d.ID,
		BeneficiaryID:   d.BeneficiaryID,
		KitID:           d.KitID,
		Status:          d.Status,
		ScheduledDate:   d.ScheduledDate,
		Notes:           d.Notes,
		RequestedAt:     d.RequestedAt,
		ApprovedAt:      d.ApprovedAt,
		ApprovedBy:      d.ApprovedBy,
		RejectedAt:      d.RejectedAt,
		RejectedBy:      d.RejectedBy,
		RejectionReason: d.RejectionReason,
		ConfirmedAt:     d.ConfirmedAt,
		ConfirmedBy:     d.ConfirmedBy,
		CancelledAt:     d.CancelledAt,
		CancelledBy:     d.CancelledBy,
		CancelReason:    d.CancelReason,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toDeliveryListResponse(deliveries []*entity.Delivery) *dto.DeliveryListResponse {
	out := &dto.DeliveryListResponse{Items: make([]dto.DeliveryResponse, 0, len(deliveries))}
	for _, d := range deliveries {
		out.Items = append(out.Items, *toDeliveryResponse(d))
	}
	out.Count = len(out.Items)
	return out
}
