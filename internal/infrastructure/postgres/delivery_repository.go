package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

const deliveryColumns = `id, beneficiary_id, kit_id, status, scheduled_date, notes,
	requested_at, approved_at, approved_by, rejected_at, rejected_by, rejection_reason,
	confirmed_at, confirmed_by, cancelled_at, cancelled_by, cancel_reason,
	created_by, created_at, updated_at`

// DeliveryRepo implementación del puerto DeliveryRepository sobre PostgreSQL
// (usable con pool o tx).
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste una nueva entrega.
func (r *DeliveryRepo) Create(d *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (id, beneficiary_id, kit_id, status, scheduled_date, notes,
			requested_at, approved_at, approved_by, rejected_at, rejected_by, rejection_reason,
			confirmed_at, confirmed_by, cancelled_at, cancelled_by, cancel_reason,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.BeneficiaryID, d.KitID, d.Status, d.ScheduledDate, d.Notes,
		d.RequestedAt, d.ApprovedAt, d.ApprovedBy, d.RejectedAt, d.RejectedBy, d.RejectionReason,
		d.ConfirmedAt, d.ConfirmedBy, d.CancelledAt, d.CancelledBy, d.CancelReason,
		d.CreatedBy, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

func scanDelivery(row pgx.Row) (*entity.Delivery, error) {
	var d entity.Delivery
	err := row.Scan(
		&d.ID, &d.BeneficiaryID, &d.KitID, &d.Status, &d.ScheduledDate, &d.Notes,
		&d.RequestedAt, &d.ApprovedAt, &d.ApprovedBy, &d.RejectedAt, &d.RejectedBy, &d.RejectionReason,
		&d.ConfirmedAt, &d.ConfirmedBy, &d.CancelledAt, &d.CancelledBy, &d.CancelReason,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID obtiene una entrega por ID.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	d, err := scanDelivery(r.q.QueryRow(context.Background(),
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return d, nil
}

// GetForUpdate obtiene la entrega bloqueando la fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción.
func (r *DeliveryRepo) GetForUpdate(id string) (*entity.Delivery, error) {
	d, err := scanDelivery(r.q.QueryRow(context.Background(),
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery for update: %w", err)
	}
	return d, nil
}

// Update persiste el estado completo de la entrega (transiciones de la
// máquina de estados y sus campos de auditoría).
func (r *DeliveryRepo) Update(d *entity.Delivery) error {
	query := `
		UPDATE deliveries
		SET status = $2, scheduled_date = $3, notes = $4,
			approved_at = $5, approved_by = $6,
			rejected_at = $7, rejected_by = $8, rejection_reason = $9,
			confirmed_at = $10, confirmed_by = $11,
			cancelled_at = $12, cancelled_by = $13, cancel_reason = $14,
			updated_at = $15
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Status, d.ScheduledDate, d.Notes,
		d.ApprovedAt, d.ApprovedBy,
		d.RejectedAt, d.RejectedBy, d.RejectionReason,
		d.ConfirmedAt, d.ConfirmedBy,
		d.CancelledAt, d.CancelledBy, d.CancelReason,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	return nil
}

// ListByStatus lista entregas en un estado, más recientes primero.
func (r *DeliveryRepo) ListByStatus(status string, limit, offset int) ([]*entity.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries WHERE status = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, status, limit, offset)
}

// ListByBeneficiary lista el historial de entregas de un beneficiario.
func (r *DeliveryRepo) ListByBeneficiary(beneficiaryID string, limit, offset int) ([]*entity.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries WHERE beneficiary_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, beneficiaryID, limit, offset)
}

func (r *DeliveryRepo) list(query string, args ...any) ([]*entity.Delivery, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
