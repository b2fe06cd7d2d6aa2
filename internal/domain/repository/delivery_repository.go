package repository

import "github.com/tu-usuario/tienda-social-api/internal/domain/entity"

// DeliveryRepository define el puerto de persistencia para Delivery (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el registro no existe.
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	GetByID(id string) (*entity.Delivery, error)
	// GetForUpdate obtiene la entrega bloqueando la fila (SELECT FOR UPDATE).
	// Usar solo dentro de una transacción (guardia de idempotencia de Confirm).
	GetForUpdate(id string) (*entity.Delivery, error)
	Update(delivery *entity.Delivery) error
	ListByStatus(status string, limit, offset int) ([]*entity.Delivery, error)
	ListByBeneficiary(beneficiaryID string, limit, offset int) ([]*entity.Delivery, error)
}
