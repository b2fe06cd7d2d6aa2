package entity

import "time"

// Estados de una entrega.
// Máquina de estados: PENDING_APPROVAL -> APPROVED | REJECTED;
// APPROVED -> SCHEDULED; SCHEDULED -> CONFIRMED | CANCELLED.
// Cualquier estado no terminal puede pasar a CANCELLED.
const (
	DeliveryStatusPendingApproval = "pending_approval"
	DeliveryStatusApproved        = "approved"
	DeliveryStatusRejected        = "rejected"
	DeliveryStatusScheduled       = "scheduled"
	DeliveryStatusConfirmed       = "confirmed"
	DeliveryStatusCancelled       = "cancelled"
)

// ValidDeliveryStatus indica si el estado es uno de los soportados.
func ValidDeliveryStatus(s string) bool {
	switch s {
	case DeliveryStatusPendingApproval, DeliveryStatusApproved, DeliveryStatusRejected,
		DeliveryStatusScheduled, DeliveryStatusConfirmed, DeliveryStatusCancelled:
		return true
	}
	return false
}

// TerminalDeliveryStatus indica si el estado es terminal (sin transiciones de salida).
func TerminalDeliveryStatus(s string) bool {
	switch s {
	case DeliveryStatusRejected, DeliveryStatusConfirmed, DeliveryStatusCancelled:
		return true
	}
	return false
}

// Delivery representa la entrega de un kit a un beneficiario. Referencia al
// kit por ID (referencia débil); los productos a descontar se resuelven
// contra el kit vivo al momento de confirmar, no al momento de solicitar.
type Delivery struct {
	ID            string
	BeneficiaryID string
	KitID         string
	Status        string
	ScheduledDate *time.Time
	Notes         string

	// Auditoría por transición.
	RequestedAt     *time.Time
	ApprovedAt      *time.Time
	ApprovedBy      string
	RejectedAt      *time.Time
	RejectedBy      string
	RejectionReason string
	ConfirmedAt     *time.Time
	ConfirmedBy     string
	CancelledAt     *time.Time
	CancelledBy     string
	CancelReason    string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal indica si la entrega ya está en un estado terminal.
func (d *Delivery) IsTerminal() bool {
	return TerminalDeliveryStatus(d.Status)
}
