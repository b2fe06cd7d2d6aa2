package dto

import "time"

// CreateDeliveryRequest datos para solicitar una entrega. Si ScheduledDate
// viene informada la entrega nace directamente agendada (flujo corto);
// si no, nace pendiente de aprobación.
type CreateDeliveryRequest struct {
	BeneficiaryID string     `json:"beneficiary_id"`
	KitID         string     `json:"kit_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Notes         string     `json:"notes"`
}

// RejectDeliveryRequest motivo obligatorio del rechazo.
type RejectDeliveryRequest struct {
	Reason string `json:"reason"`
}

// ScheduleDeliveryRequest fecha y notas para agendar una entrega aprobada.
type ScheduleDeliveryRequest struct {
	ScheduledDate time.Time `json:"scheduled_date"`
	Notes         string    `json:"notes"`
}

// CancelDeliveryRequest motivo de la cancelación.
type CancelDeliveryRequest struct {
	Reason string `json:"reason"`
}

// DeliveryResponse representación de una entrega en respuestas.
type DeliveryResponse struct {
	ID            string     `json:"id"`
	BeneficiaryID string     `json:"beneficiary_id"`
	KitID         string     `json:"kit_id"`
	Status        string     `json:"status"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Notes         string     `json:"notes,omitempty"`

	RequestedAt     *time.Time `json:"requested_at,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectedBy      string     `json:"rejected_by,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	ConfirmedBy     string     `json:"confirmed_by,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy     string     `json:"cancelled_by,omitempty"`
	CancelReason    string     `json:"cancel_reason,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeliveryListResponse listado de entregas.
type DeliveryListResponse struct {
	Items []DeliveryResponse `json:"items"`
	Count int                `json:"count"`
}
