package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-social-api/internal/application/delivery"
	"github.com/tu-usuario/tienda-social-api/internal/application/dto"
	"github.com/tu-usuario/tienda-social-api/internal/domain"
)

// DeliveryHandler maneja las peticiones HTTP del flujo de entregas (protegido).
type DeliveryHandler struct {
	uc *delivery.DeliveryUseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *delivery.DeliveryUseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

// respondDeliveryError mapea los errores del flujo de entregas. Las
// transiciones inválidas responden 409: la entrega existe pero su estado
// actual no admite la operación.
func respondDeliveryError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrega o kit no encontrado"})
	}
	if err == domain.ErrInvalidState {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "el estado actual de la entrega no admite esta operación"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create godoc
// @Summary      Solicitar entrega
// @Description  Con scheduled_date la entrega nace agendada; sin ella nace
//	pendiente de aprobación.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "beneficiary_id, kit_id, scheduled_date (opcional), notes"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(userID, in)
	if err != nil {
		return respondDeliveryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrega por ID
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondDeliveryError(c, err)
	}
	return c.JSON(out)
}

// ListByStatus godoc
// @Summary      Listar entregas por estado
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  true   "pending_approval | approved | rejected | scheduled | confirmed | cancelled"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.DeliveryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/deliveries [get]
func (h *DeliveryHandler) ListByStatus(c *fiber.Ctx) error {
	status := c.Query("status")
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListByStatus(status, page.Limit, page.Offset)
	if err != nil {
		return respondDeliveryError(c, err)
	}
	return c.JSON(out)
}

// ListByBeneficiary godoc
// @Summary      Historial de entregas de un beneficiario
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del beneficiario"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.DeliveryListResponse
// @Router       /api/deliveries/beneficiary/{id} [get]
func (h *DeliveryHandler) ListByBeneficiary(c *fiber.Ctx) error {
	beneficiaryID := c.Params("id")
	if beneficiaryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListByBeneficiary(beneficiaryID, page.Limit, page.Offset)
	if err != nil {
		return respondDeliveryError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar entrega pendiente (solo admin)
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/approve [post]
func (h *DeliveryHandler) Approve(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := GetUserID(c)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Approve(id, userID)
	if err != nil {
		return respondDeliveryError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar entrega pendiente (solo admin, motivo obligatorio)
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrega"
// @Param        body  body  dto.RejectDeliveryRequest  true  "Motivo del rechazo"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/reject [post]
func (h *DeliveryHandler) Reject(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := GetUserID(c)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.RejectDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Reject(id, userID, in.Reason)
	if err != nil {
		return respondDeliveryError(c, err)
	}
	return c.JSON(out)
}

// Schedule godoc
// @Summary      Agendar entrega aprobada
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrega"
// @Param        body  body  dto.ScheduleDeliveryRequest  true  "Fecha y notas"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/schedule [post]
func (h *DeliveryHandler) Schedule(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ScheduleDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Schedule(id, in.ScheduledDate, in.Notes)
	if err != nil {
		return respondDeliveryError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar entrega agendada
// @Description  Descuenta el stock de todos los renglones del kit y marca la
//	entrega como confirmada en una sola transacción: o pasa todo o no pasa
//	nada.
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/confirm [post]
func (h *DeliveryHandler) Confirm(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := GetUserID(c)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Confirm(c.Context(), id, userID)
	if err != nil {
		return respondDeliveryError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar entrega no terminal
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrega"
// @Param        body  body  dto.CancelDeliveryRequest  true  "Motivo de la cancelación"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/cancel [post]
func (h *DeliveryHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := GetUserID(c)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.CancelDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Cancel(id, userID, in.Reason)
	if err != nil {
		return respondDeliveryError(c, err)
	}
	return c.JSON(out)
}
