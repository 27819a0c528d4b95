package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Recepciones-api/internal/application/dto"
	apprecv "github.com/jhoicas/Recepciones-api/internal/application/receiving"
	"github.com/jhoicas/Recepciones-api/internal/domain"
	"github.com/jhoicas/Recepciones-api/internal/domain/receiving"
	"github.com/jhoicas/Recepciones-api/internal/domain/repository"
)

// ReceivingHandler maneja las peticiones HTTP del flujo de recepción.
type ReceivingHandler struct {
	uc *apprecv.WorkflowUseCase
}

// NewReceivingHandler construye el handler.
func NewReceivingHandler(uc *apprecv.WorkflowUseCase) *ReceivingHandler {
	return &ReceivingHandler{uc: uc}
}

// receivingError mapea los errores del dominio de recepción a HTTP:
// lote inválido 422 con detalle por línea, transición inválida 409,
// documento en uso 409, no encontrado 404.
func receivingError(c *fiber.Ctx, err error) error {
	var verr *receiving.ValidationError
	if errors.As(err, &verr) {
		violations := make([]dto.ViolationResponse, len(verr.Violations))
		for i, v := range verr.Violations {
			violations[i] = dto.ViolationResponse{ItemID: v.ItemID, ProductID: v.ProductID, Reason: v.Reason}
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Code:       "INVALID_QUANTITIES",
			Message:    "el lote viola invariantes de cantidades",
			Violations: violations,
		})
	}
	var serr *receiving.InvalidStateError
	if errors.As(err, &serr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: serr.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrDocumentLocked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DOCUMENT_LOCKED", Message: "otro operador está trabajando sobre este documento"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recepción no encontrada"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "documento duplicado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create godoc
// @Summary      Crear recepción desde orden de compra
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "orden de compra y líneas a planificar"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/receipts [post]
func (h *ReceivingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateFromPO(c.Context(), GetUserID(c), in)
	if err != nil {
		return receivingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar recepciones
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "DRAFT|ARRIVED|PASSED|COMPLETED|CANCELLED"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        source_type   query  string  false  "PURCHASE|TRANSFER"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.ReceiptResponse
// @Router       /api/receipts [get]
func (h *ReceivingHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	filters := repository.GoodsReceiptFilters{
		Status:      c.Query("status"),
		WarehouseID: c.Query("warehouse_id"),
		SourceType:  c.Query("source_type"),
	}
	out, err := h.uc.List(c.Context(), filters, limit, offset)
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener recepción por ID
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [get]
func (h *ReceivingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar recepción (solo DRAFT sin cantidades)
// @Tags         receipts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la recepción"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [delete]
func (h *ReceivingHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return receivingError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkArrived godoc
// @Summary      Registrar llegada de mercancía
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la recepción"
// @Param        body  body  dto.MarkArrivedRequest  true  "cantidades recibidas por línea"
// @Success      200   {object}  dto.UpdatedReceiptResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/receipts/{id}/arrive [post]
func (h *ReceivingHandler) MarkArrived(c *fiber.Ctx) error {
	var in dto.MarkArrivedRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.MarkArrived(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// QCCheck godoc
// @Summary      Registrar inspección de calidad (lote completo)
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la recepción"
// @Param        body  body  dto.QCCheckRequest  true  "aprobadas y rechazadas por línea"
// @Success      200   {object}  dto.UpdatedReceiptResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/receipts/{id}/qc [post]
func (h *ReceivingHandler) QCCheck(c *fiber.Ctx) error {
	var in dto.QCCheckRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.QCCheck(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// PassAllQC godoc
// @Summary      Aprobar todo lo recibido sin rechazos
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.UpdatedReceiptResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/qc/pass-all [post]
func (h *ReceivingHandler) PassAllQC(c *fiber.Ctx) error {
	out, err := h.uc.PassAllQC(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar la recepción y reconciliar cantidades
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la recepción"
// @Param        body  body  dto.ApproveRequest  false  "notas de aprobación"
// @Success      200   {object}  dto.UpdatedReceiptResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/approve [post]
func (h *ReceivingHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.Approve(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular la recepción (solo DRAFT o ARRIVED)
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.UpdatedReceiptResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/cancel [post]
func (h *ReceivingHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de cantidades y acción siguiente
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceiptSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/summary [get]
func (h *ReceivingHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context(), c.Params("id"))
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// ActaPDF godoc
// @Summary      Acta de recepción en PDF
// @Tags         receipts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/pdf [get]
func (h *ReceivingHandler) ActaPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.ActaPDF(c.Context(), c.Params("id"))
	if err != nil {
		return receivingError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="acta-recepcion.pdf"`)
	return c.Send(pdfBytes)
}

// SuggestArrival godoc
// @Summary      Sugerir llegada desde la remisión XML del proveedor
// @Tags         receipts
// @Security     Bearer
// @Accept       application/xml
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.DeliveryNoteSuggestionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/delivery-note [post]
func (h *ReceivingHandler) SuggestArrival(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se espera el XML de la remisión en el cuerpo"})
	}
	out, err := h.uc.SuggestArrival(c.Context(), c.Params("id"), body)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return receivingError(c, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_XML", Message: err.Error()})
	}
	return c.JSON(out)
}
