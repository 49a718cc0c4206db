package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/documents"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
)

// DocumentHandler maneja las peticiones HTTP de documentos comerciales
// (protegido): alta en borrador, confirmación y anulación.
type DocumentHandler struct {
	uc *documents.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear documento (borrador)
// @Description  El documento queda en DRAFT y no toca el stock hasta confirmarse.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "type (SALES|PURCHASE), number, warehouse_id, lines"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener documento por ID
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar documentos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT, CONFIRMED, VOID"
// @Param        limit   query  int     false  "máx 100, default 20"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), GetCompanyID(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar documento
// @Description  Transición DRAFT -> CONFIRMED. Aplica el efecto de stock de
//               todas las líneas y el cambio de estado en una sola
//               transacción: si una línea de venta no tiene stock suficiente,
//               nada cambia y se responde 409 con los saldos.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/confirm [post]
func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	out, err := h.uc.Confirm(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// Void godoc
// @Summary      Anular documento confirmado
// @Description  Transición CONFIRMED -> VOID. El historial no se edita: se
//               escriben movimientos compensatorios por cada línea.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/void [post]
func (h *DocumentHandler) Void(c *fiber.Ctx) error {
	out, err := h.uc.Void(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}
