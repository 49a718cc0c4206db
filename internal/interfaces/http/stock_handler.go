package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del libro de stock (protegido):
// posiciones, movimientos manuales, ajustes, traslados y verificación.
type StockHandler struct {
	uc *ledger.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.LedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetPosition godoc
// @Summary      Posición de stock de un producto en una bodega
// @Description  Devuelve quantity, reserved_qty y available_qty derivado. Un
//               par sin historial responde posición cero, no 404.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "Warehouse ID"
// @Param        product_id    query  string  true  "Product ID"
// @Success      200  {object}  dto.StockPositionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/positions [get]
func (h *StockHandler) GetPosition(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	productID := c.Query("product_id")
	if warehouseID == "" || productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id y product_id requeridos"})
	}
	out, err := h.uc.GetPosition(c.Context(), GetCompanyID(c), warehouseID, productID)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual
// @Description  Solo admite tipos RETURN, PRODUCTION y LOSS. Ventas y compras
//               se generan confirmando documentos; ajustes y traslados tienen
//               sus propias rutas.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, warehouse_id, type, quantity, notes"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RegisterMovement(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos (kardex)
// @Description  Historial append-only, más reciente primero. Filtros por
//               bodega, producto, referencia y rango de fechas (RFC 3339).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id    query  string  false  "filtrar por bodega"
// @Param        product_id      query  string  false  "filtrar por producto"
// @Param        reference_type  query  string  false  "SALES_DOCUMENT, PURCHASE_DOCUMENT, TRANSFER"
// @Param        reference_id    query  string  false  "ID de la referencia"
// @Param        from            query  string  false  "fecha inicial RFC 3339"
// @Param        to              query  string  false  "fecha final RFC 3339"
// @Param        limit           query  int     false  "máx 100, default 20"
// @Param        offset          query  int     false  "default 0"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		WarehouseID:   c.Query("warehouse_id"),
		ProductID:     c.Query("product_id"),
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC 3339"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC 3339"})
		}
		filter.To = &t
	}

	out, err := h.uc.ListMovements(c.Context(), GetCompanyID(c), filter)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajustar stock a una cantidad absoluta
// @Description  Fija la cantidad contada físicamente; el sistema calcula el
//               delta y registra un movimiento ADJUSTMENT con la magnitud.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, target_qty, reason"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SetAbsolute(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas
// @Description  Descuenta en origen y suma en destino en una sola transacción;
//               si el origen no alcanza, no cambia nada. Las dos piernas
//               comparten el mismo transfer_id.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, from_warehouse_id, to_warehouse_id, quantity, notes"
// @Success      200   {object}  dto.TransferStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Transfer(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// VerifyPosition godoc
// @Summary      Verificar consistencia de una posición
// @Description  Compara la cantidad materializada con el pliegue de su
//               historial de movimientos.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "Warehouse ID"
// @Param        product_id    query  string  true  "Product ID"
// @Success      200  {object}  dto.ConsistencyResponse
// @Router       /api/stock/consistency [get]
func (h *StockHandler) VerifyPosition(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	productID := c.Query("product_id")
	if warehouseID == "" || productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id y product_id requeridos"})
	}
	out, err := h.uc.VerifyPosition(c.Context(), GetCompanyID(c), warehouseID, productID)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}
