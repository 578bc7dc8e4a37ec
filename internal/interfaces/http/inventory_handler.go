package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// InventoryHandler maneja movimientos, stock y valoración (protegido).
type InventoryHandler struct {
	apply *ledger.ApplyMovementUseCase
	query *ledger.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(apply *ledger.ApplyMovementUseCase, query *ledger.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{apply: apply, query: query}
}

// AdjustStock godoc
// @Summary      Registrar movimiento de inventario de una línea
// @Description  Aplica un IN/OUT/ADJUSTMENT directo sobre una clave de stock,
//
//	sin pasar por el ciclo de transacciones. Entradas exigen unit_cost.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, type, quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.apply.Apply(c.Context(), ledger.MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		Key: entity.StockKey{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			LocationID:  in.LocationID,
			BatchID:     in.BatchID,
		},
		Type:        entity.MovementType(in.Type),
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		Reason:      in.Reason,
		ReferenceID: in.ReferenceID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ledger.ToMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Description  Lista por producto o por bodega (exactamente uno), con rango
//
//	de fechas opcional y paginación. Más reciente primero.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.query.ListMovements(c.Context(), companyID, c.Query("product_id"), c.Query("warehouse_id"), from, to, page)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetMovement godoc
// @Summary      Consultar un movimiento del log
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.query.GetMovement(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Cantidad actual de una clave de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        warehouse_id  query  string  true   "Bodega"
// @Param        location_id   query  string  false  "Ubicación"
// @Param        batch_id      query  string  false  "Lote"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	key := entity.StockKey{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		LocationID:  c.Query("location_id"),
		BatchID:     c.Query("batch_id"),
	}
	out, err := h.query.CurrentQuantity(c.Context(), companyID, key)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetValuation godoc
// @Summary      Valoración vigente de (producto, bodega)
// @Description  Promedio ponderado devuelve el costo unitario vigente;
//
//	FIFO/LIFO devuelven el valor total de las capas abiertas.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.ValuationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/valuation [get]
func (h *InventoryHandler) GetValuation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.query.CurrentValuation(c.Context(), companyID, c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ValuationReport godoc
// @Summary      Reporte de valoración
// @Description  Agrupa por (producto, bodega), con cantidad, costo unitario y
//
//	valor total según el método del tenant. Omite grupos en cero.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/valuation-report [get]
func (h *InventoryHandler) ValuationReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	rows, err := h.query.ValuationReport(c.Context(), companyID, c.Query("warehouse_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(rows),
		"rows":  rows,
	})
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
