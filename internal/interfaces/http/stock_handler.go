package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/stock"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// StockHandler maneja el libro de stock por ubicación y la conciliación (protegido).
type StockHandler struct {
	ledger     *stock.Ledger
	reconciler *stock.Reconciler
	errs       errorMapper
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.Ledger, reconciler *stock.Reconciler, logger zerolog.Logger) *StockHandler {
	return &StockHandler{ledger: ledger, reconciler: reconciler, errs: errorMapper{logger: logger}}
}

// GetProduct godoc
// @Summary      Stock de un producto por ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {array}   dto.StockEntryDTO
// @Failure      403  {object}  dto.ErrorResponse  "producto de otro negocio"
// @Router       /api/stock/products/{id} [get]
func (h *StockHandler) GetProduct(c *fiber.Ctx) error {
	list, err := h.ledger.GetForProduct(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(stockEntriesDTO(list))
}

// History godoc
// @Summary      Historial de movimientos de un producto (más reciente primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {array}   dto.StockMovementDTO
// @Router       /api/stock/products/{id}/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	list, err := h.ledger.History(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(movementsDTO(list))
}

func (h *StockHandler) change(c *fiber.Ctx, apply func(*fiber.Ctx, stock.StockChange) (*entity.StockEntry, error)) error {
	var in dto.StockChangeRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	entry, err := apply(c, stock.StockChange{
		BusinessID:  GetBusinessID(c),
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		Quantity:    in.Quantity,
		SupplierID:  in.SupplierID,
		BatchNumber: in.BatchNumber,
		ReferenceID: in.ReferenceID,
		UserID:      GetUserID(c),
		Notes:       in.Notes,
	})
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(stockEntriesDTO([]*entity.StockEntry{entry})[0])
}

// Increase godoc
// @Summary      Aumentar stock en una ubicación
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockChangeRequest  true  "producto, ubicación y cantidad"
// @Success      200   {object}  dto.StockEntryDTO
// @Failure      400   {object}  dto.ErrorResponse  "INVALID_QUANTITY"
// @Router       /api/stock/increase [post]
func (h *StockHandler) Increase(c *fiber.Ctx) error {
	return h.change(c, func(c *fiber.Ctx, in stock.StockChange) (*entity.StockEntry, error) {
		return h.ledger.Increase(c.Context(), in)
	})
}

// Decrease godoc
// @Summary      Descontar stock en una ubicación
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockChangeRequest  true  "producto, ubicación y cantidad"
// @Success      200   {object}  dto.StockEntryDTO
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/stock/decrease [post]
func (h *StockHandler) Decrease(c *fiber.Ctx) error {
	return h.change(c, func(c *fiber.Ctx, in stock.StockChange) (*entity.StockEntry, error) {
		return h.ledger.Decrease(c.Context(), in)
	})
}

// Move godoc
// @Summary      Trasladar stock entre ubicaciones (atómico)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MoveStockRequest  true  "origen, destino y cantidad"
// @Success      200   {array}   dto.StockEntryDTO
// @Failure      400   {object}  dto.ErrorResponse  "INVALID_QUANTITY, INVALID_LOCATIONS"
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/stock/move [post]
func (h *StockHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	err := h.ledger.Move(c.Context(), stock.MoveRequest{
		BusinessID:     GetBusinessID(c),
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		UserID:         GetUserID(c),
		Notes:          in.Notes,
	})
	if err != nil {
		return h.errs.respond(c, err)
	}
	list, err := h.ledger.GetForProduct(c.Context(), GetBusinessID(c), in.ProductID)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(stockEntriesDTO(list))
}

// ListPending godoc
// @Summary      Descuentos de stock pendientes de conciliación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PendingDecrementDTO
// @Router       /api/stock/reconciliation [get]
func (h *StockHandler) ListPending(c *fiber.Ctx) error {
	list, err := h.reconciler.ListPending(c.Context(), GetBusinessID(c))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(pendingDTO(list))
}

// RunReconciliation godoc
// @Summary      Reintentar ahora los descuentos pendientes del negocio
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  stock.RunResult
// @Router       /api/stock/reconciliation/run [post]
func (h *StockHandler) RunReconciliation(c *fiber.Ctx) error {
	res, err := h.reconciler.RunOnce(c.Context(), GetBusinessID(c))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(res)
}
