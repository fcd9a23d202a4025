package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
)

// POSHandler maneja las sesiones del terminal POS (protegido).
type POSHandler struct {
	uc   *pos.SessionUseCase
	errs errorMapper
}

// NewPOSHandler construye el handler.
func NewPOSHandler(uc *pos.SessionUseCase, logger zerolog.Logger) *POSHandler {
	return &POSHandler{uc: uc, errs: errorMapper{logger: logger}}
}

func (h *POSHandler) sessionReply(c *fiber.Ctx, status int, v *pos.SessionView, err error) error {
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(status).JSON(sessionResponse(v))
}

// Open godoc
// @Summary      Abrir sesión de POS
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.OpenSessionRequest  false  "location_id opcional"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pos/sessions [post]
func (h *POSHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
	}
	v, err := h.uc.OpenSession(c.Context(), CurrentUser(c), in.LocationID)
	return h.sessionReply(c, fiber.StatusCreated, v, err)
}

// Get godoc
// @Summary      Carrito, totales y datos del cobro
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id} [get]
func (h *POSHandler) Get(c *fiber.Ctx) error {
	v, err := h.uc.GetSession(c.Context(), CurrentUser(c), c.Params("id"))
	return h.sessionReply(c, fiber.StatusOK, v, err)
}

// AddItem godoc
// @Summary      Agregar ítem al carrito
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "ID de la sesión"
// @Param        body  body      dto.AddItemRequest  true  "entry_id"
// @Success      200   {object}  dto.SessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "OUT_OF_STOCK"
// @Router       /api/pos/sessions/{id}/items [post]
func (h *POSHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	v, err := h.uc.AddItem(c.Context(), CurrentUser(c), c.Params("id"), in.EntryID)
	return h.sessionReply(c, fiber.StatusOK, v, err)
}

// SetQuantity godoc
// @Summary      Cambiar cantidad de una línea (0 la elimina)
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "ID de la sesión"
// @Param        entryId  path      string                  true  "ID de la entrada del catálogo"
// @Param        body     body      dto.SetQuantityRequest  true  "quantity"
// @Success      200      {object}  dto.SessionResponse
// @Failure      409      {object}  dto.ErrorResponse  "OUT_OF_STOCK"
// @Router       /api/pos/sessions/{id}/items/{entryId} [put]
func (h *POSHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	v, err := h.uc.SetQuantity(c.Context(), CurrentUser(c), c.Params("id"), c.Params("entryId"), *in.Quantity)
	return h.sessionReply(c, fiber.StatusOK, v, err)
}

// RemoveItem godoc
// @Summary      Quitar línea del carrito
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id       path      string  true  "ID de la sesión"
// @Param        entryId  path      string  true  "ID de la entrada del catálogo"
// @Success      200      {object}  dto.SessionResponse
// @Router       /api/pos/sessions/{id}/items/{entryId} [delete]
func (h *POSHandler) RemoveItem(c *fiber.Ctx) error {
	v, err := h.uc.RemoveItem(c.Context(), CurrentUser(c), c.Params("id"), c.Params("entryId"))
	return h.sessionReply(c, fiber.StatusOK, v, err)
}

// UpdateDetails godoc
// @Summary      Actualizar cliente, proforma, pago, observaciones y domicilio
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID de la sesión"
// @Param        body  body      dto.UpdateDetailsRequest  true  "datos del cobro"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/pos/sessions/{id}/details [put]
func (h *POSHandler) UpdateDetails(c *fiber.Ctx) error {
	var in dto.UpdateDetailsRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	fee := decimal.Zero
	if in.DeliveryFee != nil {
		fee = *in.DeliveryFee
	}
	v, err := h.uc.UpdateDetails(c.Context(), CurrentUser(c), c.Params("id"), pos.DetailsUpdate{
		CustomerID:      in.CustomerID,
		PaymentMethod:   in.PaymentMethod,
		Particulars:     in.Particulars,
		ProformaTitle:   in.ProformaTitle,
		IsProforma:      in.IsProforma,
		DeliveryEnabled: in.DeliveryEnabled,
		DeliveryFee:     fee,
	})
	return h.sessionReply(c, fiber.StatusOK, v, err)
}

// RefreshStock godoc
// @Summary      Recargar el stock de la ubicación de la sesión
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/pos/sessions/{id}/stock [post]
func (h *POSHandler) RefreshStock(c *fiber.Ctx) error {
	v, err := h.uc.RefreshStock(c.Context(), CurrentUser(c), c.Params("id"))
	return h.sessionReply(c, fiber.StatusOK, v, err)
}

// LoadSaleForEdit godoc
// @Summary      Cargar una venta histórica para editarla
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true  "ID de la sesión"
// @Param        saleId  path      string  true  "ID de la venta"
// @Success      200     {object}  dto.SessionResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id}/edit/{saleId} [post]
func (h *POSHandler) LoadSaleForEdit(c *fiber.Ctx) error {
	v, err := h.uc.LoadSaleForEdit(c.Context(), CurrentUser(c), c.Params("id"), c.Params("saleId"))
	return h.sessionReply(c, fiber.StatusOK, v, err)
}

// Checkout godoc
// @Summary      Cobrar el carrito de la sesión
// @Description  Guarda la venta y luego descuenta stock por línea rastreada. Los descuentos fallidos
//
//	quedan en conciliación y se informan como stock_warnings.
//
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la sesión"
// @Success      201  {object}  dto.CheckoutResponse
// @Failure      409  {object}  dto.ErrorResponse  "BUSY"
// @Failure      422  {object}  dto.ErrorResponse  "VALIDATION, EMPTY_CART, REJECTED_ITEMS"
// @Failure      503  {object}  dto.ErrorResponse  "TRANSPORT"
// @Router       /api/pos/sessions/{id}/checkout [post]
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	res, err := h.uc.Checkout(c.Context(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(checkoutResponse(res))
}

// Cancel godoc
// @Summary      Descartar la sesión
// @Tags         pos
// @Security     Bearer
// @Param        id   path  string  true  "ID de la sesión"
// @Success      204
// @Router       /api/pos/sessions/{id} [delete]
func (h *POSHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), CurrentUser(c), c.Params("id")); err != nil {
		return h.errs.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
