package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/application/sales"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

// SalesHandler consulta de ventas, resumen y recibos (protegido).
type SalesHandler struct {
	uc        *sales.UseCase
	settings  repository.SettingsRepository
	customers repository.CustomerRepository
	renderer  pos.ReceiptRenderer
	errs      errorMapper
}

// NewSalesHandler construye el handler.
func NewSalesHandler(
	uc *sales.UseCase,
	settings repository.SettingsRepository,
	customers repository.CustomerRepository,
	renderer pos.ReceiptRenderer,
	logger zerolog.Logger,
) *SalesHandler {
	return &SalesHandler{uc: uc, settings: settings, customers: customers, renderer: renderer, errs: errorMapper{logger: logger}}
}

// Get godoc
// @Summary      Obtener una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) Get(c *fiber.Ctx) error {
	sale, err := h.uc.GetSale(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(saleResponse(sale))
}

// List godoc
// @Summary      Listar ventas (fecha descendente)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from    query     string  false  "desde (RFC3339 o YYYY-MM-DD)"
// @Param        to      query     string  false  "hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit   query     int     false  "máx. 200"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	var q dto.SalesQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: "parámetros inválidos"})
	}
	from, to, err := parseRange(q.From, q.To)
	if err != nil {
		return h.errs.respond(c, err)
	}
	if err := validate.Struct(&q.PageRequest); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: "paginación inválida", Details: fieldErrors(err)})
	}
	q.DefaultPage()
	list, err := h.uc.ListSales(c.Context(), GetBusinessID(c), from, to, q.Limit, q.Offset)
	if err != nil {
		return h.errs.respond(c, err)
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, saleResponse(s))
	}
	return c.JSON(dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}})
}

// Summary godoc
// @Summary      Resumen de ventas del periodo (las proformas no suman ingresos)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from  query     string  false  "desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query     string  false  "hasta (RFC3339 o YYYY-MM-DD)"
// @Success      200   {object}  sales.Summary
// @Router       /api/sales/summary [get]
func (h *SalesHandler) Summary(c *fiber.Ctx) error {
	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	sum, err := h.uc.Summary(c.Context(), GetBusinessID(c), from, to)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(sum)
}

// Receipt godoc
// @Summary      Recibo de la venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id       path   string  true   "ID de la venta"
// @Param        variant  query  string  false  "compact (por defecto) o full"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SalesHandler) Receipt(c *fiber.Ctx) error {
	ctx := c.Context()
	businessID := GetBusinessID(c)

	variant := pos.ReceiptVariant(c.Query("variant", string(pos.ReceiptCompact)))
	if variant != pos.ReceiptCompact && variant != pos.ReceiptFull {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: "variant debe ser compact o full"})
	}
	sale, err := h.uc.GetSale(ctx, businessID, c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	settings, err := h.settings.GetByBusiness(ctx, businessID)
	if err != nil {
		return h.errs.respond(c, err)
	}
	var customer *entity.Customer
	if sale.CustomerID != "" {
		customer, err = h.customers.GetByID(ctx, businessID, sale.CustomerID)
		if errors.Is(err, domain.ErrNotFound) {
			customer = nil
		} else if err != nil {
			return h.errs.respond(c, err)
		}
	}
	doc, err := h.renderer.Render(ctx, sale, settings, customer, variant)
	if err != nil {
		return h.errs.respond(c, err)
	}
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+doc.Filename+`"`)
	return c.Send(doc.Bytes)
}

// parseRange acepta RFC3339 o YYYY-MM-DD; "to" en formato fecha incluye todo el día.
func parseRange(fromStr, toStr string) (from, to *time.Time, err error) {
	parse := func(s string, endOfDay bool) (*time.Time, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	if from, err = parse(fromStr, false); err != nil {
		return nil, nil, err
	}
	if to, err = parse(toStr, true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, domain.ErrInvalidInput
	}
	return from, to, nil
}
