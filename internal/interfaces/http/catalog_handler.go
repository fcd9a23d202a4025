package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-pos/internal/application/catalog"
)

// CatalogHandler expone el catálogo normalizado del negocio (protegido).
type CatalogHandler struct {
	svc  *catalog.Service
	errs errorMapper
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(svc *catalog.Service, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, errs: errorMapper{logger: logger}}
}

// Get godoc
// @Summary      Catálogo normalizado (productos y servicios)
// @Description  tracking_degraded=true indica que la configuración de grupos no cargó:
//
//	todo producto se trata como rastreado y los servicios nunca.
//
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  catalog.Snapshot
// @Router       /api/catalog [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	snap, err := h.svc.Snapshot(c.Context(), GetBusinessID(c))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(snap)
}

// Refresh godoc
// @Summary      Descartar el catálogo en caché y recargarlo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  catalog.Snapshot
// @Router       /api/catalog/refresh [post]
func (h *CatalogHandler) Refresh(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if err := h.svc.Invalidate(c.Context(), businessID); err != nil {
		return h.errs.respond(c, err)
	}
	return h.Get(c)
}
