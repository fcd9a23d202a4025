package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	POS       *POSHandler
	Stock     *StockHandler
	Sales     *SalesHandler
	Catalog   *CatalogHandler
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	managers := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Sesiones de POS
	sessions := api.Group("/pos/sessions")
	sessions.Post("/", deps.POS.Open)
	sessions.Get("/:id", deps.POS.Get)
	sessions.Post("/:id/items", deps.POS.AddItem)
	sessions.Put("/:id/items/:entryId", deps.POS.SetQuantity)
	sessions.Delete("/:id/items/:entryId", deps.POS.RemoveItem)
	sessions.Put("/:id/details", deps.POS.UpdateDetails)
	sessions.Post("/:id/stock", deps.POS.RefreshStock)
	sessions.Post("/:id/edit/:saleId", managers, deps.POS.LoadSaleForEdit)
	sessions.Post("/:id/checkout", deps.POS.Checkout)
	sessions.Delete("/:id", deps.POS.Cancel)

	// Catálogo
	api.Get("/catalog", deps.Catalog.Get)
	api.Post("/catalog/refresh", managers, deps.Catalog.Refresh)

	// Libro de stock
	stockGroup := api.Group("/stock")
	stockGroup.Get("/products/:id", deps.Stock.GetProduct)
	stockGroup.Get("/products/:id/history", deps.Stock.History)
	stockGroup.Post("/increase", managers, deps.Stock.Increase)
	stockGroup.Post("/decrease", managers, deps.Stock.Decrease)
	stockGroup.Post("/move", managers, deps.Stock.Move)
	stockGroup.Get("/reconciliation", managers, deps.Stock.ListPending)
	stockGroup.Post("/reconciliation/run", managers, deps.Stock.RunReconciliation)

	// Ventas (summary antes de /:id)
	salesGroup := api.Group("/sales")
	salesGroup.Get("/", deps.Sales.List)
	salesGroup.Get("/summary", deps.Sales.Summary)
	salesGroup.Get("/:id", deps.Sales.Get)
	salesGroup.Get("/:id/receipt", deps.Sales.Receipt)
}
