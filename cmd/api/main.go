package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	"github.com/jhoicas/Inventario-pos/docs"
	"github.com/jhoicas/Inventario-pos/internal/application/catalog"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/application/sales"
	"github.com/jhoicas/Inventario-pos/internal/application/stock"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/receipt"
	httpRouter "github.com/jhoicas/Inventario-pos/internal/interfaces/http"
	"github.com/jhoicas/Inventario-pos/pkg/config"
	"github.com/jhoicas/Inventario-pos/pkg/logger"
)

// repos agrupa los puertos de persistencia del almacén elegido (postgres o memoria).
type repos struct {
	tx        stock.TxRunner
	stock     repository.StockRepository
	movements repository.StockMovementRepository
	catalog   repository.CatalogRepository
	sales     repository.SaleRepository
	settings  repository.SettingsRepository
	customers repository.CustomerRepository
	pending   repository.PendingDecrementRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	zl := log.Zerolog()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.POS.Store).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	r, err := openStore(ctx, cfg, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacén")
	}
	defer r.close()

	// Sesiones, lock de cobro y caché del catálogo: Redis si está configurado, si no en proceso.
	var (
		sessionStore  pos.SessionStore = pos.NewMemorySessionStore(cfg.POS.CartTTL())
		locker        pos.Locker       = pos.NewLocalLocker()
		snapshotCache catalog.SnapshotCache
	)
	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		sessionStore = cache.NewSessionStore(client, cfg.POS.CartTTL())
		locker = cache.NewLocker(client, cfg.POS.LockTTL(), log.Component("checkout_lock"))
		if cfg.POS.SnapshotTTLSeconds > 0 {
			snapshotCache = cache.NewSnapshotCache(client, cfg.POS.SnapshotTTL())
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis habilitado")
	}

	ledger := stock.NewLedger(r.tx, r.stock, r.movements, r.products, r.locations, zl)
	reconciler := stock.NewReconciler(ledger, r.pending, cfg.POS.ReconcileInterval(), zl)
	catalogSvc := catalog.NewService(r.catalog, snapshotCache, zl)
	salesUC := sales.NewUseCase(r.sales, r.settings, catalogSvc, zl)
	renderer := receipt.NewMarotoRenderer(cfg.App.Locale)
	orchestrator := pos.NewOrchestrator(salesUC, ledger, reconciler, renderer, r.settings, r.customers, zl)
	sessionUC := pos.NewSessionUseCase(sessionStore, locker, catalogSvc, ledger, salesUC, r.settings, orchestrator, zl)

	go reconciler.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	if cfg.Docs.Enabled {
		if _, err := os.Stat(cfg.Docs.FilePath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Docs.FilePath,
				Path:     "docs",
				Title:    "Inventario POS API",
			}))
		} else {
			log.Warn().Str("file", cfg.Docs.FilePath).Msg("swagger UI deshabilitado: archivo no encontrado")
		}
		app.Get("/openapi.json", func(c *fiber.Ctx) error {
			doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
			if err != nil {
				return c.SendStatus(fiber.StatusNotFound)
			}
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(doc)
		})
	}

	httpLog := log.Component("http")
	httpRouter.Router(app, httpRouter.RouterDeps{
		POS:       httpRouter.NewPOSHandler(sessionUC, httpLog),
		Stock:     httpRouter.NewStockHandler(ledger, reconciler, httpLog),
		Sales:     httpRouter.NewSalesHandler(salesUC, r.settings, r.customers, renderer, httpLog),
		Catalog:   httpRouter.NewCatalogHandler(catalogSvc, httpLog),
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStore(ctx context.Context, cfg *config.Config, zlog zerolog.Logger) (*repos, error) {
	if cfg.POS.Store == config.StoreMemory {
		store := memory.New()
		if cfg.POS.SeedDemo {
			store = memory.NewSeeded()
		}
		return &repos{
			tx:        store,
			stock:     memory.NewStockRepository(store),
			movements: memory.NewStockMovementRepository(store),
			catalog:   memory.NewCatalogRepository(store),
			sales:     memory.NewSaleRepository(store),
			settings:  memory.NewSettingsRepository(store),
			customers: memory.NewCustomerRepository(store),
			pending:   memory.NewPendingDecrementRepository(store),
			products:  memory.NewProductRepository(store),
			locations: memory.NewLocationRepository(store),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool, cfg.DB.MigrationsDir)
		if err != nil {
			pool.Close()
			return nil, err
		}
		for _, name := range applied {
			zlog.Info().Str("migration", name).Msg("migración aplicada")
		}
	}
	return &repos{
		tx:        postgres.NewTxRunner(pool),
		stock:     postgres.NewStockRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		catalog:   postgres.NewCatalogRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		settings:  postgres.NewSettingsRepository(pool),
		customers: postgres.NewCustomerRepository(pool),
		pending:   postgres.NewPendingDecrementRepository(pool),
		products:  postgres.NewProductRepository(pool),
		locations: postgres.NewLocationRepository(pool),
		close:     pool.Close,
	}, nil
}
