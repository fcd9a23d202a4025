package sales

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pos/internal/application/catalog"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/pricing"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

// CatalogSource entrega el catálogo vigente del negocio para re-validar ítems.
type CatalogSource interface {
	Load(ctx context.Context, businessID string) (*catalog.Snapshot, error)
}

// UseCase es el almacén de ventas: crea y actualiza ventas re-validando cada ítem en el servidor.
type UseCase struct {
	saleRepo     repository.SaleRepository
	settingsRepo repository.SettingsRepository
	catalog      CatalogSource
	logger       zerolog.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	saleRepo repository.SaleRepository,
	settingsRepo repository.SettingsRepository,
	catalog CatalogSource,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		saleRepo:     saleRepo,
		settingsRepo: settingsRepo,
		catalog:      catalog,
		logger:       logger.With().Str("component", "sales").Logger(),
		now:          time.Now,
	}
}

// SaveResult resultado de CreateSale/UpdateSale.
type SaveResult struct {
	ID            string
	Sale          *entity.Sale
	RejectedItems []entity.RejectedItem
	InsertedCount int
}

// CreateSale guarda una venta nueva con los ítems aceptados.
// Si ningún ítem es aceptado devuelve *RejectedItemsError junto con el resultado.
func (uc *UseCase) CreateSale(ctx context.Context, sale *entity.Sale) (*SaveResult, error) {
	if sale == nil || strings.TrimSpace(sale.BusinessID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(sale.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	now := uc.now()
	record := *sale
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Date.IsZero() {
		record.Date = now
	}
	record.CreatedAt = now
	record.UpdatedAt = now

	res, err := uc.prepare(ctx, &record)
	if err != nil {
		return res, err
	}
	if err := uc.saleRepo.Create(ctx, &record); err != nil {
		return nil, err
	}
	uc.logger.Info().
		Str("sale_id", record.ID).
		Str("business_id", record.BusinessID).
		Bool("proforma", record.IsProforma).
		Int("items", res.InsertedCount).
		Int("rejected", len(res.RejectedItems)).
		Msg("sale created")
	return res, nil
}

// UpdateSale reemplaza ítems y totales de una venta existente del negocio.
// ID, fecha y fecha de creación se conservan.
func (uc *UseCase) UpdateSale(ctx context.Context, id string, sale *entity.Sale) (*SaveResult, error) {
	if sale == nil || strings.TrimSpace(id) == "" || strings.TrimSpace(sale.BusinessID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(sale.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	existing, err := uc.saleRepo.GetByID(ctx, sale.BusinessID, id)
	if err != nil {
		return nil, err
	}
	record := *sale
	record.ID = existing.ID
	record.Date = existing.Date
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = uc.now()

	res, err := uc.prepare(ctx, &record)
	if err != nil {
		return res, err
	}
	if err := uc.saleRepo.Update(ctx, &record); err != nil {
		return nil, err
	}
	uc.logger.Info().Str("sale_id", record.ID).Int("items", res.InsertedCount).Msg("sale updated")
	return res, nil
}

// prepare filtra los ítems contra el catálogo y recalcula los totales sobre los aceptados.
func (uc *UseCase) prepare(ctx context.Context, record *entity.Sale) (*SaveResult, error) {
	settings, err := uc.settingsRepo.GetByBusiness(ctx, record.BusinessID)
	if err != nil {
		return nil, err
	}
	snap, err := uc.catalog.Load(ctx, record.BusinessID)
	if err != nil {
		return nil, err
	}

	accepted, rejected := CheckItems(record.Items, snap)
	res := &SaveResult{ID: record.ID, RejectedItems: rejected, InsertedCount: len(accepted)}
	if len(accepted) == 0 {
		return res, &RejectedItemsError{Items: rejected}
	}

	lines := make([]pricing.Line, len(accepted))
	for i, it := range accepted {
		lines[i] = pricing.Line{UnitPrice: it.Price, Quantity: it.Quantity}
	}
	totals := pricing.Compute(lines, settings.VATRatePercent, record.DeliveryFee)
	record.Items = accepted
	record.Subtotal = totals.Subtotal
	record.VAT = totals.VAT
	record.DeliveryFee = totals.DeliveryFee
	record.Total = totals.Total
	res.Sale = record
	return res, nil
}

// CheckItems separa los ítems aceptados de los rechazados (con su motivo) en el orden recibido.
func CheckItems(items []entity.SaleItem, snap *catalog.Snapshot) ([]entity.SaleItem, []entity.RejectedItem) {
	accepted := make([]entity.SaleItem, 0, len(items))
	var rejected []entity.RejectedItem
	for i, it := range items {
		reason := ""
		switch {
		case it.Quantity <= 0:
			reason = entity.RejectInvalidQuantity
		case it.Price.LessThan(decimal.Zero):
			reason = entity.RejectInvalidPrice
		default:
			if _, ok := snap.Find(it.ID); !ok {
				reason = entity.RejectUnknownItem
			}
		}
		if reason != "" {
			rejected = append(rejected, entity.RejectedItem{Index: i, Item: it, Reason: reason})
			continue
		}
		accepted = append(accepted, it)
	}
	return accepted, rejected
}

// GetSale devuelve una venta del negocio.
func (uc *UseCase) GetSale(ctx context.Context, businessID, id string) (*entity.Sale, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.saleRepo.GetByID(ctx, businessID, id)
}

// ListSales lista ventas del negocio por fecha descendente.
func (uc *UseCase) ListSales(ctx context.Context, businessID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.saleRepo.ListByBusiness(ctx, businessID, from, to, limit, offset)
}

// Summary totales del periodo. Las proformas se cuentan aparte y no suman ingresos.
type Summary struct {
	SalesCount    int             `json:"sales_count"`
	ProformaCount int             `json:"proforma_count"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VAT           decimal.Decimal `json:"vat"`
	DeliveryFees  decimal.Decimal `json:"delivery_fees"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// Summary calcula el resumen de ventas del periodo [from, to].
func (uc *UseCase) Summary(ctx context.Context, businessID string, from, to *time.Time) (*Summary, error) {
	list, err := uc.saleRepo.ListByBusiness(ctx, businessID, from, to, 0, 0)
	if err != nil {
		return nil, err
	}
	sum := &Summary{
		Subtotal:     decimal.Zero,
		VAT:          decimal.Zero,
		DeliveryFees: decimal.Zero,
		Revenue:      decimal.Zero,
	}
	for _, s := range list {
		if s.IsProforma {
			sum.ProformaCount++
			continue
		}
		sum.SalesCount++
		sum.Subtotal = sum.Subtotal.Add(s.Subtotal)
		sum.VAT = sum.VAT.Add(s.VAT)
		sum.DeliveryFees = sum.DeliveryFees.Add(s.DeliveryFee)
		sum.Revenue = sum.Revenue.Add(s.Total)
	}
	return sum, nil
}
