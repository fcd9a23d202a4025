package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-pos/internal/application/sales"
	"github.com/jhoicas/Inventario-pos/internal/application/stock"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/pricing"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

// CheckoutState estado de la máquina de cobro.
type CheckoutState string

// Estados del cobro.
const (
	StateIdle       CheckoutState = "idle"
	StateValidating CheckoutState = "validating"
	StateSubmitting CheckoutState = "submitting"
	StateSuccess    CheckoutState = "success"
	StateRejected   CheckoutState = "rejected"
	StateFailed     CheckoutState = "failed"
)

// Outcome distingue el resultado de un cobro guardado.
type Outcome string

// Resultados de un cobro guardado.
const (
	SavedAllStockApplied Outcome = "saved_all_stock_applied"
	SavedStockPartial    Outcome = "saved_stock_partial"
	SavedWithRejections  Outcome = "saved_with_rejections"
	// SavedPreviously la venta ya estaba registrada por un intento anterior; no se descuenta de nuevo.
	SavedPreviously Outcome = "saved_previously"
)

// StockWarning descuento de stock que no se aplicó después de guardar la venta.
type StockWarning struct {
	EntryID  string `json:"entry_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
	Queued   bool   `json:"queued"`
}

// CheckoutResult resultado de un cobro.
type CheckoutResult struct {
	State         CheckoutState
	Outcome       Outcome
	Sale          *entity.Sale
	Totals        pricing.Totals
	StockWarnings []StockWarning
	RejectedItems []entity.RejectedItem
	InsertedCount int
	Receipt       *Document
}

// TransportError fallo al registrar la venta; el carrito queda intacto y el cobro puede reintentarse.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", domain.ErrTransport.Error(), e.Err)
}

// Unwrap permite errors.Is(err, domain.ErrTransport) y llegar a la causa.
func (e *TransportError) Unwrap() []error { return []error{domain.ErrTransport, e.Err} }

// RejectedError el almacén de ventas no aceptó ningún ítem.
type RejectedError struct {
	Items []entity.RejectedItem
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %d ítem(s)", domain.ErrRejectedItems.Error(), len(e.Items))
}

func (e *RejectedError) Unwrap() error { return domain.ErrRejectedItems }

// CheckoutInput carrito y contexto del cobro. Cart y Details se modifican solo si la venta se guarda.
// SaleID opcional fija el ID de una venta nueva para que los reintentos no la dupliquen.
type CheckoutInput struct {
	User       entity.CurrentUser
	LocationID string
	SaleID     string
	Cart       *Cart
	Details    *OrderDetails
}

// Orchestrator convierte un carrito en una venta guardada y, si corresponde, descuenta stock.
type Orchestrator struct {
	store     SaleStore
	stock     StockDecreaser
	queue     ReconciliationQueue
	renderer  ReceiptRenderer
	settings  repository.SettingsRepository
	customers repository.CustomerRepository
	logger    zerolog.Logger
}

// NewOrchestrator construye el orquestador. queue y renderer son opcionales (nil).
func NewOrchestrator(
	store SaleStore,
	stockDecreaser StockDecreaser,
	queue ReconciliationQueue,
	renderer ReceiptRenderer,
	settings repository.SettingsRepository,
	customers repository.CustomerRepository,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:     store,
		stock:     stockDecreaser,
		queue:     queue,
		renderer:  renderer,
		settings:  settings,
		customers: customers,
		logger:    logger.With().Str("component", "checkout").Logger(),
	}
}

func (o *Orchestrator) transition(res *CheckoutResult, s CheckoutState) {
	o.logger.Debug().Str("from", string(res.State)).Str("to", string(s)).Msg("checkout state")
	res.State = s
}

// Checkout valida el carrito, registra la venta (crear o actualizar según IsEditing) y
// descuenta stock solo si no es proforma ni edición. Los descuentos fallidos se devuelven
// como advertencias y se encolan para conciliación.
func (o *Orchestrator) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	res := &CheckoutResult{State: StateIdle}
	if in.Cart == nil || in.Cart.IsEmpty() {
		return res, domain.ErrEmptyCart
	}
	if in.Details == nil {
		in.Details = &OrderDetails{}
	}
	details := *in.Details

	o.transition(res, StateValidating)
	items, err := CleanLines(in.Cart.Lines)
	if err != nil {
		o.transition(res, StateIdle)
		return res, err
	}
	if details.IsEditing && strings.TrimSpace(details.EditingSaleID) == "" {
		o.transition(res, StateIdle)
		return res, domain.ErrInvalidInput
	}

	settings, err := o.settings.GetByBusiness(ctx, in.User.BusinessID)
	if err != nil {
		o.transition(res, StateFailed)
		return res, &TransportError{Err: err}
	}
	location := strings.TrimSpace(in.LocationID)
	if location == "" {
		location = in.User.DefaultLocationID
	}
	if location == "" {
		location = settings.DefaultLocationID
	}
	if location == "" {
		o.transition(res, StateIdle)
		return res, domain.ErrInvalidInput
	}
	res.Totals = in.Cart.Totals(settings.VATRatePercent, details)

	sale := &entity.Sale{
		ID:            strings.TrimSpace(in.SaleID),
		BusinessID:    in.User.BusinessID,
		Items:         items,
		Subtotal:      res.Totals.Subtotal,
		VAT:           res.Totals.VAT,
		DeliveryFee:   res.Totals.DeliveryFee,
		Total:         res.Totals.Total,
		PaymentMethod: details.PaymentMethod,
		Cashier:       in.User.ID,
		CustomerID:    details.CustomerID,
		LocationID:    location,
		IsProforma:    details.IsProforma,
		ProformaTitle: details.ProformaTitle,
		Particulars:   details.Particulars,
	}

	o.transition(res, StateSubmitting)
	var saved *sales.SaveResult
	if details.IsEditing {
		saved, err = o.store.UpdateSale(ctx, details.EditingSaleID, sale)
	} else {
		saved, err = o.store.CreateSale(ctx, sale)
	}
	if err != nil {
		return res, o.submitError(res, err)
	}

	res.Sale = saved.Sale
	if res.Sale == nil {
		sale.ID = saved.ID
		res.Sale = sale
	}
	res.RejectedItems = saved.RejectedItems
	res.InsertedCount = saved.InsertedCount

	if !details.IsProforma && !details.IsEditing {
		res.StockWarnings = o.decrementStock(ctx, in.User, location, res.Sale.ID, items, saved.RejectedItems)
	}
	switch {
	case len(res.RejectedItems) > 0:
		res.Outcome = SavedWithRejections
	case len(res.StockWarnings) > 0:
		res.Outcome = SavedStockPartial
	default:
		res.Outcome = SavedAllStockApplied
	}

	in.Cart.Reset()
	in.Details.Clear()
	o.transition(res, StateSuccess)
	o.logger.Info().
		Str("sale_id", res.Sale.ID).
		Str("outcome", string(res.Outcome)).
		Bool("proforma", details.IsProforma).
		Bool("editing", details.IsEditing).
		Int("stock_warnings", len(res.StockWarnings)).
		Msg("checkout completed")

	res.Receipt = o.renderReceipt(ctx, res.Sale, settings)
	return res, nil
}

func (o *Orchestrator) submitError(res *CheckoutResult, err error) error {
	var rej *sales.RejectedItemsError
	switch {
	case errors.As(err, &rej):
		o.transition(res, StateRejected)
		res.RejectedItems = rej.Items
		return &RejectedError{Items: rej.Items}
	case errors.Is(err, domain.ErrRejectedItems):
		o.transition(res, StateRejected)
		return &RejectedError{}
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyCart):
		o.transition(res, StateFailed)
		return err
	default:
		o.transition(res, StateFailed)
		o.logger.Error().Err(err).Msg("sale submission failed")
		return &TransportError{Err: err}
	}
}

// decrementStock descuenta, en orden, cada ítem aceptado con control de stock.
// Un fallo no interrumpe los siguientes.
func (o *Orchestrator) decrementStock(
	ctx context.Context,
	user entity.CurrentUser,
	location, saleID string,
	items []entity.SaleItem,
	rejected []entity.RejectedItem,
) []StockWarning {
	skip := make(map[int]bool, len(rejected))
	for _, r := range rejected {
		skip[r.Index] = true
	}
	var warnings []StockWarning
	for i, it := range items {
		if skip[i] || !it.IsTracked || it.IsService {
			continue
		}
		_, err := o.stock.Decrease(ctx, stock.StockChange{
			BusinessID:  user.BusinessID,
			ProductID:   it.ID,
			LocationID:  location,
			Quantity:    int64(it.Quantity),
			ReferenceID: saleID,
			UserID:      user.ID,
			Type:        entity.MovementTypeSale,
		})
		if err == nil {
			continue
		}
		w := StockWarning{EntryID: it.ID, Name: it.Name, Quantity: it.Quantity, Reason: err.Error()}
		o.logger.Warn().Err(err).Str("sale_id", saleID).Str("product_id", it.ID).Msg("stock decrease failed after sale")
		if o.queue != nil && location != "" {
			_, qerr := o.queue.Enqueue(ctx, stock.PendingInput{
				BusinessID: user.BusinessID,
				SaleID:     saleID,
				ProductID:  it.ID,
				LocationID: location,
				UserID:     user.ID,
				Quantity:   int64(it.Quantity),
				Cause:      err,
			})
			if qerr != nil {
				o.logger.Error().Err(qerr).Str("sale_id", saleID).Str("product_id", it.ID).Msg("enqueue pending decrement")
			}
			w.Queued = qerr == nil
		}
		warnings = append(warnings, w)
	}
	return warnings
}

func (o *Orchestrator) renderReceipt(ctx context.Context, sale *entity.Sale, settings *entity.TenantSettings) *Document {
	if o.renderer == nil {
		return nil
	}
	var customer *entity.Customer
	if sale.CustomerID != "" && o.customers != nil {
		c, err := o.customers.GetByID(ctx, sale.BusinessID, sale.CustomerID)
		if err != nil {
			o.logger.Warn().Err(err).Str("customer_id", sale.CustomerID).Msg("receipt customer lookup")
		} else {
			customer = c
		}
	}
	doc, err := o.renderer.Render(ctx, sale, settings, customer, ReceiptCompact)
	if err != nil {
		o.logger.Error().Err(err).Str("sale_id", sale.ID).Msg("receipt render failed")
		return nil
	}
	return doc
}
