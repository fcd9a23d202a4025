package pos

import (
	"context"
	"errors"
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

// CatalogProvider entrega el snapshot del catálogo del negocio.
type CatalogProvider interface {
	Snapshot(ctx context.Context, businessID string) (*catalog.Snapshot, error)
}

// LocationStock lectura del stock de una ubicación.
type LocationStock interface {
	ListForLocation(ctx context.Context, businessID, locationID string) ([]*entity.StockEntry, error)
}

// SaleReader lectura de ventas históricas para edición.
type SaleReader interface {
	GetSale(ctx context.Context, businessID, id string) (*entity.Sale, error)
}

// SessionUseCase orquesta las sesiones de POS: carrito en el servidor y cobro con exclusión por sesión.
type SessionUseCase struct {
	sessions     SessionStore
	locker       Locker
	catalog      CatalogProvider
	stock        LocationStock
	sales        SaleReader
	settingsRepo repository.SettingsRepository
	checkout     *Orchestrator
	logger       zerolog.Logger
	now          func() time.Time
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(
	sessions SessionStore,
	locker Locker,
	catalog CatalogProvider,
	stock LocationStock,
	sales SaleReader,
	settingsRepo repository.SettingsRepository,
	checkout *Orchestrator,
	logger zerolog.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		sessions:     sessions,
		locker:       locker,
		catalog:      catalog,
		stock:        stock,
		sales:        sales,
		settingsRepo: settingsRepo,
		checkout:     checkout,
		logger:       logger.With().Str("component", "pos_session").Logger(),
		now:          time.Now,
	}
}

// SessionView sesión con totales calculados al momento de la lectura.
type SessionView struct {
	Session        *Session
	Totals         pricing.Totals
	CurrencySymbol string
}

// DetailsUpdate campos editables del cobro. La edición de ventas solo se activa con LoadSaleForEdit.
type DetailsUpdate struct {
	CustomerID      string
	PaymentMethod   string
	Particulars     string
	ProformaTitle   string
	IsProforma      bool
	DeliveryEnabled bool
	DeliveryFee     decimal.Decimal
}

// OpenSession abre una sesión. Ubicación: la indicada, luego la del usuario, luego la del negocio.
func (uc *SessionUseCase) OpenSession(ctx context.Context, user entity.CurrentUser, locationID string) (*SessionView, error) {
	if user.BusinessID == "" || user.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	settings, err := uc.settingsRepo.GetByBusiness(ctx, user.BusinessID)
	if err != nil {
		return nil, err
	}
	location := strings.TrimSpace(locationID)
	if location == "" {
		location = user.DefaultLocationID
	}
	if location == "" {
		location = settings.DefaultLocationID
	}
	if location == "" {
		return nil, domain.ErrInvalidInput
	}
	snap, err := uc.loadStock(ctx, user.BusinessID, location)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	s := &Session{
		ID:         uuid.New().String(),
		BusinessID: user.BusinessID,
		UserID:     user.ID,
		LocationID: location,
		Details:    OrderDetails{DeliveryFee: decimal.Zero},
		Stock:      snap,
		OpenedAt:   now,
		UpdatedAt:  now,
	}
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	uc.logger.Info().Str("session_id", s.ID).Str("location_id", location).Str("user_id", user.ID).Msg("pos session opened")
	return uc.view(s, settings), nil
}

// GetSession devuelve la sesión con totales.
func (uc *SessionUseCase) GetSession(ctx context.Context, user entity.CurrentUser, id string) (*SessionView, error) {
	s, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return uc.viewWithSettings(ctx, s)
}

// AddItem agrega una entrada del catálogo al carrito.
func (uc *SessionUseCase) AddItem(ctx context.Context, user entity.CurrentUser, id, entryID string) (*SessionView, error) {
	return uc.mutate(ctx, user, id, func(s *Session) error {
		snap, err := uc.catalog.Snapshot(ctx, s.BusinessID)
		if err != nil {
			return err
		}
		entry, ok := snap.Find(entryID)
		if !ok {
			return domain.ErrNotFound
		}
		return s.Cart.AddItem(entry, s.Details.Gate(s.Stock))
	})
}

// SetQuantity fija la cantidad de una línea.
func (uc *SessionUseCase) SetQuantity(ctx context.Context, user entity.CurrentUser, id, entryID string, n int) (*SessionView, error) {
	return uc.mutate(ctx, user, id, func(s *Session) error {
		return s.Cart.SetQuantity(entryID, n, s.Details.Gate(s.Stock))
	})
}

// RemoveItem quita una línea.
func (uc *SessionUseCase) RemoveItem(ctx context.Context, user entity.CurrentUser, id, entryID string) (*SessionView, error) {
	return uc.mutate(ctx, user, id, func(s *Session) error {
		s.Cart.RemoveItem(entryID)
		return nil
	})
}

// UpdateDetails reemplaza los campos editables del cobro.
func (uc *SessionUseCase) UpdateDetails(ctx context.Context, user entity.CurrentUser, id string, in DetailsUpdate) (*SessionView, error) {
	if in.DeliveryFee.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutate(ctx, user, id, func(s *Session) error {
		d := &s.Details
		d.CustomerID = strings.TrimSpace(in.CustomerID)
		d.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
		d.Particulars = strings.TrimSpace(in.Particulars)
		d.ProformaTitle = strings.TrimSpace(in.ProformaTitle)
		d.IsProforma = in.IsProforma
		d.DeliveryEnabled = in.DeliveryEnabled
		d.DeliveryFee = in.DeliveryFee
		return nil
	})
}

// RefreshStock recarga el snapshot de stock de la ubicación.
func (uc *SessionUseCase) RefreshStock(ctx context.Context, user entity.CurrentUser, id string) (*SessionView, error) {
	return uc.mutate(ctx, user, id, func(s *Session) error {
		snap, err := uc.loadStock(ctx, s.BusinessID, s.LocationID)
		if err != nil {
			return err
		}
		s.Stock = snap
		return nil
	})
}

// LoadSaleForEdit carga una venta histórica en el carrito y activa el modo edición.
// Requiere permiso de edición de ventas.
func (uc *SessionUseCase) LoadSaleForEdit(ctx context.Context, user entity.CurrentUser, id, saleID string) (*SessionView, error) {
	if !user.CanEditSales() {
		return nil, domain.ErrForbidden
	}
	return uc.mutate(ctx, user, id, func(s *Session) error {
		sale, err := uc.sales.GetSale(ctx, s.BusinessID, saleID)
		if err != nil {
			return err
		}
		lines := make([]LineItem, len(sale.Items))
		for i, it := range sale.Items {
			lines[i] = LineItem{
				CatalogEntryID: it.ID,
				Name:           it.Name,
				UnitPrice:      it.Price,
				UnitOfMeasure:  it.Unit,
				IsService:      it.IsService,
				IsTracked:      it.IsTracked,
				Quantity:       it.Quantity,
				Discount:       it.Discount,
			}
		}
		s.Cart = Cart{Lines: lines}
		s.Details = OrderDetails{
			CustomerID:      sale.CustomerID,
			PaymentMethod:   sale.PaymentMethod,
			Particulars:     sale.Particulars,
			ProformaTitle:   sale.ProformaTitle,
			IsProforma:      sale.IsProforma,
			DeliveryEnabled: sale.DeliveryFee.IsPositive(),
			DeliveryFee:     sale.DeliveryFee,
			IsEditing:       true,
			EditingSaleID:   sale.ID,
		}
		s.CheckoutSaleID = ""
		return nil
	})
}

// Cancel descarta la sesión.
func (uc *SessionUseCase) Cancel(ctx context.Context, user entity.CurrentUser, id string) error {
	if _, err := uc.load(ctx, user, id); err != nil {
		return err
	}
	return uc.sessions.Delete(ctx, id)
}

// Checkout cobra el carrito de la sesión. Solo un cobro por sesión a la vez (domain.ErrBusy).
// Si la venta se guarda, la sesión queda con carrito vacío y stock recargado.
// Una venta nueva usa el ID reservado en la sesión: si un intento anterior ya la registró,
// el cobro termina como SavedPreviously sin registrar ni descontar otra vez.
func (uc *SessionUseCase) Checkout(ctx context.Context, user entity.CurrentUser, id string) (*CheckoutResult, error) {
	unlock, err := uc.locker.Lock(ctx, "checkout:"+id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	s, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !s.Details.IsEditing && !s.Cart.IsEmpty() {
		prev, err := uc.recordedSale(ctx, s)
		if err != nil {
			return &CheckoutResult{State: StateFailed}, &TransportError{Err: err}
		}
		if prev != nil {
			return uc.finishRecorded(ctx, s, prev), nil
		}
		if s.CheckoutSaleID == "" {
			s.CheckoutSaleID = uuid.New().String()
			s.UpdatedAt = uc.now()
			if err := uc.sessions.Save(ctx, s); err != nil {
				return &CheckoutResult{State: StateFailed}, &TransportError{Err: err}
			}
		}
	}
	res, err := uc.checkout.Checkout(ctx, CheckoutInput{
		User:       user,
		LocationID: s.LocationID,
		SaleID:     s.CheckoutSaleID,
		Cart:       &s.Cart,
		Details:    &s.Details,
	})
	if err != nil {
		return res, err
	}
	s.CheckoutSaleID = ""
	uc.storeAfterCheckout(ctx, s)
	return res, nil
}

// recordedSale devuelve la venta ya registrada con el ID reservado, o nil si no existe.
func (uc *SessionUseCase) recordedSale(ctx context.Context, s *Session) (*entity.Sale, error) {
	if s.CheckoutSaleID == "" {
		return nil, nil
	}
	sale, err := uc.sales.GetSale(ctx, s.BusinessID, s.CheckoutSaleID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (uc *SessionUseCase) finishRecorded(ctx context.Context, s *Session, sale *entity.Sale) *CheckoutResult {
	s.Cart.Reset()
	s.Details.Clear()
	s.CheckoutSaleID = ""
	uc.storeAfterCheckout(ctx, s)
	uc.logger.Info().Str("session_id", s.ID).Str("sale_id", sale.ID).Msg("checkout already recorded")
	return &CheckoutResult{
		State:   StateSuccess,
		Outcome: SavedPreviously,
		Sale:    sale,
		Totals: pricing.Totals{
			Subtotal:    sale.Subtotal,
			VAT:         sale.VAT,
			DeliveryFee: sale.DeliveryFee,
			Total:       sale.Total,
		},
		InsertedCount: len(sale.Items),
	}
}

// storeAfterCheckout recarga el stock y guarda la sesión ya cobrada. Si no se puede guardar,
// la sesión se descarta para que el carrito cobrado no quede disponible.
func (uc *SessionUseCase) storeAfterCheckout(ctx context.Context, s *Session) {
	if snap, err := uc.loadStock(ctx, s.BusinessID, s.LocationID); err != nil {
		uc.logger.Warn().Err(err).Str("session_id", s.ID).Msg("stock snapshot refresh failed")
	} else {
		s.Stock = snap
	}
	s.UpdatedAt = uc.now()
	err := uc.sessions.Save(ctx, s)
	if err == nil {
		return
	}
	uc.logger.Error().Err(err).Str("session_id", s.ID).Msg("save session after checkout")
	if derr := uc.sessions.Delete(ctx, s.ID); derr != nil {
		uc.logger.Error().Err(derr).Str("session_id", s.ID).Msg("discard session after checkout")
	}
}

func (uc *SessionUseCase) load(ctx context.Context, user entity.CurrentUser, id string) (*Session, error) {
	s, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.BusinessID != user.BusinessID || s.UserID != user.ID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// mutate aplica fn a la sesión y la guarda solo si fn no falla.
func (uc *SessionUseCase) mutate(ctx context.Context, user entity.CurrentUser, id string, fn func(*Session) error) (*SessionView, error) {
	s, err := uc.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = uc.now()
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return uc.viewWithSettings(ctx, s)
}

func (uc *SessionUseCase) loadStock(ctx context.Context, businessID, location string) (StockSnapshot, error) {
	rows, err := uc.stock.ListForLocation(ctx, businessID, location)
	if err != nil {
		return nil, err
	}
	snap := make(StockSnapshot, len(rows))
	for _, r := range rows {
		snap[r.ProductID] = r.Quantity
	}
	return snap, nil
}

func (uc *SessionUseCase) viewWithSettings(ctx context.Context, s *Session) (*SessionView, error) {
	settings, err := uc.settingsRepo.GetByBusiness(ctx, s.BusinessID)
	if err != nil {
		return nil, err
	}
	return uc.view(s, settings), nil
}

func (uc *SessionUseCase) view(s *Session, settings *entity.TenantSettings) *SessionView {
	return &SessionView{
		Session:        s,
		Totals:         s.Cart.Totals(settings.VATRatePercent, s.Details),
		CurrencySymbol: settings.CurrencySymbol,
	}
}
