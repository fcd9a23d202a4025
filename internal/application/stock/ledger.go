package stock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

// Ledger es el libro de stock por ubicación: aumentos, descuentos y traslados con historial append-only.
// La cantidad de cada fila nunca queda negativa. Toda operación se limita a productos y ubicaciones
// del negocio que la solicita.
type Ledger struct {
	txRunner     TxRunner
	stockRepo    repository.StockRepository
	movRepo      repository.StockMovementRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	logger       zerolog.Logger
	now          func() time.Time
}

// NewLedger construye el libro. stockRepo y movRepo se usan para lecturas fuera de transacción;
// productRepo y locationRepo para validar la pertenencia al negocio.
func NewLedger(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	logger zerolog.Logger,
) *Ledger {
	return &Ledger{
		txRunner:     txRunner,
		stockRepo:    stockRepo,
		movRepo:      movRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		logger:       logger.With().Str("component", "stock_ledger").Logger(),
		now:          time.Now,
	}
}

// StockChange entrada para Increase/Decrease.
// Type es opcional: por defecto INCREASE o DECREASE; los descuentos por venta usan SALE.
type StockChange struct {
	BusinessID  string
	ProductID   string
	LocationID  string
	Quantity    int64
	SupplierID  string
	BatchNumber string
	ReferenceID string
	UserID      string
	Notes       string
	Type        string
}

// MoveRequest entrada para trasladar stock entre dos ubicaciones.
type MoveRequest struct {
	BusinessID     string
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       int64
	UserID         string
	Notes          string
}

// GetForProduct devuelve las filas de stock del producto en todas sus ubicaciones.
// Un producto sin filas devuelve una lista vacía.
func (l *Ledger) GetForProduct(ctx context.Context, businessID, productID string) ([]*entity.StockEntry, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := l.checkProduct(ctx, businessID, productID); err != nil {
		return nil, err
	}
	list, err := l.stockRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.StockEntry{}
	}
	return list, nil
}

// ListForLocation devuelve las filas de stock de una ubicación (snapshot consultivo del POS).
func (l *Ledger) ListForLocation(ctx context.Context, businessID, locationID string) ([]*entity.StockEntry, error) {
	if strings.TrimSpace(locationID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := l.checkLocation(ctx, businessID, locationID); err != nil {
		return nil, err
	}
	list, err := l.stockRepo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.StockEntry{}
	}
	return list, nil
}

// Increase suma Quantity a la fila producto+ubicación (creándola si no existe) y registra un movimiento positivo.
func (l *Ledger) Increase(ctx context.Context, in StockChange) (*entity.StockEntry, error) {
	if err := l.checkChange(ctx, in); err != nil {
		return nil, err
	}
	movType := in.Type
	if movType == "" {
		movType = entity.MovementTypeIncrease
	}
	var result *entity.StockEntry
	err := l.txRunner.Run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository, _ repository.PendingDecrementRepository) error {
		entry, err := stockRepo.Add(ctx, in.ProductID, in.LocationID, in.Quantity)
		if err != nil {
			return err
		}
		result = entry
		return movRepo.Create(ctx, l.movement(in, movType, in.LocationID, in.Quantity, uuid.New().String()))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Decrease resta Quantity solo si hay existencias suficientes; de lo contrario devuelve
// domain.ErrInsufficientStock sin modificar nada. Registra un movimiento negativo.
func (l *Ledger) Decrease(ctx context.Context, in StockChange) (*entity.StockEntry, error) {
	if err := l.checkChange(ctx, in); err != nil {
		return nil, err
	}
	var result *entity.StockEntry
	err := l.txRunner.Run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository, _ repository.PendingDecrementRepository) error {
		entry, err := l.decreaseTx(ctx, stockRepo, movRepo, in)
		result = entry
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// decreaseTx aplica el descuento con repositorios ya atados a una transacción.
// El llamador valida la entrada antes (checkChange).
func (l *Ledger) decreaseTx(
	ctx context.Context,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	in StockChange,
) (*entity.StockEntry, error) {
	movType := in.Type
	if movType == "" {
		movType = entity.MovementTypeDecrease
	}
	entry, err := stockRepo.SubtractIfAvailable(ctx, in.ProductID, in.LocationID, in.Quantity)
	if err != nil {
		return nil, err
	}
	if err := movRepo.Create(ctx, l.movement(in, movType, in.LocationID, -in.Quantity, uuid.New().String())); err != nil {
		return nil, err
	}
	return entry, nil
}

// Move traslada stock entre dos ubicaciones en una sola transacción: descuento en origen,
// suma en destino y dos movimientos (MOVE_OUT/MOVE_IN) que comparten TransactionID.
// Cualquier fallo revierte todo.
func (l *Ledger) Move(ctx context.Context, in MoveRequest) error {
	if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if strings.TrimSpace(in.ProductID) == "" || strings.TrimSpace(in.FromLocationID) == "" || strings.TrimSpace(in.ToLocationID) == "" {
		return domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return domain.ErrInvalidLocations
	}
	if err := l.checkProduct(ctx, in.BusinessID, in.ProductID); err != nil {
		return err
	}
	if err := l.checkLocation(ctx, in.BusinessID, in.FromLocationID); err != nil {
		return err
	}
	if err := l.checkLocation(ctx, in.BusinessID, in.ToLocationID); err != nil {
		return err
	}
	txID := uuid.New().String()
	change := StockChange{
		BusinessID: in.BusinessID,
		ProductID:  in.ProductID,
		UserID:     in.UserID,
		Notes:      in.Notes,
	}
	err := l.txRunner.Run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository, _ repository.PendingDecrementRepository) error {
		if _, err := stockRepo.SubtractIfAvailable(ctx, in.ProductID, in.FromLocationID, in.Quantity); err != nil {
			return err
		}
		if _, err := stockRepo.Add(ctx, in.ProductID, in.ToLocationID, in.Quantity); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, l.movement(change, entity.MovementTypeMoveOut, in.FromLocationID, -in.Quantity, txID)); err != nil {
			return err
		}
		return movRepo.Create(ctx, l.movement(change, entity.MovementTypeMoveIn, in.ToLocationID, in.Quantity, txID))
	})
	if err != nil {
		return err
	}
	l.logger.Debug().
		Str("product_id", in.ProductID).
		Str("from", in.FromLocationID).
		Str("to", in.ToLocationID).
		Int64("quantity", in.Quantity).
		Msg("stock moved")
	return nil
}

// History devuelve los movimientos del producto, más recientes primero.
func (l *Ledger) History(ctx context.Context, businessID, productID string) ([]*entity.StockMovement, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := l.checkProduct(ctx, businessID, productID); err != nil {
		return nil, err
	}
	list, err := l.movRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.StockMovement{}
	}
	return list, nil
}

// checkChange valida cantidad y campos, y que producto y ubicación sean del negocio.
func (l *Ledger) checkChange(ctx context.Context, in StockChange) error {
	if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if strings.TrimSpace(in.ProductID) == "" || strings.TrimSpace(in.LocationID) == "" {
		return domain.ErrInvalidInput
	}
	if err := l.checkProduct(ctx, in.BusinessID, in.ProductID); err != nil {
		return err
	}
	return l.checkLocation(ctx, in.BusinessID, in.LocationID)
}

// checkProduct: producto inexistente -> ErrNotFound; de otro negocio -> ErrForbidden.
func (l *Ledger) checkProduct(ctx context.Context, businessID, productID string) error {
	product, err := l.productRepo.GetByID(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && product == nil) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if businessID == "" || product.BusinessID != businessID {
		return domain.ErrForbidden
	}
	return nil
}

// checkLocation: ubicación inexistente o de otro negocio -> ErrNotFound.
func (l *Ledger) checkLocation(ctx context.Context, businessID, locationID string) error {
	location, err := l.locationRepo.GetByID(ctx, locationID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && location == nil) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if businessID == "" || location.BusinessID != businessID {
		return domain.ErrNotFound
	}
	return nil
}

func (l *Ledger) movement(in StockChange, movType, locationID string, amount int64, txID string) *entity.StockMovement {
	return &entity.StockMovement{
		ID:            uuid.New().String(),
		BusinessID:    in.BusinessID,
		ProductID:     in.ProductID,
		LocationID:    locationID,
		ChangeAmount:  amount,
		Type:          movType,
		SupplierID:    in.SupplierID,
		BatchNumber:   in.BatchNumber,
		ReferenceID:   in.ReferenceID,
		TransactionID: txID,
		UserID:        in.UserID,
		Notes:         in.Notes,
		CreatedAt:     l.now(),
	}
}
