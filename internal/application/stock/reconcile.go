package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

const (
	defaultReconcileBatch = 50
	defaultMaxAttempts    = 10
	// defaultClaimLease tiempo tras el cual una fila PROCESSING se considera abandonada.
	defaultClaimLease = 5 * time.Minute
)

// Reconciler mantiene la cola de descuentos de stock que fallaron después de guardar una venta
// y los reintenta contra el libro. La venta ya es durable; el stock se pone al día aquí.
type Reconciler struct {
	ledger      *Ledger
	repo        repository.PendingDecrementRepository
	logger      zerolog.Logger
	interval    time.Duration
	batchSize   int
	maxAttempts int
	lease       time.Duration
	now         func() time.Time
}

// NewReconciler construye el conciliador. interval <= 0 deshabilita el ciclo de Run.
func NewReconciler(ledger *Ledger, repo repository.PendingDecrementRepository, interval time.Duration, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		ledger:      ledger,
		repo:        repo,
		logger:      logger.With().Str("component", "stock_reconciler").Logger(),
		interval:    interval,
		batchSize:   defaultReconcileBatch,
		maxAttempts: defaultMaxAttempts,
		lease:       defaultClaimLease,
		now:         time.Now,
	}
}

// PendingInput datos de un descuento post-venta que no se pudo aplicar.
type PendingInput struct {
	BusinessID string
	SaleID     string
	ProductID  string
	LocationID string
	UserID     string
	Quantity   int64
	Cause      error
}

// Enqueue registra un descuento pendiente.
func (r *Reconciler) Enqueue(ctx context.Context, in PendingInput) (*entity.PendingDecrement, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	now := r.now()
	p := &entity.PendingDecrement{
		ID:         uuid.New().String(),
		BusinessID: in.BusinessID,
		SaleID:     in.SaleID,
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		UserID:     in.UserID,
		Quantity:   in.Quantity,
		Status:     entity.PendingStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Cause != nil {
		p.LastError = in.Cause.Error()
	}
	if err := r.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPending devuelve los descuentos no aplicados del negocio (pendientes, en proceso o agotados).
func (r *Reconciler) ListPending(ctx context.Context, businessID string) ([]*entity.PendingDecrement, error) {
	list, err := r.repo.ListPending(ctx, businessID, r.batchSize)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.PendingDecrement{}
	}
	return list, nil
}

// RunResult resumen de una pasada de conciliación.
type RunResult struct {
	Applied   int `json:"applied"`
	Failed    int `json:"failed"`
	Exhausted int `json:"exhausted"`
	Skipped   int `json:"skipped"`
}

// errClaimLost la fila dejó de pertenecer a esta pasada (otro proceso la retomó).
var errClaimLost = errors.New("reclamo de conciliación perdido")

// RunOnce reclama un lote de pendientes y los reintenta. businessID vacío procesa todos los negocios.
// Cada descuento y el cambio de la fila a APPLIED van en la misma transacción, así un pendiente
// nunca se aplica dos veces. Los que fallan vuelven a PENDING (al final de la fila) o pasan a
// FAILED al agotar maxAttempts.
func (r *Reconciler) RunOnce(ctx context.Context, businessID string) (RunResult, error) {
	var res RunResult
	now := r.now()
	claimed, err := r.repo.Claim(ctx, businessID, r.batchSize, now, now.Add(-r.lease))
	if err != nil {
		return res, err
	}
	for _, p := range claimed {
		applyErr := r.apply(ctx, p)
		switch {
		case applyErr == nil:
			res.Applied++
			continue
		case errors.Is(applyErr, errClaimLost):
			res.Skipped++
			continue
		}
		p.LastError = applyErr.Error()
		p.UpdatedAt = r.now()
		p.Status = entity.PendingStatusPending
		if p.Attempts >= r.maxAttempts {
			p.Status = entity.PendingStatusFailed
			res.Exhausted++
			r.logger.Error().
				Err(applyErr).
				Str("pending_id", p.ID).
				Str("sale_id", p.SaleID).
				Int("attempts", p.Attempts).
				Msg("pending decrement exhausted")
		} else {
			res.Failed++
		}
		if err := r.repo.Update(ctx, p); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				res.Skipped++
				continue
			}
			return res, err
		}
	}
	if res.Applied > 0 || res.Failed > 0 || res.Exhausted > 0 {
		r.logger.Info().
			Int("applied", res.Applied).
			Int("failed", res.Failed).
			Int("exhausted", res.Exhausted).
			Msg("reconciliation pass")
	}
	return res, nil
}

// apply descuenta el stock del pendiente y lo marca APPLIED en una sola transacción.
func (r *Reconciler) apply(ctx context.Context, p *entity.PendingDecrement) error {
	change := StockChange{
		BusinessID:  p.BusinessID,
		ProductID:   p.ProductID,
		LocationID:  p.LocationID,
		Quantity:    p.Quantity,
		ReferenceID: p.SaleID,
		UserID:      p.UserID,
		Type:        entity.MovementTypeSale,
		Notes:       "conciliación de venta",
	}
	if err := r.ledger.checkChange(ctx, change); err != nil {
		return err
	}
	return r.ledger.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		pendingRepo repository.PendingDecrementRepository,
	) error {
		if _, err := r.ledger.decreaseTx(ctx, stockRepo, movRepo, change); err != nil {
			return err
		}
		done := *p
		done.Status = entity.PendingStatusApplied
		done.LastError = ""
		done.UpdatedAt = r.now()
		if err := pendingRepo.Update(ctx, &done); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errClaimLost
			}
			return err
		}
		return nil
	})
}

// Run ejecuta RunOnce en intervalos hasta que ctx se cancele.
func (r *Reconciler) Run(ctx context.Context) {
	if r == nil || r.interval <= 0 {
		return
	}
	for {
		if _, err := r.RunOnce(ctx, ""); err != nil && ctx.Err() == nil {
			r.logger.Error().Err(err).Msg("reconciliation pass failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.interval):
		}
	}
}
