package sales

import (
	"fmt"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// RejectedItemsError se devuelve cuando ningún ítem de la venta fue aceptado.
type RejectedItemsError struct {
	Items []entity.RejectedItem
}

func (e *RejectedItemsError) Error() string {
	return fmt.Sprintf("%s: %d ítem(s)", domain.ErrRejectedItems.Error(), len(e.Items))
}

func (e *RejectedItemsError) Unwrap() error { return domain.ErrRejectedItems }
