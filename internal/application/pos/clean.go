package pos

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// Campos que puede reportar una línea inválida.
const (
	FieldID       = "id"
	FieldQuantity = "quantity"
	FieldPrice    = "price"
)

// LineViolation describe una línea del carrito que no pasó la limpieza.
type LineViolation struct {
	Index   int      `json:"index"`
	EntryID string   `json:"entry_id"`
	Fields  []string `json:"fields"`
}

// ValidationError lista todas las líneas inválidas; envuelve domain.ErrValidationFailed.
type ValidationError struct {
	Lines []LineViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		parts[i] = fmt.Sprintf("línea %d (%s): %s", l.Index, l.EntryID, strings.Join(l.Fields, ","))
	}
	return fmt.Sprintf("%s: %s", domain.ErrValidationFailed.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidationFailed }

// CleanLines transforma las líneas del carrito en ítems de venta limpios
// (ID no vacío, cantidad > 0, precio >= 0, nombre y unidad recortados).
// Si alguna línea falla devuelve *ValidationError con todas las violaciones.
func CleanLines(lines []LineItem) ([]entity.SaleItem, error) {
	items := make([]entity.SaleItem, 0, len(lines))
	var violations []LineViolation
	for i, l := range lines {
		id := strings.TrimSpace(l.CatalogEntryID)
		var fields []string
		if id == "" {
			fields = append(fields, FieldID)
		}
		if l.Quantity <= 0 {
			fields = append(fields, FieldQuantity)
		}
		if l.UnitPrice.LessThan(decimal.Zero) {
			fields = append(fields, FieldPrice)
		}
		if len(fields) > 0 {
			violations = append(violations, LineViolation{Index: i, EntryID: id, Fields: fields})
			continue
		}
		items = append(items, entity.SaleItem{
			ID:        id,
			Name:      strings.TrimSpace(l.Name),
			Unit:      strings.TrimSpace(l.UnitOfMeasure),
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
			Discount:  l.Discount,
			IsService: l.IsService,
			IsTracked: l.IsTracked,
		})
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Lines: violations}
	}
	return items, nil
}
