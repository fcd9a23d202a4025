package http

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/pricing"
)

func totalsDTO(t pricing.Totals) dto.TotalsDTO {
	return dto.TotalsDTO{Subtotal: t.Subtotal, VAT: t.VAT, DeliveryFee: t.DeliveryFee, Total: t.Total}
}

func sessionResponse(v *pos.SessionView) dto.SessionResponse {
	s := v.Session
	lines := make([]dto.CartLineDTO, 0, len(s.Cart.Lines))
	for _, l := range s.Cart.Lines {
		line := dto.CartLineDTO{
			EntryID:       l.CatalogEntryID,
			Name:          l.Name,
			UnitPrice:     l.UnitPrice,
			UnitOfMeasure: l.UnitOfMeasure,
			CategoryGroup: l.CategoryGroup,
			IsService:     l.IsService,
			IsTracked:     l.IsTracked,
			Quantity:      l.Quantity,
			LineTotal:     l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))),
		}
		if l.IsTracked {
			if n, ok := s.Stock.Available(l.CatalogEntryID); ok {
				line.Available = &n
			}
		}
		lines = append(lines, line)
	}
	d := s.Details
	return dto.SessionResponse{
		ID:         s.ID,
		LocationID: s.LocationID,
		Lines:      lines,
		Details: dto.OrderDetailsDTO{
			CustomerID:      d.CustomerID,
			PaymentMethod:   d.PaymentMethod,
			Particulars:     d.Particulars,
			ProformaTitle:   d.ProformaTitle,
			IsProforma:      d.IsProforma,
			DeliveryEnabled: d.DeliveryEnabled,
			DeliveryFee:     d.DeliveryFee,
			IsEditing:       d.IsEditing,
			EditingSaleID:   d.EditingSaleID,
		},
		Totals:         totalsDTO(v.Totals),
		CurrencySymbol: v.CurrencySymbol,
		OpenedAt:       s.OpenedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func saleResponse(s *entity.Sale) dto.SaleResponse {
	if s == nil {
		return dto.SaleResponse{}
	}
	items := make([]dto.SaleItemDTO, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemDTO{
			EntryID:   it.ID,
			Name:      it.Name,
			Unit:      it.Unit,
			Quantity:  it.Quantity,
			Price:     it.Price,
			IsService: it.IsService,
			IsTracked: it.IsTracked,
		})
	}
	return dto.SaleResponse{
		ID:            s.ID,
		Date:          s.Date,
		Items:         items,
		Subtotal:      s.Subtotal,
		VAT:           s.VAT,
		DeliveryFee:   s.DeliveryFee,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Cashier:       s.Cashier,
		CustomerID:    s.CustomerID,
		LocationID:    s.LocationID,
		IsProforma:    s.IsProforma,
		ProformaTitle: s.ProformaTitle,
		Particulars:   s.Particulars,
	}
}

func rejectedItemsDTO(items []entity.RejectedItem) []dto.RejectedItemDTO {
	out := make([]dto.RejectedItemDTO, 0, len(items))
	for _, r := range items {
		out = append(out, dto.RejectedItemDTO{Index: r.Index, EntryID: r.Item.ID, Name: r.Item.Name, Reason: r.Reason})
	}
	return out
}

func checkoutResponse(res *pos.CheckoutResult) dto.CheckoutResponse {
	warnings := make([]dto.StockWarningDTO, 0, len(res.StockWarnings))
	for _, w := range res.StockWarnings {
		warnings = append(warnings, dto.StockWarningDTO{
			EntryID: w.EntryID, Name: w.Name, Quantity: w.Quantity, Reason: w.Reason, Queued: w.Queued,
		})
	}
	out := dto.CheckoutResponse{
		State:         string(res.State),
		Outcome:       string(res.Outcome),
		Sale:          saleResponse(res.Sale),
		Totals:        totalsDTO(res.Totals),
		InsertedCount: res.InsertedCount,
		StockWarnings: warnings,
		RejectedItems: rejectedItemsDTO(res.RejectedItems),
	}
	if res.Sale != nil {
		out.ReceiptURL = "/api/sales/" + res.Sale.ID + "/receipt?variant=compact"
	}
	return out
}

func stockEntriesDTO(list []*entity.StockEntry) []dto.StockEntryDTO {
	out := make([]dto.StockEntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, dto.StockEntryDTO{ProductID: e.ProductID, LocationID: e.LocationID, Quantity: e.Quantity, UpdatedAt: e.UpdatedAt})
	}
	return out
}

func movementsDTO(list []*entity.StockMovement) []dto.StockMovementDTO {
	out := make([]dto.StockMovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementDTO{
			ID:            m.ID,
			ProductID:     m.ProductID,
			LocationID:    m.LocationID,
			ChangeAmount:  m.ChangeAmount,
			Type:          m.Type,
			SupplierID:    m.SupplierID,
			BatchNumber:   m.BatchNumber,
			ReferenceID:   m.ReferenceID,
			TransactionID: m.TransactionID,
			UserID:        m.UserID,
			Notes:         m.Notes,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out
}

func pendingDTO(list []*entity.PendingDecrement) []dto.PendingDecrementDTO {
	out := make([]dto.PendingDecrementDTO, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PendingDecrementDTO{
			ID:         p.ID,
			SaleID:     p.SaleID,
			ProductID:  p.ProductID,
			LocationID: p.LocationID,
			Quantity:   p.Quantity,
			LastError:  p.LastError,
			Attempts:   p.Attempts,
			Status:     p.Status,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		})
	}
	return out
}
