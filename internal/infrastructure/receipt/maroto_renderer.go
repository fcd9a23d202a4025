// Package receipt genera el recibo de una venta del POS en PDF.
//
// Variantes:
//
//	compact: tirilla de 80 mm para impresora térmica (encabezado, líneas, totales).
//	full:    página A4 con datos del negocio, del cliente y tabla de ítems.
package receipt

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const compactWidthMM = 80

var _ pos.ReceiptRenderer = (*MarotoRenderer)(nil)

// MarotoRenderer implementa pos.ReceiptRenderer usando Maroto v2.
type MarotoRenderer struct {
	printer *message.Printer
}

// NewMarotoRenderer construye el renderer. lang define el formato de montos (ej. "es-CO").
func NewMarotoRenderer(lang string) *MarotoRenderer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Spanish
	}
	return &MarotoRenderer{printer: message.NewPrinter(tag)}
}

// Render genera el recibo de la venta en la variante pedida. No modifica sus entradas.
func (g *MarotoRenderer) Render(
	_ context.Context,
	sale *entity.Sale,
	settings *entity.TenantSettings,
	customer *entity.Customer,
	variant pos.ReceiptVariant,
) (*pos.Document, error) {
	if sale == nil || settings == nil {
		return nil, fmt.Errorf("receipt: venta y configuración son obligatorias")
	}
	var m core.Maroto
	switch variant {
	case pos.ReceiptFull:
		m = g.full(sale, settings, customer)
	case pos.ReceiptCompact, "":
		variant = pos.ReceiptCompact
		m = g.compact(sale, settings, customer)
	default:
		return nil, fmt.Errorf("receipt: variante desconocida %q", variant)
	}
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("receipt: generar documento: %w", err)
	}
	return &pos.Document{
		Variant:     variant,
		ContentType: "application/pdf",
		Filename:    fmt.Sprintf("recibo-%s-%s.pdf", variant, sale.ID),
		Bytes:       doc.GetBytes(),
	}, nil
}

// ── Variante compacta (80 mm) ────────────────────────────────────────────────

func (g *MarotoRenderer) compact(sale *entity.Sale, settings *entity.TenantSettings, customer *entity.Customer) core.Maroto {
	cfg := config.NewBuilder().
		WithDimensions(compactWidthMM, 297).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle(documentTitle(sale), true).
		Build()
	m := maroto.New(cfg)

	center := func(s string, style fontstyle.Type, size float64) core.Row {
		return row.New(4).Add(col.New(12).Add(text.New(s, props.Text{Style: style, Size: size, Align: align.Center})))
	}
	m.AddRows(center(settings.BusinessName, fontstyle.Bold, 9))
	if settings.Address != "" {
		m.AddRows(center(settings.Address, fontstyle.Normal, 6.5))
	}
	m.AddRows(center(documentTitle(sale), fontstyle.Bold, 7))
	m.AddRows(center(sale.Date.Format("02/01/2006 15:04")+"  #"+shortID(sale.ID), fontstyle.Normal, 6.5))
	if customer != nil {
		m.AddRows(center("Cliente: "+customer.Name, fontstyle.Normal, 6.5))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))

	for _, it := range sale.Items {
		m.AddRows(row.New(4).Add(
			col.New(8).Add(text.New(fmt.Sprintf("%d x %s", it.Quantity, it.Name), props.Text{Size: 6.5})),
			col.New(4).Add(text.New(g.money(settings, lineTotal(it)), props.Text{Size: 6.5, Align: align.Right})),
		))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))

	for _, t := range g.totalLines(sale, settings) {
		style := fontstyle.Normal
		if t.grand {
			style = fontstyle.Bold
		}
		m.AddRows(row.New(4).Add(
			col.New(7).Add(text.New(t.label, props.Text{Size: 7, Style: style, Align: align.Right})),
			col.New(5).Add(text.New(t.value, props.Text{Size: 7, Style: style, Align: align.Right})),
		))
	}
	if sale.PaymentMethod != "" {
		m.AddRows(center("Pago: "+sale.PaymentMethod, fontstyle.Normal, 6.5))
	}
	m.AddRows(center("Gracias por su compra", fontstyle.Italic, 6.5))
	return m
}

// ── Variante página completa (A4) ────────────────────────────────────────────

func (g *MarotoRenderer) full(sale *entity.Sale, settings *entity.TenantSettings, customer *entity.Customer) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(documentTitle(sale), true).
		WithAuthor(settings.BusinessName, true).
		Build()
	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, settings))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer, sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, it := range sale.Items {
		m.AddRows(row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(nonEmpty(it.Unit, "—"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money(settings, it.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.money(settings, lineTotal(it)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	for _, t := range g.totalLines(sale, settings) {
		p := props.Text{Size: 9, Align: align.Right, Right: 1}
		if t.grand {
			p.Style, p.Size, p.Color = fontstyle.Bold, 10, colorPrimary
		}
		m.AddRows(row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(t.label, p)),
			col.New(3).Add(text.New(t.value, p)),
		))
	}
	if sale.Particulars != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Observaciones: "+sale.Particulars, props.Text{Size: 8, Top: 3, Color: colorGray}),
		)))
	}
	return m
}

// headerRow: negocio (izq) y tipo de documento + fecha (der).
func headerRow(sale *entity.Sale, settings *entity.TenantSettings) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(settings.BusinessName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s   |   Tel: %s", nonEmpty(settings.Address, "—"), nonEmpty(settings.Phone, "—")),
				props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(documentTitle(sale)), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New("#"+shortID(sale.ID), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+sale.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

// customerRow: cliente (si hay) y cajero.
func customerRow(customer *entity.Customer, sale *entity.Sale) core.Row {
	name, taxID := "Consumidor final", "—"
	if customer != nil {
		name, taxID = customer.Name, nonEmpty(customer.TaxID, "—")
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Cajero: %s   |   Pago: %s",
				taxID, nonEmpty(sale.Cashier, "—"), nonEmpty(sale.PaymentMethod, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("Unidad", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

type totalLine struct {
	label string
	value string
	grand bool
}

func (g *MarotoRenderer) totalLines(sale *entity.Sale, settings *entity.TenantSettings) []totalLine {
	lines := []totalLine{
		{label: "Subtotal:", value: g.money(settings, sale.Subtotal)},
		{label: fmt.Sprintf("IVA (%s%%):", settings.VATRatePercent.String()), value: g.money(settings, sale.VAT)},
	}
	if sale.DeliveryFee.IsPositive() {
		lines = append(lines, totalLine{label: "Domicilio:", value: g.money(settings, sale.DeliveryFee)})
	}
	return append(lines, totalLine{label: "TOTAL:", value: g.money(settings, sale.Total), grand: true})
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea un monto con separador de miles del idioma y el símbolo del negocio.
func (g *MarotoRenderer) money(settings *entity.TenantSettings, v decimal.Decimal) string {
	return nonEmpty(settings.CurrencySymbol, "$") + g.printer.Sprintf("%.2f", v.Round(2).InexactFloat64())
}

func lineTotal(it entity.SaleItem) decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func documentTitle(sale *entity.Sale) string {
	if sale.IsProforma {
		return nonEmpty(sale.ProformaTitle, "Proforma")
	}
	return "Recibo de venta"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
