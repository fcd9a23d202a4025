package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Formato del CSV (separador ';', primera columna = tipo de fila):
//
//	grupo;<nombre>;<rastreado: si|no>
//	producto;<id>;<sku>;<nombre>;<precio>;<unidad>;<grupo>
//	servicio;<id>;<nombre>;<tarifa>;<unidad>;<categoria>
//	stock;<producto_id>;<ubicacion_id>;<cantidad>
//
// Líneas vacías y las que empiezan con '#' se ignoran.

type groupRow struct {
	name    string
	tracked bool
}

type productRow struct {
	id, sku, name, unit, group string
	price                      decimal.Decimal
}

type serviceRow struct {
	id, name, unit, category string
	rate                     decimal.Decimal
}

type stockRow struct {
	productID, locationID string
	quantity              int64
}

type catalog struct {
	groups   []groupRow
	products []productRow
	services []serviceRow
	stock    []stockRow
}

// decodeInput devuelve el contenido en UTF-8; si no es UTF-8 válido lo trata como ISO-8859-1.
func decodeInput(raw []byte) io.Reader {
	if utf8.Valid(raw) {
		return bytes.NewReader(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")))
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

func parseCatalog(raw []byte) (*catalog, error) {
	r := csv.NewReader(decodeInput(raw))
	r.Comma = ';'
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	cat := &catalog{}
	seenGroup := map[string]int{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		kind := strings.ToLower(rec[0])
		switch kind {
		case "grupo":
			if err := need(rec, 3, line); err != nil {
				return nil, err
			}
			g := groupRow{name: strings.ToLower(rec[1]), tracked: isYes(rec[2])}
			if i, ok := seenGroup[g.name]; ok {
				cat.groups[i] = g
				continue
			}
			seenGroup[g.name] = len(cat.groups)
			cat.groups = append(cat.groups, g)
		case "producto":
			if err := need(rec, 7, line); err != nil {
				return nil, err
			}
			price, err := parseMoney(rec[4])
			if err != nil {
				return nil, fmt.Errorf("línea %d: precio %q: %w", line, rec[4], err)
			}
			cat.products = append(cat.products, productRow{
				id: rec[1], sku: rec[2], name: rec[3], price: price, unit: rec[5], group: strings.ToLower(rec[6]),
			})
		case "servicio":
			if err := need(rec, 6, line); err != nil {
				return nil, err
			}
			rate, err := parseMoney(rec[3])
			if err != nil {
				return nil, fmt.Errorf("línea %d: tarifa %q: %w", line, rec[3], err)
			}
			cat.services = append(cat.services, serviceRow{
				id: rec[1], name: rec[2], rate: rate, unit: rec[4], category: rec[5],
			})
		case "stock":
			if err := need(rec, 4, line); err != nil {
				return nil, err
			}
			qty, err := strconv.ParseInt(rec[3], 10, 64)
			if err != nil || qty < 0 {
				return nil, fmt.Errorf("línea %d: cantidad inválida %q", line, rec[3])
			}
			cat.stock = append(cat.stock, stockRow{productID: rec[1], locationID: rec[2], quantity: qty})
		case "tipo":
			// cabecera
		default:
			return nil, fmt.Errorf("línea %d: tipo de fila desconocido %q", line, rec[0])
		}
	}
	sort.Slice(cat.groups, func(i, j int) bool { return cat.groups[i].name < cat.groups[j].name })
	return cat, nil
}

func need(rec []string, n, line int) error {
	if len(rec) < n {
		return fmt.Errorf("línea %d: se esperaban %d columnas, hay %d", line, n, len(rec))
	}
	if rec[1] == "" {
		return fmt.Errorf("línea %d: identificador vacío", line)
	}
	return nil
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "si", "sí", "s", "true", "1", "x":
		return true
	}
	return false
}

// parseMoney acepta "18000", "18.000,50" y "18000.50".
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("monto negativo")
	}
	return d, nil
}

func writeSQL(out io.Writer, businessID string, cat *catalog) error {
	var b strings.Builder
	biz := escapeSQL(businessID)

	b.WriteString("-- Catálogo inicial del negocio " + biz + "\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	if len(cat.groups) > 0 {
		b.WriteString("-- 1. Grupos de categoría\n")
		b.WriteString("INSERT INTO category_groups (business_id, group_name, is_stock_tracked) VALUES\n")
		for i, g := range cat.groups {
			fmt.Fprintf(&b, "  ('%s', '%s', %t)%s\n", biz, escapeSQL(g.name), g.tracked, sep(i, len(cat.groups)))
		}
		b.WriteString("ON CONFLICT (business_id, group_name) DO UPDATE SET is_stock_tracked = EXCLUDED.is_stock_tracked;\n\n")
	}

	if len(cat.products) > 0 {
		b.WriteString("-- 2. Productos\n")
		b.WriteString("INSERT INTO products (id, business_id, sku, name, price, unit_measure, category_group) VALUES\n")
		for i, p := range cat.products {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', %s, '%s', '%s')%s\n",
				escapeSQL(p.id), biz, escapeSQL(p.sku), escapeSQL(p.name), p.price.StringFixed(2),
				escapeSQL(p.unit), escapeSQL(p.group), sep(i, len(cat.products)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price,\n")
		b.WriteString("  unit_measure = EXCLUDED.unit_measure, category_group = EXCLUDED.category_group, updated_at = now();\n\n")
	}

	if len(cat.services) > 0 {
		b.WriteString("-- 3. Servicios\n")
		b.WriteString("INSERT INTO services (id, business_id, name, rate, unit, category) VALUES\n")
		for i, s := range cat.services {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', %s, '%s', '%s')%s\n",
				escapeSQL(s.id), biz, escapeSQL(s.name), s.rate.StringFixed(2),
				escapeSQL(s.unit), escapeSQL(s.category), sep(i, len(cat.services)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, rate = EXCLUDED.rate, updated_at = now();\n\n")
	}

	if len(cat.stock) > 0 {
		b.WriteString("-- 4. Stock inicial por ubicación\n")
		b.WriteString("INSERT INTO stock (product_id, location_id, quantity) VALUES\n")
		for i, s := range cat.stock {
			fmt.Fprintf(&b, "  ('%s', '%s', %d)%s\n",
				escapeSQL(s.productID), escapeSQL(s.locationID), s.quantity, sep(i, len(cat.stock)))
		}
		b.WriteString("ON CONFLICT (product_id, location_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now();\n")
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
