// Package pdf genera los documentos imprimibles del ERP con Maroto v2: factura A4 y recibo
// de 80 mm de una venta del POS, y la factura emitida a un cliente.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Comercio              │  N° documento + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COMERCIO: Dirección / Tel / Email                           │
//	│  CLIENTE: Nombre                                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant | P.Unit | Imp% | Importe         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / Total / Pagado / Saldo      │
//	│  PAGOS (si hay)                                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appconfig "github.com/jhoicas/eggpro-erp/pkg/config"
	"github.com/jhoicas/eggpro-erp/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 181, Green: 101, Blue: 29}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateTimeLayout = "02 Jan 2006 15:04"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa sales.DocumentGenerator y billing.InvoicePDFGenerator.
type MarotoPDFGenerator struct {
	store appconfig.StoreConfig
	money *money.Formatter
	loc   *time.Location
	now   func() time.Time
}

// NewMarotoPDFGenerator construye el generador con el membrete del comercio, el formato de
// moneda y la zona horaria en que se imprimen las fechas.
func NewMarotoPDFGenerator(store appconfig.StoreConfig, fmtMoney *money.Formatter, loc *time.Location) *MarotoPDFGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &MarotoPDFGenerator{store: store, money: fmtMoney, loc: loc, now: time.Now}
}

// a4 configuración común de los documentos A4.
func (g *MarotoPDFGenerator) a4(title string) *entity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.store.Name, true).
		Build()
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones comunes ─────────────────────────────────────────────────────────

// headerRow: comercio (izq) y título, número y fecha (der).
func (g *MarotoPDFGenerator) headerRow(title, number, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.store.Name, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// storeRow: datos de contacto del comercio.
func (g *MarotoPDFGenerator) storeRow() core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("%s   |   Tel: %s   |   %s",
				nonEmpty(g.store.Address, "-"),
				nonEmpty(g.store.Phone, "-"),
				nonEmpty(g.store.Email, "-"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// billToRow: cliente y, opcionalmente, una línea de detalle a la derecha.
func billToRow(customer, detail string) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(customer, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(5).Add(
			text.New(detail, props.Text{Size: 8, Align: align.Right, Top: 6, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Description", 5, align.Left),
		h("Qty", 1, align.Center),
		h("Unit price", 2, align.Right),
		h("Tax %", 1, align.Center),
		h("Amount", 3, align.Right),
	)
}

// tableLine una línea de la tabla; qty ya formateada (entera o decimal según el documento).
type tableLine struct {
	Name    string
	Qty     string
	Price   decimal.Decimal
	TaxRate decimal.Decimal
	Amount  decimal.Decimal
}

func (g *MarotoPDFGenerator) tableRows(lines []tableLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(7).Add(
			col.New(5).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.Qty, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money.Format(l.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(l.TaxRate.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(g.money.Format(l.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

// totalLine etiqueta e importe del bloque de totales; Grand resalta la fila.
type totalLine struct {
	Label  string
	Amount decimal.Decimal
	Grand  bool
}

// totalsRows: bloque de totales alineado a la derecha, una fila por importe.
func (g *MarotoPDFGenerator) totalsRows(lines []totalLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		p := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}
		if l.Grand {
			p.Style, p.Size, p.Color = fontstyle.Bold, 10, colorPrimary
		}
		label := p
		label.Style = fontstyle.Bold
		out = append(out, row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(l.Label, label)),
			col.New(3).Add(text.New(g.money.Format(l.Amount), p)),
		))
	}
	return out
}

func separator(thickness float64) core.Row {
	return line.NewRow(1, props.Line{Color: colorPrimary, Thickness: thickness})
}

func footerRow(msg string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 4}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
