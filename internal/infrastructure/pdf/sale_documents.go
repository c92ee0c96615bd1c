package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/application/sales"
	"github.com/jhoicas/eggpro-erp/pkg/money"
)

const (
	receiptWidth   = 80.0
	walkInCustomer = "Walk-in Customer"
)

var _ sales.DocumentGenerator = (*MarotoPDFGenerator)(nil)

// settled pagado y saldo de la venta: el resumen del backend si existe, si no los de la fila.
func settled(doc sales.SaleDocument) (paid, balance decimal.Decimal) {
	if doc.Summary != nil {
		return doc.Summary.TotalPaid, doc.Summary.BalanceDue
	}
	return doc.Sale.PaidTotal, doc.Sale.BalanceDue
}

func customerName(doc sales.SaleDocument) string {
	if doc.Sale.CustomerName != "" {
		return doc.Sale.CustomerName
	}
	if doc.Summary != nil && doc.Summary.CustomerName != "" {
		return doc.Summary.CustomerName
	}
	return walkInCustomer
}

// SaleInvoicePDF factura A4 de una venta del POS.
func (g *MarotoPDFGenerator) SaleInvoicePDF(_ context.Context, doc sales.SaleDocument) ([]byte, error) {
	m := maroto.New(g.a4("Invoice " + money.ShortID(doc.Sale.ID)))
	paid, balance := settled(doc)

	m.AddRows(g.headerRow("INVOICE", "#"+money.ShortID(doc.Sale.ID), doc.Sale.CreatedAt.In(g.loc).Format(dateTimeLayout)))
	m.AddRows(separator(0.5))
	m.AddRows(g.storeRow())
	m.AddRows(billToRow(customerName(doc), fmt.Sprintf("%d item(s)", len(doc.Items))))
	m.AddRows(separator(0.3))

	m.AddRows(tableHeaderRow())
	lines := make([]tableLine, 0, len(doc.Items))
	for _, it := range doc.Items {
		lines = append(lines, tableLine{
			Name: it.ProductName, Qty: strconv.Itoa(it.Quantity),
			Price: it.Price, TaxRate: it.TaxRate, Amount: it.LineTotal(),
		})
	}
	m.AddRows(g.tableRows(lines)...)

	m.AddRows(separator(0.3))
	m.AddRows(g.totalsRows([]totalLine{
		{Label: "Subtotal:", Amount: doc.Sale.Subtotal},
		{Label: "Tax:", Amount: doc.Sale.TaxAmount},
		{Label: "TOTAL:", Amount: doc.Sale.Total, Grand: true},
		{Label: "Paid:", Amount: paid},
		{Label: "Balance due:", Amount: balance, Grand: balance.IsPositive()},
	})...)

	if len(doc.Payments) > 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("PAYMENTS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 3}),
		)))
		for _, p := range doc.Payments {
			m.AddRows(row.New(5).Add(
				col.New(4).Add(text.New(p.PaymentDate.In(g.loc).Format(dateTimeLayout), props.Text{Size: 8, Color: colorGray})),
				col.New(4).Add(text.New(p.PaymentMethod, props.Text{Size: 8})),
				col.New(4).Add(text.New(g.money.Format(p.AmountPaid), props.Text{Size: 8, Align: align.Right, Right: 1})),
			))
		}
	}

	m.AddRows(footerRow("Thank you for your business."))
	return render(m)
}

// ReceiptPDF recibo de 80 mm de ancho. El alto crece con las líneas para que quepa en una página.
func (g *MarotoPDFGenerator) ReceiptPDF(_ context.Context, doc sales.SaleDocument) ([]byte, error) {
	height := 120 + 9*float64(len(doc.Items))
	cfg := config.NewBuilder().
		WithDimensions(receiptWidth, height).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "courier", Size: 7}).
		WithTitle("Receipt "+money.ShortID(doc.Sale.ID), true).
		WithAuthor(g.store.Name, true).
		Build()
	m := maroto.New(cfg)
	paid, balance := settled(doc)

	center := func(s string, size float64, bold bool) core.Row {
		p := props.Text{Size: size, Align: align.Center, Top: 0.5}
		if bold {
			p.Style = fontstyle.Bold
		}
		return row.New(size*0.6).Add(col.New(12).Add(text.New(s, p)))
	}
	pair := func(label, value string, bold bool) core.Row {
		p := props.Text{Size: 7}
		if bold {
			p.Style = fontstyle.Bold
		}
		v := p
		v.Align = align.Right
		return row.New(4).Add(col.New(7).Add(text.New(label, p)), col.New(5).Add(text.New(value, v)))
	}

	m.AddRows(
		center(g.store.Name, 10, true),
		center(g.store.Address, 7, false),
		center("Tel: "+nonEmpty(g.store.Phone, "-"), 7, false),
		dashes(),
		pair("Receipt #"+money.ShortID(doc.Sale.ID), "", true),
		pair(doc.Sale.CreatedAt.In(g.loc).Format(dateTimeLayout), "", false),
		pair("Customer: "+customerName(doc), "", false),
		dashes(),
	)
	for _, it := range doc.Items {
		m.AddRows(
			row.New(4).Add(col.New(12).Add(text.New(it.ProductName, props.Text{Size: 7}))),
			pair(fmt.Sprintf("  %d x %s", it.Quantity, g.money.Number(it.Price)), g.money.Number(it.LineTotal()), false),
		)
	}
	m.AddRows(
		dashes(),
		pair("Subtotal", g.money.Format(doc.Sale.Subtotal), false),
		pair("Tax", g.money.Format(doc.Sale.TaxAmount), false),
		pair("TOTAL", g.money.Format(doc.Sale.Total), true),
		pair("Paid", g.money.Format(paid), false),
	)
	if balance.IsPositive() {
		m.AddRows(pair("Balance due", g.money.Format(balance), true))
	}
	m.AddRows(
		dashes(),
		row.New(22).Add(col.New(12).Add(code.NewQr(doc.Sale.ID, props.Rect{Percent: 90, Center: true}))),
		center("Thank you!", 8, true),
	)
	return render(m)
}

func dashes() core.Row {
	return row.New(3).Add(col.New(12).Add(text.New("--------------------------------------------", props.Text{Size: 7, Align: align.Center})))
}
