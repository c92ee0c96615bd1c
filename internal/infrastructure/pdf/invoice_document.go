package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/eggpro-erp/internal/application/billing"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

const dateLayout = "02 Jan 2006"

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// InvoicePDF factura A4 emitida a un cliente, con su estado efectivo a la fecha de impresión.
func (g *MarotoPDFGenerator) InvoicePDF(_ context.Context, inv *entity.Invoice) ([]byte, error) {
	m := maroto.New(g.a4("Invoice " + inv.Reference()))
	status := inv.EffectiveStatus(g.now().In(g.loc))

	m.AddRows(g.headerRow("INVOICE", inv.Reference(), "Date: "+inv.InvoiceDate.Format(dateLayout)))
	m.AddRows(separator(0.5))
	m.AddRows(g.storeRow())
	m.AddRows(billToRow(nonEmpty(inv.CustomerName, "-"),
		fmt.Sprintf("Due: %s   |   Terms: %s   |   %s", inv.DueDate.Format(dateLayout), inv.Terms, status)))
	m.AddRows(separator(0.3))

	m.AddRows(tableHeaderRow())
	lines := make([]tableLine, 0, len(inv.Items))
	for _, it := range inv.Items {
		lines = append(lines, tableLine{
			Name: it.Name, Qty: it.Quantity.String(),
			Price: it.Price, TaxRate: it.TaxRate, Amount: it.Subtotal,
		})
	}
	m.AddRows(g.tableRows(lines)...)

	balance := inv.BalanceDue()
	m.AddRows(separator(0.3))
	m.AddRows(g.totalsRows([]totalLine{
		{Label: "Subtotal:", Amount: inv.Subtotal},
		{Label: "Tax:", Amount: inv.TaxTotal},
		{Label: "TOTAL:", Amount: inv.Total, Grand: true},
		{Label: "Paid:", Amount: inv.PaidAmount},
		{Label: "Balance due:", Amount: balance, Grand: balance.IsPositive()},
	})...)

	if inv.Notes != "" {
		m.AddRows(row.New(14).Add(col.New(12).Add(
			text.New("NOTES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 3}),
			text.New(inv.Notes, props.Text{Size: 8, Top: 8, Color: colorGray}),
		)))
	}
	if status == entity.InvoiceStatusOverdue {
		m.AddRows(footerRow("This invoice is past due. Please remit payment at your earliest convenience."))
	} else {
		m.AddRows(footerRow("Thank you for your business."))
	}
	return render(m)
}
