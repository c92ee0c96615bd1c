package ubl

import (
	"bytes"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	appconfig "github.com/jhoicas/eggpro-erp/pkg/config"
)

func sampleInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:           "0b8f7a3e-5a4c-4c1e-9d7e-8c3b2a1f0e9d",
		Number:       42,
		CustomerID:   "c1",
		CustomerName: "Chez Marie & Fils",
		InvoiceDate:  time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2024, 8, 9, 0, 0, 0, 0, time.UTC),
		Terms:        entity.DefaultInvoiceTerms,
		Status:       entity.InvoiceStatusPending,
		Subtotal:     decimal.RequireFromString("220"),
		TaxTotal:     decimal.RequireFromString("17"),
		Total:        decimal.RequireFromString("237"),
		PaidAmount:   decimal.RequireFromString("37"),
		Items: []entity.InvoiceItem{
			{Name: "Eggs tray", Quantity: decimal.RequireFromString("2"), Price: decimal.RequireFromString("100"), TaxRate: decimal.RequireFromString("7.5"), Subtotal: decimal.RequireFromString("200"), TaxAmount: decimal.RequireFromString("15")},
			{Name: "Delivery", Quantity: decimal.RequireFromString("1"), Price: decimal.RequireFromString("20"), TaxRate: decimal.RequireFromString("10"), Subtotal: decimal.RequireFromString("20"), TaxAmount: decimal.RequireFromString("2")},
		},
	}
}

func newExporter() *Exporter {
	return NewExporter(appconfig.StoreConfig{Name: "EggPro Farm", Address: "Royal Road", Email: "sales@eggpro.mu"}, "MUR")
}

func TestInvoiceXML_Structure(t *testing.T) {
	out, err := newExporter().InvoiceXML(sampleInvoice())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, "ext:UBLExtensions", root.ChildElements()[0].FullTag())

	assert.Equal(t, "INV-00042", root.SelectElement("cbc:ID").Text())
	assert.Equal(t, "2024-08-09", root.SelectElement("cbc:DueDate").Text())
	assert.Equal(t, "2", root.SelectElement("cbc:LineCountNumeric").Text())
	assert.Equal(t, "Chez Marie & Fils", root.FindElement(".//cac:AccountingCustomerParty//cbc:Name").Text())

	payable := root.FindElement("./cac:LegalMonetaryTotal/cbc:PayableAmount")
	require.NotNil(t, payable)
	assert.Equal(t, "200.00", payable.Text())
	assert.Equal(t, "MUR", payable.SelectAttrValue("currencyID", ""))

	lines := root.SelectElements("cac:InvoiceLine")
	require.Len(t, lines, 2)
	assert.Equal(t, "7.5", lines[0].FindElement(".//cbc:Percent").Text())
	assert.Nil(t, root.SelectElement("cbc:Note"))
}

func TestInvoiceXML_DigestVerifies(t *testing.T) {
	out, err := newExporter().InvoiceXML(sampleInvoice())
	require.NoError(t, err)
	assert.NoError(t, Verify(out))
}

func TestInvoiceXML_Deterministic(t *testing.T) {
	a, err := newExporter().InvoiceXML(sampleInvoice())
	require.NoError(t, err)
	b, err := newExporter().InvoiceXML(sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestVerify_DetectsTampering(t *testing.T) {
	out, err := newExporter().InvoiceXML(sampleInvoice())
	require.NoError(t, err)

	tampered := bytes.Replace(out, []byte("200.00"), []byte("100.00"), 1)
	require.NotEqual(t, out, tampered)
	assert.ErrorIs(t, Verify(tampered), ErrDigestMismatch)
}

func TestVerify_MissingExtension(t *testing.T) {
	assert.Error(t, Verify([]byte(`<Invoice/>`)))
	assert.Error(t, Verify([]byte(`not xml`)))
}

func TestInvoiceXML_Nil(t *testing.T) {
	_, err := newExporter().InvoiceXML(nil)
	assert.Error(t, err)
}
