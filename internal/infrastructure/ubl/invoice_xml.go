// Package ubl exporta facturas como documentos UBL 2.1 Invoice. El primer hijo del documento
// es ext:UBLExtensions con el digest SHA-256 de la forma canónica (C14N) del resto del documento.
package ubl

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/eggpro-erp/internal/application/billing"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	appconfig "github.com/jhoicas/eggpro-erp/pkg/config"
)

// Namespaces UBL 2.1 y XML-DSig.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NsExt     = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	NsDs      = "http://www.w3.org/2000/09/xmldsig#"

	AlgC14N   = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgSHA256 = "http://www.w3.org/2001/04/xmlenc#sha256"

	invoiceTypeCommercial = "380"
	dateLayout            = "2006-01-02"
)

// ErrDigestMismatch el digest embebido no coincide con el contenido del documento.
var ErrDigestMismatch = errors.New("ubl: digest no coincide")

var _ billing.InvoiceXMLExporter = (*Exporter)(nil)

// Exporter serializa facturas con el comercio como proveedor.
type Exporter struct {
	store    appconfig.StoreConfig
	currency string
}

// NewExporter construye el exportador; currency es el código ISO 4217 de los importes.
func NewExporter(store appconfig.StoreConfig, currency string) *Exporter {
	return &Exporter{store: store, currency: currency}
}

// InvoiceXML documento UBL de la factura con sus líneas y el digest canónico.
func (e *Exporter) InvoiceXML(inv *entity.Invoice) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("ubl: factura nil")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)
	root.CreateAttr("xmlns:ds", NsDs)
	root.CreateAttr("xmlns:ext", NsExt)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "ID", inv.Reference())
	cbc(root, "IssueDate", inv.InvoiceDate.Format(dateLayout))
	cbc(root, "DueDate", inv.DueDate.Format(dateLayout))
	cbc(root, "InvoiceTypeCode", invoiceTypeCommercial)
	if inv.Notes != "" {
		cbc(root, "Note", inv.Notes)
	}
	cbc(root, "DocumentCurrencyCode", e.currency)
	cbc(root, "LineCountNumeric", strconv.Itoa(len(inv.Items)))

	e.writeSupplier(root)
	writeCustomer(root, inv)

	terms := root.CreateElement("cac:PaymentTerms")
	cbc(terms, "Note", inv.Terms)

	tax := root.CreateElement("cac:TaxTotal")
	e.amount(tax, "TaxAmount", inv.TaxTotal)

	totals := root.CreateElement("cac:LegalMonetaryTotal")
	e.amount(totals, "LineExtensionAmount", inv.Subtotal)
	e.amount(totals, "TaxExclusiveAmount", inv.Subtotal)
	e.amount(totals, "TaxInclusiveAmount", inv.Total)
	e.amount(totals, "PrepaidAmount", inv.PaidAmount)
	e.amount(totals, "PayableAmount", inv.BalanceDue())

	for i, it := range inv.Items {
		e.writeLine(root, i+1, it)
	}

	digest, err := digestOf(root)
	if err != nil {
		return nil, err
	}
	root.InsertChildAt(0, digestExtension(digest))

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("ubl: serializar: %w", err)
	}
	return out, nil
}

// Verify recalcula el digest de un documento generado por InvoiceXML.
func Verify(data []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("ubl: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("ubl: documento sin raíz")
	}
	ext := root.SelectElement("ext:UBLExtensions")
	if ext == nil {
		return fmt.Errorf("ubl: no se encontró ext:UBLExtensions")
	}
	value := ext.FindElement(".//ds:DigestValue")
	if value == nil {
		return fmt.Errorf("ubl: no se encontró ds:DigestValue")
	}
	want := value.Text()
	root.RemoveChild(ext)

	got, err := digestOf(root)
	if err != nil {
		return err
	}
	if got != want {
		return ErrDigestMismatch
	}
	return nil
}

// digestOf digest del elemento raíz sin la declaración XML.
func digestOf(root *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(root.Copy())
	raw, err := doc.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("ubl: serializar: %w", err)
	}
	canonical, err := canonicalize(raw)
	if err != nil {
		return "", fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func digestExtension(digest string) *etree.Element {
	ext := etree.NewElement("ext:UBLExtensions")
	content := ext.CreateElement("ext:UBLExtension").CreateElement("ext:ExtensionContent")
	content.CreateElement("ds:CanonicalizationMethod").CreateAttr("Algorithm", AlgC14N)
	content.CreateElement("ds:DigestMethod").CreateAttr("Algorithm", AlgSHA256)
	content.CreateElement("ds:DigestValue").SetText(digest)
	return ext
}

func (e *Exporter) writeSupplier(root *etree.Element) {
	party := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	cbc(party.CreateElement("cac:PartyName"), "Name", e.store.Name)
	if e.store.Address != "" {
		cbc(party.CreateElement("cac:PostalAddress"), "StreetName", e.store.Address)
	}
	if e.store.Phone != "" || e.store.Email != "" {
		contact := party.CreateElement("cac:Contact")
		if e.store.Phone != "" {
			cbc(contact, "Telephone", e.store.Phone)
		}
		if e.store.Email != "" {
			cbc(contact, "ElectronicMail", e.store.Email)
		}
	}
}

func writeCustomer(root *etree.Element, inv *entity.Invoice) {
	party := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	if inv.CustomerID != "" {
		cbc(party.CreateElement("cac:PartyIdentification"), "ID", inv.CustomerID)
	}
	cbc(party.CreateElement("cac:PartyName"), "Name", inv.CustomerName)
}

func (e *Exporter) writeLine(root *etree.Element, n int, it entity.InvoiceItem) {
	line := root.CreateElement("cac:InvoiceLine")
	cbc(line, "ID", strconv.Itoa(n))
	cbc(line, "InvoicedQuantity", it.Quantity.String()).CreateAttr("unitCode", "C62")
	e.amount(line, "LineExtensionAmount", it.Subtotal)

	tax := line.CreateElement("cac:TaxTotal")
	e.amount(tax, "TaxAmount", it.TaxAmount)

	item := line.CreateElement("cac:Item")
	cbc(item, "Name", it.Name)
	category := item.CreateElement("cac:ClassifiedTaxCategory")
	cbc(category, "Percent", it.TaxRate.String())

	e.amount(line.CreateElement("cac:Price"), "PriceAmount", it.Price)
}

func cbc(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(value)
	return el
}

func (e *Exporter) amount(parent *etree.Element, tag string, v decimal.Decimal) {
	cbc(parent, tag, v.StringFixed(2)).CreateAttr("currencyID", e.currency)
}
