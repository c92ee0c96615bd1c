// Package money formatea importes para respuestas, PDFs y exportaciones.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Símbolos locales que difieren del código ISO.
var localSymbols = map[string]string{
	"MUR": "Rs",
	"INR": "Rs",
	"USD": "$",
	"EUR": "€",
	"COP": "$",
}

// Formatter convierte decimales a texto con símbolo y separador de miles.
type Formatter struct {
	unit    currency.Unit
	symbol  string
	printer *message.Printer
}

// New crea un formatter para el código ISO 4217 dado.
func New(code string) (*Formatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}
	symbol, ok := localSymbols[unit.String()]
	if !ok {
		symbol = unit.String()
	}
	return &Formatter{
		unit:    unit,
		symbol:  symbol,
		printer: message.NewPrinter(language.English),
	}, nil
}

// MustNew como New pero entra en pánico con un código inválido.
func MustNew(code string) *Formatter {
	f, err := New(code)
	if err != nil {
		panic(err)
	}
	return f
}

// Unit devuelve la unidad ISO.
func (f *Formatter) Unit() currency.Unit { return f.unit }

// Symbol devuelve el símbolo impreso delante del importe.
func (f *Formatter) Symbol() string { return f.symbol }

// Format devuelve "Rs 1,234.50". Negativos: "-Rs 12.00".
func (f *Formatter) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	return sign + f.symbol + " " + f.Number(amount)
}

// Number devuelve el importe con dos decimales y separador de miles, sin símbolo.
func (f *Formatter) Number(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	whole := rounded.Truncate(0).IntPart()
	cents := rounded.Sub(decimal.NewFromInt(whole)).Abs().StringFixed(2)
	return f.printer.Sprintf("%d", whole) + strings.TrimPrefix(cents, "0")
}

// ShortID devuelve los primeros 8 caracteres de un id (referencias en pantalla y PDFs).
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
