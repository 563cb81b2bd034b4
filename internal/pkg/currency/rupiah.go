// internal/pkg/currency/rupiah.go
package currency

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount the way the storefront shows prices, e.g. "Rp 1.250.000".
// Fractions are rounded to whole rupiah.
func FormatRupiah(amount float64) string {
	return printer.Sprintf("Rp %d", int64(math.Round(amount)))
}
