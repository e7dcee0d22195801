package dashboard

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders d as dollars with thousands separators and two
// decimals, e.g. "$1,234.50".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "$" + sign + s
	}
	return "$" + sign + printer.Sprintf("%d", n) + "." + frac
}

// FormatCount renders n with thousands separators, e.g. "27,659".
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}
