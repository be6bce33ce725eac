package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// locale describes how one currency is displayed.
type locale struct {
	tag         language.Tag
	symbol      string
	symbolAfter bool
}

var locales = map[string]locale{
	"USD": {tag: language.AmericanEnglish, symbol: "$"},
	"GBP": {tag: language.BritishEnglish, symbol: "£"},
	"INR": {tag: language.MustParse("en-IN"), symbol: "₹"},
	"EUR": {tag: language.German, symbol: "€", symbolAfter: true},
}

// Supported reports whether code is a valid ISO 4217 currency code.
func Supported(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

func lookup(code string) locale {
	code = strings.ToUpper(code)
	if l, ok := locales[code]; ok {
		return l
	}
	if unit, err := currency.ParseISO(code); err == nil {
		return locale{tag: language.AmericanEnglish, symbol: unit.String() + " "}
	}
	return locale{tag: language.AmericanEnglish, symbol: code + " "}
}

// Format renders amount with two fraction digits in the currency's locale,
// e.g. "$1,234.50" or "1.234,50 €".
func Format(amount decimal.Decimal, code string) string {
	return format(amount, code, Places)
}

// FormatWhole renders amount without fraction digits, e.g. "$11,600".
func FormatWhole(amount decimal.Decimal, code string) string {
	return format(amount, code, 0)
}

func format(amount decimal.Decimal, code string, scale int) string {
	l := lookup(code)
	digits := groupDigits(l.tag, amount.Abs().Round(int32(scale)), scale)

	var b strings.Builder
	if amount.Round(int32(scale)).IsNegative() {
		b.WriteByte('-')
	}
	if l.symbolAfter {
		b.WriteString(digits)
		b.WriteString(" ")
		b.WriteString(l.symbol)
	} else {
		b.WriteString(l.symbol)
		b.WriteString(digits)
	}
	return b.String()
}

// FormatNumber groups the digits of n for the en-US locale, keeping up to
// two fraction digits.
func FormatNumber(n decimal.Decimal) string {
	n = n.Round(Places)
	p := message.NewPrinter(language.AmericanEnglish)
	digits := group(p, n.Abs().String())
	if n.IsNegative() {
		return "-" + digits
	}
	return digits
}

func groupDigits(tag language.Tag, d decimal.Decimal, scale int) string {
	return group(message.NewPrinter(tag), d.StringFixed(int32(scale)))
}

// group localizes a non-negative plain decimal string. The integer part is
// grouped by the printer's locale and the fraction digits are kept as
// given, so no precision is lost. Integer parts beyond uint64 are left
// ungrouped.
func group(p *message.Printer, plain string) string {
	whole, frac, _ := strings.Cut(plain, ".")
	if n, err := strconv.ParseUint(whole, 10, 64); err == nil {
		whole = p.Sprint(number.Decimal(n))
	}
	if frac == "" {
		return whole
	}
	return whole + decimalSeparator(p) + frac
}

func decimalSeparator(p *message.Printer) string {
	half := p.Sprint(number.Decimal(0.5, number.Scale(1)))
	return strings.TrimSuffix(strings.TrimPrefix(half, "0"), "5")
}
