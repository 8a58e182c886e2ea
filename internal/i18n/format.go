package i18n

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/arazdetector/mdbaku/internal/domain"
)

var printers = map[domain.Lang]*message.Printer{
	domain.LangRU: message.NewPrinter(language.Russian),
	domain.LangAZ: message.NewPrinter(language.Azerbaijani),
}

// Price formats an amount with the language's digit grouping and at most two decimals.
func Price(l domain.Lang, d decimal.Decimal) string {
	p, ok := printers[l]
	if !ok {
		p = printers[domain.DefaultLang]
	}
	f, _ := d.Round(2).Float64()
	return p.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}
