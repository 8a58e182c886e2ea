package cart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/arazdetector/mdbaku/internal/domain"
)

type checkoutText struct {
	greeting string
	total    string
}

var checkoutTexts = map[domain.Lang]checkoutText{
	domain.LangRU: {greeting: "Здравствуйте! Я хочу оформить заказ:", total: "Общая сумма"},
	domain.LangAZ: {greeting: "Salam! Mən sifariş vermək istəyirəm:", total: "Ümumi məbləğ"},
}

// Message renders the order text sent to the shop's WhatsApp.
func Message(c Cart, lang domain.Lang, origin string) string {
	txt, ok := checkoutTexts[lang]
	if !ok {
		txt = checkoutTexts[domain.DefaultLang]
	}
	origin = strings.TrimRight(origin, "/")
	var b strings.Builder
	b.WriteString(txt.greeting)
	b.WriteString("\n\n")
	for i, it := range c.Items {
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, it.Title)
		fmt.Fprintf(&b, "   %d x %s = %s ₼\n", it.Quantity, it.Price.String(), it.Subtotal().String())
		fmt.Fprintf(&b, "   🔗 %s/%s/products/%s\n\n", origin, lang, it.Slug)
	}
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "%s: *%s ₼*", txt.total, c.TotalPrice().String())
	return b.String()
}

// CheckoutLink is the wa.me deep link carrying Message. Spaces are sent as %20;
// WhatsApp shows a literal plus for the form encoding.
func CheckoutLink(c Cart, lang domain.Lang, origin, phone string) string {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	text := strings.ReplaceAll(url.QueryEscape(Message(c, lang, origin)), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + text
}
