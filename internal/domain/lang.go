package domain

import "strings"

type Lang string

const (
	LangAZ Lang = "az"
	LangRU Lang = "ru"

	DefaultLang = LangAZ
)

var SupportedLangs = []Lang{LangAZ, LangRU}

// ParseLang accepts only the storefront languages.
func ParseLang(s string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case LangAZ:
		return LangAZ, true
	case LangRU:
		return LangRU, true
	}
	return "", false
}

func (l Lang) String() string { return string(l) }

// CatalogFallback is the category label shown when a product has no category title.
func (l Lang) CatalogFallback() string {
	if l == LangRU {
		return "Каталог"
	}
	return "Kataloq"
}
