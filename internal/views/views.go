// Package views holds the html templates and static assets, embedded into the binary.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arazdetector/mdbaku/internal/domain"
	"github.com/arazdetector/mdbaku/internal/i18n"
)

//go:embed *.html admin/*.html static
var FS embed.FS

// SourceDir is where dev mode reads templates from, relative to the repository root.
const SourceDir = "internal/views"

func Static() fs.FS {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"t":     func(l domain.Lang, key string) string { return i18n.T(l, key) },
		"price": func(l domain.Lang, d decimal.Decimal) string { return i18n.Price(l, d) },
		"oldPrice": func(l domain.Lang, d decimal.NullDecimal) string {
			if !d.Valid || d.Decimal.IsZero() {
				return ""
			}
			return i18n.Price(l, d.Decimal)
		},
		"fixed": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"add":   func(a, b int) int { return a + b },
		"sub":   func(a, b int) int { return a - b },
		"img": func(u string) string {
			if strings.TrimSpace(u) == "" {
				return domain.PlaceholderImage
			}
			return strings.ReplaceAll(u, " ", "%20")
		},
		"html":     func(s string) template.HTML { return template.HTML(s) },
		"date":     func(t time.Time) string { return t.Format("02.01.2006") },
		"dateISO":  func(t time.Time) string { return t.Format("2006-01-02") },
		"sortKey":  func(s domain.SortMode) string { return "sort." + string(s) },
		"deref":    func(s *string) string { return derefString(s) },
		"uintOf":   func(p *uint) uint { return derefUint(p) },
		"video":    func(k domain.MediaKind) bool { return k == domain.MediaVideo },
		"ellipsis": func(n int) bool { return n == 0 },
		"dict":     dict,
	}
}

// dict builds a map from key/value pairs so partials can take more than one argument.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[k] = pairs[i+1]
	}
	return m, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefUint(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}

// Parse loads every template. In dev they are read from disk so edits show up on restart
// without a rebuild.
func Parse(dev bool) (*template.Template, error) {
	var src fs.FS = FS
	if dev {
		if _, err := os.Stat(SourceDir); err == nil {
			src = os.DirFS(SourceDir)
		}
	}
	return template.New("views").Funcs(Funcs()).ParseFS(src, "*.html", "admin/*.html")
}
