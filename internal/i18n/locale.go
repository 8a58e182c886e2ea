// Package i18n negotiates the storefront language and holds the UI dictionaries.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const (
	CookieName = "lang"
	cookieAge  = 60 * 60 * 24 * 365
)

var matcher = language.NewMatcher([]language.Tag{
	language.Azerbaijani, // first tag is the fallback
	language.Russian,
})

// Negotiate picks a language from the cookie, then Accept-Language, then the default.
func Negotiate(r *http.Request) domain.Lang {
	if c, err := r.Cookie(CookieName); err == nil {
		if l, ok := domain.ParseLang(c.Value); ok {
			return l
		}
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		tags, _, err := language.ParseAcceptLanguage(h)
		if err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				return domain.SupportedLangs[idx]
			}
		}
	}
	return domain.DefaultLang
}

func SetCookie(w http.ResponseWriter, l domain.Lang) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(l),
		Path:     "/",
		MaxAge:   cookieAge,
		SameSite: http.SameSiteLaxMode,
	})
}

var passthrough = []string{"/admin", "/static", "/uploads", "/healthz"}

func skip(path string) bool {
	for _, p := range passthrough {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Contains(last, ".")
}

// Redirect makes every storefront URL carry a language prefix. Prefixed requests refresh
// the cookie; the rest get a 302 to the negotiated language, query preserved.
func Redirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if skip(path) {
			next.ServeHTTP(w, r)
			return
		}
		seg := strings.TrimPrefix(path, "/")
		if i := strings.IndexByte(seg, '/'); i >= 0 {
			seg = seg[:i]
		}
		if l, ok := domain.ParseLang(seg); ok && seg == string(l) {
			if c, err := r.Cookie(CookieName); err != nil || c.Value != seg {
				SetCookie(w, l)
			}
			next.ServeHTTP(w, r)
			return
		}
		l := Negotiate(r)
		SetCookie(w, l)
		target := "/" + string(l)
		if path != "/" {
			target += path
		}
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusFound)
	})
}
