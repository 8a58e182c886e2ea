package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/arazdetector/mdbaku/internal/cart"
	"github.com/arazdetector/mdbaku/internal/domain"
	"github.com/arazdetector/mdbaku/internal/i18n"
	"github.com/arazdetector/mdbaku/internal/usecase"
)

// OAuthProvider is the optional third-party admin sign-in.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (domain.Principal, *oauth2.Token, error)
}

type Deps struct {
	Templates  *template.Template
	Static     fs.FS
	Uploads    http.Handler
	Catalog    *usecase.CatalogUC
	Blog       *usecase.BlogUC
	Products   *usecase.ProductAdminUC
	Categories *usecase.CategoryAdminUC
	Posts      *usecase.PostAdminUC
	Media      *usecase.MediaUC
	Contact    *usecase.ContactUC
	Identity   domain.IdentityProvider
	OAuth      OAuthProvider
	Carts      *cart.CookieStore
	SessionKey []byte
	BaseURL    string
	WhatsApp   string
	Secure     bool
	Now        func() time.Time
}

type Server struct {
	Deps
	router chi.Router
}

func New(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}
	s := &Server{Deps: d, router: chi.NewRouter()}
	s.routes()
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(i18n.Redirect)

	r.NotFound(s.handleNotFound)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.Static))))
	}
	if s.Uploads != nil {
		r.Handle("/uploads/*", s.Uploads)
	}

	r.Route("/admin", s.adminRoutes)

	r.Route("/{lang}", func(r chi.Router) {
		r.Use(s.withLang)
		r.Get("/", s.handleHome)
		r.Get("/products", s.handleProducts)
		r.Get("/products/{slug}", s.handleProduct)
		r.Get("/blog", s.handleBlog)
		r.Get("/blog/{slug}", s.handlePost)
		r.Get("/about", s.handleStatic("about"))
		r.Get("/privacy", s.handleStatic("privacy"))
		r.Get("/terms", s.handleStatic("terms"))
		r.Get("/contacts", s.handleContacts)
		r.Post("/contacts", s.handleContactSubmit)

		r.Get("/cart", s.handleCart)
		r.Get("/cart/checkout", s.handleCartCheckout)
		r.Post("/cart/add", s.handleCartAdd)
		r.Post("/cart/decrease", s.handleCartDecrease)
		r.Post("/cart/remove", s.handleCartRemove)
		r.Post("/cart/close", s.handleCartClose)
	})
}

func accessLog(next http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = hlog.FromRequest(r).Error()
		case status >= 400:
			ev = hlog.FromRequest(r).Warn()
		default:
			ev = hlog.FromRequest(r).Debug()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("req_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("dur", d).
			Msg("http")
	})(next)
}

type langKey struct{}

func (s *Server) withLang(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "lang")
		l, ok := domain.ParseLang(raw)
		if !ok || raw != string(l) {
			s.handleNotFound(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), langKey{}, l)))
	})
}

func langOf(r *http.Request) domain.Lang {
	if l, ok := r.Context().Value(langKey{}).(domain.Lang); ok {
		return l
	}
	return domain.DefaultLang
}

// render fills the fields every layout reads and executes the named template.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	l := langOf(r)
	data["Lang"] = l
	data["Year"] = s.Now().Year()
	data["Path"] = r.URL.Path
	data["OtherLang"] = i18n.Other(l)
	data["OtherURL"] = switchLangURL(r.URL.Path, r.URL.RawQuery, i18n.Other(l))
	if p, ok := domain.PrincipalFrom(r.Context()); ok {
		data["Principal"] = p
	}
	if !strings.HasPrefix(r.URL.Path, "/admin") {
		if _, ok := data["Cart"]; !ok && s.Carts != nil {
			c, err := s.loadCart(r)
			if err != nil {
				log.Warn().Err(err).Msg("cart hydrate")
				c = cart.Cart{}
			}
			data["Cart"] = &c
		}
		if _, ok := data["Nav"]; !ok && s.Catalog != nil {
			nav, err := s.Catalog.NavCategories(r.Context(), l)
			if err != nil {
				log.Warn().Err(err).Msg("nav categories")
			}
			data["Nav"] = nav
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
	}
}

func switchLangURL(path, rawQuery string, to domain.Lang) string {
	rest := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[i:]
	} else {
		rest = ""
	}
	u := "/" + string(to) + rest
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/admin") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.render(w, r, http.StatusNotFound, "notfound.html", nil)
}

// fail maps domain errors onto responses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		http.Redirect(w, r, "/admin/login", http.StatusFound)
	case errors.Is(err, domain.ErrForbidden):
		s.render(w, r, http.StatusForbidden, "admin_denied.html", nil)
	case errors.Is(err, domain.ErrNotFound):
		s.handleNotFound(w, r)
	case errors.Is(err, domain.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func paramID(r *http.Request, key string) (uint, error) {
	n, err := strconv.ParseUint(chi.URLParam(r, key), 10, 64)
	if err != nil || n == 0 {
		return 0, domain.ErrNotFound
	}
	return uint(n), nil
}
