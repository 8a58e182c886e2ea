package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/sync/errgroup"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const (
	stateCookie    = "oauth_state"
	adminPageLimit = 20
)

func (s *Server) adminRoutes(r chi.Router) {
	r.Use(s.adminSession)

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/auth/google/login", s.handleGoogleLogin)
	r.Get("/auth/google/callback", s.handleGoogleCallback)

	r.Get("/", s.handleDashboard)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.handleAdminProducts)
		r.Get("/export.xlsx", s.handleAdminExport)
		r.Get("/new", s.handleAdminProductNew)
		r.Post("/new", s.handleAdminProductCreate)
		r.Get("/{id}", s.handleAdminProduct)
		r.Post("/{id}/base", s.handleAdminProductBase)
		r.Post("/{id}/i18n/{lang}", s.handleAdminProductI18n)
		r.Post("/{id}/collections", s.handleAdminProductCollections)
		r.Post("/{id}/media", s.handleAdminProductMedia)
		r.Post("/{id}/media/{mediaID}/delete", s.handleAdminMediaDelete)
		r.Post("/{id}/media/{mediaID}/main", s.handleAdminMediaMain)
		r.Post("/{id}/toggle-active", s.handleAdminProductToggle(true))
		r.Post("/{id}/toggle-stock", s.handleAdminProductToggle(false))
		r.Post("/{id}/delete", s.handleAdminProductDelete)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.handleAdminCategories)
		r.Post("/", s.handleAdminCategoryCreate)
		r.Post("/{id}", s.handleAdminCategoryUpdate)
		r.Post("/{id}/delete", s.handleAdminCategoryDelete)
	})

	r.Route("/blog", func(r chi.Router) {
		r.Get("/", s.handleAdminPosts)
		r.Get("/new", s.handleAdminPostNew)
		r.Post("/new", s.handleAdminPostCreate)
		r.Get("/{id}", s.handleAdminPost)
		r.Post("/{id}/base", s.handleAdminPostBase)
		r.Post("/{id}/i18n/{lang}", s.handleAdminPostI18n)
		r.Post("/{id}/cover", s.handleAdminPostCover)
		r.Post("/{id}/cover/delete", s.handleAdminPostCoverDelete)
		r.Post("/{id}/toggle", s.handleAdminPostToggle)
		r.Post("/{id}/delete", s.handleAdminPostDelete)
	})
}

// renderAdmin adds the post-redirect notices to data.
func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	q := r.URL.Query()
	data["Saved"] = q.Get("ok") == "1"
	data["Error"] = q.Get("error")
	s.render(w, r, http.StatusOK, name, data)
}

// done finishes an admin form post: back to target, with the error as a notice when the
// input was rejected.
func (s *Server) done(w http.ResponseWriter, r *http.Request, target string, err error) {
	switch {
	case err == nil:
		http.Redirect(w, r, withFlash(target, "ok", "1"), http.StatusSeeOther)
	case errors.Is(err, domain.ErrInvalid), errors.Is(err, domain.ErrConflict):
		http.Redirect(w, r, withFlash(target, "error", err.Error()), http.StatusSeeOther)
	default:
		s.fail(w, r, err)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := domain.PrincipalFrom(r.Context()); ok {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	s.loginPage(w, r, http.StatusOK, "")
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.render(w, r, status, "admin_login.html", map[string]any{
		"Google":        s.OAuth != nil,
		"PasswordLogin": s.Identity != nil,
		"LoginError":    msg,
		"Email":         r.PostFormValue("email"),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	if s.Identity == nil {
		s.loginPage(w, r, http.StatusServiceUnavailable, "Вход по паролю не настроен")
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	pass := r.PostFormValue("password")
	if email == "" || pass == "" {
		s.loginPage(w, r, http.StatusBadRequest, "Введите email и пароль")
		return
	}
	p, tok, err := s.Identity.SignIn(r.Context(), email, pass)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.loginPage(w, r, http.StatusUnauthorized, "Неверный email или пароль")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("sign in")
		s.loginPage(w, r, http.StatusBadGateway, "Сервис авторизации недоступен")
		return
	}
	sess := newSession(p, tok)
	s.writeSession(w, &sess)
	hlog.FromRequest(r).Info().Str("email", p.Email).Msg("admin signed in")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := s.readSession(r); sess != nil && s.Identity != nil && sess.Principal.Provider == domain.ProviderPassword && sess.AccessToken != "" {
		if err := s.Identity.SignOut(r.Context(), sess.AccessToken); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("sign out")
		}
	}
	s.writeSession(w, nil)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.OAuth == nil {
		http.NotFound(w, r)
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: state, Path: "/admin/auth/google", MaxAge: 300, HttpOnly: true, Secure: s.Secure, SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, s.OAuth.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.OAuth == nil {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie(stateCookie)
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		http.Error(w, "state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/admin/auth/google", MaxAge: -1, HttpOnly: true, Secure: s.Secure})
	p, tok, err := s.OAuth.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("google sign in")
		s.loginPage(w, r, http.StatusUnauthorized, "Не удалось войти через Google")
		return
	}
	sess := newSession(p, tok)
	s.writeSession(w, &sess)
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		products, posts int64
		categories      int
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		products, err = s.Products.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = s.Posts.Count(ctx)
		return err
	})
	g.Go(func() error {
		list, err := s.Categories.List(ctx)
		categories = len(list)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderAdmin(w, r, "admin_dashboard.html", map[string]any{
		"Products":   products,
		"Posts":      posts,
		"Categories": categories,
	})
}
