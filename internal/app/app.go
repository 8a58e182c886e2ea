// Package app wires configuration, adapters and usecases into the HTTP handler.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/arazdetector/mdbaku/internal/adapters/cache/memory"
	"github.com/arazdetector/mdbaku/internal/adapters/google"
	"github.com/arazdetector/mdbaku/internal/adapters/httpserver"
	"github.com/arazdetector/mdbaku/internal/adapters/notify/mail"
	"github.com/arazdetector/mdbaku/internal/adapters/notify/telegram"
	"github.com/arazdetector/mdbaku/internal/adapters/repo/postgres"
	"github.com/arazdetector/mdbaku/internal/adapters/storage/cloudinary"
	"github.com/arazdetector/mdbaku/internal/adapters/storage/localfs"
	"github.com/arazdetector/mdbaku/internal/adapters/supabase"
	"github.com/arazdetector/mdbaku/internal/cart"
	"github.com/arazdetector/mdbaku/internal/config"
	"github.com/arazdetector/mdbaku/internal/domain"
	"github.com/arazdetector/mdbaku/internal/usecase"
	"github.com/arazdetector/mdbaku/internal/views"
)

type App struct {
	Cfg     *config.Config
	DB      *gorm.DB
	Cache   *memory.Cache
	Storage domain.FileStorage
	uploads http.Handler
	deps    httpserver.Deps
}

// New opens the database, migrates it and builds the app.
func New(cfg *config.Config) (*App, error) {
	db, err := postgres.Open(cfg.DB, cfg.IsDev())
	if err != nil {
		return nil, err
	}
	return NewWithDB(cfg, db)
}

func NewWithDB(cfg *config.Config, db *gorm.DB) (*App, error) {
	if err := cfg.CheckSessionKey(); err != nil {
		return nil, err
	}
	if err := postgres.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := postgres.SeedCollections(db); err != nil {
		return nil, fmt.Errorf("seed collections: %w", err)
	}

	products := postgres.NewProductRepo(db)
	categories := postgres.NewCategoryRepo(db)
	collections := postgres.NewCollectionRepo(db)
	posts := postgres.NewPostRepo(db)
	profiles := postgres.NewProfileRepo(db)

	if err := bootstrapAdmin(context.Background(), profiles, cfg.Admin); err != nil {
		return nil, err
	}

	a := &App{Cfg: cfg, DB: db, Cache: memory.New(cfg.CacheTTL)}
	storage, uploads, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}
	a.Storage, a.uploads = storage, uploads

	tpl, err := views.Parse(cfg.IsDev())
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	guard := &usecase.Guard{Profiles: profiles}
	a.deps = httpserver.Deps{
		Templates:  tpl,
		Static:     views.Static(),
		Uploads:    uploads,
		Catalog:    &usecase.CatalogUC{Products: products, Categories: categories, Collections: collections, Posts: posts, Cache: a.Cache},
		Blog:       &usecase.BlogUC{Repo: posts, Cache: a.Cache},
		Products:   &usecase.ProductAdminUC{Guard: guard, Products: products, Categories: categories, Collections: collections, Storage: storage, Cache: a.Cache},
		Categories: &usecase.CategoryAdminUC{Guard: guard, Categories: categories, Cache: a.Cache},
		Posts:      &usecase.PostAdminUC{Guard: guard, Posts: posts, Storage: storage, Cache: a.Cache},
		Media:      &usecase.MediaUC{Guard: guard, Products: products, Posts: posts, Storage: storage, Cache: a.Cache},
		Contact:    newContactUC(cfg),
		Carts:      cart.NewCookieStore([]byte(cfg.SessionKey), !cfg.IsDev()),
		SessionKey: []byte(cfg.SessionKey),
		BaseURL:    cfg.BaseURL,
		WhatsApp:   cfg.WhatsAppPhone,
		Secure:     !cfg.IsDev(),
	}
	if cfg.Supabase.URL != "" && cfg.Supabase.AnonKey != "" {
		a.deps.Identity = supabase.NewAuth(supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey))
	}
	// a nil *google.OAuth must stay out of the interface
	if g := google.New(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.BaseURL+"/admin/auth/google/callback"); g != nil {
		a.deps.OAuth = g
	}
	if cfg.SessionKey == config.DevSessionKey {
		log.Warn().Msg("SESSION_KEY is not set; admin and cart cookies use the development key")
	}
	log.Info().
		Str("storage", cfg.Storage.Driver).
		Bool("password_login", a.deps.Identity != nil).
		Bool("google_login", a.deps.OAuth != nil).
		Bool("telegram", a.deps.Contact.Primary != nil).
		Bool("smtp", a.deps.Contact.Fallback != nil).
		Msg("app configured")
	return a, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.deps)
}

func newStorage(cfg *config.Config) (domain.FileStorage, http.Handler, error) {
	switch cfg.Storage.Driver {
	case "supabase":
		if cfg.Supabase.URL == "" || cfg.Supabase.ServiceKey == "" {
			return nil, nil, fmt.Errorf("STORAGE_DRIVER=supabase needs SUPABASE_URL and SUPABASE_SERVICE_KEY")
		}
		return supabase.NewStorage(supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)), nil, nil
	case "cloudinary":
		s, err := cloudinary.New(cfg.Storage.CloudinaryURL)
		if err != nil {
			return nil, nil, fmt.Errorf("cloudinary: %w", err)
		}
		return s, nil, nil
	case "", "local":
		s, err := localfs.New(cfg.Storage.Dir, cfg.BaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("local storage: %w", err)
		}
		return s, s.Handler(), nil
	}
	return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
}

func newContactUC(cfg *config.Config) *usecase.ContactUC {
	uc := &usecase.ContactUC{}
	if cfg.Telegram.Token != "" && len(cfg.Telegram.ChatIDs) > 0 {
		uc.Primary = telegram.New(cfg.Telegram.Token, cfg.Telegram.ChatIDs)
	}
	if cfg.SMTP.Host != "" && cfg.SMTP.NotifyTo != "" {
		uc.Fallback = mail.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.NotifyTo)
	}
	if uc.Primary == nil && uc.Fallback == nil {
		log.Warn().Msg("no TELEGRAM_* or SMTP_* settings; contact form submissions will fail")
	}
	return uc
}

type profileSaver interface {
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Save(ctx context.Context, p *domain.Profile) error
}

// bootstrapAdmin makes sure ADMIN_EMAIL can sign in. Without ADMIN_USER_ID the e-mail is the
// row id, which only Google sign-in matches.
func bootstrapAdmin(ctx context.Context, profiles profileSaver, adm config.Admin) error {
	if adm.Email == "" {
		return nil
	}
	if p, err := profiles.FindByEmail(ctx, adm.Email); err == nil && p.Role == domain.RoleAdmin && (adm.UserID == "" || p.ID == adm.UserID) {
		return nil
	}
	id := adm.UserID
	if id == "" {
		id = adm.Email
	}
	if err := profiles.Save(ctx, &domain.Profile{ID: id, Email: adm.Email, Role: domain.RoleAdmin}); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Info().Str("email", adm.Email).Msg("admin profile bootstrapped")
	return nil
}
