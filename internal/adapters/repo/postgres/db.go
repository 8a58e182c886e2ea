package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arazdetector/mdbaku/internal/config"
	"github.com/arazdetector/mdbaku/internal/domain"
)

// Open connects to postgres, or to a sqlite file when DB_DRIVER=sqlite (local development).
func Open(cfg config.DB, verbose bool) (*gorm.DB, error) {
	lvl := logger.Warn
	if verbose {
		lvl = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(lvl)}
	var dial gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dial = sqlite.Open(cfg.SQLitePath)
	case "", "postgres":
		dial = postgres.Open(cfg.Dsn())
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
	}
	db, err := gorm.Open(dial, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Driver == "sqlite" {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Category{}, &domain.CategoryI18n{},
		&domain.Product{}, &domain.ProductI18n{}, &domain.ProductMedia{},
		&domain.Collection{}, &domain.CollectionProduct{},
		&domain.Post{}, &domain.PostI18n{},
		&domain.Profile{},
	); err != nil {
		return err
	}
	if db.Dialector.Name() == "postgres" {
		_ = db.Exec("CREATE INDEX IF NOT EXISTS idx_product_i18n_title_lower ON product_i18n (LOWER(title))").Error
		_ = db.Exec("CREATE INDEX IF NOT EXISTS idx_post_i18n_title_lower ON post_i18n (LOWER(title))").Error
		_ = db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_product_media_main ON product_media (product_id) WHERE is_main").Error
	}
	return nil
}

// SeedCollections makes sure the homepage rails exist.
func SeedCollections(db *gorm.DB) error {
	cols := []domain.Collection{
		{Key: domain.CollectionHits, TitleRU: "Хиты продаж", TitleAZ: "Ən çox satılanlar", IsActive: true, SortOrder: 1},
		{Key: domain.CollectionNew, TitleRU: "Новинки", TitleAZ: "Yeni modellər", IsActive: true, SortOrder: 2},
	}
	for _, c := range cols {
		var n int64
		if err := db.Model(&domain.Collection{}).Where("key = ?", c.Key).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if err := db.Create(&c).Error; err != nil {
			return err
		}
		log.Info().Str("key", c.Key).Msg("seeded collection")
	}
	return nil
}

// translate maps driver errors onto domain sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

func pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return (page - 1) * limit, limit
}

func likePattern(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(q)
	return "%" + q + "%"
}
