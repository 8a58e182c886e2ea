package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "AZN"
	CatalogPageSize = 12
	RelatedLimit    = 4
	NoTitle         = "No Title"
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

type Product struct {
	ID         uint                `gorm:"primaryKey"`
	Slug       string              `gorm:"uniqueIndex;size:160;not null"`
	Price      decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	OldPrice   decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Currency   string              `gorm:"size:8;not null"`
	InStock    bool                `gorm:"not null;index"`
	IsActive   bool                `gorm:"not null;index"`
	Badge      *string             `gorm:"size:60"`
	Popularity int                 `gorm:"not null;index"`
	CategoryID *uint               `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Product) TableName() string { return "products" }

type ProductI18n struct {
	ProductID   uint              `gorm:"primaryKey;autoIncrement:false"`
	Lang        Lang              `gorm:"primaryKey;size:2"`
	Title       string            `gorm:"size:255;not null"`
	Description *string           `gorm:"type:text"`
	Specs       map[string]string `gorm:"type:jsonb;serializer:json"`
	SeoTitle    *string           `gorm:"size:255"`
	SeoDesc     *string           `gorm:"type:text"`
}

func (ProductI18n) TableName() string { return "product_i18n" }

type ProductMedia struct {
	ID        uint      `gorm:"primaryKey"`
	ProductID uint      `gorm:"index;not null"`
	URL       string    `gorm:"type:text;not null"`
	Kind      MediaKind `gorm:"size:10;not null"`
	SortOrder int       `gorm:"not null"`
	IsMain    bool      `gorm:"not null"`
}

func (ProductMedia) TableName() string { return "product_media" }

type SortMode string

const (
	SortPopular   SortMode = "popular"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
	SortNew       SortMode = "new"
)

// ParseSortMode maps unknown values to SortPopular.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortPriceAsc, SortPriceDesc, SortNew:
		return SortMode(s)
	}
	return SortPopular
}

type CatalogFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  bool
	Search   string
	Sort     SortMode
	Page     int
}

// PublicProduct is the denormalized card row rendered by catalog pages.
type PublicProduct struct {
	ID            uint
	Slug          string
	Price         decimal.Decimal
	OldPrice      decimal.NullDecimal
	Currency      string
	InStock       bool
	Badge         string
	Title         string
	Image         string
	CategoryTitle string
}

type CatalogPage struct {
	Rows       []PublicProduct
	TotalCount int64
	Page       int
	PageSize   int
}

func (p CatalogPage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}

type MediaItem struct {
	URL  string
	Kind MediaKind
}

type ProductDetail struct {
	PublicProduct
	CategorySlug string
	Description  string
	Specs        map[string]string
	Media        []MediaItem
	SeoTitle     string
	SeoDesc      string
	Related      []PublicProduct
}

type AdminProductRow struct {
	Product
	TitleRU string
	TitleAZ string
}

type AdminProductList struct {
	Rows       []AdminProductRow
	TotalCount int64
}

type ProductEdit struct {
	Product               Product
	I18n                  []ProductI18n
	Media                 []ProductMedia
	Collections           []Collection
	SelectedCollectionIDs []uint
}

// ProductInput is the admin product form. Numbers stay strings until coercion.
type ProductInput struct {
	Slug        string   `schema:"slug" validate:"max=160"`
	TitleRU     string   `schema:"title_ru" validate:"max=255"`
	TitleAZ     string   `schema:"title_az" validate:"max=255"`
	CategoryID  string   `schema:"category_id" validate:"omitempty,number"`
	Price       string   `schema:"price" validate:"omitempty,numeric"`
	OldPrice    string   `schema:"old_price" validate:"omitempty,numeric"`
	Badge       string   `schema:"badge" validate:"max=60"`
	Popularity  string   `schema:"popularity" validate:"omitempty,number"`
	IsActive    bool     `schema:"is_active"`
	InStock     bool     `schema:"in_stock"`
	Collections []string `schema:"collections"`
}

type ProductI18nInput struct {
	Title       string `schema:"title" validate:"required,max=255"`
	Description string `schema:"description"`
	Specs       string `schema:"specs"`
	SeoTitle    string `schema:"seo_title" validate:"max=255"`
	SeoDesc     string `schema:"seo_desc"`
}
