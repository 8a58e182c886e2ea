package domain

import "github.com/shopspring/decimal"

const (
	CollectionHits = "hits"
	CollectionNew  = "new"

	PlaceholderImage = "https://via.placeholder.com/400x400?text=No+Image"
)

type Collection struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"uniqueIndex;size:60;not null"`
	TitleRU   string `gorm:"column:title_ru;size:255"`
	TitleAZ   string `gorm:"column:title_az;size:255"`
	IsActive  bool   `gorm:"not null"`
	SortOrder int    `gorm:"not null"`
}

func (Collection) TableName() string { return "collections" }

func (c Collection) Title(l Lang) string {
	if l == LangRU || c.TitleAZ == "" {
		return c.TitleRU
	}
	return c.TitleAZ
}

type CollectionProduct struct {
	CollectionID uint `gorm:"primaryKey;autoIncrement:false"`
	ProductID    uint `gorm:"primaryKey;autoIncrement:false;index"`
	SortOrder    int  `gorm:"not null"`
}

func (CollectionProduct) TableName() string { return "collection_products" }

// RailItem is a product card in a homepage collection rail.
type RailItem struct {
	ID    uint
	Slug  string
	Title string
	Price decimal.Decimal
	Image string
	Badge string
}

type Rail struct {
	Key   string
	Title string
	Items []RailItem
}
