package domain

type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"uniqueIndex;size:160;not null"`
	SortOrder int    `gorm:"not null"`
}

func (Category) TableName() string { return "categories" }

type CategoryI18n struct {
	CategoryID uint   `gorm:"primaryKey;autoIncrement:false"`
	Lang       Lang   `gorm:"primaryKey;size:2"`
	Title      string `gorm:"size:255;not null"`
}

func (CategoryI18n) TableName() string { return "category_i18n" }

type CategoryNav struct {
	ID    uint
	Slug  string
	Title string
}

type AdminCategoryRow struct {
	Category
	TitleRU       string
	TitleAZ       string
	ProductsCount int64
}

type CategoryInput struct {
	Slug      string `schema:"slug" validate:"max=160"`
	TitleRU   string `schema:"title_ru" validate:"required,max=255"`
	TitleAZ   string `schema:"title_az" validate:"max=255"`
	SortOrder string `schema:"sort_order" validate:"omitempty,number"`
}
