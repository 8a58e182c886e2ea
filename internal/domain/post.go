package domain

import "time"

const (
	BlogPageSize = 9
	ExcerptRunes = 200
)

type Post struct {
	ID          uint      `gorm:"primaryKey"`
	Slug        string    `gorm:"uniqueIndex;size:200;not null"`
	IsActive    bool      `gorm:"not null;index"`
	PublishedAt time.Time `gorm:"index"`
	CoverImage  *string   `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Post) TableName() string { return "posts" }

type PostI18n struct {
	PostID   uint    `gorm:"primaryKey;autoIncrement:false"`
	Lang     Lang    `gorm:"primaryKey;size:2"`
	Title    string  `gorm:"size:255;not null"`
	Excerpt  string  `gorm:"type:text"`
	Content  string  `gorm:"type:text"`
	SeoTitle *string `gorm:"size:255"`
	SeoDesc  *string `gorm:"type:text"`
}

func (PostI18n) TableName() string { return "post_i18n" }

type PublicPost struct {
	ID          uint
	Slug        string
	CoverImage  string
	PublishedAt time.Time
	Title       string
	Excerpt     string
}

type PostDetail struct {
	PublicPost
	Content  string
	SeoTitle string
	SeoDesc  string
}

type PostPage struct {
	Rows       []PublicPost
	TotalCount int64
	Page       int
	PageSize   int
}

func (p PostPage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}

type AdminPostRow struct {
	Post
	TitleRU string
	TitleAZ string
}

type AdminPostList struct {
	Rows       []AdminPostRow
	TotalCount int64
}

type PostEdit struct {
	Post Post
	I18n []PostI18n
}

type PostCreateInput struct {
	Slug    string `schema:"slug" validate:"max=200"`
	TitleRU string `schema:"title_ru" validate:"required,max=255"`
	TitleAZ string `schema:"title_az" validate:"max=255"`
}

type PostBaseInput struct {
	Slug        string `schema:"slug" validate:"required,max=200"`
	IsActive    bool   `schema:"is_active"`
	PublishedAt string `schema:"published_at" validate:"omitempty,datetime=2006-01-02"`
}

type PostI18nInput struct {
	Title    string `schema:"title" validate:"required,max=255"`
	Excerpt  string `schema:"excerpt"`
	Content  string `schema:"content"`
	SeoTitle string `schema:"seo_title" validate:"max=255"`
	SeoDesc  string `schema:"seo_desc"`
}
