package domain

import (
	"context"
	"io"
	"time"

	"golang.org/x/oauth2"
)

const (
	BucketProducts = "products"
	BucketBlog     = "blog"
)

type ProductRepo interface {
	Catalog(ctx context.Context, lang Lang, f CatalogFilter) (CatalogPage, error)
	PublicBySlug(ctx context.Context, lang Lang, slug string) (*ProductDetail, error)
	CardByID(ctx context.Context, lang Lang, id uint) (*PublicProduct, error)

	AdminList(ctx context.Context, q string, page, limit int, categoryID *uint) (AdminProductList, error)
	AdminGet(ctx context.Context, id uint) (*ProductEdit, error)
	All(ctx context.Context) ([]AdminProductRow, error)
	Count(ctx context.Context) (int64, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, p *Product, i18n []ProductI18n, collectionIDs []uint) error
	UpdateBase(ctx context.Context, p *Product) error
	UpsertI18n(ctx context.Context, row *ProductI18n) error
	SetCollections(ctx context.Context, productID uint, collectionIDs []uint) error
	ToggleActive(ctx context.Context, id uint) error
	ToggleStock(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error

	AddMedia(ctx context.Context, m *ProductMedia) error
	MediaByID(ctx context.Context, id uint) (*ProductMedia, error)
	DeleteMedia(ctx context.Context, id uint) error
	SetMainMedia(ctx context.Context, productID, mediaID uint) error
}

type CategoryRepo interface {
	Nav(ctx context.Context, lang Lang) ([]CategoryNav, error)
	AdminList(ctx context.Context) ([]AdminCategoryRow, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, c *Category, i18n []CategoryI18n) error
	Update(ctx context.Context, c *Category, i18n []CategoryI18n) error
	Delete(ctx context.Context, id uint) error
}

type CollectionRepo interface {
	List(ctx context.Context) ([]Collection, error)
	IDsByKeys(ctx context.Context, keys []string) ([]uint, error)
	Rail(ctx context.Context, lang Lang, key string) (*Rail, error)
}

type PostRepo interface {
	Public(ctx context.Context, lang Lang, page int) (PostPage, error)
	PublicBySlug(ctx context.Context, lang Lang, slug string) (*PostDetail, error)

	AdminList(ctx context.Context, q string, page, limit int) (AdminPostList, error)
	Get(ctx context.Context, id uint) (*PostEdit, error)
	Count(ctx context.Context) (int64, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, p *Post, i18n []PostI18n) error
	UpdateBase(ctx context.Context, id uint, slug string, active bool, publishedAt *time.Time) error
	UpsertI18n(ctx context.Context, row *PostI18n) error
	SetCover(ctx context.Context, id uint, url *string) error
	ToggleActive(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type ProfileRepo interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
}

// FileStorage is an object store addressed by bucket and slash-separated path.
type FileStorage interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (publicURL string, err error)
	Remove(ctx context.Context, bucket string, paths ...string) error
	List(ctx context.Context, bucket, folder string) ([]string, error)
	// PathFromURL turns a public URL produced by Upload back into its path inside bucket.
	PathFromURL(bucket, publicURL string) (string, error)
}

type Notifier interface {
	NotifyContact(ctx context.Context, req ContactRequest) error
}

// Revalidator drops cached reads whose keys start with any of the prefixes.
type Revalidator interface {
	Revalidate(prefixes ...string)
}

type Cache interface {
	Revalidator
	Get(key string) (any, bool)
	Set(key string, v any)
}

// IdentityProvider is the hosted e-mail/password sign-in used by the admin panel.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (Principal, *oauth2.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
	SignOut(ctx context.Context, accessToken string) error
}
