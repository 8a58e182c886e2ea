package usecase

import "github.com/arazdetector/mdbaku/internal/domain"

// Cache key prefixes. Admin writes revalidate every prefix whose pages show the changed data.
const (
	keyCatalog = "catalog:"
	keyProduct = "product:"
	keyCard    = "card:"
	keyNav     = "nav:"
	keyRail    = "rail:"
	keyBlog    = "blog:"
	keyPost    = "post:"
)

var (
	productKeys  = []string{keyCatalog, keyProduct, keyCard, keyRail}
	categoryKeys = []string{keyNav, keyCatalog, keyProduct, keyCard}
	postKeys     = []string{keyBlog, keyPost}
)

func cached[T any](c domain.Cache, key string, load func() (T, error)) (T, error) {
	if c != nil {
		if v, ok := c.Get(key); ok {
			if t, ok := v.(T); ok {
				return t, nil
			}
		}
	}
	v, err := load()
	if err == nil && c != nil {
		c.Set(key, v)
	}
	return v, err
}

func revalidate(r domain.Revalidator, prefixes ...string) {
	if r != nil {
		r.Revalidate(prefixes...)
	}
}
