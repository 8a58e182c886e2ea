package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const homePosts = 3

// CatalogUC serves the storefront reads through the optional cache.
type CatalogUC struct {
	Products    domain.ProductRepo
	Categories  domain.CategoryRepo
	Collections domain.CollectionRepo
	Posts       domain.PostRepo
	Cache       domain.Cache
}

type Home struct {
	Nav   []domain.CategoryNav
	Rails []domain.Rail
	Posts []domain.PublicPost
}

func (uc *CatalogUC) Catalog(ctx context.Context, lang domain.Lang, f domain.CatalogFilter) (domain.CatalogPage, error) {
	f.Sort = domain.ParseSortMode(string(f.Sort))
	f.Search = strings.TrimSpace(f.Search)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Search != "" {
		// free-text queries are unbounded; only filter pages are cached
		return uc.Products.Catalog(ctx, lang, f)
	}
	return cached(uc.Cache, catalogKey(lang, f), func() (domain.CatalogPage, error) {
		return uc.Products.Catalog(ctx, lang, f)
	})
}

func catalogKey(lang domain.Lang, f domain.CatalogFilter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s|c=%s|q=%s|s=%s|p=%d|st=%t", keyCatalog, lang, f.Category, strings.ToLower(f.Search), f.Sort, f.Page, f.InStock)
	if f.MinPrice != nil {
		b.WriteString("|min=" + f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		b.WriteString("|max=" + f.MaxPrice.String())
	}
	return b.String()
}

func (uc *CatalogUC) NavCategories(ctx context.Context, lang domain.Lang) ([]domain.CategoryNav, error) {
	return cached(uc.Cache, keyNav+string(lang), func() ([]domain.CategoryNav, error) {
		return uc.Categories.Nav(ctx, lang)
	})
}

func (uc *CatalogUC) ProductBySlug(ctx context.Context, lang domain.Lang, slug string) (*domain.ProductDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	return cached(uc.Cache, keyProduct+string(lang)+":"+slug, func() (*domain.ProductDetail, error) {
		return uc.Products.PublicBySlug(ctx, lang, slug)
	})
}

// Card is the cart's view of a product.
func (uc *CatalogUC) Card(ctx context.Context, lang domain.Lang, id uint) (*domain.PublicProduct, error) {
	return cached(uc.Cache, fmt.Sprintf("%s%s:%d", keyCard, lang, id), func() (*domain.PublicProduct, error) {
		return uc.Products.CardByID(ctx, lang, id)
	})
}

func (uc *CatalogUC) CollectionRail(ctx context.Context, lang domain.Lang, key string) (*domain.Rail, error) {
	return cached(uc.Cache, keyRail+string(lang)+":"+key, func() (*domain.Rail, error) {
		return uc.Collections.Rail(ctx, lang, key)
	})
}

// Home gathers the homepage blocks concurrently. A missing or inactive rail is skipped.
func (uc *CatalogUC) Home(ctx context.Context, lang domain.Lang) (*Home, error) {
	h := &Home{}
	keys := []string{domain.CollectionHits, domain.CollectionNew}
	rails := make([]*domain.Rail, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		h.Nav, err = uc.NavCategories(gctx, lang)
		return err
	})
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			r, err := uc.CollectionRail(gctx, lang, key)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil
				}
				return err
			}
			rails[i] = r
			return nil
		})
	}
	if uc.Posts != nil {
		g.Go(func() error {
			page, err := cached(uc.Cache, keyBlog+string(lang)+":1", func() (domain.PostPage, error) {
				return uc.Posts.Public(gctx, lang, 1)
			})
			if err != nil {
				return err
			}
			h.Posts = page.Rows
			if len(h.Posts) > homePosts {
				h.Posts = h.Posts[:homePosts]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, r := range rails {
		if r != nil && len(r.Items) > 0 {
			h.Rails = append(h.Rails, *r)
		}
	}
	return h, nil
}
