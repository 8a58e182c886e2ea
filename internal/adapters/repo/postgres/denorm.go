package postgres

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/arazdetector/mdbaku/internal/domain"
)

// cards turns product rows into catalog cards. Titles, main images and category titles are
// fetched in parallel; the row order of list is preserved.
func cards(ctx context.Context, db *gorm.DB, lang domain.Lang, list []domain.Product) ([]domain.PublicProduct, error) {
	out := make([]domain.PublicProduct, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(list))
	catIDs := []uint{}
	seenCat := map[uint]bool{}
	for _, p := range list {
		ids = append(ids, p.ID)
		if p.CategoryID != nil && !seenCat[*p.CategoryID] {
			seenCat[*p.CategoryID] = true
			catIDs = append(catIDs, *p.CategoryID)
		}
	}

	var (
		titles    map[uint]string
		images    map[uint]string
		catTitles = map[uint]string{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		titles, err = titlesFor(gctx, db, lang, ids)
		return err
	})
	g.Go(func() error {
		var err error
		images, err = mainImages(gctx, db, ids)
		return err
	})
	if len(catIDs) > 0 {
		g.Go(func() error {
			var rows []domain.CategoryI18n
			if err := db.WithContext(gctx).Where("category_id IN ? AND lang = ?", catIDs, lang).Find(&rows).Error; err != nil {
				return err
			}
			for _, c := range rows {
				catTitles[c.CategoryID] = c.Title
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range list {
		c := domain.PublicProduct{
			ID:            p.ID,
			Slug:          p.Slug,
			Price:         p.Price,
			OldPrice:      p.OldPrice,
			Currency:      p.Currency,
			InStock:       p.InStock,
			Title:         titles[p.ID],
			Image:         images[p.ID],
			CategoryTitle: lang.CatalogFallback(),
		}
		if c.Title == "" {
			c.Title = domain.NoTitle
		}
		if p.Badge != nil {
			c.Badge = *p.Badge
		}
		if p.CategoryID != nil {
			if t := catTitles[*p.CategoryID]; t != "" {
				c.CategoryTitle = t
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func titlesFor(ctx context.Context, db *gorm.DB, lang domain.Lang, ids []uint) (map[uint]string, error) {
	var rows []domain.ProductI18n
	if err := db.WithContext(ctx).Select("product_id", "title").
		Where("product_id IN ? AND lang = ?", ids, lang).Find(&rows).Error; err != nil {
		return nil, err
	}
	m := make(map[uint]string, len(rows))
	for _, t := range rows {
		m[t.ProductID] = t.Title
	}
	return m, nil
}

// mainImages picks one image per product: the main one, else the lowest sort order.
func mainImages(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]string, error) {
	var rows []domain.ProductMedia
	if err := db.WithContext(ctx).
		Where("product_id IN ? AND kind = ?", ids, domain.MediaImage).
		Order("is_main desc").Order("sort_order asc").Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	m := make(map[uint]string, len(ids))
	for _, r := range rows {
		if _, ok := m[r.ProductID]; !ok {
			m[r.ProductID] = r.URL
		}
	}
	return m, nil
}
