package postgres

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const likeEscaped = "LIKE ? ESCAPE '\\'"

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

// Catalog runs the public listing query: search and category narrowing first, then filters,
// count, sort and page, then concurrent lookups of titles, main images and category names.
func (r *ProductRepo) Catalog(ctx context.Context, lang domain.Lang, f domain.CatalogFilter) (domain.CatalogPage, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	out := domain.CatalogPage{Rows: []domain.PublicProduct{}, Page: page, PageSize: domain.CatalogPageSize}
	db := r.db.WithContext(ctx)

	var searchIDs []uint
	search := strings.TrimSpace(f.Search)
	if search != "" {
		if err := db.Model(&domain.ProductI18n{}).
			Where("lang = ? AND LOWER(title) "+likeEscaped, lang, likePattern(search)).
			Pluck("product_id", &searchIDs).Error; err != nil {
			return out, err
		}
		if len(searchIDs) == 0 {
			return out, nil
		}
	}

	var categoryID *uint
	if slug := strings.TrimSpace(f.Category); slug != "" {
		var cat domain.Category
		err := db.Select("id").Where("slug = ?", slug).Take(&cat).Error
		if err != nil {
			if translate(err) == domain.ErrNotFound {
				return out, nil
			}
			return out, err
		}
		categoryID = &cat.ID
	}

	q := db.Model(&domain.Product{}).Where("is_active = ?", true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.InStock {
		q = q.Where("in_stock = ?", true)
	}
	if searchIDs != nil {
		q = q.Where("id IN ?", searchIDs)
	}
	if err := q.Count(&out.TotalCount).Error; err != nil {
		return out, err
	}
	if out.TotalCount == 0 {
		return out, nil
	}

	switch f.Sort {
	case domain.SortPriceAsc:
		q = q.Order("price asc")
	case domain.SortPriceDesc:
		q = q.Order("price desc")
	case domain.SortNew:
		q = q.Order("created_at desc")
	default:
		q = q.Order("popularity desc")
	}
	var list []domain.Product
	if err := q.Order("id desc").
		Offset((page - 1) * domain.CatalogPageSize).Limit(domain.CatalogPageSize).
		Find(&list).Error; err != nil {
		return out, err
	}
	rows, err := cards(ctx, r.db, lang, list)
	if err != nil {
		return out, err
	}
	out.Rows = rows
	return out, nil
}

func (r *ProductRepo) PublicBySlug(ctx context.Context, lang domain.Lang, slug string) (*domain.ProductDetail, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true).Take(&p).Error; err != nil {
		return nil, translate(err)
	}

	var (
		card    []domain.PublicProduct
		tr      domain.ProductI18n
		media   []domain.ProductMedia
		catSlug string
		related []domain.PublicProduct
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		card, err = cards(gctx, r.db, lang, []domain.Product{p})
		return err
	})
	g.Go(func() error {
		err := r.db.WithContext(gctx).Where("product_id = ? AND lang = ?", p.ID, lang).Take(&tr).Error
		if translate(err) == domain.ErrNotFound {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Where("product_id = ?", p.ID).
			Order("is_main desc").Order("sort_order asc").Order("id asc").
			Find(&media).Error
	})
	if p.CategoryID != nil {
		g.Go(func() error {
			var c domain.Category
			err := r.db.WithContext(gctx).Select("slug").Where("id = ?", *p.CategoryID).Take(&c).Error
			if err != nil {
				if translate(err) == domain.ErrNotFound {
					return nil
				}
				return err
			}
			catSlug = c.Slug
			return nil
		})
		g.Go(func() error {
			var others []domain.Product
			if err := r.db.WithContext(gctx).
				Where("category_id = ? AND id <> ? AND is_active = ?", *p.CategoryID, p.ID, true).
				Order("popularity desc").Order("id desc").Limit(domain.RelatedLimit).
				Find(&others).Error; err != nil {
				return err
			}
			var err error
			related, err = cards(gctx, r.db, lang, others)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &domain.ProductDetail{
		PublicProduct: card[0],
		CategorySlug:  catSlug,
		Specs:         tr.Specs,
		Related:       related,
	}
	if d.Related == nil {
		d.Related = []domain.PublicProduct{}
	}
	if tr.Description != nil {
		d.Description = *tr.Description
	}
	if tr.SeoTitle != nil {
		d.SeoTitle = *tr.SeoTitle
	}
	if tr.SeoDesc != nil {
		d.SeoDesc = *tr.SeoDesc
	}
	for _, m := range media {
		d.Media = append(d.Media, domain.MediaItem{URL: m.URL, Kind: m.Kind})
	}
	return d, nil
}

// CardByID returns the catalog card of an active product.
func (r *ProductRepo) CardByID(ctx context.Context, lang domain.Lang, id uint) (*domain.PublicProduct, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).Take(&p).Error; err != nil {
		return nil, translate(err)
	}
	rows, err := cards(ctx, r.db, lang, []domain.Product{p})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *ProductRepo) AdminList(ctx context.Context, q string, page, limit int, categoryID *uint) (domain.AdminProductList, error) {
	out := domain.AdminProductList{Rows: []domain.AdminProductRow{}}
	db := r.db.WithContext(ctx)
	query := db.Model(&domain.Product{})
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if q = strings.TrimSpace(q); q != "" {
		var byTitle, bySlug []uint
		like := likePattern(q)
		if err := db.Model(&domain.ProductI18n{}).Where("LOWER(title) "+likeEscaped, like).
			Distinct().Pluck("product_id", &byTitle).Error; err != nil {
			return out, err
		}
		if err := db.Model(&domain.Product{}).Where("LOWER(slug) "+likeEscaped, like).
			Pluck("id", &bySlug).Error; err != nil {
			return out, err
		}
		ids := unionIDs(byTitle, bySlug)
		if len(ids) == 0 {
			return out, nil
		}
		query = query.Where("id IN ?", ids)
	}
	if err := query.Count(&out.TotalCount).Error; err != nil {
		return out, err
	}
	offset, lim := pageBounds(page, limit)
	var list []domain.Product
	if err := query.Order("id desc").Offset(offset).Limit(lim).Find(&list).Error; err != nil {
		return out, err
	}
	rows, err := r.withTitles(ctx, list)
	if err != nil {
		return out, err
	}
	out.Rows = rows
	return out, nil
}

// All lists every product for export.
func (r *ProductRepo) All(ctx context.Context) ([]domain.AdminProductRow, error) {
	var list []domain.Product
	if err := r.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return r.withTitles(ctx, list)
}

func (r *ProductRepo) withTitles(ctx context.Context, list []domain.Product) ([]domain.AdminProductRow, error) {
	rows := make([]domain.AdminProductRow, 0, len(list))
	if len(list) == 0 {
		return rows, nil
	}
	ids := make([]uint, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	var tr []domain.ProductI18n
	if err := r.db.WithContext(ctx).Select("product_id", "lang", "title").
		Where("product_id IN ?", ids).Find(&tr).Error; err != nil {
		return nil, err
	}
	ru := map[uint]string{}
	az := map[uint]string{}
	for _, t := range tr {
		switch t.Lang {
		case domain.LangRU:
			ru[t.ProductID] = t.Title
		case domain.LangAZ:
			az[t.ProductID] = t.Title
		}
	}
	for _, p := range list {
		rows = append(rows, domain.AdminProductRow{Product: p, TitleRU: ru[p.ID], TitleAZ: az[p.ID]})
	}
	return rows, nil
}

func (r *ProductRepo) AdminGet(ctx context.Context, id uint) (*domain.ProductEdit, error) {
	db := r.db.WithContext(ctx)
	e := &domain.ProductEdit{}
	if err := db.Take(&e.Product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Where("product_id = ?", id).Order("lang asc").Find(&e.I18n).Error; err != nil {
		return nil, err
	}
	if err := db.Where("product_id = ?", id).Order("sort_order asc").Order("id asc").Find(&e.Media).Error; err != nil {
		return nil, err
	}
	if err := db.Order("sort_order asc").Order("id asc").Find(&e.Collections).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.CollectionProduct{}).Where("product_id = ?", id).
		Pluck("collection_id", &e.SelectedCollectionIDs).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error
	return n, err
}

func (r *ProductRepo) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("slug = ? AND id <> ?", slug, excludeID).Count(&n).Error
	return n > 0, err
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product, i18n []domain.ProductI18n, collectionIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for i := range i18n {
			i18n[i].ProductID = p.ID
		}
		if len(i18n) > 0 {
			if err := tx.Create(&i18n).Error; err != nil {
				return err
			}
		}
		return replaceCollections(tx, p.ID, collectionIDs)
	})
	return translate(err)
}

func (r *ProductRepo) UpdateBase(ctx context.Context, p *domain.Product) error {
	res := r.db.WithContext(ctx).Model(p).
		Select("slug", "price", "old_price", "badge", "popularity", "category_id", "in_stock", "is_active", "updated_at").
		Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) UpsertI18n(ctx context.Context, row *domain.ProductI18n) error {
	db := r.db.WithContext(ctx)
	if err := exists(db, &domain.Product{}, row.ProductID); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
}

func (r *ProductRepo) SetCollections(ctx context.Context, productID uint, collectionIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &domain.Product{}, productID); err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&domain.CollectionProduct{}).Error; err != nil {
			return err
		}
		return replaceCollections(tx, productID, collectionIDs)
	})
}

func replaceCollections(tx *gorm.DB, productID uint, collectionIDs []uint) error {
	if len(collectionIDs) == 0 {
		return nil
	}
	rows := make([]domain.CollectionProduct, 0, len(collectionIDs))
	seen := map[uint]bool{}
	for _, id := range collectionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, domain.CollectionProduct{CollectionID: id, ProductID: productID})
	}
	return tx.Create(&rows).Error
}

func (r *ProductRepo) ToggleActive(ctx context.Context, id uint) error {
	return toggle(r.db.WithContext(ctx), &domain.Product{}, id, "is_active")
}

func (r *ProductRepo) ToggleStock(ctx context.Context, id uint) error {
	return toggle(r.db.WithContext(ctx), &domain.Product{}, id, "in_stock")
}

// Delete removes the product together with its translations, media rows and collection memberships.
func (r *ProductRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.CollectionProduct{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductI18n{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// AddMedia appends m after the product's existing media.
func (r *ProductRepo) AddMedia(ctx context.Context, m *domain.ProductMedia) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &domain.Product{}, m.ProductID); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&domain.ProductMedia{}).Where("product_id = ?", m.ProductID).Count(&n).Error; err != nil {
			return err
		}
		m.SortOrder = int(n) + 1
		if m.Kind == "" {
			m.Kind = domain.MediaImage
		}
		return tx.Create(m).Error
	})
}

func (r *ProductRepo) MediaByID(ctx context.Context, id uint) (*domain.ProductMedia, error) {
	var m domain.ProductMedia
	if err := r.db.WithContext(ctx).Take(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *ProductRepo) DeleteMedia(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.ProductMedia{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetMainMedia leaves exactly one main media row for the product.
func (r *ProductRepo) SetMainMedia(ctx context.Context, productID, mediaID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.ProductMedia{}).
			Where("id = ? AND product_id = ?", mediaID, productID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Model(&domain.ProductMedia{}).Where("product_id = ?", productID).
			Update("is_main", false).Error; err != nil {
			return err
		}
		return tx.Model(&domain.ProductMedia{}).Where("id = ?", mediaID).Update("is_main", true).Error
	})
}

func exists(db *gorm.DB, model any, id uint) error {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toggle(db *gorm.DB, model any, id uint, column string) error {
	res := db.Model(model).Where("id = ?", id).Update(column, gorm.Expr("NOT "+column))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func unionIDs(a, b []uint) []uint {
	seen := make(map[uint]bool, len(a)+len(b))
	out := make([]uint, 0, len(a)+len(b))
	for _, s := range [][]uint{a, b} {
		for _, id := range s {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
