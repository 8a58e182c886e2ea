package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const categoryFallbackTitle = "Category"

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// Nav lists categories for the storefront navigation in sort order.
func (r *CategoryRepo) Nav(ctx context.Context, lang domain.Lang) ([]domain.CategoryNav, error) {
	db := r.db.WithContext(ctx)
	var cats []domain.Category
	if err := db.Order("sort_order asc").Order("id asc").Find(&cats).Error; err != nil {
		return nil, err
	}
	out := make([]domain.CategoryNav, 0, len(cats))
	if len(cats) == 0 {
		return out, nil
	}
	var tr []domain.CategoryI18n
	if err := db.Where("lang = ?", lang).Find(&tr).Error; err != nil {
		return nil, err
	}
	titles := make(map[uint]string, len(tr))
	for _, t := range tr {
		titles[t.CategoryID] = t.Title
	}
	for _, c := range cats {
		title := titles[c.ID]
		if title == "" {
			title = categoryFallbackTitle
		}
		out = append(out, domain.CategoryNav{ID: c.ID, Slug: c.Slug, Title: title})
	}
	return out, nil
}

func (r *CategoryRepo) AdminList(ctx context.Context) ([]domain.AdminCategoryRow, error) {
	db := r.db.WithContext(ctx)
	var cats []domain.Category
	if err := db.Order("sort_order asc").Order("id asc").Find(&cats).Error; err != nil {
		return nil, err
	}
	var tr []domain.CategoryI18n
	if err := db.Find(&tr).Error; err != nil {
		return nil, err
	}
	var counts []struct {
		CategoryID uint
		N          int64
	}
	if err := db.Model(&domain.Product{}).Select("category_id, COUNT(*) AS n").
		Where("category_id IS NOT NULL").Group("category_id").Scan(&counts).Error; err != nil {
		return nil, err
	}
	byCat := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byCat[c.CategoryID] = c.N
	}
	ru, az := map[uint]string{}, map[uint]string{}
	for _, t := range tr {
		if t.Lang == domain.LangRU {
			ru[t.CategoryID] = t.Title
		} else if t.Lang == domain.LangAZ {
			az[t.CategoryID] = t.Title
		}
	}
	out := make([]domain.AdminCategoryRow, 0, len(cats))
	for _, c := range cats {
		out = append(out, domain.AdminCategoryRow{Category: c, TitleRU: ru[c.ID], TitleAZ: az[c.ID], ProductsCount: byCat[c.ID]})
	}
	return out, nil
}

func (r *CategoryRepo) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).
		Where("slug = ? AND id <> ?", slug, excludeID).Count(&n).Error
	return n > 0, err
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category, i18n []domain.CategoryI18n) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		for i := range i18n {
			i18n[i].CategoryID = c.ID
		}
		if len(i18n) == 0 {
			return nil
		}
		return tx.Create(&i18n).Error
	})
	return translate(err)
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category, i18n []domain.CategoryI18n) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(c).Select("slug", "sort_order").Updates(c)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		for i := range i18n {
			i18n[i].CategoryID = c.ID
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&i18n[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

// Delete detaches the category's products before removing it.
func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Product{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&domain.CategoryI18n{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Category{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
