package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/arazdetector/mdbaku/internal/domain"
)

type CollectionRepo struct{ db *gorm.DB }

func NewCollectionRepo(db *gorm.DB) *CollectionRepo { return &CollectionRepo{db: db} }

func (r *CollectionRepo) List(ctx context.Context) ([]domain.Collection, error) {
	var list []domain.Collection
	err := r.db.WithContext(ctx).Order("sort_order asc").Order("id asc").Find(&list).Error
	return list, err
}

func (r *CollectionRepo) IDsByKeys(ctx context.Context, keys []string) ([]uint, error) {
	ids := []uint{}
	if len(keys) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&domain.Collection{}).Where("key IN ?", keys).Pluck("id", &ids).Error
	return ids, err
}

// Rail returns the active products of an active collection in collection order.
func (r *CollectionRepo) Rail(ctx context.Context, lang domain.Lang, key string) (*domain.Rail, error) {
	db := r.db.WithContext(ctx)
	var c domain.Collection
	if err := db.Where("key = ? AND is_active = ?", key, true).Take(&c).Error; err != nil {
		return nil, translate(err)
	}
	rail := &domain.Rail{Key: c.Key, Title: c.Title(lang), Items: []domain.RailItem{}}

	var list []domain.Product
	if err := db.Model(&domain.Product{}).Select("products.*").
		Joins("JOIN collection_products cp ON cp.product_id = products.id").
		Where("cp.collection_id = ? AND products.is_active = ?", c.ID, true).
		Order("cp.sort_order asc").Order("products.id desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return rail, nil
	}
	ids := make([]uint, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	var tr []domain.ProductI18n
	if err := db.Select("product_id", "lang", "title").Where("product_id IN ?", ids).Find(&tr).Error; err != nil {
		return nil, err
	}
	images, err := mainImages(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	exact, anyLang := map[uint]string{}, map[uint]string{}
	for _, t := range tr {
		if t.Title == "" {
			continue
		}
		if t.Lang == lang {
			exact[t.ProductID] = t.Title
		}
		if _, ok := anyLang[t.ProductID]; !ok {
			anyLang[t.ProductID] = t.Title
		}
	}
	for _, p := range list {
		it := domain.RailItem{ID: p.ID, Slug: p.Slug, Price: p.Price, Image: images[p.ID]}
		switch {
		case exact[p.ID] != "":
			it.Title = exact[p.ID]
		case anyLang[p.ID] != "":
			it.Title = anyLang[p.ID]
		default:
			it.Title = p.Slug
		}
		if it.Image == "" {
			it.Image = domain.PlaceholderImage
		}
		if p.Badge != nil {
			it.Badge = *p.Badge
		}
		rail.Items = append(rail.Items, it)
	}
	return rail, nil
}
