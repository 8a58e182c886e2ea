package postgres

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arazdetector/mdbaku/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

// Public pages active posts, newest publication first.
func (r *PostRepo) Public(ctx context.Context, lang domain.Lang, page int) (domain.PostPage, error) {
	if page < 1 {
		page = 1
	}
	out := domain.PostPage{Rows: []domain.PublicPost{}, Page: page, PageSize: domain.BlogPageSize}
	q := r.db.WithContext(ctx).Model(&domain.Post{}).Where("is_active = ?", true)
	if err := q.Count(&out.TotalCount).Error; err != nil {
		return out, err
	}
	if out.TotalCount == 0 {
		return out, nil
	}
	var list []domain.Post
	if err := q.Order("published_at desc").Order("id desc").
		Offset((page - 1) * domain.BlogPageSize).Limit(domain.BlogPageSize).
		Find(&list).Error; err != nil {
		return out, err
	}
	ids := make([]uint, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	var tr []domain.PostI18n
	if err := r.db.WithContext(ctx).Select("post_id", "title", "excerpt").
		Where("post_id IN ? AND lang = ?", ids, lang).Find(&tr).Error; err != nil {
		return out, err
	}
	byID := make(map[uint]domain.PostI18n, len(tr))
	for _, t := range tr {
		byID[t.PostID] = t
	}
	for _, p := range list {
		out.Rows = append(out.Rows, publicPost(p, byID[p.ID]))
	}
	return out, nil
}

func (r *PostRepo) PublicBySlug(ctx context.Context, lang domain.Lang, slug string) (*domain.PostDetail, error) {
	db := r.db.WithContext(ctx)
	var p domain.Post
	if err := db.Where("slug = ? AND is_active = ?", slug, true).Take(&p).Error; err != nil {
		return nil, translate(err)
	}
	var t domain.PostI18n
	if err := db.Where("post_id = ? AND lang = ?", p.ID, lang).Take(&t).Error; err != nil && translate(err) != domain.ErrNotFound {
		return nil, err
	}
	d := &domain.PostDetail{PublicPost: publicPost(p, t), Content: t.Content}
	if t.SeoTitle != nil {
		d.SeoTitle = *t.SeoTitle
	}
	if t.SeoDesc != nil {
		d.SeoDesc = *t.SeoDesc
	}
	return d, nil
}

func publicPost(p domain.Post, t domain.PostI18n) domain.PublicPost {
	pp := domain.PublicPost{
		ID:          p.ID,
		Slug:        p.Slug,
		PublishedAt: p.PublishedAt,
		Title:       t.Title,
		Excerpt:     t.Excerpt,
	}
	if pp.Title == "" {
		pp.Title = domain.NoTitle
	}
	if p.CoverImage != nil {
		pp.CoverImage = *p.CoverImage
	}
	return pp
}

func (r *PostRepo) AdminList(ctx context.Context, q string, page, limit int) (domain.AdminPostList, error) {
	out := domain.AdminPostList{Rows: []domain.AdminPostRow{}}
	db := r.db.WithContext(ctx)
	query := db.Model(&domain.Post{})
	if q = strings.TrimSpace(q); q != "" {
		var ids []uint
		if err := db.Model(&domain.PostI18n{}).Where("LOWER(title) "+likeEscaped, likePattern(q)).
			Distinct().Pluck("post_id", &ids).Error; err != nil {
			return out, err
		}
		if len(ids) == 0 {
			return out, nil
		}
		query = query.Where("id IN ?", ids)
	}
	if err := query.Count(&out.TotalCount).Error; err != nil {
		return out, err
	}
	offset, lim := pageBounds(page, limit)
	var list []domain.Post
	if err := query.Order("created_at desc").Order("id desc").Offset(offset).Limit(lim).Find(&list).Error; err != nil {
		return out, err
	}
	if len(list) == 0 {
		return out, nil
	}
	ids := make([]uint, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	var tr []domain.PostI18n
	if err := db.Select("post_id", "lang", "title").Where("post_id IN ?", ids).Find(&tr).Error; err != nil {
		return out, err
	}
	ru, az := map[uint]string{}, map[uint]string{}
	for _, t := range tr {
		if t.Lang == domain.LangRU {
			ru[t.PostID] = t.Title
		} else if t.Lang == domain.LangAZ {
			az[t.PostID] = t.Title
		}
	}
	for _, p := range list {
		out.Rows = append(out.Rows, domain.AdminPostRow{Post: p, TitleRU: ru[p.ID], TitleAZ: az[p.ID]})
	}
	return out, nil
}

func (r *PostRepo) Get(ctx context.Context, id uint) (*domain.PostEdit, error) {
	db := r.db.WithContext(ctx)
	e := &domain.PostEdit{}
	if err := db.Take(&e.Post, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Where("post_id = ?", id).Order("lang asc").Find(&e.I18n).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (r *PostRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Count(&n).Error
	return n, err
}

func (r *PostRepo) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("slug = ? AND id <> ?", slug, excludeID).Count(&n).Error
	return n > 0, err
}

func (r *PostRepo) Create(ctx context.Context, p *domain.Post, i18n []domain.PostI18n) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for i := range i18n {
			i18n[i].PostID = p.ID
		}
		if len(i18n) == 0 {
			return nil
		}
		return tx.Create(&i18n).Error
	})
	return translate(err)
}

func (r *PostRepo) UpdateBase(ctx context.Context, id uint, slug string, active bool, publishedAt *time.Time) error {
	fields := map[string]any{"slug": slug, "is_active": active}
	if publishedAt != nil {
		fields["published_at"] = *publishedAt
	}
	res := r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostRepo) UpsertI18n(ctx context.Context, row *domain.PostI18n) error {
	db := r.db.WithContext(ctx)
	if err := exists(db, &domain.Post{}, row.PostID); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
}

// SetCover stores url as the cover image; nil clears it.
func (r *PostRepo) SetCover(ctx context.Context, id uint, url *string) error {
	res := r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).Update("cover_image", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostRepo) ToggleActive(ctx context.Context, id uint) error {
	return toggle(r.db.WithContext(ctx), &domain.Post{}, id, "is_active")
}

func (r *PostRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.PostI18n{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
