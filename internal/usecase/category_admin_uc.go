package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const untitled = "Без названия"

type CategoryAdminUC struct {
	Guard      *Guard
	Categories domain.CategoryRepo
	Cache      domain.Revalidator
}

func (uc *CategoryAdminUC) List(ctx context.Context) ([]domain.AdminCategoryRow, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return nil, err
	}
	rows, err := uc.Categories.AdminList(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].TitleRU == "" {
			rows[i].TitleRU = untitled
		}
		if rows[i].TitleAZ == "" {
			rows[i].TitleAZ = untitled
		}
	}
	return rows, nil
}

func (uc *CategoryAdminUC) Create(ctx context.Context, in domain.CategoryInput) (uint, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return 0, err
	}
	c, tr, err := uc.prepare(ctx, 0, in)
	if err != nil {
		return 0, err
	}
	if err := uc.Categories.Create(ctx, c, tr); err != nil {
		return 0, err
	}
	revalidate(uc.Cache, categoryKeys...)
	return c.ID, nil
}

func (uc *CategoryAdminUC) Update(ctx context.Context, id uint, in domain.CategoryInput) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	c, tr, err := uc.prepare(ctx, id, in)
	if err != nil {
		return err
	}
	if err := uc.Categories.Update(ctx, c, tr); err != nil {
		return err
	}
	revalidate(uc.Cache, categoryKeys...)
	return nil
}

func (uc *CategoryAdminUC) prepare(ctx context.Context, id uint, in domain.CategoryInput) (*domain.Category, []domain.CategoryI18n, error) {
	in.TitleRU = strings.TrimSpace(in.TitleRU)
	in.TitleAZ = strings.TrimSpace(in.TitleAZ)
	if err := check(in); err != nil {
		return nil, nil, err
	}
	c := &domain.Category{ID: id}
	if s := strings.TrimSpace(in.SortOrder); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, nil, invalid("sort_order")
		}
		c.SortOrder = n
	}
	base := domain.Slugify(in.Slug)
	if base == "" {
		base = domain.SlugOr(domain.Slugify(in.TitleRU), "category")
	}
	slug, err := uniqueSlug(ctx, uc.Categories.SlugExists, base, id)
	if err != nil {
		return nil, nil, err
	}
	c.Slug = slug
	tr := []domain.CategoryI18n{{Lang: domain.LangRU, Title: in.TitleRU}}
	if in.TitleAZ != "" {
		tr = append(tr, domain.CategoryI18n{Lang: domain.LangAZ, Title: in.TitleAZ})
	}
	return c, tr, nil
}

// Delete removes the category; its products stay, uncategorized.
func (uc *CategoryAdminUC) Delete(ctx context.Context, id uint) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	if err := uc.Categories.Delete(ctx, id); err != nil {
		return err
	}
	revalidate(uc.Cache, categoryKeys...)
	return nil
}
