package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/arazdetector/mdbaku/internal/domain"
)

type BlogUC struct {
	Repo  domain.PostRepo
	Cache domain.Cache
}

func (uc *BlogUC) Posts(ctx context.Context, lang domain.Lang, page int) (domain.PostPage, error) {
	if page < 1 {
		page = 1
	}
	return cached(uc.Cache, fmt.Sprintf("%s%s:%d", keyBlog, lang, page), func() (domain.PostPage, error) {
		return uc.Repo.Public(ctx, lang, page)
	})
}

func (uc *BlogUC) PostBySlug(ctx context.Context, lang domain.Lang, slug string) (*domain.PostDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	return cached(uc.Cache, keyPost+string(lang)+":"+slug, func() (*domain.PostDetail, error) {
		return uc.Repo.PublicBySlug(ctx, lang, slug)
	})
}
