package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/arazdetector/mdbaku/internal/domain"
)

type PostAdminUC struct {
	Guard   *Guard
	Posts   domain.PostRepo
	Storage domain.FileStorage
	Cache   domain.Revalidator
	Now     func() time.Time
}

func (uc *PostAdminUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

func (uc *PostAdminUC) List(ctx context.Context, q string, page, limit int) (domain.AdminPostList, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return domain.AdminPostList{}, err
	}
	return uc.Posts.AdminList(ctx, q, page, limit)
}

func (uc *PostAdminUC) Get(ctx context.Context, id uint) (*domain.PostEdit, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return nil, err
	}
	return uc.Posts.Get(ctx, id)
}

func (uc *PostAdminUC) Count(ctx context.Context) (int64, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return 0, err
	}
	return uc.Posts.Count(ctx)
}

// Create stores an inactive draft. A taken slug gets a millisecond timestamp suffix.
func (uc *PostAdminUC) Create(ctx context.Context, in domain.PostCreateInput) (uint, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return 0, err
	}
	in.TitleRU = strings.TrimSpace(in.TitleRU)
	in.TitleAZ = strings.TrimSpace(in.TitleAZ)
	if err := check(in); err != nil {
		return 0, err
	}
	now := uc.now()
	base := domain.Slugify(in.Slug)
	if base == "" {
		base = domain.SlugOr(domain.Slugify(in.TitleRU), "post")
	}
	slug, err := timestampSlug(ctx, uc.Posts.SlugExists, base, 0, now)
	if err != nil {
		return 0, err
	}
	p := domain.Post{Slug: slug, PublishedAt: now}
	tr := []domain.PostI18n{{Lang: domain.LangRU, Title: in.TitleRU}}
	if in.TitleAZ != "" {
		tr = append(tr, domain.PostI18n{Lang: domain.LangAZ, Title: in.TitleAZ})
	}
	if err := uc.Posts.Create(ctx, &p, tr); err != nil {
		return 0, err
	}
	revalidate(uc.Cache, postKeys...)
	return p.ID, nil
}

func (uc *PostAdminUC) UpdateBase(ctx context.Context, id uint, in domain.PostBaseInput) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	if err := check(in); err != nil {
		return err
	}
	base := domain.Slugify(in.Slug)
	if base == "" {
		return invalid("slug")
	}
	slug, err := timestampSlug(ctx, uc.Posts.SlugExists, base, id, uc.now())
	if err != nil {
		return err
	}
	var published *time.Time
	if s := strings.TrimSpace(in.PublishedAt); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return invalid("published_at")
		}
		published = &t
	}
	if err := uc.Posts.UpdateBase(ctx, id, slug, in.IsActive, published); err != nil {
		return err
	}
	revalidate(uc.Cache, postKeys...)
	return nil
}

// UpsertI18n saves one translation; an empty excerpt is cut from the content text.
func (uc *PostAdminUC) UpsertI18n(ctx context.Context, id uint, lang domain.Lang, in domain.PostI18nInput) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := check(in); err != nil {
		return err
	}
	excerpt := strings.TrimSpace(in.Excerpt)
	if excerpt == "" {
		excerpt = Excerpt(in.Content, domain.ExcerptRunes)
	}
	row := domain.PostI18n{
		PostID:   id,
		Lang:     lang,
		Title:    in.Title,
		Excerpt:  excerpt,
		Content:  in.Content,
		SeoTitle: optional(in.SeoTitle),
		SeoDesc:  optional(in.SeoDesc),
	}
	if err := uc.Posts.UpsertI18n(ctx, &row); err != nil {
		return err
	}
	revalidate(uc.Cache, postKeys...)
	return nil
}

// blockElements end a run of text; their neighbours must not run together in an excerpt.
const blockElements = "p, div, br, hr, h1, h2, h3, h4, h5, h6, li, ul, ol, blockquote, pre, table, tr, td, th, figure, figcaption, section, article"

// Excerpt returns the first n runes of the visible text of an HTML fragment.
func Excerpt(html string, n int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	doc.Find(blockElements).AfterHtml(" ")
	text := strings.Join(strings.Fields(doc.Text()), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

func (uc *PostAdminUC) ToggleActive(ctx context.Context, id uint) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	if err := uc.Posts.ToggleActive(ctx, id); err != nil {
		return err
	}
	revalidate(uc.Cache, postKeys...)
	return nil
}

// Delete removes the cover object (best effort) and the post with its translations.
func (uc *PostAdminUC) Delete(ctx context.Context, id uint) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	e, err := uc.Posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if e.Post.CoverImage != nil {
		removeObject(ctx, uc.Storage, domain.BucketBlog, *e.Post.CoverImage)
	}
	if err := uc.Posts.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Uint("id", id).Msg("post deleted")
	revalidate(uc.Cache, postKeys...)
	return nil
}

// removeObject deletes the object behind a public URL. Failures are logged only.
func removeObject(ctx context.Context, st domain.FileStorage, bucket, publicURL string) {
	if st == nil || publicURL == "" {
		return
	}
	path, err := st.PathFromURL(bucket, publicURL)
	if err != nil {
		log.Warn().Err(err).Str("url", publicURL).Msg("storage path not recognized")
		return
	}
	if err := st.Remove(ctx, bucket, path); err != nil {
		log.Warn().Err(err).Str("bucket", bucket).Str("path", path).Msg("storage remove failed")
	}
}
