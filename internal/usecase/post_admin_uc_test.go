package usecase_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/arazdetector/mdbaku/internal/domain"
	"github.com/arazdetector/mdbaku/internal/usecase"
)

func TestCreatePostTimestampSuffix(t *testing.T) {
	e := newEnv(t)
	uc := e.postUC()
	ctx := adminCtx()

	first, err := uc.Create(ctx, domain.PostCreateInput{TitleRU: "Как выбрать металлоискатель"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := uc.Create(ctx, domain.PostCreateInput{TitleRU: "Как выбрать металлоискатель", TitleAZ: "Necə seçmək"})
	if err != nil {
		t.Fatal(err)
	}
	p1, _ := uc.Get(ctx, first)
	p2, _ := uc.Get(ctx, second)
	if p1.Post.Slug != "как-выбрать-металлоискатель" {
		t.Fatalf("slug = %q", p1.Post.Slug)
	}
	if p2.Post.Slug != "как-выбрать-металлоискатель-1740830400000" {
		t.Fatalf("slug = %q", p2.Post.Slug)
	}
	if p1.Post.IsActive || len(p2.I18n) != 2 {
		t.Fatalf("new post: %+v", p2)
	}
}

func TestUpdatePostBase(t *testing.T) {
	e := newEnv(t)
	uc := e.postUC()
	ctx := adminCtx()
	id, _ := uc.Create(ctx, domain.PostCreateInput{TitleRU: "Пост"})

	if err := uc.UpdateBase(ctx, id, domain.PostBaseInput{Slug: "Post One", IsActive: true, PublishedAt: "2024-05-09"}); err != nil {
		t.Fatal(err)
	}
	p, _ := uc.Get(ctx, id)
	if p.Post.Slug != "post-one" || !p.Post.IsActive || p.Post.PublishedAt.Format("2006-01-02") != "2024-05-09" {
		t.Fatalf("post: %+v", p.Post)
	}
	if err := uc.UpdateBase(ctx, id, domain.PostBaseInput{Slug: "x", PublishedAt: "09.05.2024"}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("bad date: %v", err)
	}
}

func TestUpsertPostI18nDerivesExcerpt(t *testing.T) {
	e := newEnv(t)
	uc := e.postUC()
	ctx := adminCtx()
	id, _ := uc.Create(ctx, domain.PostCreateInput{TitleRU: "Пост"})

	content := "<h2>Заголовок</h2><p>" + strings.Repeat("слово ", 60) + "</p><script>alert(1)</script>"
	if err := uc.UpsertI18n(ctx, id, domain.LangRU, domain.PostI18nInput{Title: "Пост", Content: content}); err != nil {
		t.Fatal(err)
	}
	p, _ := uc.Get(ctx, id)
	ex := p.I18n[0].Excerpt
	if !strings.HasPrefix(ex, "Заголовок слово") || !strings.HasSuffix(ex, "...") || strings.Contains(ex, "alert") {
		t.Fatalf("excerpt = %q", ex)
	}
	if n := len([]rune(strings.TrimSuffix(ex, "..."))); n > domain.ExcerptRunes {
		t.Fatalf("excerpt runes = %d", n)
	}
}

func TestExcerptShortText(t *testing.T) {
	if got := usecase.Excerpt("<p>Hello   <b>world</b></p>", 200); got != "Hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestExcerptSeparatesBlocks(t *testing.T) {
	cases := map[string]string{
		"<h2>Заголовок</h2><p>слово</p>":       "Заголовок слово",
		"<ul><li>один</li><li>два</li></ul>":   "один два",
		"строка<br>ещё":                        "строка ещё",
		"<p>Mine<b>lab</b> <i>Equinox</i></p>": "Minelab Equinox",
	}
	for in, want := range cases {
		if got := usecase.Excerpt(in, 200); got != want {
			t.Errorf("Excerpt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDeletePostRemovesCoverBestEffort(t *testing.T) {
	e := newEnv(t)
	ctx := adminCtx()
	id, _ := e.postUC().Create(ctx, domain.PostCreateInput{TitleRU: "Пост"})
	url := cdn + "blog/1/1.jpg"
	e.storage.objects["blog/1/1.jpg"] = []byte("x")
	if err := e.posts.SetCover(ctx, id, &url); err != nil {
		t.Fatal(err)
	}
	e.storage.failRm = true
	if err := e.postUC().Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := e.posts.Get(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("post left: %v", err)
	}
}
