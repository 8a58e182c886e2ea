package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arazdetector/mdbaku/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type seedProduct struct {
	slug     string
	price    string
	active   bool
	stock    bool
	pop      int
	category *uint
	ru, az   string
}

func mustProduct(t *testing.T, db *gorm.DB, s seedProduct) domain.Product {
	t.Helper()
	p := domain.Product{
		Slug:       s.slug,
		Price:      decimal.RequireFromString(s.price),
		Currency:   domain.DefaultCurrency,
		IsActive:   s.active,
		InStock:    s.stock,
		Popularity: s.pop,
		CategoryID: s.category,
	}
	var tr []domain.ProductI18n
	if s.ru != "" {
		tr = append(tr, domain.ProductI18n{Lang: domain.LangRU, Title: s.ru})
	}
	if s.az != "" {
		tr = append(tr, domain.ProductI18n{Lang: domain.LangAZ, Title: s.az})
	}
	if err := NewProductRepo(db).Create(context.Background(), &p, tr, nil); err != nil {
		t.Fatalf("create %s: %v", s.slug, err)
	}
	return p
}

func mustCategory(t *testing.T, db *gorm.DB, slug, ru string, order int) domain.Category {
	t.Helper()
	c := domain.Category{Slug: slug, SortOrder: order}
	var tr []domain.CategoryI18n
	if ru != "" {
		tr = append(tr, domain.CategoryI18n{Lang: domain.LangRU, Title: ru})
	}
	if err := NewCategoryRepo(db).Create(context.Background(), &c, tr); err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func slugs(rows []domain.PublicProduct) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Slug
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCatalogSearchWithoutMatchSkipsProducts(t *testing.T) {
	db := newTestDB(t)
	mustProduct(t, db, seedProduct{slug: "xp-deus", price: "100", active: true, ru: "XP Deus"})

	var hits int
	if err := db.Callback().Query().After("gorm:query").Register("test:count_products", func(tx *gorm.DB) {
		if tx.Statement.Table == "products" {
			hits++
		}
	}); err != nil {
		t.Fatal(err)
	}

	page, err := NewProductRepo(db).Catalog(context.Background(), domain.LangRU, domain.CatalogFilter{Search: "  minelab "})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if page.TotalCount != 0 || len(page.Rows) != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}
	if hits != 0 {
		t.Fatalf("products queried %d times", hits)
	}
}

func TestCatalogSearchIsPerLanguage(t *testing.T) {
	db := newTestDB(t)
	mustProduct(t, db, seedProduct{slug: "garrett", price: "100", active: true, ru: "Гаррет Эйс", az: "Garrett Ace"})
	repo := NewProductRepo(db)

	page, err := repo.Catalog(context.Background(), domain.LangAZ, domain.CatalogFilter{Search: "ACE"})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 1 || page.Rows[0].Title != "Garrett Ace" {
		t.Fatalf("az search: %+v", page)
	}
	page, err = repo.Catalog(context.Background(), domain.LangRU, domain.CatalogFilter{Search: "ace"})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 0 {
		t.Fatalf("ru search should not match az title, got %d", page.TotalCount)
	}
}

func TestCatalogFiltersAndSorting(t *testing.T) {
	db := newTestDB(t)
	cat := mustCategory(t, db, "detectors", "Металлоискатели", 1)
	other := mustCategory(t, db, "coils", "Катушки", 2)
	mustProduct(t, db, seedProduct{slug: "a", price: "100", active: true, stock: true, pop: 5, category: &cat.ID})
	mustProduct(t, db, seedProduct{slug: "b", price: "300", active: true, stock: false, pop: 5, category: &cat.ID})
	mustProduct(t, db, seedProduct{slug: "c", price: "200", active: true, stock: true, pop: 9, category: &other.ID})
	mustProduct(t, db, seedProduct{slug: "hidden", price: "150", active: false, stock: true, pop: 99})
	repo := NewProductRepo(db)
	ctx := context.Background()

	page, err := repo.Catalog(ctx, domain.LangRU, domain.CatalogFilter{})
	if err != nil {
		t.Fatal(err)
	}
	// popularity desc, then id desc
	if got := slugs(page.Rows); !equalStrings(got, []string{"c", "b", "a"}) {
		t.Fatalf("popular order: %v", got)
	}

	page, _ = repo.Catalog(ctx, domain.LangRU, domain.CatalogFilter{Sort: domain.SortPriceAsc})
	if got := slugs(page.Rows); !equalStrings(got, []string{"a", "c", "b"}) {
		t.Fatalf("price asc: %v", got)
	}
	page, _ = repo.Catalog(ctx, domain.LangRU, domain.CatalogFilter{Sort: domain.SortPriceDesc})
	if got := slugs(page.Rows); !equalStrings(got, []string{"b", "c", "a"}) {
		t.Fatalf("price desc: %v", got)
	}

	min := decimal.NewFromInt(150)
	max := decimal.NewFromInt(300)
	page, _ = repo.Catalog(ctx, domain.LangRU, domain.CatalogFilter{MinPrice: &min, MaxPrice: &max, InStock: true})
	if got := slugs(page.Rows); !equalStrings(got, []string{"c"}) {
		t.Fatalf("range+stock: %v", got)
	}

	page, _ = repo.Catalog(ctx, domain.LangRU, domain.CatalogFilter{Category: "detectors"})
	if page.TotalCount != 2 {
		t.Fatalf("category total = %d", page.TotalCount)
	}
	page, err = repo.Catalog(ctx, domain.LangRU, domain.CatalogFilter{Category: "nope"})
	if err != nil || page.TotalCount != 0 || len(page.Rows) != 0 {
		t.Fatalf("unknown category: %+v %v", page, err)
	}
}

func TestCatalogPagination(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 14; i++ {
		mustProduct(t, db, seedProduct{slug: "p" + string(rune('a'+i)), price: "10", active: true})
	}
	repo := NewProductRepo(db)
	page, err := repo.Catalog(context.Background(), domain.LangAZ, domain.CatalogFilter{Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 14 || len(page.Rows) != 2 || page.TotalPages() != 2 {
		t.Fatalf("page 2: total=%d rows=%d pages=%d", page.TotalCount, len(page.Rows), page.TotalPages())
	}
	page, _ = repo.Catalog(context.Background(), domain.LangAZ, domain.CatalogFilter{Page: -3})
	if page.Page != 1 || len(page.Rows) != domain.CatalogPageSize {
		t.Fatalf("negative page: %+v", page.Page)
	}
}

func TestCatalogCardFallbacksAndMainImage(t *testing.T) {
	db := newTestDB(t)
	cat := mustCategory(t, db, "detectors", "Металлоискатели", 1)
	p := mustProduct(t, db, seedProduct{slug: "x", price: "10", active: true, category: &cat.ID, ru: "Икс"})
	repo := NewProductRepo(db)
	ctx := context.Background()
	for _, m := range []domain.ProductMedia{
		{ProductID: p.ID, URL: "video.mp4", Kind: domain.MediaVideo},
		{ProductID: p.ID, URL: "first.jpg", Kind: domain.MediaImage},
		{ProductID: p.ID, URL: "second.jpg", Kind: domain.MediaImage},
	} {
		m := m
		if err := repo.AddMedia(ctx, &m); err != nil {
			t.Fatal(err)
		}
	}

	page, err := repo.Catalog(ctx, domain.LangAZ, domain.CatalogFilter{})
	if err != nil {
		t.Fatal(err)
	}
	row := page.Rows[0]
	if row.Title != domain.NoTitle {
		t.Errorf("title = %q", row.Title)
	}
	if row.CategoryTitle != "Kataloq" {
		t.Errorf("category title = %q", row.CategoryTitle)
	}
	if row.Image != "first.jpg" {
		t.Errorf("image = %q", row.Image)
	}

	edit, err := repo.AdminGet(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.SetMainMedia(ctx, p.ID, edit.Media[2].ID); err != nil {
		t.Fatal(err)
	}
	page, _ = repo.Catalog(ctx, domain.LangRU, domain.CatalogFilter{})
	if page.Rows[0].Image != "second.jpg" || page.Rows[0].CategoryTitle != "Металлоискатели" || page.Rows[0].Title != "Икс" {
		t.Fatalf("after main switch: %+v", page.Rows[0])
	}
	var mains int64
	db.Model(&domain.ProductMedia{}).Where("product_id = ? AND is_main = ?", p.ID, true).Count(&mains)
	if mains != 1 {
		t.Fatalf("main rows = %d", mains)
	}
	if err := repo.SetMainMedia(ctx, p.ID+100, edit.Media[1].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign media: %v", err)
	}
}

func TestPublicBySlugRelated(t *testing.T) {
	db := newTestDB(t)
	cat := mustCategory(t, db, "detectors", "Металлоискатели", 1)
	main := mustProduct(t, db, seedProduct{slug: "main", price: "10", active: true, category: &cat.ID, ru: "Главный"})
	for i := 0; i < 6; i++ {
		mustProduct(t, db, seedProduct{slug: "rel" + string(rune('a'+i)), price: "10", active: true, category: &cat.ID})
	}
	mustProduct(t, db, seedProduct{slug: "off", price: "10", active: false, category: &cat.ID})
	repo := NewProductRepo(db)

	d, err := repo.PublicBySlug(context.Background(), domain.LangRU, "main")
	if err != nil {
		t.Fatal(err)
	}
	if d.ID != main.ID || d.Title != "Главный" || d.CategorySlug != "detectors" {
		t.Fatalf("detail: %+v", d.PublicProduct)
	}
	if len(d.Related) != domain.RelatedLimit {
		t.Fatalf("related = %d", len(d.Related))
	}
	for _, r := range d.Related {
		if r.ID == main.ID || r.Slug == "off" {
			t.Fatalf("unexpected related %s", r.Slug)
		}
	}
	if _, err := repo.PublicBySlug(context.Background(), domain.LangRU, "off"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("inactive: %v", err)
	}
}

func TestAdminListSearchesTitlesAndSlugs(t *testing.T) {
	db := newTestDB(t)
	mustProduct(t, db, seedProduct{slug: "nokta-simplex", price: "1", ru: "Нокта"})
	mustProduct(t, db, seedProduct{slug: "other", price: "1", az: "Simplex Pro"})
	mustProduct(t, db, seedProduct{slug: "unrelated", price: "1", ru: "Лопата"})
	repo := NewProductRepo(db)

	list, err := repo.AdminList(context.Background(), "simplex", 1, 20, nil)
	if err != nil {
		t.Fatal(err)
	}
	if list.TotalCount != 2 || list.Rows[0].Slug != "other" || list.Rows[0].TitleAZ != "Simplex Pro" {
		t.Fatalf("admin list: %+v", list)
	}
	list, _ = repo.AdminList(context.Background(), "100%", 1, 20, nil)
	if list.TotalCount != 0 {
		t.Fatalf("literal percent matched %d rows", list.TotalCount)
	}
}

func TestDuplicateSlugIsConflict(t *testing.T) {
	db := newTestDB(t)
	mustProduct(t, db, seedProduct{slug: "dup", price: "1"})
	p := domain.Product{Slug: "dup", Currency: domain.DefaultCurrency}
	err := NewProductRepo(db).Create(context.Background(), &p, nil, nil)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestToggleAndDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	if err := SeedCollections(db); err != nil {
		t.Fatal(err)
	}
	ids, _ := NewCollectionRepo(db).IDsByKeys(ctx, []string{domain.CollectionHits})
	p := mustProduct(t, db, seedProduct{slug: "t", price: "1", ru: "T"})
	if err := repo.SetCollections(ctx, p.ID, ids); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddMedia(ctx, &domain.ProductMedia{ProductID: p.ID, URL: "u"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.ToggleActive(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	edit, _ := repo.AdminGet(ctx, p.ID)
	if !edit.Product.IsActive || len(edit.SelectedCollectionIDs) != 1 {
		t.Fatalf("after toggle: %+v", edit)
	}
	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	for _, m := range []any{&domain.ProductI18n{}, &domain.ProductMedia{}, &domain.CollectionProduct{}} {
		var n int64
		db.Model(m).Count(&n)
		if n != 0 {
			t.Fatalf("%T rows left: %d", m, n)
		}
	}
	if err := repo.Delete(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestCategoryNavAndDelete(t *testing.T) {
	db := newTestDB(t)
	b := mustCategory(t, db, "b", "Б", 2)
	mustCategory(t, db, "a", "", 1)
	p := mustProduct(t, db, seedProduct{slug: "p", price: "1", category: &b.ID})
	repo := NewCategoryRepo(db)
	ctx := context.Background()

	nav, err := repo.Nav(ctx, domain.LangRU)
	if err != nil {
		t.Fatal(err)
	}
	if len(nav) != 2 || nav[0].Slug != "a" || nav[0].Title != "Category" || nav[1].Title != "Б" {
		t.Fatalf("nav: %+v", nav)
	}
	rows, _ := repo.AdminList(ctx)
	if rows[1].ProductsCount != 1 {
		t.Fatalf("count: %+v", rows)
	}
	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	var got domain.Product
	db.First(&got, p.ID)
	if got.CategoryID != nil {
		t.Fatalf("category not detached: %v", *got.CategoryID)
	}
}

func TestRailTitleFallbacks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if err := SeedCollections(db); err != nil {
		t.Fatal(err)
	}
	ids, _ := NewCollectionRepo(db).IDsByKeys(ctx, []string{domain.CollectionNew})
	repo := NewProductRepo(db)
	az := mustProduct(t, db, seedProduct{slug: "only-ru", price: "5", active: true, ru: "Только RU"})
	bare := mustProduct(t, db, seedProduct{slug: "bare", price: "5", active: true})
	off := mustProduct(t, db, seedProduct{slug: "off", price: "5", active: false, az: "Off"})
	for _, p := range []domain.Product{az, bare, off} {
		if err := repo.SetCollections(ctx, p.ID, ids); err != nil {
			t.Fatal(err)
		}
	}

	rail, err := NewCollectionRepo(db).Rail(ctx, domain.LangAZ, domain.CollectionNew)
	if err != nil {
		t.Fatal(err)
	}
	if rail.Title != "Yeni modellər" || len(rail.Items) != 2 {
		t.Fatalf("rail: %+v", rail)
	}
	if rail.Items[0].Title != "bare" || rail.Items[1].Title != "Только RU" {
		t.Fatalf("titles: %+v", rail.Items)
	}
	if rail.Items[0].Image != domain.PlaceholderImage {
		t.Fatalf("image: %q", rail.Items[0].Image)
	}
	if _, err := NewCollectionRepo(db).Rail(ctx, domain.LangAZ, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing rail: %v", err)
	}
}

func TestPostsPublicOrderAndCover(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	older := domain.Post{Slug: "older", IsActive: true, PublishedAt: now.Add(-time.Hour)}
	newer := domain.Post{Slug: "newer", IsActive: true, PublishedAt: now}
	draft := domain.Post{Slug: "draft", PublishedAt: now.Add(time.Hour)}
	for _, p := range []*domain.Post{&older, &newer, &draft} {
		if err := repo.Create(ctx, p, []domain.PostI18n{{Lang: domain.LangRU, Title: p.Slug}}); err != nil {
			t.Fatal(err)
		}
	}

	page, err := repo.Public(ctx, domain.LangRU, 1)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 2 || page.Rows[0].Slug != "newer" || page.Rows[1].Slug != "older" {
		t.Fatalf("public posts: %+v", page)
	}
	page, _ = repo.Public(ctx, domain.LangAZ, 1)
	if page.Rows[0].Title != domain.NoTitle {
		t.Fatalf("az fallback: %q", page.Rows[0].Title)
	}

	url := "https://cdn.example/blog/1/1.jpg"
	if err := repo.SetCover(ctx, newer.ID, &url); err != nil {
		t.Fatal(err)
	}
	d, err := repo.PublicBySlug(ctx, domain.LangRU, "newer")
	if err != nil || d.CoverImage != url {
		t.Fatalf("cover: %+v %v", d, err)
	}
	if err := repo.SetCover(ctx, newer.ID, nil); err != nil {
		t.Fatal(err)
	}
	e, _ := repo.Get(ctx, newer.ID)
	if e.Post.CoverImage != nil {
		t.Fatalf("cover not cleared")
	}
	if _, err := repo.PublicBySlug(ctx, domain.LangRU, "draft"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("draft: %v", err)
	}

	list, _ := repo.AdminList(ctx, "OLD", 1, 20)
	if list.TotalCount != 1 || list.Rows[0].TitleRU != "older" {
		t.Fatalf("admin search: %+v", list)
	}
}
