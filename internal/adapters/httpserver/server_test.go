package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arazdetector/mdbaku/internal/adapters/cache/memory"
	"github.com/arazdetector/mdbaku/internal/adapters/repo/postgres"
	"github.com/arazdetector/mdbaku/internal/cart"
	"github.com/arazdetector/mdbaku/internal/domain"
	"github.com/arazdetector/mdbaku/internal/usecase"
	"github.com/arazdetector/mdbaku/internal/views"
)

var testNow = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

type fakeIdentity struct {
	refreshErr error
	refreshed  int
	signedOut  []string
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (domain.Principal, *oauth2.Token, error) {
	if email != "admin@mdbaku.az" || password != "secret" {
		return domain.Principal{}, nil, domain.ErrUnauthorized
	}
	p := domain.Principal{UserID: "admin-1", Email: email, Provider: domain.ProviderPassword}
	return p, &oauth2.Token{AccessToken: "at-1", RefreshToken: "rt-1", Expiry: testNow.Add(time.Hour)}, nil
}

func (f *fakeIdentity) Refresh(_ context.Context, refreshToken string) (*oauth2.Token, error) {
	f.refreshed++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &oauth2.Token{AccessToken: "at-2", RefreshToken: refreshToken + "-next", Expiry: testNow.Add(time.Hour)}, nil
}

func (f *fakeIdentity) SignOut(_ context.Context, accessToken string) error {
	f.signedOut = append(f.signedOut, accessToken)
	return nil
}

type fakeNotifier struct {
	got []domain.ContactRequest
	err error
}

func (n *fakeNotifier) NotifyContact(_ context.Context, req domain.ContactRequest) error {
	if n.err != nil {
		return n.err
	}
	n.got = append(n.got, req)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	deps     Deps
	h        http.Handler
	identity *fakeIdentity
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := postgres.Migrate(db); err != nil {
		t.Fatal(err)
	}
	if err := postgres.SeedCollections(db); err != nil {
		t.Fatal(err)
	}
	tpl, err := views.Parse(false)
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	products := postgres.NewProductRepo(db)
	categories := postgres.NewCategoryRepo(db)
	collections := postgres.NewCollectionRepo(db)
	posts := postgres.NewPostRepo(db)
	profiles := postgres.NewProfileRepo(db)
	for _, p := range []domain.Profile{
		{ID: "admin-1", Email: "admin@mdbaku.az", Role: domain.RoleAdmin},
		{ID: "viewer-1", Email: "viewer@mdbaku.az", Role: "viewer"},
	} {
		p := p
		if err := profiles.Save(context.Background(), &p); err != nil {
			t.Fatal(err)
		}
	}
	guard := &usecase.Guard{Profiles: profiles}
	cache := memory.New(time.Minute)

	e := &testEnv{db: db, identity: &fakeIdentity{}, notifier: &fakeNotifier{}}
	e.deps = Deps{
		Templates:  tpl,
		Static:     views.Static(),
		Catalog:    &usecase.CatalogUC{Products: products, Categories: categories, Collections: collections, Posts: posts, Cache: cache},
		Blog:       &usecase.BlogUC{Repo: posts, Cache: cache},
		Products:   &usecase.ProductAdminUC{Guard: guard, Products: products, Categories: categories, Collections: collections, Cache: cache},
		Categories: &usecase.CategoryAdminUC{Guard: guard, Categories: categories, Cache: cache},
		Posts:      &usecase.PostAdminUC{Guard: guard, Posts: posts, Cache: cache, Now: func() time.Time { return testNow }},
		Media:      &usecase.MediaUC{Guard: guard, Products: products, Posts: posts, Cache: cache},
		Contact:    &usecase.ContactUC{Primary: e.notifier},
		Identity:   e.identity,
		Carts:      cart.NewCookieStore([]byte("cart-key"), false),
		SessionKey: []byte("session-key"),
		BaseURL:    "https://mdbaku.az",
		WhatsApp:   "+994501234567",
		Now:        func() time.Time { return testNow },
	}
	e.h = New(e.deps)
	return e
}

func (e *testEnv) seedProduct(t *testing.T, slug, ru, az, price string) domain.Product {
	t.Helper()
	p := domain.Product{
		Slug:     slug,
		Price:    decimal.RequireFromString(price),
		Currency: domain.DefaultCurrency,
		IsActive: true,
		InStock:  true,
	}
	tr := []domain.ProductI18n{{Lang: domain.LangRU, Title: ru}, {Lang: domain.LangAZ, Title: az}}
	if err := postgres.NewProductRepo(e.db).Create(context.Background(), &p, tr, nil); err != nil {
		t.Fatalf("seed %s: %v", slug, err)
	}
	return p
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (e *testEnv) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, cookies...)
}

// session signs an admin cookie the way a successful login would.
func (e *testEnv) session(p domain.Principal, tok *oauth2.Token) *http.Cookie {
	rec := httptest.NewRecorder()
	sess := newSession(p, tok)
	(&Server{Deps: e.deps}).writeSession(rec, &sess)
	return rec.Result().Cookies()[0]
}

func (e *testEnv) adminCookie() *http.Cookie {
	return e.session(domain.Principal{UserID: "admin-1", Email: "admin@mdbaku.az", Provider: domain.ProviderPassword}, nil)
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)
	rec := e.get("/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("healthz: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRootRedirectsToLanguage(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	rec := e.do(req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/ru" {
		t.Fatalf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestHomeAndCatalogPages(t *testing.T) {
	e := newTestEnv(t)
	e.seedProduct(t, "xp-deus-2", "XP Deus 2 RU", "XP Deus 2 AZ", "1499.00")
	e.seedProduct(t, "minelab-equinox", "Minelab Equinox RU", "Minelab Equinox AZ", "899")

	rec := e.get("/az")
	if rec.Code != http.StatusOK {
		t.Fatalf("home: %d", rec.Code)
	}

	rec = e.get("/ru/products?sort=price_asc")
	if rec.Code != http.StatusOK {
		t.Fatalf("products: %d", rec.Code)
	}
	body := rec.Body.String()
	i, j := strings.Index(body, "Minelab Equinox RU"), strings.Index(body, "XP Deus 2 RU")
	if i < 0 || j < 0 || i > j {
		t.Fatalf("expected both products cheapest first, got %d %d", i, j)
	}
	if !strings.Contains(body, `hreflang="az"`) || !strings.Contains(body, "/az/products?sort=price_asc") {
		t.Errorf("language switch link missing")
	}

	rec = e.get("/az/products/xp-deus-2")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "XP Deus 2 AZ") {
		t.Fatalf("product page: %d", rec.Code)
	}
}

func TestNotFoundPages(t *testing.T) {
	e := newTestEnv(t)
	for _, p := range []string{"/az/products/missing", "/ru/blog/missing", "/az/nowhere"} {
		if rec := e.get(p); rec.Code != http.StatusNotFound {
			t.Errorf("%s: %d", p, rec.Code)
		}
	}
}

func TestStaticPages(t *testing.T) {
	e := newTestEnv(t)
	for _, p := range []string{"/ru/about", "/az/privacy", "/az/terms", "/ru/contacts", "/az/blog", "/ru/cart"} {
		if rec := e.get(p); rec.Code != http.StatusOK {
			t.Errorf("%s: %d", p, rec.Code)
		}
	}
	if rec := e.get("/static/site.css"); rec.Code != http.StatusOK {
		t.Errorf("static asset: %d", rec.Code)
	}
}

func TestCartAddAndCheckout(t *testing.T) {
	e := newTestEnv(t)
	p := e.seedProduct(t, "nokta-simplex", "Nokta Simplex", "Nokta Simplex AZ", "450")

	req := httptest.NewRequest(http.MethodPost, "/ru/cart/add", strings.NewReader(url.Values{"id": {"1"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := e.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: %d %s", rec.Code, rec.Body.String())
	}
	var sum cartSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.TotalItems != 1 || !sum.Open || len(sum.Items) != 1 || sum.Items[0].ID != p.ID {
		t.Fatalf("summary = %+v", sum)
	}
	ck := responseCookie(rec, cart.CookieName)
	if ck == nil {
		t.Fatal("cart cookie not set")
	}

	// a second add without Accept JSON redirects back
	rec = e.post("/ru/cart/add", url.Values{"id": {"1"}, "back": {"/ru/products"}}, ck)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/ru/products" {
		t.Fatalf("add redirect: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	ck = responseCookie(rec, cart.CookieName)

	rec = e.get("/ru/cart/checkout", ck)
	if rec.Code != http.StatusFound {
		t.Fatalf("checkout: %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://wa.me/994501234567?text=") {
		t.Fatalf("checkout location = %q", loc)
	}
	u, _ := url.Parse(loc)
	text := u.Query().Get("text")
	for _, want := range []string{"Nokta Simplex", "2 x 450 = 900", "https://mdbaku.az/ru/products/nokta-simplex"} {
		if !strings.Contains(text, want) {
			t.Errorf("message misses %q:\n%s", want, text)
		}
	}
}

func TestCartRejectsUnknownProduct(t *testing.T) {
	e := newTestEnv(t)
	if rec := e.post("/az/cart/add", url.Values{"id": {"42"}}); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown product: %d", rec.Code)
	}
	if rec := e.post("/az/cart/add", url.Values{"id": {"x"}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: %d", rec.Code)
	}
}

func TestEmptyCartCheckoutStaysOnSite(t *testing.T) {
	e := newTestEnv(t)
	rec := e.get("/az/cart/checkout")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/az/cart" {
		t.Fatalf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestContactSubmit(t *testing.T) {
	e := newTestEnv(t)
	rec := e.post("/ru/contacts", url.Values{"name": {"Рашад"}, "phone": {"+994 50 000 00 00"}, "message": {"Нужна консультация"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/ru/contacts?sent=1" {
		t.Fatalf("submit: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(e.notifier.got) != 1 || e.notifier.got[0].Name != "Рашад" {
		t.Fatalf("notifier got %+v", e.notifier.got)
	}

	rec = e.post("/ru/contacts", url.Values{"name": {"Рашад"}, "message": {"без телефона"}})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Рашад") {
		t.Fatalf("invalid submit: %d", rec.Code)
	}

	e.notifier.err = errors.New("telegram down")
	rec = e.post("/az/contacts", url.Values{"name": {"Anar"}, "phone": {"050"}, "message": {"salam"}})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("delivery failure: %d", rec.Code)
	}
}

func TestAdminRequiresSession(t *testing.T) {
	e := newTestEnv(t)
	rec := e.get("/admin")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/login" {
		t.Fatalf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec := e.get("/admin/login"); rec.Code != http.StatusOK {
		t.Fatalf("login page: %d", rec.Code)
	}
}

func TestAdminRoles(t *testing.T) {
	e := newTestEnv(t)
	viewer := e.session(domain.Principal{UserID: "viewer-1", Email: "viewer@mdbaku.az", Provider: domain.ProviderPassword}, nil)
	if rec := e.get("/admin/products", viewer); rec.Code != http.StatusForbidden {
		t.Fatalf("viewer: %d", rec.Code)
	}
	stranger := e.session(domain.Principal{Email: "someone@gmail.com", Provider: domain.ProviderGoogle}, nil)
	if rec := e.get("/admin", stranger); rec.Code != http.StatusForbidden {
		t.Fatalf("unknown google user: %d", rec.Code)
	}
	rec := e.get("/admin", e.adminCookie())
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Панель управления") {
		t.Fatalf("dashboard: %d", rec.Code)
	}
}

func TestAdminLogin(t *testing.T) {
	e := newTestEnv(t)
	rec := e.post("/admin/login", url.Values{"email": {"admin@mdbaku.az"}, "password": {"nope"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", rec.Code)
	}
	if rec := e.post("/admin/login", url.Values{"email": {"admin@mdbaku.az"}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password: %d", rec.Code)
	}

	rec = e.post("/admin/login", url.Values{"email": {"admin@mdbaku.az"}, "password": {"secret"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin" {
		t.Fatalf("login: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	ck := responseCookie(rec, sessionCookie)
	if ck == nil || ck.Value == "" || !ck.HttpOnly {
		t.Fatalf("session cookie = %+v", ck)
	}
	if rec := e.get("/admin/products", ck); rec.Code != http.StatusOK {
		t.Fatalf("products after login: %d", rec.Code)
	}

	// a plain link or image cannot end the session
	rec = e.get("/admin/logout", ck)
	if rec.Code != http.StatusMethodNotAllowed || len(e.identity.signedOut) != 0 || responseCookie(rec, sessionCookie) != nil {
		t.Fatalf("GET logout: %d signedOut=%v", rec.Code, e.identity.signedOut)
	}

	rec = e.post("/admin/logout", url.Values{}, ck)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login" || len(e.identity.signedOut) != 1 || e.identity.signedOut[0] != "at-1" {
		t.Fatalf("logout: %d signedOut=%v", rec.Code, e.identity.signedOut)
	}
	if c := responseCookie(rec, sessionCookie); c == nil || c.MaxAge >= 0 {
		t.Fatalf("logout must clear the cookie, got %+v", c)
	}
}

func TestAdminSessionTampered(t *testing.T) {
	e := newTestEnv(t)
	ck := e.adminCookie()
	ck.Value = "x" + ck.Value
	if rec := e.get("/admin", ck); rec.Code != http.StatusFound {
		t.Fatalf("tampered cookie: %d", rec.Code)
	}
}

func TestAdminSessionRefresh(t *testing.T) {
	e := newTestEnv(t)
	p := domain.Principal{UserID: "admin-1", Email: "admin@mdbaku.az", Provider: domain.ProviderPassword}
	expiring := e.session(p, &oauth2.Token{AccessToken: "old", RefreshToken: "rt", Expiry: testNow.Add(10 * time.Second)})

	rec := e.get("/admin", expiring)
	if rec.Code != http.StatusOK || e.identity.refreshed != 1 {
		t.Fatalf("refresh: %d refreshed=%d", rec.Code, e.identity.refreshed)
	}
	next := responseCookie(rec, sessionCookie)
	if next == nil || next.Value == expiring.Value {
		t.Fatal("refreshed session not written")
	}
	sess := (&Server{Deps: e.deps}).readSession(func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/admin", nil)
		r.AddCookie(next)
		return r
	}())
	if sess == nil || sess.AccessToken != "at-2" || sess.RefreshToken != "rt-next" {
		t.Fatalf("session after refresh = %+v", sess)
	}

	fresh := e.session(p, &oauth2.Token{AccessToken: "a", RefreshToken: "rt", Expiry: testNow.Add(time.Hour)})
	if rec := e.get("/admin", fresh); rec.Code != http.StatusOK || e.identity.refreshed != 1 {
		t.Fatalf("fresh token must not refresh: refreshed=%d", e.identity.refreshed)
	}

	e.identity.refreshErr = domain.ErrUnauthorized
	rec = e.get("/admin", expiring)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/login" {
		t.Fatalf("failed refresh: %d", rec.Code)
	}
	if c := responseCookie(rec, sessionCookie); c == nil || c.MaxAge >= 0 {
		t.Fatalf("failed refresh must clear the cookie, got %+v", c)
	}
}

func TestAdminCategoryForms(t *testing.T) {
	e := newTestEnv(t)
	ck := e.adminCookie()

	rec := e.post("/admin/categories", url.Values{"title_ru": {"Металлоискатели"}, "title_az": {"Metal detektorlar"}, "sort_order": {"1"}}, ck)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/categories?ok=1" {
		t.Fatalf("create: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	rec = e.post("/admin/categories", url.Values{"title_az": {"Yalnız AZ"}}, ck)
	if loc := rec.Header().Get("Location"); rec.Code != http.StatusSeeOther || !strings.HasPrefix(loc, "/admin/categories?error=") {
		t.Fatalf("invalid create: %d %q", rec.Code, loc)
	}

	rec = e.get("/admin/categories?ok=1", ck)
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, "Металлоискатели") || !strings.Contains(body, "Сохранено") {
		t.Fatalf("list: %d", rec.Code)
	}
}

func TestAdminProductFlow(t *testing.T) {
	e := newTestEnv(t)
	ck := e.adminCookie()

	rec := e.post("/admin/products/new", url.Values{
		"title_ru":    {"Garrett Ace 400"},
		"price":       {"520"},
		"is_active":   {"on"},
		"in_stock":    {"on"},
		"collections": {domain.CollectionHits},
	}, ck)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/admin/products/") {
		t.Fatalf("location = %q", loc)
	}
	if rec := e.get(loc, ck); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Garrett Ace 400") {
		t.Fatalf("edit page: %d", rec.Code)
	}

	rec = e.post(loc+"/i18n/az", url.Values{"title": {"Garrett Ace 400 AZ"}, "specs": {`{"Tezlik": "10 kHz"}`}}, ck)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != loc+"?ok=1" {
		t.Fatalf("i18n: %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = e.get("/admin/products?q=garrett", ck)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Garrett Ace 400") {
		t.Fatalf("search: %d", rec.Code)
	}

	rec = e.get("/admin/products/export.xlsx", ck)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Type"), "spreadsheetml") || rec.Body.Len() == 0 {
		t.Fatalf("export: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "products-20250510.xlsx") {
		t.Errorf("disposition = %q", cd)
	}

	if rec := e.post(loc+"/delete", nil, ck); rec.Code != http.StatusSeeOther {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := e.get(loc, ck); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted product: %d", rec.Code)
	}
}

func TestAdminPostFlow(t *testing.T) {
	e := newTestEnv(t)
	ck := e.adminCookie()

	rec := e.post("/admin/blog/new", url.Values{"title_ru": {"Как выбрать металлоискатель"}}, ck)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create: %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if rec := e.get(loc, ck); rec.Code != http.StatusOK {
		t.Fatalf("edit page: %d", rec.Code)
	}
	rec = e.post(loc+"/base", url.Values{"slug": {"kak-vybrat"}, "is_active": {"on"}, "published_at": {"2025-05-01"}}, ck)
	if rec.Code != http.StatusSeeOther || !strings.HasSuffix(rec.Header().Get("Location"), "?ok=1") {
		t.Fatalf("base: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	e.post(loc+"/i18n/ru", url.Values{"title": {"Как выбрать металлоискатель"}, "content": {"<p>Текст</p>"}}, ck)

	if rec := e.get("/ru/blog/kak-vybrat"); rec.Code != http.StatusOK {
		t.Fatalf("public post: %d", rec.Code)
	}
}

func TestSwitchLangURL(t *testing.T) {
	cases := []struct {
		path, query string
		to          domain.Lang
		want        string
	}{
		{"/ru", "", domain.LangAZ, "/az"},
		{"/ru/products", "sort=new", domain.LangAZ, "/az/products?sort=new"},
		{"/az/blog/post-1", "", domain.LangRU, "/ru/blog/post-1"},
	}
	for _, tc := range cases {
		if got := switchLangURL(tc.path, tc.query, tc.to); got != tc.want {
			t.Errorf("switchLangURL(%q, %q) = %q, want %q", tc.path, tc.query, got, tc.want)
		}
	}
}

func TestLocalPath(t *testing.T) {
	cases := map[string]string{
		"":                    "/fallback",
		"/ru/products?page=2": "/ru/products?page=2",
		"https://evil.com/x":  "/fallback",
		"//evil.com/x":        "/fallback",
		"relative/path":       "/fallback",
	}
	for in, want := range cases {
		if got := localPath(in, "/fallback"); got != want {
			t.Errorf("localPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetPaginationRange(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, Ellipsis, 10}},
		{5, 10, []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
		{3, 10, []int{1, 2, 3, 4, Ellipsis, 10}},
		{10, 10, []int{1, Ellipsis, 9, 10}},
		{4, 7, []int{1, 2, 3, 4, 5, 6, 7}},
	}
	for _, tc := range cases {
		if got := getPaginationRange(tc.current, tc.total); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("getPaginationRange(%d, %d) = %v, want %v", tc.current, tc.total, got, tc.want)
		}
	}
}
