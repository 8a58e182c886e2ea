package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arazdetector/mdbaku/internal/adapters/repo/postgres"
	"github.com/arazdetector/mdbaku/internal/domain"
	"github.com/arazdetector/mdbaku/internal/usecase"
)

type env struct {
	db          *gorm.DB
	products    *postgres.ProductRepo
	categories  *postgres.CategoryRepo
	collections *postgres.CollectionRepo
	posts       *postgres.PostRepo
	profiles    *postgres.ProfileRepo
	guard       *usecase.Guard
	storage     *fakeStorage
	cache       *spyCache
}

func newEnv(t *testing.T) *env {
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
	e := &env{
		db:          db,
		products:    postgres.NewProductRepo(db),
		categories:  postgres.NewCategoryRepo(db),
		collections: postgres.NewCollectionRepo(db),
		posts:       postgres.NewPostRepo(db),
		profiles:    postgres.NewProfileRepo(db),
		storage:     newFakeStorage(),
		cache:       &spyCache{data: map[string]any{}},
	}
	e.guard = &usecase.Guard{Profiles: e.profiles}
	for _, p := range []domain.Profile{
		{ID: "admin-1", Email: "admin@mdbaku.az", Role: domain.RoleAdmin},
		{ID: "viewer-1", Email: "viewer@mdbaku.az", Role: "viewer"},
	} {
		p := p
		if err := e.profiles.Save(context.Background(), &p); err != nil {
			t.Fatal(err)
		}
	}
	return e
}

func adminCtx() context.Context {
	return domain.WithPrincipal(context.Background(), domain.Principal{UserID: "admin-1", Email: "admin@mdbaku.az", Provider: domain.ProviderPassword})
}

func (e *env) productUC() *usecase.ProductAdminUC {
	return &usecase.ProductAdminUC{Guard: e.guard, Products: e.products, Categories: e.categories, Collections: e.collections, Storage: e.storage, Cache: e.cache}
}

func (e *env) categoryUC() *usecase.CategoryAdminUC {
	return &usecase.CategoryAdminUC{Guard: e.guard, Categories: e.categories, Cache: e.cache}
}

func (e *env) postUC() *usecase.PostAdminUC {
	return &usecase.PostAdminUC{Guard: e.guard, Posts: e.posts, Storage: e.storage, Cache: e.cache, Now: fixedNow}
}

func fixedNow() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

func (e *env) mediaUC() *usecase.MediaUC {
	return &usecase.MediaUC{Guard: e.guard, Products: e.products, Posts: e.posts, Storage: e.storage, Cache: e.cache}
}

const cdn = "https://cdn.test/object/public/"

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	removed []string
	failRm  bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStorage) Upload(_ context.Context, bucket, path string, r io.Reader, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+path] = b
	s.types[bucket+"/"+path] = contentType
	return cdn + bucket + "/" + path, nil
}

func (s *fakeStorage) Remove(_ context.Context, bucket string, paths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRm {
		return fmt.Errorf("storage down")
	}
	for _, p := range paths {
		delete(s.objects, bucket+"/"+p)
		s.removed = append(s.removed, bucket+"/"+p)
	}
	return nil
}

func (s *fakeStorage) List(_ context.Context, bucket, folder string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := bucket + "/" + strings.Trim(folder, "/") + "/"
	var out []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, strings.TrimPrefix(k, bucket+"/"))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *fakeStorage) PathFromURL(bucket, publicURL string) (string, error) {
	marker := "/public/" + bucket + "/"
	i := strings.Index(publicURL, marker)
	if i < 0 {
		return "", fmt.Errorf("foreign url %q", publicURL)
	}
	return publicURL[i+len(marker):], nil
}

type spyCache struct {
	mu          sync.Mutex
	data        map[string]any
	revalidated [][]string
}

func (c *spyCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *spyCache) Set(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

func (c *spyCache) Revalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revalidated = append(c.revalidated, prefixes)
	for k := range c.data {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				delete(c.data, k)
			}
		}
	}
}
