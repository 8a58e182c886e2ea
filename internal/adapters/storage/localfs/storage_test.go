package localfs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadListRemove(t *testing.T) {
	s, err := New(t.TempDir(), "http://localhost:8080/")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	url, err := s.Upload(ctx, "products", "4/photo one.jpg", strings.NewReader("jpeg-bytes"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if url != "http://localhost:8080/uploads/products/4/photo%20one.jpg" {
		t.Fatalf("url = %s", url)
	}
	p, err := s.PathFromURL("products", url)
	if err != nil || p != "4/photo one.jpg" {
		t.Fatalf("path = %q %v", p, err)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/products/4/photo%20one.jpg", nil))
	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusOK || string(body) != "jpeg-bytes" {
		t.Fatalf("serve: %d %q", rec.Code, body)
	}

	paths, err := s.List(ctx, "products", "4")
	if err != nil || len(paths) != 1 || paths[0] != "4/photo one.jpg" {
		t.Fatalf("list = %v %v", paths, err)
	}
	if err := s.Remove(ctx, "products", paths...); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, "products", "4/missing.jpg"); err != nil {
		t.Fatalf("missing file: %v", err)
	}
	paths, _ = s.List(ctx, "products", "4")
	if len(paths) != 0 {
		t.Fatalf("left: %v", paths)
	}
	if empty, err := s.List(ctx, "products", "404"); err != nil || len(empty) != 0 {
		t.Fatalf("unknown folder: %v %v", empty, err)
	}
}

func TestRejectsTraversalAndForeignURLs(t *testing.T) {
	s, _ := New(t.TempDir(), "")
	if _, err := s.Upload(context.Background(), "blog", "../../etc/passwd", strings.NewReader("x"), ""); err == nil {
		t.Fatal("traversal accepted")
	}
	if _, err := s.PathFromURL("blog", "https://cdn.example.com/other/1.jpg"); err == nil {
		t.Fatal("foreign url accepted")
	}
	if _, err := s.PathFromURL("blog", "/uploads/products/1.jpg"); err == nil {
		t.Fatal("other bucket accepted")
	}
}
