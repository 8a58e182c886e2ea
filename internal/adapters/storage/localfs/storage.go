// Package localfs keeps uploaded files on disk and serves them under /uploads.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const URLPrefix = "/uploads/"

type Storage struct {
	root    string
	baseURL string
}

// New stores files below dir; public URLs are baseURL + /uploads/<bucket>/<path>.
func New(dir, baseURL string) (*Storage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Storage{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *Storage) resolve(bucket, p string) (string, error) {
	full := filepath.Join(s.root, bucket, filepath.FromSlash(p))
	if !strings.HasPrefix(full, filepath.Join(s.root, bucket)+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes bucket %s", p, bucket)
	}
	return full, nil
}

func (s *Storage) Upload(_ context.Context, bucket, p string, r io.Reader, _ string) (string, error) {
	full, err := s.resolve(bucket, p)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return s.baseURL + URLPrefix + bucket + "/" + escape(p), nil
}

func escape(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

func (s *Storage) Remove(_ context.Context, bucket string, paths ...string) error {
	var errs []error
	for _, p := range paths {
		full, err := s.resolve(bucket, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Storage) List(_ context.Context, bucket, folder string) ([]string, error) {
	folder = strings.Trim(folder, "/")
	dir, err := s.resolve(bucket, folder+"/x")
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Dir(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, folder+"/"+e.Name())
		}
	}
	return out, nil
}

func (s *Storage) PathFromURL(bucket, publicURL string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", err
	}
	marker := URLPrefix + bucket + "/"
	i := strings.Index(u.Path, marker)
	if i < 0 || len(u.Path) == i+len(marker) {
		return "", fmt.Errorf("url %q is not a local %s object", publicURL, bucket)
	}
	return u.Path[i+len(marker):], nil
}

// Handler serves stored files; mount it at URLPrefix.
func (s *Storage) Handler() http.Handler {
	return http.StripPrefix(URLPrefix, http.FileServer(http.Dir(s.root)))
}
