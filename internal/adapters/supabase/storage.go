package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const listLimit = 1000

// Storage implements domain.FileStorage on Supabase Storage. It needs the service key.
type Storage struct {
	c *Client
}

func NewStorage(c *Client) *Storage { return &Storage{c: c} }

func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

func (s *Storage) PublicURL(bucket, path string) string {
	return s.c.baseURL + "/storage/v1/object/public/" + bucket + "/" + escapePath(path)
}

func (s *Storage) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extra := http.Header{"X-Upsert": []string{"true"}, "Cache-Control": []string{"max-age=3600"}}
	err := s.c.do(ctx, http.MethodPost, "/storage/v1/object/"+bucket+"/"+escapePath(path), r, contentType, "", extra, nil)
	if err != nil {
		return "", err
	}
	return s.PublicURL(bucket, path), nil
}

func (s *Storage) Remove(ctx context.Context, bucket string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	body := map[string][]string{"prefixes": paths}
	return s.c.doJSON(ctx, http.MethodDelete, "/storage/v1/object/"+bucket, body, "", nil)
}

// List returns the paths of the files directly inside folder.
func (s *Storage) List(ctx context.Context, bucket, folder string) ([]string, error) {
	folder = strings.Trim(folder, "/")
	body := map[string]any{"prefix": folder, "limit": listLimit, "offset": 0}
	var entries []struct {
		Name string  `json:"name"`
		ID   *string `json:"id"`
	}
	if err := s.c.doJSON(ctx, http.MethodPost, "/storage/v1/object/list/"+bucket, body, "", &entries); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.ID == nil || e.Name == "" {
			continue // sub-folder placeholder
		}
		if folder == "" {
			out = append(out, e.Name)
		} else {
			out = append(out, folder+"/"+e.Name)
		}
	}
	return out, nil
}

// PathFromURL takes whatever follows "/<bucket>/" in a public URL and unescapes it.
func (s *Storage) PathFromURL(bucket, publicURL string) (string, error) {
	return pathAfterBucket(bucket, publicURL)
}

func pathAfterBucket(bucket, publicURL string) (string, error) {
	u := publicURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	marker := "/object/public/" + bucket + "/"
	i := strings.Index(u, marker)
	if i < 0 {
		marker = "/" + bucket + "/"
		i = strings.LastIndex(u, marker)
	}
	if i < 0 {
		return "", fmt.Errorf("url %q is not in bucket %s", publicURL, bucket)
	}
	p, err := url.PathUnescape(u[i+len(marker):])
	if err != nil {
		return "", fmt.Errorf("url %q: %w", publicURL, err)
	}
	if p == "" {
		return "", fmt.Errorf("url %q has no object path", publicURL)
	}
	return p, nil
}
