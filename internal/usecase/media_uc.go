package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arazdetector/mdbaku/internal/domain"
	"github.com/arazdetector/mdbaku/internal/media"
)

type MediaUC struct {
	Guard    *Guard
	Products domain.ProductRepo
	Posts    domain.PostRepo
	Storage  domain.FileStorage
	Cache    domain.Revalidator
	Now      func() time.Time
}

type upload struct {
	data        []byte
	ext         string
	contentType string
}

// prepare compresses images; on failure the original bytes are uploaded unchanged.
func prepare(filename, contentType string, r io.Reader) (upload, domain.MediaKind, error) {
	kind := domain.MediaImage
	switch {
	case strings.HasPrefix(contentType, "video/"):
		kind = domain.MediaVideo
	case strings.HasPrefix(contentType, "image/"):
	default:
		return upload{}, "", invalid("unsupported file type " + contentType)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return upload{}, "", err
	}
	u := upload{data: data, ext: extOf(filename, contentType), contentType: contentType}
	if kind == domain.MediaImage {
		out, err := media.Compress(bytes.NewReader(data))
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("image compression failed, uploading original")
		} else {
			u = upload{data: out, ext: media.ExtJPEG, contentType: media.ContentTypeJPEG}
		}
	}
	return u, kind, nil
}

func extOf(filename, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), "."); ext != "" {
		return ext
	}
	if i := strings.IndexByte(contentType, '/'); i >= 0 {
		return contentType[i+1:]
	}
	return "bin"
}

// UploadProductMedia stores the file under <productID>/<uuid>.<ext> and appends a media row.
func (uc *MediaUC) UploadProductMedia(ctx context.Context, productID uint, filename, contentType string, r io.Reader) (*domain.ProductMedia, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return nil, err
	}
	u, kind, err := prepare(filename, contentType, r)
	if err != nil {
		return nil, err
	}
	objPath := fmt.Sprintf("%d/%s.%s", productID, uuid.NewString(), u.ext)
	url, err := uc.Storage.Upload(ctx, domain.BucketProducts, objPath, bytes.NewReader(u.data), u.contentType)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	m := &domain.ProductMedia{ProductID: productID, URL: url, Kind: kind}
	if err := uc.Products.AddMedia(ctx, m); err != nil {
		if rmErr := uc.Storage.Remove(ctx, domain.BucketProducts, objPath); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", objPath).Msg("orphan media object")
		}
		return nil, err
	}
	revalidate(uc.Cache, productKeys...)
	return m, nil
}

// AddProductMedia links an already hosted file, such as a video URL.
func (uc *MediaUC) AddProductMedia(ctx context.Context, productID uint, url string, kind domain.MediaKind) (*domain.ProductMedia, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return nil, err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, invalid("url")
	}
	if kind != domain.MediaVideo {
		kind = domain.MediaImage
	}
	m := &domain.ProductMedia{ProductID: productID, URL: url, Kind: kind}
	if err := uc.Products.AddMedia(ctx, m); err != nil {
		return nil, err
	}
	revalidate(uc.Cache, productKeys...)
	return m, nil
}

// DeleteProductMedia removes the stored object when its URL can be mapped back to a path,
// then always removes the row.
func (uc *MediaUC) DeleteProductMedia(ctx context.Context, productID, mediaID uint) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	m, err := uc.Products.MediaByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if m.ProductID != productID {
		return domain.ErrNotFound
	}
	removeObject(ctx, uc.Storage, domain.BucketProducts, m.URL)
	if err := uc.Products.DeleteMedia(ctx, mediaID); err != nil {
		return err
	}
	revalidate(uc.Cache, productKeys...)
	return nil
}

func (uc *MediaUC) SetMainMedia(ctx context.Context, productID, mediaID uint) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	if err := uc.Products.SetMainMedia(ctx, productID, mediaID); err != nil {
		return err
	}
	revalidate(uc.Cache, productKeys...)
	return nil
}

// UploadPostCover stores the cover under <postID>/<unix millis>.<ext> and replaces the previous one.
func (uc *MediaUC) UploadPostCover(ctx context.Context, postID uint, filename, contentType string, r io.Reader) (string, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return "", err
	}
	e, err := uc.Posts.Get(ctx, postID)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", invalid("cover must be an image")
	}
	u, _, err := prepare(filename, contentType, r)
	if err != nil {
		return "", err
	}
	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	objPath := fmt.Sprintf("%d/%d.%s", postID, now().UnixMilli(), u.ext)
	url, err := uc.Storage.Upload(ctx, domain.BucketBlog, objPath, bytes.NewReader(u.data), u.contentType)
	if err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	if err := uc.Posts.SetCover(ctx, postID, &url); err != nil {
		return "", err
	}
	if e.Post.CoverImage != nil && *e.Post.CoverImage != url {
		removeObject(ctx, uc.Storage, domain.BucketBlog, *e.Post.CoverImage)
	}
	revalidate(uc.Cache, postKeys...)
	return url, nil
}

func (uc *MediaUC) DeletePostCover(ctx context.Context, postID uint) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	e, err := uc.Posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	if e.Post.CoverImage == nil {
		return nil
	}
	removeObject(ctx, uc.Storage, domain.BucketBlog, *e.Post.CoverImage)
	if err := uc.Posts.SetCover(ctx, postID, nil); err != nil {
		return err
	}
	revalidate(uc.Cache, postKeys...)
	return nil
}
