package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/gorilla/schema"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const maxUpload = 32 << 20

var formDecoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	// checkboxes post "on"
	d.RegisterConverter(false, func(v string) reflect.Value {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on", "1", "true", "yes":
			return reflect.ValueOf(true)
		}
		return reflect.ValueOf(false)
	})
	return d
}

// decodeForm parses url-encoded and multipart bodies into dst.
func decodeForm(r *http.Request, dst any) error {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(maxUpload)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}
	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}
	return nil
}

// localPath accepts only same-site relative targets for post-redirect-get.
func localPath(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(raw, "//") {
		return fallback
	}
	return u.RequestURI()
}

// withFlash appends a notice for the next admin page.
func withFlash(target, key, msg string) string {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + key + "=" + url.QueryEscape(msg)
}
