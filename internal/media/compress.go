// Package media prepares uploaded images for object storage.
package media

import (
	"bytes"
	"io"

	"github.com/disintegration/imaging"
)

const (
	MaxDimension = 1920
	JPEGQuality  = 80

	ContentTypeJPEG = "image/jpeg"
	ExtJPEG         = "jpg"
)

// Compress decodes an image, shrinks it to fit MaxDimension on its longer side and
// re-encodes it as JPEG. Smaller images keep their size.
func Compress(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
