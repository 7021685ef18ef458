// Package attachment prepares transaction images for upload and decides which
// image paths belong to the remote image store.
package attachment

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// TableTransactions is the table_name the image service files transaction
// attachments under.
const TableTransactions = "transactions"

// ErrEmptyImage is returned when there is nothing to prepare.
var ErrEmptyImage = errors.New("empty image")

// Image is a prepared JPEG ready for upload.
type Image struct {
	Filename string
	Data     []byte
	Width    int
	Height   int
}

// Prepare decodes any supported image, fits it inside maxDim x maxDim and
// re-encodes it as JPEG. EXIF orientation is applied.
func Prepare(r io.Reader, filename string, maxDim, quality int) (*Image, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyImage
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	if maxDim > 0 {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	b := img.Bounds()
	return &Image{
		Filename: jpegName(filename),
		Data:     buf.Bytes(),
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

// Dimensions returns the size of an encoded image without decoding pixels.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func jpegName(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == "/" || base == "" {
		return "upload.jpg"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
}

// IsRemote reports whether path points into the remote image store rather
// than at a freshly picked local file. With a prefix, remote paths contain
// it; without one, any path without a URI scheme is a backend path.
func IsRemote(path, prefix string) bool {
	if path == "" {
		return false
	}
	if prefix != "" {
		return strings.Contains(path, prefix)
	}
	return !strings.Contains(path, "://")
}

// RemotePath strips the source prefix so the path matches what the image
// service stored.
func RemotePath(path, prefix string) string {
	if prefix == "" {
		return path
	}
	return strings.Replace(path, prefix, "", 1)
}

// DisplayPath is the inverse of RemotePath. Local URIs are returned as is.
func DisplayPath(path, prefix string) string {
	if path == "" || prefix == "" || strings.HasPrefix(path, prefix) || strings.Contains(path, "://") {
		return path
	}
	return prefix + path
}
