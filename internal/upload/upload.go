// Package upload validates image uploads and turns them into data URLs.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultMaxBytes = 2 * 1024 * 1024

var (
	ErrTooLarge = errors.New("image too large (max 2MB)")
	ErrNotImage = errors.New("file is not an image")
	ErrEmpty    = errors.New("empty file")
)

// Image is an accepted upload.
type Image struct {
	MIME    string
	DataURL string
	Size    int
}

// Read accepts at most max bytes from r. size is the declared size, checked
// first so oversized files are rejected without reading them.
func Read(r io.Reader, size, max int64) (Image, error) {
	if max <= 0 {
		max = DefaultMaxBytes
	}
	if size > max {
		return Image{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return Image{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(b)) > max {
		return Image{}, ErrTooLarge
	}
	return Decode(b)
}

// Decode sniffs the content type and builds the data URL.
func Decode(b []byte) (Image, error) {
	if len(b) == 0 {
		return Image{}, ErrEmpty
	}
	mt := mimetype.Detect(b)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Image{}, fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}
	return Image{
		MIME:    mt.String(),
		DataURL: "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(b),
		Size:    len(b),
	}, nil
}
