// Package imaging turns uploaded menu pictures into bounded JPEGs and keeps
// them on disk.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// MaxDimension bounds the longer edge of a stored picture.
	MaxDimension = 1024

	// JPEGQuality is the encoder quality of stored pictures.
	JPEGQuality = 85
)

// AllowedMIME lists the sniffed content types accepted as uploads.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

var (
	ErrTooLarge    = errors.New("image too large")
	ErrUnsupported = errors.New("unsupported image format")
)

// Picture is an upload converted for storage.
type Picture struct {
	Data   []byte
	Width  int
	Height int
}

// Process reads an upload of at most maxBytes (unlimited when maxBytes <= 0),
// checks its real content type, shrinks it to fit MaxDimension and encodes it
// as JPEG.
func Process(r io.Reader, maxBytes int64) (*Picture, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if maxBytes > 0 && int64(len(raw)) > maxBytes {
		return nil, ErrTooLarge
	}

	// The client's Content-Type is ignored.
	if ct := http.DetectContentType(raw); !AllowedMIME[ct] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ct)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	out := src
	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), MaxDimension)
	if w != src.Bounds().Dx() || h != src.Bounds().Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return &Picture{Data: buf.Bytes(), Width: w, Height: h}, nil
}

// fit returns the size of a w x h picture scaled so that neither edge
// exceeds limit, keeping the aspect ratio. Smaller pictures keep their size.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
