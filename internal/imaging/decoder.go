// Package imaging loads image files into pixel buffers.
package imaging

import (
	"fmt"
	"image"
	"os"

	// Registered decoders. JPEG, PNG and GIF come from the standard
	// library; WebP, BMP and TIFF from golang.org/x/image.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Formats lists the image formats this decoder understands.
func Formats() []string {
	return []string{"jpeg", "png", "gif", "webp", "bmp", "tiff"}
}

// FileDecoder decodes image files from the local filesystem.
type FileDecoder struct{}

// NewFileDecoder creates a decoder for the registered formats.
func NewFileDecoder() *FileDecoder {
	return &FileDecoder{}
}

// Decode reads and decodes the image at path. Missing files, unsupported
// formats and corrupt data all surface as errors for the caller to isolate.
func (d *FileDecoder) Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}
