// Package screenshot saves framebuffer contents as PNG files.
package screenshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// ErrPixelSize is returned when the pixel buffer does not match the dimensions.
var ErrPixelSize = errors.New("pixel data size mismatch")

const timestampLayout = "2006-01-02_15-04-05"

// Writer names and writes screenshot files.
type Writer struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewWriter creates a Writer. An empty dir writes to the working directory.
func NewWriter(dir, prefix string) *Writer {
	return &Writer{dir: dir, prefix: prefix, now: time.Now}
}

// Filename returns the path the next screenshot would use. A name that is
// already taken gets a numeric suffix.
func (w *Writer) Filename() string {
	base := fmt.Sprintf("%s_%s", w.prefix, w.now().Format(timestampLayout))
	name := filepath.Join(w.dir, base+".png")
	for i := 2; fileExists(name); i++ {
		name = filepath.Join(w.dir, fmt.Sprintf("%s_%d.png", base, i))
	}
	return name
}

// SavePixels writes bottom-up RGBA rows, as returned by glReadPixels.
func (w *Writer) SavePixels(pixels []byte, width, height int) (string, error) {
	img, err := FromBottomUp(pixels, width, height)
	if err != nil {
		return "", err
	}
	return w.SaveImage(img)
}

// SaveImage writes img and returns the file name.
func (w *Writer) SaveImage(img image.Image) (string, error) {
	if w.dir != "" {
		if err := os.MkdirAll(w.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	name := w.Filename()
	file, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		os.Remove(name)
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	return name, nil
}

// FromBottomUp copies OpenGL-ordered rows into a top-down image.
func FromBottomUp(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrPixelSize, width, height, max(width*height*4, 0), len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
