// Package images stores uploaded pictures and derives their fixed-width JPEG
// renditions. All files produced for one upload share an opaque stem, which
// is also the unit of cleanup.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"path/filepath"
	"strings"

	"gallery/models"
	"gallery/storage"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// VariantWidths are the long-edge sizes of the generated renditions.
var VariantWidths = []int{1600, 960, 480}

const (
	jpegQuality  = 90
	maxDimension = 8000
)

var defaultAllowedExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

type Meta struct {
	Width  int
	Height int
	// Bytes is the on-disk size of the stored original
	Bytes int64
}

type Processor struct {
	Storage           storage.API
	MaxBytes          int64
	AllowedExtensions []string
}

func NewProcessor(store storage.API, maxSizeMB int) *Processor {
	return &Processor{
		Storage:           store,
		MaxBytes:          int64(maxSizeMB) * 1024 * 1024,
		AllowedExtensions: defaultAllowedExtensions,
	}
}

// Store validates the upload, persists the original as {stem}{ext} and
// derives the resized variants {stem}-{width}.jpg. No partial writes survive
// a failure: every error after the original was written cleans up the whole
// stem.
func (p *Processor) Store(reader io.Reader, size int64, originalName, stem string) (Meta, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !p.extensionAllowed(ext) {
		return Meta{}, models.Validationf("file type %s is not allowed (allowed: %s)",
			ext, strings.Join(p.AllowedExtensions, ", "))
	}
	if size > p.MaxBytes {
		return Meta{}, models.Validationf("file exceeds the maximum size of %dMB", p.MaxBytes/1024/1024)
	}
	if size == 0 {
		return Meta{}, models.Validationf("file is empty")
	}

	buf := bytes.Buffer{}
	if _, err := io.Copy(&buf, io.LimitReader(reader, p.MaxBytes+1)); err != nil {
		return Meta{}, fmt.Errorf("cannot read upload: %w", err)
	}
	if int64(buf.Len()) > p.MaxBytes {
		return Meta{}, models.Validationf("file exceeds the maximum size of %dMB", p.MaxBytes/1024/1024)
	}
	data := buf.Bytes()

	originalPath := stem + ext
	written, err := p.Storage.Save(originalPath, bytes.NewReader(data))
	if err != nil {
		return Meta{}, fmt.Errorf("cannot store file: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		p.cleanup(stem)
		return Meta{}, models.Validationf("file is not a valid image")
	}
	bounds := img.Bounds().Size()
	if bounds.X > maxDimension || bounds.Y > maxDimension {
		p.cleanup(stem)
		return Meta{}, models.Validationf("image dimensions exceed the maximum of %dpx", maxDimension)
	}

	oriented := autoOrient(img, data)
	for _, width := range VariantWidths {
		if err = p.saveVariant(oriented, stem, width); err != nil {
			p.cleanup(stem)
			return Meta{}, fmt.Errorf("cannot create %dpx variant: %w", width, err)
		}
	}
	return Meta{Width: bounds.X, Height: bounds.Y, Bytes: written}, nil
}

func (p *Processor) saveVariant(img image.Image, stem string, width int) error {
	thumb := resize.Thumbnail(uint(width), uint(width), img, resize.Lanczos3)
	buf := bytes.Buffer{}
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return err
	}
	_, err := p.Storage.Save(fmt.Sprintf("%s-%d.jpg", stem, width), &buf)
	return err
}

// DeleteAllVariants removes the original and every rendition for the stem.
// Deletion is best-effort: errors are logged and swallowed so a larger delete
// workflow never aborts halfway. Stems with path separators or traversal
// sequences are rejected outright.
func (p *Processor) DeleteAllVariants(stem string) {
	if !StemIsSafe(stem) {
		log.Printf("Refusing to delete files for unsafe stem %q", stem)
		return
	}
	p.cleanup(stem)
}

func (p *Processor) cleanup(stem string) {
	names, err := p.Storage.ListMatching(stem)
	if err != nil {
		log.Printf("Cannot list files for stem %s: %v", stem, err)
		return
	}
	root, err := filepath.Abs(p.Storage.GetFullPath(""))
	if err != nil {
		log.Printf("Cannot resolve media root: %v", err)
		return
	}
	for _, name := range names {
		// Stay inside the root even if a name resolves elsewhere via symlinks
		// or absolute components
		full, err := filepath.Abs(p.Storage.GetFullPath(name))
		if err != nil || !strings.HasPrefix(full, root+string(filepath.Separator)) {
			log.Printf("Skipping delete outside media root: %s", name)
			continue
		}
		if err = p.Storage.Delete(name); err != nil {
			log.Printf("Cannot delete %s: %v", name, err)
		}
	}
}

// StemIsSafe rejects anything that could escape the media root when used as
// a filename prefix.
func StemIsSafe(stem string) bool {
	if strings.TrimSpace(stem) == "" {
		return false
	}
	return !strings.Contains(stem, "..") &&
		!strings.Contains(stem, "/") &&
		!strings.Contains(stem, "\\")
}

func (p *Processor) extensionAllowed(ext string) bool {
	for _, allowed := range p.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
