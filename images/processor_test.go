package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"gallery/models"
	"gallery/storage"
)

func testProcessor(t *testing.T) *Processor {
	t.Helper()
	return NewProcessor(storage.NewDiskStorage(t.TempDir()), 10)
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	buf := bytes.Buffer{}
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestStoreCreatesAllVariants(t *testing.T) {
	p := testProcessor(t)
	data := pngBytes(t, 200, 100)
	meta, err := p.Store(bytes.NewReader(data), int64(len(data)), "photo.png", "abc123")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if meta.Width != 200 || meta.Height != 100 {
		t.Errorf("meta = %dx%d, want 200x100", meta.Width, meta.Height)
	}
	if meta.Bytes != int64(len(data)) {
		t.Errorf("meta.Bytes = %d, want %d", meta.Bytes, len(data))
	}
	names, err := p.Storage.ListMatching("abc123")
	if err != nil {
		t.Fatalf("ListMatching: %v", err)
	}
	want := []string{"abc123.png", "abc123-1600.jpg", "abc123-960.jpg", "abc123-480.jpg"}
	for _, w := range want {
		found := false
		for _, n := range names {
			if n == w {
				found = true
			}
		}
		if !found {
			t.Errorf("missing file %s, have %v", w, names)
		}
	}
}

func TestStoreRejections(t *testing.T) {
	p := testProcessor(t)
	data := pngBytes(t, 10, 10)
	tests := []struct {
		name     string
		fileName string
		payload  []byte
		size     int64
	}{
		{"disallowed extension", "document.pdf", data, int64(len(data))},
		{"empty file", "photo.jpg", nil, 0},
		{"oversized", "photo.jpg", data, 11 * 1024 * 1024},
		{"not an image", "photo.jpg", []byte("just some text"), 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Store(bytes.NewReader(tt.payload), tt.size, tt.fileName, "rej001")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !models.IsValidation(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
			// A rejected upload leaves no files behind
			names, _ := p.Storage.ListMatching("rej001")
			if len(names) != 0 {
				t.Errorf("leftover files after rejection: %v", names)
			}
		})
	}
}

func TestDeleteAllVariants(t *testing.T) {
	p := testProcessor(t)
	data := pngBytes(t, 64, 64)
	if _, err := p.Store(bytes.NewReader(data), int64(len(data)), "photo.png", "del001"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	p.DeleteAllVariants("del001")
	names, err := p.Storage.ListMatching("del001")
	if err != nil {
		t.Fatalf("ListMatching: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("files remain after delete: %v", names)
	}
}

func TestStemIsSafe(t *testing.T) {
	tests := []struct {
		stem string
		want bool
	}{
		{"abc123", true},
		{"", false},
		{"   ", false},
		{"../../etc/passwd", false},
		{"a/b", false},
		{"a\\b", false},
	}
	for _, tt := range tests {
		if got := StemIsSafe(tt.stem); got != tt.want {
			t.Errorf("StemIsSafe(%q) = %v, want %v", tt.stem, got, tt.want)
		}
	}
}

func TestVariantPathNaming(t *testing.T) {
	img := models.CollectionImage{FileName: "abc123"}
	if got := img.VariantPath(960); got != "abc123-960.jpg" {
		t.Errorf("VariantPath(960) = %q, want \"abc123-960.jpg\"", got)
	}
	if !strings.HasPrefix(img.VariantPath(480), img.FileName) {
		t.Error("variant path must start with the stem")
	}
}
