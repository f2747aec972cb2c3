package catalog

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"gallery/db"
	"gallery/images"
	"gallery/models"
	"gallery/storage"

	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	db.Init("", "file::memory:?cache=shared")
	models.Init()
	os.Exit(m.Run())
}

func testCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	return &Coordinator{
		Images: images.NewProcessor(storage.NewDiskStorage(t.TempDir()), 10),
		Audio:  storage.NewDiskStorage(t.TempDir()),
	}
}

func pngUpload(t *testing.T, name string) UploadFile {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 6), uint8(y * 8), 100, 255})
		}
	}
	buf := bytes.Buffer{}
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return UploadFile{Name: name, Size: int64(buf.Len()), Reader: bytes.NewReader(buf.Bytes())}
}

func badUpload(name string) UploadFile {
	payload := []byte("this is not an image")
	return UploadFile{Name: name, Size: int64(len(payload)), Reader: bytes.NewReader(payload)}
}

func loadCollection(t *testing.T, id uint64) models.Collection {
	t.Helper()
	var col models.Collection
	err := db.Instance.Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC")
	}).First(&col, id).Error
	if err != nil {
		t.Fatalf("load collection %d: %v", id, err)
	}
	return col
}

func TestCreateCollection(t *testing.T) {
	co := testCoordinator(t)
	result, err := co.CreateCollection(context.Background(), Draft{Title: "Sunset Over Prague"},
		[]UploadFile{pngUpload(t, "a.png"), pngUpload(t, "b.png")}, nil)
	if err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if result.StoredCount != 2 || len(result.Errors) != 0 {
		t.Errorf("result = %+v, want 2 stored and no errors", result)
	}

	col := loadCollection(t, result.ID)
	if col.Slug != "sunset-over-prague" {
		t.Errorf("slug = %q, want \"sunset-over-prague\"", col.Slug)
	}
	if len(col.Images) != 2 {
		t.Fatalf("got %d images, want 2", len(col.Images))
	}
	for i, img := range col.Images {
		if img.SortOrder != i {
			t.Errorf("image %d has sort order %d", i, img.SortOrder)
		}
		names, err := co.Images.Storage.ListMatching(img.FileName)
		if err != nil {
			t.Fatalf("ListMatching: %v", err)
		}
		// Original plus three renditions
		if len(names) != 4 {
			t.Errorf("stem %s has %d files, want 4: %v", img.FileName, len(names), names)
		}
	}
}

func TestCreateCollectionSlugCollision(t *testing.T) {
	co := testCoordinator(t)
	first, err := co.CreateCollection(context.Background(), Draft{Title: "Blue Vase"},
		[]UploadFile{pngUpload(t, "a.png")}, nil)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := co.CreateCollection(context.Background(), Draft{Title: "Blue Vase"},
		[]UploadFile{pngUpload(t, "b.png")}, nil)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if slug := loadCollection(t, first.ID).Slug; slug != "blue-vase" {
		t.Errorf("first slug = %q", slug)
	}
	if slug := loadCollection(t, second.ID).Slug; slug != "blue-vase-1" {
		t.Errorf("second slug = %q, want \"blue-vase-1\"", slug)
	}
}

func TestCreateCollectionPartialImageFailure(t *testing.T) {
	co := testCoordinator(t)
	result, err := co.CreateCollection(context.Background(), Draft{Title: "Partial"},
		[]UploadFile{pngUpload(t, "good1.png"), badUpload("broken.jpg"), pngUpload(t, "good2.png")}, nil)
	if err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if result.StoredCount != 2 {
		t.Errorf("stored %d images, want 2", result.StoredCount)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "broken.jpg") {
		t.Errorf("errors = %v, want one mentioning broken.jpg", result.Errors)
	}
	if !strings.Contains(result.Summary(), "1 failed") {
		t.Errorf("summary = %q", result.Summary())
	}
	if got := len(loadCollection(t, result.ID).Images); got != 2 {
		t.Errorf("collection has %d images, want 2", got)
	}
}

func TestCreateCollectionAllImagesFail(t *testing.T) {
	co := testCoordinator(t)
	audio := UploadFile{Name: "guide.mp3", Size: 4, Reader: bytes.NewReader([]byte("mp3!"))}
	_, err := co.CreateCollection(context.Background(), Draft{Title: "Doomed"},
		[]UploadFile{badUpload("x.jpg")}, &audio)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !models.IsValidation(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
	// The already-written audio file was cleaned up
	names, _ := co.Audio.ListMatching("")
	if len(names) != 0 {
		t.Errorf("audio root not cleaned up: %v", names)
	}
	var count int64
	db.Instance.Model(&models.Collection{}).Where("title = ?", "Doomed").Count(&count)
	if count != 0 {
		t.Error("no collection row should exist")
	}
}

func TestCreateCollectionValidation(t *testing.T) {
	co := testCoordinator(t)
	tests := []struct {
		name  string
		draft Draft
		imgs  []UploadFile
		audio *UploadFile
	}{
		{"missing title", Draft{}, []UploadFile{pngUpload(t, "a.png")}, nil},
		{"no images", Draft{Title: "No Images"}, nil, nil},
		{"wrong audio type", Draft{Title: "Bad Audio"}, []UploadFile{pngUpload(t, "a.png")},
			&UploadFile{Name: "guide.wav", Size: 4, Reader: bytes.NewReader([]byte("wav!"))}},
		{"audio too large", Draft{Title: "Big Audio"}, []UploadFile{pngUpload(t, "a.png")},
			&UploadFile{Name: "guide.mp3", Size: 16 * 1024 * 1024, Reader: bytes.NewReader(nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := co.CreateCollection(context.Background(), tt.draft, tt.imgs, tt.audio)
			if !models.IsValidation(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestUpdateCollectionMergeOnBlank(t *testing.T) {
	co := testCoordinator(t)
	created, err := co.CreateCollection(context.Background(),
		Draft{Title: "Old Clock", Description: "A fine clock"},
		[]UploadFile{pngUpload(t, "a.png")}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Blank fields keep the stored values
	_, err = co.UpdateCollection(context.Background(), created.ID, Draft{Status: models.StatusSold}, nil, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	col := loadCollection(t, created.ID)
	if col.Title != "Old Clock" || col.Description != "A fine clock" {
		t.Errorf("blank update changed content: %q/%q", col.Title, col.Description)
	}
	if col.Status != models.StatusSold {
		t.Errorf("status = %v, want sold", col.Status)
	}
	if col.Slug != "old-clock" {
		t.Errorf("slug changed to %q without a title change", col.Slug)
	}

	// A new title re-derives the slug
	_, err = co.UpdateCollection(context.Background(), created.ID, Draft{Title: "Older Clock"}, nil, nil)
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	col = loadCollection(t, created.ID)
	if col.Title != "Older Clock" || col.Slug != "older-clock" {
		t.Errorf("after retitle: %q/%q", col.Title, col.Slug)
	}
}

func TestUpdateCollectionAppendsImages(t *testing.T) {
	co := testCoordinator(t)
	created, err := co.CreateCollection(context.Background(), Draft{Title: "Growing"},
		[]UploadFile{pngUpload(t, "a.png")}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = co.UpdateCollection(context.Background(), created.ID, Draft{},
		[]UploadFile{pngUpload(t, "b.png")}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	col := loadCollection(t, created.ID)
	if len(col.Images) != 2 {
		t.Fatalf("got %d images, want 2", len(col.Images))
	}
	if col.Images[0].SortOrder != 0 || col.Images[1].SortOrder != 1 {
		t.Errorf("sort orders = %d,%d want 0,1", col.Images[0].SortOrder, col.Images[1].SortOrder)
	}
}

func TestReorderImages(t *testing.T) {
	co := testCoordinator(t)
	created, err := co.CreateCollection(context.Background(), Draft{Title: "Sorted"},
		[]UploadFile{pngUpload(t, "a.png"), pngUpload(t, "b.png"), pngUpload(t, "c.png")}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	col := loadCollection(t, created.ID)
	reversed := []uint64{col.Images[2].ID, col.Images[1].ID, col.Images[0].ID}

	changed, err := co.ReorderImages(created.ID, reversed)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if changed != 2 {
		t.Errorf("changed = %d, want 2 (the middle image keeps its position)", changed)
	}
	col = loadCollection(t, created.ID)
	if col.Images[0].ID != reversed[0] || col.Images[2].ID != reversed[2] {
		t.Error("images not in the requested order")
	}

	// Idempotent: a repeat changes nothing
	changed, err = co.ReorderImages(created.ID, reversed)
	if err != nil {
		t.Fatalf("second reorder: %v", err)
	}
	if changed != 0 {
		t.Errorf("second reorder changed %d rows, want 0", changed)
	}

	// Foreign ids are ignored and don't shift the known ones
	changed, err = co.ReorderImages(created.ID, append(reversed, 999999))
	if err != nil {
		t.Fatalf("reorder with foreign id: %v", err)
	}
	if changed != 0 {
		t.Errorf("foreign-id reorder changed %d rows, want 0", changed)
	}
}

func TestDeleteCollection(t *testing.T) {
	co := testCoordinator(t)
	audio := UploadFile{Name: "guide.mp3", Size: 4, Reader: bytes.NewReader([]byte("mp3!"))}
	created, err := co.CreateCollection(context.Background(), Draft{Title: "Doomed Too"},
		[]UploadFile{pngUpload(t, "a.png")}, &audio)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	col := loadCollection(t, created.ID)
	stem := col.Images[0].FileName

	if err := co.DeleteCollection(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.Instance.First(&models.Collection{}, created.ID).Error; err == nil {
		t.Error("collection row still exists")
	}
	if names, _ := co.Images.Storage.ListMatching(stem); len(names) != 0 {
		t.Errorf("image files remain: %v", names)
	}
	if names, _ := co.Audio.ListMatching(""); len(names) != 0 {
		t.Errorf("audio files remain: %v", names)
	}
}
