// Package catalog sequences the multi-step write operations on collections
// and blog posts: validate first, then slow file I/O, then a fast retryable
// DB transaction, then best-effort post-commit translation. When the DB phase
// fails after files were written, the freshly written files are removed;
// files belonging to a previously committed state are never touched by a
// failure path.
package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"gallery/config"
	"gallery/db"
	"gallery/images"
	"gallery/models"
	"gallery/storage"
	"gallery/translate"
	"gallery/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Draft carries the user-editable fields of a collection. On edit, blank
// Title/Description mean "keep the existing value".
type Draft struct {
	Title       string
	Category    models.CollectionCategory
	Description string
	Status      models.CollectionStatus
	Price       *decimal.Decimal
	Currency    models.Currency
}

// UploadFile is one file from a multipart request.
type UploadFile struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// Result reports a write that succeeded, possibly with per-image failures.
type Result struct {
	ID          uint64
	StoredCount int
	Errors      []string
}

// Summary is shown to the admin, e.g. "saved with 2 image(s). 1 failed: ..."
func (r Result) Summary() string {
	s := fmt.Sprintf("saved with %d image(s)", r.StoredCount)
	if len(r.Errors) > 0 {
		s += fmt.Sprintf(". %d failed: %s", len(r.Errors), strings.Join(r.Errors, "; "))
	}
	return s
}

type Coordinator struct {
	Images *images.Processor
	Audio  storage.API
	Engine translate.Engine
}

func NewCoordinator(engine translate.Engine) *Coordinator {
	return &Coordinator{
		Images: images.NewProcessor(storage.Images(), config.MAX_IMAGE_SIZE_MB),
		Audio:  storage.Audio(),
		Engine: engine,
	}
}

type storedImage struct {
	stem string
	meta images.Meta
}

// CreateCollection runs the full upload workflow. At least one image must
// survive validation and processing or nothing is written at all.
func (co *Coordinator) CreateCollection(ctx context.Context, draft Draft, imgs []UploadFile, audio *UploadFile) (Result, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return Result{}, models.Validationf("title is required")
	}
	if len(imgs) == 0 {
		return Result{}, models.Validationf("at least one image is required")
	}
	if err := validateAudio(audio); err != nil {
		return Result{}, err
	}

	// I/O phase, before any transaction
	audioFile, err := co.storeAudio(audio)
	if err != nil {
		return Result{}, err
	}
	stored, ioErrors := co.storeImages(imgs)
	if len(stored) == 0 {
		co.deleteAudio(audioFile)
		return Result{}, models.Validationf("all images failed to upload: %s", strings.Join(ioErrors, "; "))
	}

	// Fast DB phase
	col := models.Collection{
		Title:       draft.Title,
		Category:    draft.Category,
		Description: draft.Description,
		Status:      draft.Status,
		Price:       draft.Price,
		Currency:    draft.Currency,
		AudioFile:   audioFile,
	}
	err = db.RetryTransaction(func(tx *gorm.DB) error {
		slug, err := models.UniqueCollectionSlug(tx, draft.Title)
		if err != nil {
			return err
		}
		col.Slug = slug
		if err = tx.Create(&col).Error; err != nil {
			return err
		}
		return insertImageRows(tx, col.ID, 0, stored)
	})
	if err != nil {
		// The files written this request are now unreferenced, remove them
		co.compensate(stored, audioFile)
		return Result{}, fmt.Errorf("could not save collection: %w", err)
	}

	// Best-effort side effects, the write is already committed
	translate.RetranslateCollection(ctx, co.Engine, &col)
	return Result{ID: col.ID, StoredCount: len(stored), Errors: ioErrors}, nil
}

// UpdateCollection merges the draft into an existing collection and appends
// any newly uploaded images. Blank draft fields keep the stored values.
func (co *Coordinator) UpdateCollection(ctx context.Context, id uint64, draft Draft, imgs []UploadFile, audio *UploadFile) (Result, error) {
	var existing models.Collection
	if err := db.Instance.First(&existing, id).Error; err != nil {
		return Result{}, models.ErrNotFound
	}
	if err := validateAudio(audio); err != nil {
		return Result{}, err
	}

	contentChanged := false
	titleChanged := false
	oldAudio := ""
	if t := strings.TrimSpace(draft.Title); t != "" && t != existing.Title {
		existing.Title = t
		contentChanged = true
		titleChanged = true
	}
	if d := strings.TrimSpace(draft.Description); d != "" && d != existing.Description {
		existing.Description = d
		contentChanged = true
	}
	existing.Category = draft.Category
	existing.Status = draft.Status
	existing.Currency = draft.Currency
	if draft.Price != nil {
		existing.Price = draft.Price
	}

	// I/O phase
	audioFile, err := co.storeAudio(audio)
	if err != nil {
		return Result{}, err
	}
	if audioFile != "" {
		oldAudio = existing.AudioFile
		existing.AudioFile = audioFile
	}
	stored, ioErrors := co.storeImages(imgs)
	if len(imgs) > 0 && len(stored) == 0 {
		co.deleteAudio(audioFile)
		return Result{}, models.Validationf("all images failed to upload: %s", strings.Join(ioErrors, "; "))
	}

	err = db.RetryTransaction(func(tx *gorm.DB) error {
		if titleChanged || existing.Slug == "" {
			slug, err := models.UniqueCollectionSlug(tx, existing.Title)
			if err != nil {
				return err
			}
			existing.Slug = slug
		}
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		if len(stored) == 0 {
			return nil
		}
		next, err := models.NextSortOrder(tx, existing.ID)
		if err != nil {
			return err
		}
		return insertImageRows(tx, existing.ID, next, stored)
	})
	if err != nil {
		// Only this request's files are compensated, the previously
		// committed ones stay
		co.compensate(stored, audioFile)
		return Result{}, fmt.Errorf("could not update collection: %w", err)
	}

	if oldAudio != "" {
		co.deleteAudio(oldAudio)
	}
	if contentChanged {
		translate.RetranslateCollection(ctx, co.Engine, &existing)
	}
	return Result{ID: existing.ID, StoredCount: len(stored), Errors: ioErrors}, nil
}

// ReorderImages assigns sort order by list position. Ids that don't belong to
// the collection are ignored. Idempotent; returns the number of rows that
// actually changed.
func (co *Coordinator) ReorderImages(collectionID uint64, imageIDs []uint64) (int, error) {
	changed := 0
	err := db.RetryTransaction(func(tx *gorm.DB) error {
		changed = 0
		var current []models.CollectionImage
		if err := tx.Where("collection_id = ?", collectionID).Find(&current).Error; err != nil {
			return err
		}
		byID := map[uint64]*models.CollectionImage{}
		for i := range current {
			byID[current[i].ID] = &current[i]
		}
		position := 0
		for _, id := range imageIDs {
			img, ok := byID[id]
			if !ok {
				continue
			}
			if img.SortOrder != position {
				if err := tx.Model(&models.CollectionImage{}).
					Where("id = ?", id).
					Update("sort_order", position).Error; err != nil {
					return err
				}
				changed++
			}
			position++
		}
		return nil
	})
	return changed, err
}

// DeleteCollection removes files first (best-effort, never aborts) and then
// the rows; images and translations go with the cascade.
func (co *Coordinator) DeleteCollection(id uint64) error {
	var col models.Collection
	if err := db.Instance.Preload("Images").First(&col, id).Error; err != nil {
		return models.ErrNotFound
	}
	for _, img := range col.Images {
		co.Images.DeleteAllVariants(img.FileName)
	}
	co.deleteAudio(col.AudioFile)
	return db.Instance.Delete(&col).Error
}

func (co *Coordinator) DeleteImage(collectionID, imageID uint64) error {
	var img models.CollectionImage
	err := db.Instance.Where("id = ? AND collection_id = ?", imageID, collectionID).First(&img).Error
	if err != nil {
		return models.ErrNotFound
	}
	co.Images.DeleteAllVariants(img.FileName)
	return db.Instance.Delete(&img).Error
}

//
// I/O phase helpers
//

// storeImages runs every upload through the processor independently. One bad
// image doesn't abort the others; failures come back as user-facing reasons.
func (co *Coordinator) storeImages(imgs []UploadFile) (stored []storedImage, errors []string) {
	for _, file := range imgs {
		if file.Size == 0 {
			continue
		}
		stem := utils.NewFileStem()
		meta, err := co.Images.Store(file.Reader, file.Size, file.Name, stem)
		if err != nil {
			log.Printf("Image %s failed: %v", file.Name, err)
			errors = append(errors, fmt.Sprintf("%s: %v", file.Name, err))
			continue
		}
		stored = append(stored, storedImage{stem: stem, meta: meta})
	}
	return
}

func validateAudio(audio *UploadFile) error {
	if audio == nil || audio.Size == 0 {
		return nil
	}
	if strings.ToLower(filepath.Ext(audio.Name)) != ".mp3" {
		return models.Validationf("only MP3 audio files are allowed")
	}
	if audio.Size > int64(config.MAX_AUDIO_SIZE_MB)*1024*1024 {
		return models.Validationf("audio file exceeds the maximum size of %dMB", config.MAX_AUDIO_SIZE_MB)
	}
	return nil
}

// storeAudio persists the audio upload under a fresh random name and returns
// the file name, or "" when there is nothing to store.
func (co *Coordinator) storeAudio(audio *UploadFile) (string, error) {
	if audio == nil || audio.Size == 0 {
		return "", nil
	}
	name := utils.NewFileStem() + ".mp3"
	if _, err := co.Audio.Save(name, audio.Reader); err != nil {
		return "", fmt.Errorf("cannot store audio file: %w", err)
	}
	return name, nil
}

func (co *Coordinator) deleteAudio(name string) {
	if name == "" {
		return
	}
	if err := co.Audio.Delete(name); err != nil {
		log.Printf("Cannot delete audio file %s: %v", name, err)
	}
}

func (co *Coordinator) compensate(stored []storedImage, audioFile string) {
	for _, s := range stored {
		co.Images.DeleteAllVariants(s.stem)
	}
	co.deleteAudio(audioFile)
}

func insertImageRows(tx *gorm.DB, collectionID uint64, firstOrder int, stored []storedImage) error {
	rows := make([]models.CollectionImage, 0, len(stored))
	for i, s := range stored {
		rows = append(rows, models.CollectionImage{
			CollectionID: collectionID,
			FileName:     s.stem,
			Width:        s.meta.Width,
			Height:       s.meta.Height,
			Bytes:        s.meta.Bytes,
			SortOrder:    firstOrder + i,
		})
	}
	return tx.Create(&rows).Error
}
