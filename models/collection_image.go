package models

import (
	"fmt"

	"gorm.io/gorm"
)

type CollectionImage struct {
	ID           uint64     `gorm:"primaryKey"`
	CreatedAt    int64
	CollectionID uint64     `gorm:"not null;index"`
	Collection   Collection `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// FileName is the opaque stem shared by the original and its variants,
	// no extension
	FileName  string `gorm:"type:varchar(64);not null"`
	Width     int
	Height    int
	Bytes     int64
	SortOrder int `gorm:"not null;default:0"`
}

// VariantPath returns the file name of the rendition at the given width.
func (i *CollectionImage) VariantPath(width int) string {
	return fmt.Sprintf("%s-%d.jpg", i.FileName, width)
}

// NextSortOrder returns max(sort_order)+1 for the collection, 0 when it has
// no images. Meant to be called inside the same transaction that inserts the
// new rows, so concurrent edits serialize on the insert.
func NextSortOrder(tx *gorm.DB, collectionID uint64) (int, error) {
	var next int
	err := tx.Raw(
		"SELECT IFNULL(MAX(sort_order)+1, 0) FROM collection_images WHERE collection_id = ?",
		collectionID).Scan(&next).Error
	return next, err
}
