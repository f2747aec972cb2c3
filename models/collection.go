package models

import (
	"fmt"

	"gallery/db"
	"gallery/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CollectionCategory uint8

const (
	CategoryPaintings CollectionCategory = 0
	CategoryJewelry   CollectionCategory = 1
	CategoryWatches   CollectionCategory = 2
	CategoryStatues   CollectionCategory = 3
	CategoryOther     CollectionCategory = 4
)

type CollectionStatus uint8

const (
	StatusAvailable CollectionStatus = 0
	StatusSold      CollectionStatus = 1
	StatusInAuction CollectionStatus = 2
)

type Currency uint8

const (
	CurrencyEUR Currency = 0
	CurrencyUSD Currency = 1
)

// Public pages show 12 collections at a time
const CollectionPageSize = 12

type Collection struct {
	ID          uint64             `gorm:"primaryKey"`
	CreatedAt   int64              `gorm:"index"`
	UpdatedAt   int64
	Title       string             `gorm:"type:varchar(180);not null"`
	Slug        string             `gorm:"type:varchar(200);index:uniq_slug,unique;not null"`
	Category    CollectionCategory `gorm:"index"`
	Description string             `gorm:"type:text"`
	// AudioFile is a file name inside the audio root, e.g. "abc123.mp3"
	AudioFile string           `gorm:"type:varchar(500)"`
	Status    CollectionStatus `gorm:"not null;default:0"`
	Price     *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Currency  Currency         `gorm:"not null;default:0"`

	Images       []CollectionImage       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Translations []CollectionTranslation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (c CollectionCategory) String() string {
	switch c {
	case CategoryPaintings:
		return "Paintings"
	case CategoryJewelry:
		return "Jewelry"
	case CategoryWatches:
		return "Watches"
	case CategoryStatues:
		return "Statues"
	}
	return "Other"
}

func ParseCategory(s string) (CollectionCategory, bool) {
	switch s {
	case "Paintings":
		return CategoryPaintings, true
	case "Jewelry":
		return CategoryJewelry, true
	case "Watches":
		return CategoryWatches, true
	case "Statues":
		return CategoryStatues, true
	case "Other":
		return CategoryOther, true
	}
	return CategoryOther, false
}

func (s CollectionStatus) String() string {
	switch s {
	case StatusSold:
		return "sold"
	case StatusInAuction:
		return "in-auction"
	}
	return "available"
}

func (c Currency) String() string {
	if c == CurrencyUSD {
		return "USD"
	}
	return "EUR"
}

// UniqueCollectionSlug derives a slug from the title and probes -1, -2, ...
// suffixes until one is free. The probe loop is bounded by the current row
// count so a misbehaving store cannot spin it forever; any store error aborts
// instead of risking a duplicate slug.
func UniqueCollectionSlug(tx *gorm.DB, title string) (string, error) {
	base := utils.ToSlug(title)
	if base == "" {
		base = "item"
	}
	var total int64
	if err := tx.Model(&Collection{}).Count(&total).Error; err != nil {
		return "", fmt.Errorf("cannot count collections for slug check: %w", err)
	}
	slug := base
	for i := int64(1); ; i++ {
		var count int64
		if err := tx.Model(&Collection{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", fmt.Errorf("cannot verify slug uniqueness: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		if i > total+1 {
			return "", fmt.Errorf("cannot find a unique slug for %q", title)
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// CollectionsByCategory lists collections for a public page, newest first.
// Page numbers start at 1. Pass nil to list all categories.
func CollectionsByCategory(category *CollectionCategory, page int) (result []Collection, err error) {
	if page < 1 {
		page = 1
	}
	q := db.Instance.
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC")
		}).
		Order("created_at DESC")
	if category != nil {
		q = q.Where("category = ?", *category)
	}
	err = q.Offset((page - 1) * CollectionPageSize).Limit(CollectionPageSize).Find(&result).Error
	return
}

// CollectionBySlug loads one collection with its images in display order.
func CollectionBySlug(slug string) (result Collection, err error) {
	err = db.Instance.
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC")
		}).
		Where("slug = ?", slug).
		First(&result).Error
	return
}
