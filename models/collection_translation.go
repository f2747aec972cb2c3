package models

import "gallery/db"

// CollectionTranslation is a derived projection of a collection's title and
// description in one target language. At most one row exists per
// (collection, language) pair; the whole set is deleted and regenerated when
// the source content changes.
type CollectionTranslation struct {
	ID           uint64     `gorm:"primaryKey"`
	CreatedAt    int64
	UpdatedAt    int64
	CollectionID uint64     `gorm:"not null;index:uniq_collection_lang,unique,priority:1"`
	Collection   Collection `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	LanguageCode string     `gorm:"type:varchar(10);not null;index:uniq_collection_lang,unique,priority:2"`
	Title        string     `gorm:"type:varchar(200)"`
	Description  string     `gorm:"type:text"`
}

// CollectionTranslationFor returns the stored translation for one language,
// or ok=false when none exists.
func CollectionTranslationFor(collectionID uint64, lang string) (t CollectionTranslation, ok bool) {
	err := db.Instance.
		Where("collection_id = ? AND language_code = ?", collectionID, lang).
		First(&t).Error
	return t, err == nil
}

// CollectionTitlesFor returns translated titles for a set of collections in
// one language, keyed by collection ID. Used by the public list page.
func CollectionTitlesFor(collectionIDs []uint64, lang string) (map[uint64]string, error) {
	result := map[uint64]string{}
	if len(collectionIDs) == 0 {
		return result, nil
	}
	var rows []CollectionTranslation
	err := db.Instance.
		Where("collection_id IN ? AND language_code = ?", collectionIDs, lang).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.CollectionID] = row.Title
	}
	return result, nil
}
