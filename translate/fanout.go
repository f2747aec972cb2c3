package translate

import (
	"context"
	"log"

	"gallery/config"
	"gallery/db"
	"gallery/models"

	"gorm.io/gorm"
)

// RetranslateCollection regenerates every stored translation of a collection
// from its current title and description. Existing rows are fully replaced,
// never patched, so a content change can't leave stale partial translations
// behind. A language whose translation fails is skipped and logged; the other
// languages still go through. Safe to call repeatedly.
//
// Must run after the transaction that wrote the collection has committed:
// provider calls are slow and must not hold a transaction open.
func RetranslateCollection(ctx context.Context, engine Engine, col *models.Collection) {
	rows := []models.CollectionTranslation{}
	if engine != nil {
		for _, lang := range config.TargetLanguages() {
			title, err := engine.Translate(ctx, col.Title, config.SOURCE_LANGUAGE, lang)
			if err != nil {
				log.Printf("Skipping %s translation for collection %d: %v", lang, col.ID, err)
				continue
			}
			description, err := engine.Translate(ctx, col.Description, config.SOURCE_LANGUAGE, lang)
			if err != nil {
				log.Printf("Skipping %s translation for collection %d: %v", lang, col.ID, err)
				continue
			}
			rows = append(rows, models.CollectionTranslation{
				CollectionID: col.ID,
				LanguageCode: lang,
				Title:        title,
				Description:  description,
			})
		}
	}
	// One transaction for the replacement so readers never observe the gap
	// between delete and insert
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", col.ID).Delete(&models.CollectionTranslation{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		log.Printf("Cannot store translations for collection %d: %v", col.ID, err)
	}
}

// RetranslateBlogPost replaces a post's translation rows. Blog text uses
// field-level fallback instead of skipping: every target language gets a row,
// and a field whose translation failed carries the source value, so a reader
// never sees an empty title or a mix of half-translated fields.
func RetranslateBlogPost(ctx context.Context, engine Engine, post *models.BlogPost) {
	titles := map[string]string{}
	contents := map[string]string{}
	if engine != nil {
		titles = engine.TranslateToAll(ctx, post.Title, post.SourceLang)
		contents = engine.TranslateToAll(ctx, post.Content, post.SourceLang)
	}
	rows := []models.BlogPostTranslation{}
	for _, lang := range config.TargetLanguages() {
		if lang == post.SourceLang {
			continue
		}
		title, ok := titles[lang]
		if !ok || title == "" {
			title = post.Title
		}
		content, ok := contents[lang]
		if !ok || content == "" {
			content = post.Content
		}
		rows = append(rows, models.BlogPostTranslation{
			BlogPostID:   post.ID,
			LanguageCode: lang,
			Title:        title,
			Content:      content,
		})
	}
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_post_id = ?", post.ID).Delete(&models.BlogPostTranslation{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		log.Printf("Cannot store translations for blog post %d: %v", post.ID, err)
	}
}
