package models

import "gallery/db"

// BlogPost keeps the author's text in its source language; per-language
// copies live in BlogPostTranslation rows.
type BlogPost struct {
	ID         uint64 `gorm:"primaryKey"`
	CreatedAt  int64  `gorm:"index"`
	UpdatedAt  int64
	Title      string `gorm:"type:varchar(200);not null"`
	Content    string `gorm:"type:text;not null"`
	SourceLang string `gorm:"type:varchar(10);not null"`
	// FeaturedImage is an image stem in the images root, optional
	FeaturedImage string `gorm:"type:varchar(64)"`
	AuthorID      uint64 `gorm:"not null"`
	Author        User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Published     bool   `gorm:"not null;default:false"`

	Translations []BlogPostTranslation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type BlogPostTranslation struct {
	ID           uint64   `gorm:"primaryKey"`
	CreatedAt    int64
	UpdatedAt    int64
	BlogPostID   uint64   `gorm:"not null;index:uniq_post_lang,unique,priority:1"`
	BlogPost     BlogPost `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	LanguageCode string   `gorm:"type:varchar(10);not null;index:uniq_post_lang,unique,priority:2"`
	Title        string   `gorm:"type:varchar(200);not null"`
	Content      string   `gorm:"type:text;not null"`
}

// Localized returns the post's title and content in the requested language,
// falling back to the source text when no translation row exists. Fields are
// never empty for a post that has source content.
func (p *BlogPost) Localized(lang string) (title, content string) {
	if lang != p.SourceLang {
		var t BlogPostTranslation
		err := db.Instance.
			Where("blog_post_id = ? AND language_code = ?", p.ID, lang).
			First(&t).Error
		if err == nil {
			return t.Title, t.Content
		}
	}
	return p.Title, p.Content
}

// PublishedBlogPosts lists publicly visible posts, newest first.
func PublishedBlogPosts() (result []BlogPost, err error) {
	err = db.Instance.Where("published = ?", true).Order("created_at DESC").Find(&result).Error
	return
}
