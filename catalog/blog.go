package catalog

import (
	"context"
	"fmt"
	"strings"

	"gallery/config"
	"gallery/db"
	"gallery/models"
	"gallery/translate"
	"gallery/utils"

	"gorm.io/gorm"
)

// BlogDraft carries the editable fields of a post. Blank Title/Content on
// edit keep the stored values, same rule as collections.
type BlogDraft struct {
	Title     string
	Content   string
	Published bool
}

// CreateBlogPost stores the post and its featured image, then translates it
// into every configured language post-commit.
func (co *Coordinator) CreateBlogPost(ctx context.Context, authorID uint64, draft BlogDraft, featured *UploadFile) (uint64, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return 0, models.Validationf("title is required")
	}
	if strings.TrimSpace(draft.Content) == "" {
		return 0, models.Validationf("content is required")
	}
	stem, err := co.storeFeatured(featured)
	if err != nil {
		return 0, err
	}
	post := models.BlogPost{
		Title:         draft.Title,
		Content:       draft.Content,
		SourceLang:    config.SOURCE_LANGUAGE,
		FeaturedImage: stem,
		AuthorID:      authorID,
		Published:     draft.Published,
	}
	err = db.RetryTransaction(func(tx *gorm.DB) error {
		return tx.Create(&post).Error
	})
	if err != nil {
		if stem != "" {
			co.Images.DeleteAllVariants(stem)
		}
		return 0, fmt.Errorf("could not save post: %w", err)
	}
	translate.RetranslateBlogPost(ctx, co.Engine, &post)
	return post.ID, nil
}

func (co *Coordinator) UpdateBlogPost(ctx context.Context, id uint64, draft BlogDraft, featured *UploadFile) error {
	var post models.BlogPost
	if err := db.Instance.First(&post, id).Error; err != nil {
		return models.ErrNotFound
	}
	contentChanged := false
	if t := strings.TrimSpace(draft.Title); t != "" && t != post.Title {
		post.Title = t
		contentChanged = true
	}
	if c := strings.TrimSpace(draft.Content); c != "" && c != post.Content {
		post.Content = c
		contentChanged = true
	}
	post.Published = draft.Published

	oldStem := ""
	stem, err := co.storeFeatured(featured)
	if err != nil {
		return err
	}
	if stem != "" {
		oldStem = post.FeaturedImage
		post.FeaturedImage = stem
	}
	err = db.RetryTransaction(func(tx *gorm.DB) error {
		return tx.Save(&post).Error
	})
	if err != nil {
		if stem != "" {
			co.Images.DeleteAllVariants(stem)
		}
		return fmt.Errorf("could not update post: %w", err)
	}
	if oldStem != "" {
		co.Images.DeleteAllVariants(oldStem)
	}
	if contentChanged {
		translate.RetranslateBlogPost(ctx, co.Engine, &post)
	}
	return nil
}

func (co *Coordinator) DeleteBlogPost(id uint64) error {
	var post models.BlogPost
	if err := db.Instance.First(&post, id).Error; err != nil {
		return models.ErrNotFound
	}
	if post.FeaturedImage != "" {
		co.Images.DeleteAllVariants(post.FeaturedImage)
	}
	return db.Instance.Delete(&post).Error
}

func (co *Coordinator) storeFeatured(featured *UploadFile) (string, error) {
	if featured == nil || featured.Size == 0 {
		return "", nil
	}
	stem := utils.NewFileStem()
	if _, err := co.Images.Store(featured.Reader, featured.Size, featured.Name, stem); err != nil {
		return "", err
	}
	return stem, nil
}
