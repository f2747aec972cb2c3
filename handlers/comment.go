package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gallery/db"
	"gallery/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type CommentInfo struct {
	ID        uint64 `json:"id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

func commentsFor(collectionID uint64) ([]CommentInfo, error) {
	rows, err := db.Instance.Table("comments").
		Select("comments.id, users.name, comments.text, comments.created_at").
		Joins("join users on users.id = comments.user_id").
		Where("comments.collection_id = ?", collectionID).
		Order("comments.created_at ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []CommentInfo{}
	for rows.Next() {
		info := CommentInfo{}
		if err = rows.Scan(&info.ID, &info.Author, &info.Text, &info.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	return result, nil
}

type CommentCreateRequest struct {
	CollectionID uint64 `form:"collection_id" binding:"required"`
	Text         string `form:"text" binding:"required"`
}

func CommentCreate(c *gin.Context, user *models.User) {
	req := CommentCreateRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" || len(text) > 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment must be between 1 and 2000 characters"})
		return
	}
	var col models.Collection
	if db.Instance.First(&col, req.CollectionID).Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	comment := models.Comment{
		CollectionID: col.ID,
		UserID:       user.ID,
		Text:         text,
	}
	if err := db.Instance.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": comment.ID})
}

// CommentModerationList gives admins the newest comments across all
// collections.
func CommentModerationList(c *gin.Context, user *models.User) {
	rows, err := db.Instance.Table("comments").
		Select("comments.id, users.name, comments.text, comments.created_at").
		Joins("join users on users.id = comments.user_id").
		Order("comments.created_at DESC").
		Limit(100).
		Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	defer rows.Close()
	result := []CommentInfo{}
	for rows.Next() {
		info := CommentInfo{}
		if err = rows.Scan(&info.ID, &info.Author, &info.Text, &info.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		result = append(result, info)
	}
	c.JSON(http.StatusOK, result)
}

// CommentDelete removes a comment. Users can remove their own; admins can
// remove any.
func CommentDelete(c *gin.Context, user *models.User) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var comment models.Comment
	if db.Instance.First(&comment, id).Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if comment.UserID != user.ID && !user.HasPermission(models.PermissionAdmin) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	if err := db.Instance.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
