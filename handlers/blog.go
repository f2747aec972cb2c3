package handlers

import (
	"net/http"
	"strconv"

	"gallery/catalog"
	"gallery/db"
	"gallery/models"

	"github.com/gin-gonic/gin"
)

type BlogPostInfo struct {
	ID            uint64 `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content,omitempty"`
	FeaturedImage string `json:"featured_image,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	Published     bool   `json:"published"`
}

func blogPostInfo(post *models.BlogPost, lang string, withContent bool) BlogPostInfo {
	title, content := post.Localized(lang)
	info := BlogPostInfo{
		ID:        post.ID,
		Title:     title,
		CreatedAt: post.CreatedAt,
		Published: post.Published,
	}
	if withContent {
		info.Content = content
	}
	if post.FeaturedImage != "" {
		info.FeaturedImage = "/images/" + post.FeaturedImage + "-960.jpg"
	}
	return info
}

// BlogList returns published posts, localized for the requested language.
func BlogList(c *gin.Context) {
	lang := requestLanguage(c)
	posts, err := models.PublishedBlogPosts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	result := []BlogPostInfo{}
	for i := range posts {
		result = append(result, blogPostInfo(&posts[i], lang, false))
	}
	c.JSON(http.StatusOK, result)
}

func BlogDetails(c *gin.Context) {
	lang := requestLanguage(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var post models.BlogPost
	err = db.Instance.Where("published = ?", true).First(&post, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, blogPostInfo(&post, lang, true))
}

type BlogSaveRequest struct {
	Title     string `form:"title"`
	Content   string `form:"content"`
	Published bool   `form:"published"`
}

func BlogSave(c *gin.Context, user *models.User) {
	req := BlogSaveRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	featured, closeFile := singleUpload(c, "featured_image")
	defer closeFile()
	draft := catalog.BlogDraft{Title: req.Title, Content: req.Content, Published: req.Published}
	id, err := Catalog.CreateBlogPost(c.Request.Context(), user.ID, draft, featured)
	if err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": id})
}

func BlogUpdate(c *gin.Context, user *models.User) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	req := BlogSaveRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	featured, closeFile := singleUpload(c, "featured_image")
	defer closeFile()
	draft := catalog.BlogDraft{Title: req.Title, Content: req.Content, Published: req.Published}
	if err := Catalog.UpdateBlogPost(c.Request.Context(), id, draft, featured); err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func BlogDelete(c *gin.Context, user *models.User) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := Catalog.DeleteBlogPost(id); err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
