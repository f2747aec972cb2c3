package handlers

import (
	"net/http"
	"strings"

	"gallery/storage"

	"github.com/gin-gonic/gin"
)

// validMediaName rejects path traversal in user-supplied file names
func validMediaName(name string) bool {
	if name == "" || strings.Contains(name, "..") {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	return true
}

// MediaImage serves one processed image variant, e.g. /images/{stem}-960.jpg
func MediaImage(c *gin.Context) {
	name := c.Param("name")
	if !validMediaName(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid name"})
		return
	}
	storage.Images().Serve(name, c.Request, c.Writer)
}

func MediaAudio(c *gin.Context) {
	name := c.Param("name")
	if !validMediaName(name) || !strings.HasSuffix(name, ".mp3") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid name"})
		return
	}
	storage.Audio().Serve(name, c.Request, c.Writer)
}
