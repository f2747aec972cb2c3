package handlers

import (
	"errors"
	"net/http"

	"gallery/catalog"
	"gallery/config"
	"gallery/models"
	"gallery/translate"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse       = Response{}
	DBError1Response = Response{"DB Error 1"}
	DBError2Response = Response{"DB Error 2"}
)

// Package state, set once from main
var (
	Catalog    *catalog.Coordinator
	Translator translate.Engine
	Notifier   InquiryNotifier = LogNotifier{}
)

func Initialize(engine translate.Engine) {
	Translator = engine
	Catalog = catalog.NewCoordinator(engine)
}

// failWith maps domain errors to HTTP codes
func failWith(c *gin.Context, err error) {
	if models.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// requestLanguage returns the display language, defaulting to the source one
func requestLanguage(c *gin.Context) string {
	lang := c.Query("lang")
	if lang == "" {
		return config.SOURCE_LANGUAGE
	}
	return lang
}
