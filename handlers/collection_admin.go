package handlers

import (
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"gallery/catalog"
	"gallery/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CollectionSaveRequest struct {
	Title       string `form:"title"`
	Category    string `form:"category"`
	Description string `form:"description"`
	Status      uint8  `form:"status"`
	Price       string `form:"price"`
	Currency    string `form:"currency"`
}

func (r *CollectionSaveRequest) draft() (catalog.Draft, error) {
	draft := catalog.Draft{
		Title:       r.Title,
		Description: r.Description,
		Status:      models.CollectionStatus(r.Status),
	}
	if r.Category != "" {
		cat, ok := models.ParseCategory(r.Category)
		if !ok {
			return draft, models.Validationf("unknown category %q", r.Category)
		}
		draft.Category = cat
	}
	if r.Price != "" {
		price, err := decimal.NewFromString(r.Price)
		if err != nil || price.IsNegative() {
			return draft, models.Validationf("invalid price")
		}
		draft.Price = &price
	}
	if strings.EqualFold(r.Currency, "USD") {
		draft.Currency = models.CurrencyUSD
	}
	return draft, nil
}

// uploadFiles adapts the multipart file headers. The files are opened lazily
// by the coordinator through the Reader.
func uploadFiles(headers []*multipart.FileHeader) ([]catalog.UploadFile, func()) {
	files := make([]catalog.UploadFile, 0, len(headers))
	closers := []func(){}
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			log.Printf("Cannot open upload %s: %v", h.Filename, err)
			continue
		}
		files = append(files, catalog.UploadFile{Name: h.Filename, Size: h.Size, Reader: f})
		closers = append(closers, func() { f.Close() })
	}
	return files, func() {
		for _, cl := range closers {
			cl()
		}
	}
}

func singleUpload(c *gin.Context, field string) (*catalog.UploadFile, func()) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}
	}
	f, err := header.Open()
	if err != nil {
		return nil, func() {}
	}
	return &catalog.UploadFile{Name: header.Filename, Size: header.Size, Reader: f},
		func() { f.Close() }
}

// CollectionSave creates a new catalog item from a multipart form with
// "images" files and an optional "audio" file.
func CollectionSave(c *gin.Context, user *models.User) {
	req := CollectionSaveRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft, err := req.draft()
	if err != nil {
		failWith(c, err)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	imgs, closeImgs := uploadFiles(form.File["images"])
	defer closeImgs()
	audio, closeAudio := singleUpload(c, "audio")
	defer closeAudio()

	result, err := Catalog.CreateCollection(c.Request.Context(), draft, imgs, audio)
	if err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": result.ID, "message": result.Summary()})
}

func CollectionUpdate(c *gin.Context, user *models.User) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	req := CollectionSaveRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft, err := req.draft()
	if err != nil {
		failWith(c, err)
		return
	}
	var imgs []catalog.UploadFile
	closeImgs := func() {}
	if form, err := c.MultipartForm(); err == nil {
		imgs, closeImgs = uploadFiles(form.File["images"])
	}
	defer closeImgs()
	audio, closeAudio := singleUpload(c, "audio")
	defer closeAudio()

	result, err := Catalog.UpdateCollection(c.Request.Context(), id, draft, imgs, audio)
	if err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": result.ID, "message": result.Summary()})
}

type CollectionReorderRequest struct {
	ImageIDs []uint64 `json:"image_ids" binding:"required"`
}

func CollectionReorder(c *gin.Context, user *models.User) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	req := CollectionReorderRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	changed, err := Catalog.ReorderImages(id, req.ImageIDs)
	if err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "changed": changed})
}

func CollectionDelete(c *gin.Context, user *models.User) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := Catalog.DeleteCollection(id); err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func CollectionImageDelete(c *gin.Context, user *models.User) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	imageID, err := strconv.ParseUint(c.Param("imageId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}
	if err := Catalog.DeleteImage(id, imageID); err != nil {
		failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
