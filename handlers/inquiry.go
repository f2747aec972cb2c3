package handlers

import (
	"log"
	"net/http"

	"gallery/db"
	"gallery/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// InquiryNotifier is told about every new inquiry so it can alert the owner.
type InquiryNotifier interface {
	NotifyInquiry(inquiry *models.Inquiry)
}

// LogNotifier just records inquiries in the server log. Mail or messenger
// integrations plug in through the same interface.
type LogNotifier struct{}

func (LogNotifier) NotifyInquiry(inquiry *models.Inquiry) {
	log.Printf("New inquiry from %s %s <%s> about %q", inquiry.FirstName, inquiry.LastName, inquiry.Email, inquiry.CollectionTitle)
}

type InquiryCreateRequest struct {
	CollectionID uint64 `form:"collection_id"`
	FirstName    string `form:"first_name" binding:"required"`
	LastName     string `form:"last_name" binding:"required"`
	Email        string `form:"email" binding:"required,email"`
	Phone        string `form:"phone"`
	Message      string `form:"message" binding:"required"`
}

// InquiryCreate records a buyer inquiry. The collection title is copied into
// the row so the inquiry stays readable after the item is deleted.
func InquiryCreate(c *gin.Context) {
	req := InquiryCreateRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inquiry := models.Inquiry{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		OriginIP:  c.ClientIP(),
	}
	if req.CollectionID > 0 {
		var col models.Collection
		if db.Instance.First(&col, req.CollectionID).Error == nil {
			inquiry.CollectionID = &col.ID
			inquiry.CollectionTitle = col.Title
		}
	}
	if err := db.Instance.Create(&inquiry).Error; err != nil {
		log.Printf("Inquiry save: %v", err)
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	if Notifier != nil {
		Notifier.NotifyInquiry(&inquiry)
	}
	c.JSON(http.StatusOK, OKResponse)
}

func InquiryList(c *gin.Context, user *models.User) {
	var inquiries []models.Inquiry
	if err := db.Instance.Order("created_at DESC").Find(&inquiries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, inquiries)
}
