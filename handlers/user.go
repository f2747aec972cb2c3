package handlers

import (
	"net/http"

	"gallery/auth"
	"gallery/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserLoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func UserLogin(c *gin.Context) {
	req := UserLoginRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, ok := models.UserLogin(req.Email, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	session := auth.LoadSession(c)
	session.LoginUser(user.ID)
	c.JSON(http.StatusOK, gin.H{"error": "", "name": user.Name, "admin": user.HasPermission(models.PermissionAdmin)})
}

func UserLogout(c *gin.Context) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}

func UserStatus(c *gin.Context) {
	user := auth.LoadSession(c).User()
	if user.ID == 0 {
		c.JSON(http.StatusOK, gin.H{"error": "", "logged_in": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"error":     "",
		"logged_in": true,
		"name":      user.Name,
		"admin":     user.HasPermission(models.PermissionAdmin),
	})
}
