package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"schoolzy/internal/models"
	"schoolzy/internal/services"
)

type AuthHandler struct {
	authService  *services.AuthService
	mediaService *services.MediaService
}

func NewAuthHandler(authService *services.AuthService, mediaService *services.MediaService) *AuthHandler {
	return &AuthHandler{authService: authService, mediaService: mediaService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and password are required"})
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email, Password: req.Password}
	if err := h.authService.Register(c.Request.Context(), user); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), credentials.Email, credentials.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "user": user})
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	token, user, err := h.authService.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "user": user})
}

// Me returns the identity claims of the current token.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    c.GetString("user_id"),
		"email": c.GetString("email"),
		"name":  c.GetString("name"),
		"role":  c.GetString("role"),
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetProfile(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile accepts a multipart form with name, email and an optional
// profile_picture file which is stored in object storage.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")

	pictureURL := ""
	file, header, err := c.Request.FormFile("profile_picture")
	if err == nil {
		defer file.Close()
		pictureURL, err = h.mediaService.UploadProfilePicture(
			c.Request.Context(), file, header.Size,
			header.Header.Get("Content-Type"), header.Filename,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store profile picture"})
			return
		}
	}

	if err := h.authService.UpdateProfile(c.Request.Context(), c.GetString("user_id"), name, email, pictureURL); err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{"message": "Profile updated successfully"}
	if pictureURL != "" {
		resp["profile_picture"] = pictureURL
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.authService.DeleteAccount(c.Request.Context(), c.GetString("user_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	tokenStr := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No token provided"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), tokenStr); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
