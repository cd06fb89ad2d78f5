package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"schoolzy/internal/models"
)

type ReviewService interface {
	Create(ctx context.Context, review *models.Review) error
	GetBySchool(ctx context.Context, schoolID string) ([]models.Review, error)
	GetByUser(ctx context.Context, userID string) ([]models.Review, error)
	Update(ctx context.Context, id, userID, role string, rating int, reviewText string) error
	Delete(ctx context.Context, id, userID, role string) error
	AdminList(ctx context.Context, page, limit int) ([]models.Review, int, error)
}

type ReviewHandler struct {
	service ReviewService
}

func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) GetBySchool(c *gin.Context) {
	reviews, err := h.service.GetBySchool(c.Request.Context(), c.Param("schoolId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) GetMine(c *gin.Context) {
	userID := c.GetString("user_id")
	reviews, err := h.service.GetByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req struct {
		Rating     int    `json:"rating" binding:"required,min=1,max=5"`
		ReviewText string `json:"review_text" binding:"required,min=10,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5 and review text between 10 and 1000 characters"})
		return
	}

	review := &models.Review{
		SchoolID:   c.Param("schoolId"),
		UserID:     c.GetString("user_id"),
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}

	if err := h.service.Create(c.Request.Context(), review); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review added", "review": review})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	var req struct {
		Rating     int    `json:"rating" binding:"required,min=1,max=5"`
		ReviewText string `json:"review_text" binding:"required,min=10,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5 and review text between 10 and 1000 characters"})
		return
	}

	err := h.service.Update(c.Request.Context(), c.Param("id"), c.GetString("user_id"), c.GetString("role"), req.Rating, req.ReviewText)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated successfully"})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"), c.GetString("user_id"), c.GetString("role"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

// AdminList serves the paginated admin review listing.
func (h *ReviewHandler) AdminList(c *gin.Context) {
	page, limit := paginationParams(c)

	reviews, total, err := h.service.AdminList(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":    reviews,
		"pagination": paginationMeta(page, limit, total),
	})
}

// AdminDelete lets an admin remove any review.
func (h *ReviewHandler) AdminDelete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"), c.GetString("user_id"), "admin")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	return page, limit
}

func paginationMeta(page, limit, total int) gin.H {
	totalPages := (total + limit - 1) / limit
	return gin.H{
		"currentPage": page,
		"totalPages":  totalPages,
		"totalItems":  total,
		"hasNext":     page*limit < total,
		"hasPrev":     page > 1,
	}
}
