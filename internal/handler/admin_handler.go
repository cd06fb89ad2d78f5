package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"schoolzy/internal/models"
	"schoolzy/internal/services"
)

type AdminService interface {
	Dashboard(ctx context.Context) (*services.DashboardStats, error)
	RecentActivity(ctx context.Context) ([]services.ActivityEntry, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	GetAdmins(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, userID, role string) error
	DeleteUser(ctx context.Context, userID string) error
}

type AdminSchoolLister interface {
	AdminList(ctx context.Context, page, limit int) ([]map[string]interface{}, int, error)
}

type AdminHandler struct {
	service   AdminService
	schools   AdminSchoolLister
	startedAt time.Time
}

func NewAdminHandler(service AdminService, schools AdminSchoolLister) *AdminHandler {
	return &AdminHandler{service: service, schools: schools, startedAt: time.Now()}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) RecentActivity(c *gin.Context) {
	activity, err := h.service.RecentActivity(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activity"})
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (h *AdminHandler) ListSchools(c *gin.Context) {
	page, limit := paginationParams(c)

	schools, total, err := h.schools.AdminList(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching schools"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schools":    schools,
		"pagination": paginationMeta(page, limit, total),
	})
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.service.GetUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) GetAdmins(c *gin.Context) {
	admins, err := h.service.GetAdmins(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching admins"})
		return
	}
	c.JSON(http.StatusOK, admins)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role is required"})
		return
	}

	if err := h.service.UpdateUserRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User role updated successfully"})
}

// RemoveAdmin demotes an admin back to a regular user.
func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	if err := h.service.UpdateUserRole(c.Request.Context(), c.Param("id"), "user"); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin privileges removed successfully"})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *AdminHandler) SystemHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Seconds(),
	})
}
