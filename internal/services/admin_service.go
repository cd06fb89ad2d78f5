package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"schoolzy/internal/models"
	"schoolzy/internal/sanitize"
)

type AdminUserStore interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByRole(ctx context.Context, role string) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type AdminReviewStore interface {
	GetAll(ctx context.Context) ([]models.Review, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Review, error)
	DeleteByUserID(ctx context.Context, userID string) error
	Count(ctx context.Context) (int64, error)
}

type AdminSchoolStore interface {
	GetAll(ctx context.Context) ([]map[string]interface{}, error)
	Count(ctx context.Context) (int64, error)
}

type AdminService struct {
	users   AdminUserStore
	reviews AdminReviewStore
	schools AdminSchoolStore
	rating  Rater
}

func NewAdminService(users AdminUserStore, reviews AdminReviewStore, schools AdminSchoolStore, rating Rater) *AdminService {
	return &AdminService{users: users, reviews: reviews, schools: schools, rating: rating}
}

type DashboardStats struct {
	TotalSchools        int64           `json:"totalSchools"`
	TotalUsers          int64           `json:"totalUsers"`
	TotalReviews        int64           `json:"totalReviews"`
	AverageSchoolRating float64         `json:"averageSchoolRating"`
	RecentActivity      []models.Review `json:"recentActivity"`
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	totalSchools, err := s.schools.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalReviews, err := s.reviews.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalSchools:   totalSchools,
		TotalUsers:     totalUsers,
		TotalReviews:   totalReviews,
		RecentActivity: []models.Review{},
	}

	if totalSchools > 0 {
		schools, err := s.schools.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		sum := 0.0
		for _, school := range sanitize.Schools(schools) {
			if rating, ok := school["averageRating"].(float64); ok {
				sum += rating
			}
		}
		average := sum / float64(len(schools))
		stats.AverageSchoolRating = math.Floor(average*10+0.5) / 10
	}

	reviews, err := s.reviews.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(reviews) > 10 {
		reviews = reviews[:10]
	}
	stats.RecentActivity = reviews

	return stats, nil
}

type ActivityEntry struct {
	Type       string    `json:"type"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Rating     int       `json:"rating,omitempty"`
	ReviewText string    `json:"review_text,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	SchoolID   string    `json:"schoolId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// RecentActivity merges the latest registrations and reviews, newest first.
func (s *AdminService) RecentActivity(ctx context.Context) ([]ActivityEntry, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) > 10 {
		users = users[:10]
	}

	reviews, err := s.reviews.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(reviews) > 10 {
		reviews = reviews[:10]
	}

	activity := make([]ActivityEntry, 0, len(users)+len(reviews))
	for _, user := range users {
		activity = append(activity, ActivityEntry{
			Type:      "user_registration",
			Name:      user.Name,
			Email:     user.Email,
			Timestamp: user.CreatedAt,
		})
	}
	for _, review := range reviews {
		activity = append(activity, ActivityEntry{
			Type:       "review",
			Rating:     review.Rating,
			ReviewText: review.ReviewText,
			UserID:     review.UserID,
			SchoolID:   review.SchoolID,
			Timestamp:  review.CreatedAt,
		})
	}

	sort.Slice(activity, func(i, j int) bool {
		return activity[i].Timestamp.After(activity[j].Timestamp)
	})
	return activity, nil
}

func (s *AdminService) GetUsers(ctx context.Context) ([]models.User, error) {
	return s.users.GetAll(ctx)
}

func (s *AdminService) GetAdmins(ctx context.Context) ([]models.User, error) {
	return s.users.GetByRole(ctx, "admin")
}

func (s *AdminService) UpdateUserRole(ctx context.Context, userID, role string) error {
	if role != "user" && role != "admin" {
		return fmt.Errorf("%w: role must be user or admin", models.ErrValidation)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.users.UpdateFields(ctx, userID, map[string]interface{}{"role": role})
}

// DeleteUser removes the user and their reviews, then re-aggregates every
// school those reviews touched.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	reviews, err := s.reviews.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.reviews.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	for _, schoolID := range distinctSchoolIDs(reviews) {
		s.rating.Recalculate(ctx, schoolID)
	}
	return nil
}
