package services

import (
	"context"
	"fmt"

	"schoolzy/internal/models"
)

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id string) (*models.Review, error)
	FindBySchoolID(ctx context.Context, schoolID string) ([]models.Review, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Review, error)
	GetAll(ctx context.Context) ([]models.Review, error)
	ExistsBySchoolAndUser(ctx context.Context, schoolID, userID string) (bool, error)
	Update(ctx context.Context, id string, rating int, reviewText string) error
	Delete(ctx context.Context, id string) error
}

type ReviewSchoolStore interface {
	GetByID(ctx context.Context, id string) (map[string]interface{}, error)
}

type ReviewUserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type Rater interface {
	Recalculate(ctx context.Context, schoolID string)
}

type ReviewService struct {
	repo                 ReviewStore
	schools              ReviewSchoolStore
	users                ReviewUserStore
	rating               Rater
	allowMultipleReviews bool
}

func NewReviewService(repo ReviewStore, schools ReviewSchoolStore, users ReviewUserStore, rating Rater, allowMultipleReviews bool) *ReviewService {
	return &ReviewService{
		repo:                 repo,
		schools:              schools,
		users:                users,
		rating:               rating,
		allowMultipleReviews: allowMultipleReviews,
	}
}

// Create stores a review and recomputes the school aggregate. The author
// name and picture are copied onto the review at creation time and never
// refreshed afterwards.
func (s *ReviewService) Create(ctx context.Context, review *models.Review) error {
	if err := review.Validate(); err != nil {
		return err
	}

	if _, err := s.schools.GetByID(ctx, review.SchoolID); err != nil {
		return err
	}

	if author, err := s.users.FindByID(ctx, review.UserID); err == nil {
		review.UserName = author.Name
		review.UserProfilePicture = author.ProfilePicture
	}

	if !s.allowMultipleReviews {
		exists, err := s.repo.ExistsBySchoolAndUser(ctx, review.SchoolID, review.UserID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: you already reviewed this school", models.ErrDuplicate)
		}
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return err
	}

	s.rating.Recalculate(ctx, review.SchoolID)
	return nil
}

func (s *ReviewService) GetBySchool(ctx context.Context, schoolID string) ([]models.Review, error) {
	return s.repo.FindBySchoolID(ctx, schoolID)
}

func (s *ReviewService) GetByUser(ctx context.Context, userID string) ([]models.Review, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// Update modifies a review owned by userID (admins may edit any review) and
// recomputes the aggregate of the school the existing row references.
func (s *ReviewService) Update(ctx context.Context, id, userID, role string, rating int, reviewText string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID && role != "admin" {
		return models.ErrForbidden
	}

	draft := *existing
	draft.Rating = rating
	draft.ReviewText = reviewText
	if err := draft.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, rating, reviewText); err != nil {
		return err
	}

	s.rating.Recalculate(ctx, existing.SchoolID)
	return nil
}

// Delete removes a review owned by userID (admins may delete any review)
// and recomputes the school aggregate.
func (s *ReviewService) Delete(ctx context.Context, id, userID, role string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID && role != "admin" {
		return models.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.rating.Recalculate(ctx, existing.SchoolID)
	return nil
}

// AdminList returns one page of all reviews, newest first.
func (s *ReviewService) AdminList(ctx context.Context, page, limit int) ([]models.Review, int, error) {
	reviews, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := len(reviews)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return reviews[start:end], total, nil
}
