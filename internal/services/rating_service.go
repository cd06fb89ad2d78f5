package services

import (
	"context"
	"log"
	"math"
	"sync"

	"schoolzy/internal/models"
)

type RatingSchoolStore interface {
	UpdateRating(ctx context.Context, id string, averageRating float64, reviewCount int) error
}

type RatingReviewStore interface {
	FindBySchoolID(ctx context.Context, schoolID string) ([]models.Review, error)
}

// RatingService keeps a school's averageRating and reviewCount consistent
// with the live review set. Every invocation is a full recomputation, so a
// missed update heals on the next one. Recomputations for the same school
// are serialized; two schools can recompute concurrently.
type RatingService struct {
	schools RatingSchoolStore
	reviews RatingReviewStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRatingService(schools RatingSchoolStore, reviews RatingReviewStore) *RatingService {
	return &RatingService{
		schools: schools,
		reviews: reviews,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Recalculate rebuilds the aggregate fields for one school. It is
// best-effort: failures are logged and never surfaced, so the review
// mutation that triggered it cannot be blocked or rolled back.
func (s *RatingService) Recalculate(ctx context.Context, schoolID string) {
	lock := s.lockFor(schoolID)
	lock.Lock()
	defer lock.Unlock()

	reviews, err := s.reviews.FindBySchoolID(ctx, schoolID)
	if err != nil {
		log.Printf("rating: failed to fetch reviews for school %s: %v", schoolID, err)
		return
	}

	average, count := averageRating(reviews)
	if err := s.schools.UpdateRating(ctx, schoolID, average, count); err != nil {
		log.Printf("rating: failed to update school %s: %v", schoolID, err)
	}
}

func (s *RatingService) lockFor(schoolID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[schoolID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[schoolID] = lock
	}
	return lock
}

// averageRating returns the mean rating rounded half-up to one decimal
// place, and the review count. An empty set yields 0, 0.
func averageRating(reviews []models.Review) (float64, int) {
	if len(reviews) == 0 {
		return 0, 0
	}

	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	average := float64(sum) / float64(len(reviews))
	return math.Floor(average*10+0.5) / 10, len(reviews)
}
