package services

import (
	"context"
	"errors"
	"testing"

	"schoolzy/internal/models"
)

func reviewFixture(allowMultiple bool) (*ReviewService, *fakeReviewStore, *fakeSchoolStore, string) {
	schools := newFakeSchoolStore()
	schoolID := schools.add(map[string]interface{}{"name": "Hill High"})

	reviews := &fakeReviewStore{}
	users := &fakeUserStore{users: map[string]models.User{
		"user-1": {Name: "Dana", ProfilePicture: "http://cdn/dana.png"},
	}}

	rating := NewRatingService(schools, reviews)
	svc := NewReviewService(reviews, schools, users, rating, allowMultiple)
	return svc, reviews, schools, schoolID
}

func validReview(schoolID, userID string, rating int) *models.Review {
	return &models.Review{
		SchoolID:   schoolID,
		UserID:     userID,
		Rating:     rating,
		ReviewText: "plenty of room to grow here",
	}
}

func TestCreateReviewTriggersAggregation(t *testing.T) {
	svc, _, schools, schoolID := reviewFixture(false)

	if err := svc.Create(context.Background(), validReview(schoolID, "user-1", 4)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	doc := schools.docs[schoolID]
	if doc["averageRating"] != 4.0 || doc["reviewCount"] != 1 {
		t.Errorf("aggregate = %v/%v, want 4.0/1", doc["averageRating"], doc["reviewCount"])
	}
}

func TestCreateReviewSnapshotsAuthor(t *testing.T) {
	svc, reviews, _, schoolID := reviewFixture(false)

	review := validReview(schoolID, "user-1", 5)
	if err := svc.Create(context.Background(), review); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored := reviews.reviews[0]
	if stored.UserName != "Dana" || stored.UserProfilePicture != "http://cdn/dana.png" {
		t.Errorf("author snapshot = %q/%q, want Dana/http://cdn/dana.png", stored.UserName, stored.UserProfilePicture)
	}
}

func TestCreateReviewMissingSchool(t *testing.T) {
	svc, _, _, _ := reviewFixture(false)

	err := svc.Create(context.Background(), validReview("school-gone", "user-1", 4))
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateReviewInvalidRating(t *testing.T) {
	svc, _, _, schoolID := reviewFixture(false)

	err := svc.Create(context.Background(), validReview(schoolID, "user-1", 6))
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestCreateReviewDuplicatePolicy(t *testing.T) {
	svc, _, _, schoolID := reviewFixture(false)

	if err := svc.Create(context.Background(), validReview(schoolID, "user-1", 4)); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	err := svc.Create(context.Background(), validReview(schoolID, "user-1", 5))
	if !errors.Is(err, models.ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
}

func TestCreateReviewMultipleAllowed(t *testing.T) {
	svc, reviews, _, schoolID := reviewFixture(true)

	if err := svc.Create(context.Background(), validReview(schoolID, "user-1", 4)); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if err := svc.Create(context.Background(), validReview(schoolID, "user-1", 5)); err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if len(reviews.reviews) != 2 {
		t.Errorf("stored %d reviews, want 2", len(reviews.reviews))
	}
}

func TestUpdateReviewOwnershipEnforced(t *testing.T) {
	svc, reviews, _, schoolID := reviewFixture(false)

	review := validReview(schoolID, "user-1", 4)
	if err := svc.Create(context.Background(), review); err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := reviews.reviews[0].ID.Hex()

	err := svc.Update(context.Background(), id, "someone-else", "user", 5, "changing another user's review")
	if !errors.Is(err, models.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}

	// Admins can edit any review.
	if err := svc.Update(context.Background(), id, "someone-else", "admin", 5, "admin override of the review"); err != nil {
		t.Errorf("admin Update: %v", err)
	}
}

func TestUpdateReviewReaggregates(t *testing.T) {
	svc, reviews, schools, schoolID := reviewFixture(false)

	if err := svc.Create(context.Background(), validReview(schoolID, "user-1", 2)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := reviews.reviews[0].ID.Hex()

	if err := svc.Update(context.Background(), id, "user-1", "user", 5, "turns out it grew on me a lot"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := schools.docs[schoolID]["averageRating"]; got != 5.0 {
		t.Errorf("averageRating = %v, want 5.0", got)
	}
}

func TestDeleteReviewReaggregates(t *testing.T) {
	svc, reviews, schools, schoolID := reviewFixture(true)

	if err := svc.Create(context.Background(), validReview(schoolID, "user-1", 5)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Create(context.Background(), validReview(schoolID, "user-2", 3)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := reviews.reviews[0].ID.Hex()

	if err := svc.Delete(context.Background(), id, "user-1", "user"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	doc := schools.docs[schoolID]
	if doc["averageRating"] != 3.0 || doc["reviewCount"] != 1 {
		t.Errorf("aggregate = %v/%v, want 3.0/1", doc["averageRating"], doc["reviewCount"])
	}
}

// The review mutation must succeed even when the school vanished before the
// aggregate could be written back.
func TestDeleteReviewSurvivesMissingSchool(t *testing.T) {
	svc, reviews, schools, schoolID := reviewFixture(false)

	if err := svc.Create(context.Background(), validReview(schoolID, "user-1", 5)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := reviews.reviews[0].ID.Hex()

	delete(schools.docs, schoolID)

	if err := svc.Delete(context.Background(), id, "user-1", "user"); err != nil {
		t.Errorf("Delete returned %v, want nil despite aggregation failure", err)
	}
	if len(reviews.reviews) != 0 {
		t.Errorf("review not deleted")
	}
}

func TestAdminListPagination(t *testing.T) {
	svc, _, _, schoolID := reviewFixture(true)

	for i := 0; i < 5; i++ {
		if err := svc.Create(context.Background(), validReview(schoolID, "user-1", 4)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, total, err := svc.AdminList(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("AdminList: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}

	page, _, err = svc.AdminList(context.Background(), 3, 2)
	if err != nil {
		t.Fatalf("AdminList: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("last page size = %d, want 1", len(page))
	}
}
