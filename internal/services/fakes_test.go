package services

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"schoolzy/internal/models"
)

// In-memory stand-ins for the mongo repositories.

type ratingCall struct {
	schoolID string
	average  float64
	count    int
}

type fakeSchoolStore struct {
	docs        map[string]map[string]interface{}
	nextID      int
	getErr      error
	ratingErr   error
	ratingCalls []ratingCall
}

func newFakeSchoolStore() *fakeSchoolStore {
	return &fakeSchoolStore{docs: map[string]map[string]interface{}{}}
}

func (f *fakeSchoolStore) add(doc map[string]interface{}) string {
	f.nextID++
	id := fmt.Sprintf("school-%d", f.nextID)
	f.docs[id] = copyDoc(doc)
	return id
}

func (f *fakeSchoolStore) GetAll(ctx context.Context) ([]map[string]interface{}, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	ids := make([]string, 0, len(f.docs))
	for id := range f.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]map[string]interface{}, 0, len(f.docs))
	for _, id := range ids {
		doc := copyDoc(f.docs[id])
		doc["id"] = id
		out = append(out, doc)
	}
	return out, nil
}

func (f *fakeSchoolStore) GetByID(ctx context.Context, id string) (map[string]interface{}, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := copyDoc(doc)
	out["id"] = id
	return out, nil
}

func (f *fakeSchoolStore) Insert(ctx context.Context, doc map[string]interface{}) (string, error) {
	return f.add(doc), nil
}

func (f *fakeSchoolStore) Update(ctx context.Context, id string, doc map[string]interface{}) error {
	existing, ok := f.docs[id]
	if !ok {
		return models.ErrNotFound
	}
	for k, v := range doc {
		if k == "id" || k == "_id" {
			continue
		}
		existing[k] = v
	}
	return nil
}

func (f *fakeSchoolStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeSchoolStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.docs)), nil
}

func (f *fakeSchoolStore) UpdateRating(ctx context.Context, id string, averageRating float64, reviewCount int) error {
	if f.ratingErr != nil {
		return f.ratingErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return models.ErrNotFound
	}
	doc["averageRating"] = averageRating
	doc["reviewCount"] = reviewCount
	f.ratingCalls = append(f.ratingCalls, ratingCall{schoolID: id, average: averageRating, count: reviewCount})
	return nil
}

type fakeReviewStore struct {
	reviews []models.Review
	findErr error
}

func (f *fakeReviewStore) Create(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeReviewStore) FindByID(ctx context.Context, id string) (*models.Review, error) {
	for _, review := range f.reviews {
		if review.ID.Hex() == id {
			r := review
			return &r, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeReviewStore) FindBySchoolID(ctx context.Context, schoolID string) ([]models.Review, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := []models.Review{}
	for _, review := range f.reviews {
		if review.SchoolID == schoolID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) FindByUserID(ctx context.Context, userID string) ([]models.Review, error) {
	out := []models.Review{}
	for _, review := range f.reviews {
		if review.UserID == userID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) GetAll(ctx context.Context) ([]models.Review, error) {
	return append([]models.Review{}, f.reviews...), nil
}

func (f *fakeReviewStore) ExistsBySchoolAndUser(ctx context.Context, schoolID, userID string) (bool, error) {
	for _, review := range f.reviews {
		if review.SchoolID == schoolID && review.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewStore) Update(ctx context.Context, id string, rating int, reviewText string) error {
	for i, review := range f.reviews {
		if review.ID.Hex() == id {
			f.reviews[i].Rating = rating
			f.reviews[i].ReviewText = reviewText
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeReviewStore) Delete(ctx context.Context, id string) error {
	for i, review := range f.reviews {
		if review.ID.Hex() == id {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeReviewStore) DeleteBySchoolID(ctx context.Context, schoolID string) error {
	kept := f.reviews[:0]
	for _, review := range f.reviews {
		if review.SchoolID != schoolID {
			kept = append(kept, review)
		}
	}
	f.reviews = kept
	return nil
}

func (f *fakeReviewStore) DeleteByUserID(ctx context.Context, userID string) error {
	kept := f.reviews[:0]
	for _, review := range f.reviews {
		if review.UserID != userID {
			kept = append(kept, review)
		}
	}
	f.reviews = kept
	return nil
}

func (f *fakeReviewStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.reviews)), nil
}

type fakeUserStore struct {
	users map[string]models.User
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &user, nil
}

func copyDoc(doc map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range doc {
		out[k] = v
	}
	return out
}
