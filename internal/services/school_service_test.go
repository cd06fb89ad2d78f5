package services

import (
	"context"
	"errors"
	"testing"

	"schoolzy/internal/models"
)

func schoolFixture() (*SchoolService, *fakeSchoolStore, *fakeReviewStore) {
	schools := newFakeSchoolStore()
	reviews := &fakeReviewStore{}
	return NewSchoolService(schools, reviews), schools, reviews
}

func validSchoolInput() models.SchoolInput {
	return models.SchoolInput{
		Name:     "Riverside Elementary",
		Location: "Riverside",
		Category: "Elementary",
		Type:     "Public",
	}
}

func TestCreateSchoolSeedsAggregateFields(t *testing.T) {
	svc, _, _ := schoolFixture()

	doc, err := svc.Create(context.Background(), validSchoolInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if doc["averageRating"] != 0.0 {
		t.Errorf("averageRating = %v, want 0", doc["averageRating"])
	}
	if doc["reviewCount"] != 0 {
		t.Errorf("reviewCount = %v, want 0", doc["reviewCount"])
	}
	if doc["createdAt"] == "" || doc["updatedAt"] == "" {
		t.Errorf("timestamps not seeded: %v / %v", doc["createdAt"], doc["updatedAt"])
	}
	if doc["id"] == nil {
		t.Errorf("id missing from created document")
	}
}

func TestCreateSchoolRejectsInvalidInput(t *testing.T) {
	svc, _, _ := schoolFixture()

	input := validSchoolInput()
	input.Category = "Kindergarten"

	if _, err := svc.Create(context.Background(), input); !errors.Is(err, models.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestCreateThenReadRoundTrip(t *testing.T) {
	svc, _, _ := schoolFixture()

	input := validSchoolInput()
	input.Description = "Small school by the river"
	input.Facilities = []string{"library", "gym"}

	created, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	fetched, err := svc.GetByID(context.Background(), created["id"].(string))
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	for _, key := range []string{"name", "location", "category", "type", "description", "averageRating", "reviewCount", "createdAt"} {
		if fetched[key] != created[key] {
			t.Errorf("%s = %v after read, want %v", key, fetched[key], created[key])
		}
	}
	facilities, ok := fetched["facilities"].([]string)
	if !ok || len(facilities) != 2 {
		t.Errorf("facilities = %v, want 2 entries", fetched["facilities"])
	}
}

func TestUpdateSchoolIsPartial(t *testing.T) {
	svc, schools, _ := schoolFixture()
	id := schools.add(map[string]interface{}{
		"name":          "Old Name",
		"location":      "Downtown",
		"averageRating": 4.5,
		"reviewCount":   12,
	})

	updated, err := svc.Update(context.Background(), id, map[string]interface{}{
		"name": "  New Name ",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated["name"] != "New Name" {
		t.Errorf("name = %v, want New Name", updated["name"])
	}
	if updated["location"] != "Downtown" {
		t.Errorf("location = %v, untouched field was overwritten", updated["location"])
	}
}

func TestUpdateSchoolProtectsAggregateFields(t *testing.T) {
	svc, schools, _ := schoolFixture()
	id := schools.add(map[string]interface{}{
		"name":          "Hill High",
		"averageRating": 4.5,
		"reviewCount":   12,
	})

	updated, err := svc.Update(context.Background(), id, map[string]interface{}{
		"averageRating": 5.0,
		"reviewCount":   999,
		"name":          "Hill High",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated["averageRating"] != 4.5 || updated["reviewCount"] != 12 {
		t.Errorf("aggregate = %v/%v, client input must not overwrite it", updated["averageRating"], updated["reviewCount"])
	}
}

func TestUpdateSchoolMissing(t *testing.T) {
	svc, _, _ := schoolFixture()

	_, err := svc.Update(context.Background(), "school-missing", map[string]interface{}{"name": "X"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteSchoolCascadesReviews(t *testing.T) {
	svc, schools, reviews := schoolFixture()
	id := schools.add(map[string]interface{}{"name": "Hill High"})
	other := schools.add(map[string]interface{}{"name": "Other High"})

	reviews.reviews = []models.Review{
		{SchoolID: id, UserID: "user-1", Rating: 5, ReviewText: "great place for learning"},
		{SchoolID: other, UserID: "user-1", Rating: 3, ReviewText: "ok place, could be better"},
	}

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := schools.docs[id]; ok {
		t.Errorf("school still present after delete")
	}
	if len(reviews.reviews) != 1 || reviews.reviews[0].SchoolID != other {
		t.Errorf("reviews after cascade = %v, want only the other school's review", reviews.reviews)
	}
}

func TestNearbyFiltersAndSorts(t *testing.T) {
	svc, schools, _ := schoolFixture()
	// Distances measured from (41.0, 29.0).
	schools.add(map[string]interface{}{"name": "Far", "latitude": 42.0, "longitude": 29.0})
	near := schools.add(map[string]interface{}{"name": "Near", "latitude": 41.01, "longitude": 29.0})
	mid := schools.add(map[string]interface{}{"name": "Mid", "latitude": 41.05, "longitude": 29.0})
	schools.add(map[string]interface{}{"name": "NoCoords"})

	result, err := svc.Nearby(context.Background(), 41.0, 29.0, 10)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("got %d schools, want 2", len(result))
	}
	if result[0]["id"] != near || result[1]["id"] != mid {
		t.Errorf("order = %v, %v; want closest first", result[0]["id"], result[1]["id"])
	}
	if _, ok := result[0]["distance"].(float64); !ok {
		t.Errorf("distance not attached: %v", result[0]["distance"])
	}
}

func TestAdminListSchoolsPagination(t *testing.T) {
	svc, schools, _ := schoolFixture()
	for i := 0; i < 3; i++ {
		schools.add(map[string]interface{}{"name": "School"})
	}

	page, total, err := svc.AdminList(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("AdminList: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(page) != 1 {
		t.Errorf("page size = %d, want 1", len(page))
	}
}
