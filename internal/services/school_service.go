package services

import (
	"context"
	"math"
	"sort"
	"time"

	"schoolzy/internal/models"
	"schoolzy/internal/sanitize"
)

type SchoolStore interface {
	GetAll(ctx context.Context) ([]map[string]interface{}, error)
	GetByID(ctx context.Context, id string) (map[string]interface{}, error)
	Insert(ctx context.Context, doc map[string]interface{}) (string, error)
	Update(ctx context.Context, id string, doc map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type SchoolReviewStore interface {
	DeleteBySchoolID(ctx context.Context, schoolID string) error
}

type SchoolService struct {
	repo    SchoolStore
	reviews SchoolReviewStore
}

func NewSchoolService(repo SchoolStore, reviews SchoolReviewStore) *SchoolService {
	return &SchoolService{repo: repo, reviews: reviews}
}

func (s *SchoolService) GetAll(ctx context.Context) ([]map[string]interface{}, error) {
	schools, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return sanitize.Schools(schools), nil
}

func (s *SchoolService) GetByID(ctx context.Context, id string) (map[string]interface{}, error) {
	school, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitize.School(school), nil
}

// Nearby returns schools within radiusKm of the given point, closest first.
// Schools without coordinates are skipped.
func (s *SchoolService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]map[string]interface{}, error) {
	schools, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	type located struct {
		school   map[string]interface{}
		distance float64
	}

	nearby := make([]located, 0, len(schools))
	for _, school := range schools {
		schoolLat, _ := school["latitude"].(float64)
		schoolLng, _ := school["longitude"].(float64)
		if schoolLat == 0 && schoolLng == 0 {
			continue
		}
		d := haversineKm(lat, lng, schoolLat, schoolLng)
		if d <= radiusKm {
			school["distance"] = math.Floor(d*100+0.5) / 100
			nearby = append(nearby, located{school: school, distance: d})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].distance < nearby[j].distance
	})

	result := make([]map[string]interface{}, 0, len(nearby))
	for _, item := range nearby {
		result = append(result, item.school)
	}
	return result, nil
}

// Create validates admin input, sanitizes it and seeds the aggregate fields.
func (s *SchoolService) Create(ctx context.Context, input models.SchoolInput) (map[string]interface{}, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	doc := sanitize.School(input.Document())
	now := time.Now().UTC().Format(time.RFC3339)
	doc["averageRating"] = float64(0)
	doc["reviewCount"] = 0
	doc["createdAt"] = now
	doc["updatedAt"] = now

	id, err := s.repo.Insert(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc["id"] = id
	return doc, nil
}

// Update applies a partial edit: only keys present in the request are
// written, after passing through the sanitizer. The aggregate fields belong
// to the rating service and are never writable here.
func (s *SchoolService) Update(ctx context.Context, id string, raw map[string]interface{}) (map[string]interface{}, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	sanitized := sanitize.School(raw)
	update := map[string]interface{}{}
	for key := range raw {
		k := sanitize.CleanKey(key)
		if k == "id" || k == "_id" || k == "averageRating" || k == "reviewCount" {
			continue
		}
		update[k] = sanitized[k]
	}
	update["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	if err := s.repo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes a school and cascades to every review referencing it.
func (s *SchoolService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.reviews.DeleteBySchoolID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AdminList returns one page of schools plus the total count.
func (s *SchoolService) AdminList(ctx context.Context, page, limit int) ([]map[string]interface{}, int, error) {
	schools, err := s.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := len(schools)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return schools[start:end], total, nil
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
