package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"schoolzy/internal/models"
)

// SchoolRepository works on raw documents instead of a typed model so that
// legacy records with inconsistent shapes reach the sanitizer untouched.
type SchoolRepository struct {
	collection *mongo.Collection
}

func NewSchoolRepository(db *mongo.Database) *SchoolRepository {
	return &SchoolRepository{collection: db.Collection("schools")}
}

func (r *SchoolRepository) GetAll(ctx context.Context) ([]map[string]interface{}, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	schools := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		schools = append(schools, exposeID(doc))
	}
	return schools, nil
}

func (r *SchoolRepository) GetByID(ctx context.Context, id string) (map[string]interface{}, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	var doc bson.M
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return exposeID(doc), nil
}

func (r *SchoolRepository) Insert(ctx context.Context, doc map[string]interface{}) (string, error) {
	result, err := r.collection.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *SchoolRepository) Update(ctx context.Context, id string, doc map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}

	fields := bson.M{}
	for k, v := range doc {
		if k == "id" || k == "_id" {
			continue
		}
		fields[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateRating overwrites the two aggregate fields and nothing else.
func (r *SchoolRepository) UpdateRating(ctx context.Context, id string, averageRating float64, reviewCount int) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}

	update := bson.M{"$set": bson.M{
		"averageRating": averageRating,
		"reviewCount":   reviewCount,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *SchoolRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *SchoolRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// exposeID swaps the mongo _id for a plain hex id key the API serves.
func exposeID(doc bson.M) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range doc {
		if k == "_id" {
			if oid, ok := v.(primitive.ObjectID); ok {
				out["id"] = oid.Hex()
				continue
			}
		}
		out[k] = v
	}
	return out
}
