package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

const collectionPlants = "plants"

type PlantRepository struct {
	col *mongo.Collection
}

func NewPlantRepository(db *mongo.Database) *PlantRepository {
	return &PlantRepository{col: db.Collection(collectionPlants)}
}

type plantDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Type      string             `bson:"type"`
	CareLevel string             `bson:"care_level,omitempty"`
	CreatedAt time.Time          `bson:"created_at,omitempty"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty"`
}

func (d plantDocument) toDomain() *domain.Plant {
	careLevel := d.CareLevel
	if careLevel == "" {
		careLevel = domain.CareLevelUnknown
	}
	return &domain.Plant{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Type:      d.Type,
		CareLevel: careLevel,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// parseID converts a hex id into an ObjectID, reporting malformed ids as
// domain.ErrInvalidPlantID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidPlantID
	}
	return oid, nil
}

// Create inserts a new plant document and returns it with its generated id.
func (r *PlantRepository) Create(ctx context.Context, p *domain.Plant) (*domain.Plant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := plantDocument{
		ID:        primitive.NewObjectID(),
		Name:      p.Name,
		Type:      p.Type,
		CareLevel: p.CareLevel,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, storageErr("insert plant", err)
	}
	return doc.toDomain(), nil
}

func (r *PlantRepository) FindByID(ctx context.Context, id string) (*domain.Plant, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc plantDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlantNotFound
		}
		return nil, storageErr("find plant", err)
	}
	return doc.toDomain(), nil
}

// List returns plants in insertion order, optionally filtered by care level.
func (r *PlantRepository) List(ctx context.Context, filter domain.PlantFilter) ([]*domain.Plant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.CareLevel != "" {
		query["care_level"] = filter.CareLevel
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storageErr("list plants", err)
	}
	defer cur.Close(ctx)

	var docs []plantDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr("decode plants", err)
	}

	plants := make([]*domain.Plant, 0, len(docs))
	for _, d := range docs {
		plants = append(plants, d.toDomain())
	}
	return plants, nil
}

// Update applies the non-nil patch fields atomically and returns the
// document after the update.
func (r *PlantRepository) Update(ctx context.Context, id string, patch domain.PlantPatch) (*domain.Plant, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Type != nil {
		set["type"] = *patch.Type
	}
	if patch.CareLevel != nil {
		set["care_level"] = *patch.CareLevel
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc plantDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlantNotFound
		}
		return nil, storageErr("update plant", err)
	}
	return doc.toDomain(), nil
}

func (r *PlantRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storageErr("delete plant", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPlantNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes used by plant listings.
func (r *PlantRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "care_level", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure plant indexes: %w", err)
	}
	return nil
}
