package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/AtsunoriNagaya/swim-traing-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const pointerCollectionName = "pointers"

// pointerDocument is the stored shape of one cell.
type pointerDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoPointerRepository implements repository.PointerRepository
type mongoPointerRepository struct {
	collection *mongo.Collection
}

// NewMongoPointerRepository creates a new pointer repository.
func NewMongoPointerRepository(db *mongo.Database) repository.PointerRepository {
	return &mongoPointerRepository{
		collection: db.Collection(pointerCollectionName),
	}
}

// Get retrieves the current value and version of a cell.
func (r *mongoPointerRepository) Get(ctx context.Context, key string) (repository.Pointer, error) {
	var doc pointerDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.Pointer{}, repository.ErrNotFound
		}
		return repository.Pointer{}, err
	}
	return repository.Pointer{Value: doc.Value, Version: doc.Version}, nil
}

// CompareAndSet writes value iff the cell is still at expectedVersion.
// Version 0 means the cell must not exist yet; a concurrent writer that got
// there first surfaces as repository.ErrConflict either way.
func (r *mongoPointerRepository) CompareAndSet(ctx context.Context, key, value string, expectedVersion int64) error {
	now := time.Now().UTC()

	if expectedVersion == 0 {
		_, err := r.collection.InsertOne(ctx, pointerDocument{
			Key:       key,
			Value:     value,
			Version:   1,
			UpdatedAt: now,
		})
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}

	filter := bson.M{"_id": key, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{"value": value, "updatedAt": now},
		"$inc": bson.M{"version": 1},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrConflict
	}
	return nil
}
