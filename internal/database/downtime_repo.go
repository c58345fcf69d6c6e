package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dandantas/hush/internal/model"
)

// DowntimeRepository handles maintenance window operations
type DowntimeRepository struct {
	collection *mongo.Collection
}

// NewDowntimeRepository creates a new downtime repository
func NewDowntimeRepository(db *MongoDB) *DowntimeRepository {
	return &DowntimeRepository{
		collection: db.GetCollection(CollectionDowntimes),
	}
}

// Create inserts a new downtime and returns its ID
func (r *DowntimeRepository) Create(ctx context.Context, downtime *model.Downtime) (primitive.ObjectID, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Ensure ID is generated if not set
	if downtime.ID.IsZero() {
		downtime.ID = primitive.NewObjectID()
	}
	if downtime.CreatedAt.IsZero() {
		downtime.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctxTimeout, downtime)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create downtime: %w", err)
	}

	return downtime.ID, nil
}

// GetByID retrieves a downtime by ID
func (r *DowntimeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Downtime, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var downtime model.Downtime
	err := r.collection.FindOne(ctxTimeout, bson.M{"_id": id}).Decode(&downtime)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("downtime: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get downtime: %w", err)
	}

	return &downtime, nil
}

// ListByTarget retrieves every downtime of a target in insertion order.
// ObjectIDs grow monotonically, so sorting by _id preserves creation order.
func (r *DowntimeRepository) ListByTarget(ctx context.Context, targetKey string) ([]model.Downtime, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctxTimeout, bson.M{"target_key": targetKey}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list downtimes for target: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var downtimes []model.Downtime
	if err := cursor.All(ctxTimeout, &downtimes); err != nil {
		return nil, fmt.Errorf("failed to decode downtimes: %w", err)
	}

	return downtimes, nil
}

// SetConfigOwner marks the schedule owning a downtime's lifecycle
func (r *DowntimeRepository) SetConfigOwner(ctx context.Context, id primitive.ObjectID, owner string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"config_owner": owner,
		},
	}

	result, err := r.collection.UpdateOne(ctxTimeout, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set config owner: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("downtime: %w", ErrNotFound)
	}

	return nil
}

// List retrieves downtimes with filtering and pagination
func (r *DowntimeRepository) List(ctx context.Context, filter bson.M, page, limit int) ([]model.Downtime, int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Count total documents
	total, err := r.collection.CountDocuments(ctxTimeout, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count downtimes: %w", err)
	}

	// Calculate pagination
	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "start_time", Value: -1}})

	// Find documents
	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list downtimes: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var downtimes []model.Downtime
	if err := cursor.All(ctxTimeout, &downtimes); err != nil {
		return nil, 0, fmt.Errorf("failed to decode downtimes: %w", err)
	}

	return downtimes, total, nil
}

// Delete removes a downtime
func (r *DowntimeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctxTimeout, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete downtime: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("downtime: %w", ErrNotFound)
	}

	return nil
}

// DeletePendingByOwner removes the not yet started windows owned by a
// schedule. Called when the owning schedule is deleted; windows already
// started stay behind as history.
func (r *DowntimeRepository) DeletePendingByOwner(ctx context.Context, owner string, now time.Time) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"config_owner": owner,
		"start_time":   bson.M{"$gte": now},
	}

	result, err := r.collection.DeleteMany(ctxTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pending downtimes for owner: %w", err)
	}

	return result.DeletedCount, nil
}

// DeleteExpired removes downtimes whose windows ended before the cutoff
func (r *DowntimeRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{
		"end_time": bson.M{"$lt": before},
	}

	result, err := r.collection.DeleteMany(ctxTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired downtimes: %w", err)
	}

	return result.DeletedCount, nil
}
