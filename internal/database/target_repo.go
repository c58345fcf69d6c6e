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

// TargetRepository handles monitored target operations
type TargetRepository struct {
	collection *mongo.Collection
}

// NewTargetRepository creates a new target repository
func NewTargetRepository(db *MongoDB) *TargetRepository {
	return &TargetRepository{
		collection: db.GetCollection(CollectionTargets),
	}
}

// Create inserts a new target
func (r *TargetRepository) Create(ctx context.Context, target *model.Target) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Ensure ID is generated if not set
	if target.ID.IsZero() {
		target.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctxTimeout, target)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("target with key '%s' %w", target.Key(), ErrDuplicate)
		}
		return fmt.Errorf("failed to create target: %w", err)
	}

	return nil
}

// GetByID retrieves a target by ID
func (r *TargetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Target, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var target model.Target
	err := r.collection.FindOne(ctxTimeout, bson.M{"_id": id}).Decode(&target)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("target: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get target: %w", err)
	}

	return &target, nil
}

// Resolve retrieves the target for a host name and optional service name
func (r *TargetRepository) Resolve(ctx context.Context, hostName, serviceName string) (*model.Target, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"host_name":    hostName,
		"service_name": serviceName,
	}

	var target model.Target
	err := r.collection.FindOne(ctxTimeout, filter).Decode(&target)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("target '%s': %w", model.TargetKey(hostName, serviceName), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}

	return &target, nil
}

// List retrieves targets with filtering and pagination
func (r *TargetRepository) List(ctx context.Context, filter bson.M, page, limit int) ([]model.Target, int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Count total documents
	total, err := r.collection.CountDocuments(ctxTimeout, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count targets: %w", err)
	}

	// Calculate pagination
	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "host_name", Value: 1}, {Key: "service_name", Value: 1}})

	// Find documents
	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list targets: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var targets []model.Target
	if err := cursor.All(ctxTimeout, &targets); err != nil {
		return nil, 0, fmt.Errorf("failed to decode targets: %w", err)
	}

	return targets, total, nil
}

// Delete deletes a target
func (r *TargetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctxTimeout, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("target: %w", ErrNotFound)
	}

	return nil
}
