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

// NotificationRepository handles notification delivery log operations
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *MongoDB) *NotificationRepository {
	return &NotificationRepository{
		collection: db.GetCollection(CollectionNotificationLogs),
	}
}

// Create inserts a new notification log
func (r *NotificationRepository) Create(ctx context.Context, notification *model.NotificationLog) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Ensure ID is generated if not set
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctxTimeout, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification log: %w", err)
	}

	return nil
}

// GetByID retrieves a notification log by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.NotificationLog, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var notification model.NotificationLog
	err := r.collection.FindOne(ctxTimeout, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("notification log: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get notification log: %w", err)
	}

	return &notification, nil
}

// List retrieves notification logs with filtering and pagination
func (r *NotificationRepository) List(ctx context.Context, filter bson.M, page, limit int) ([]model.NotificationLog, int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Count total documents
	total, err := r.collection.CountDocuments(ctxTimeout, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notification logs: %w", err)
	}

	// Calculate pagination
	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	// Find documents
	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notification logs: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var notifications []model.NotificationLog
	if err := cursor.All(ctxTimeout, &notifications); err != nil {
		return nil, 0, fmt.Errorf("failed to decode notification logs: %w", err)
	}

	return notifications, total, nil
}
