package database

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes creates all necessary indexes for the collections
func CreateIndexes(ctx context.Context, db *MongoDB) error {
	slog.Info("Creating MongoDB indexes")

	// Target Indexes
	if err := createTargetIndexes(ctx, db); err != nil {
		return err
	}

	// Downtime Indexes
	if err := createDowntimeIndexes(ctx, db); err != nil {
		return err
	}

	// Downtime Schedule Indexes
	if err := createScheduleIndexes(ctx, db); err != nil {
		return err
	}

	// Schedule Locks Indexes
	if err := createScheduleLocksIndexes(ctx, db); err != nil {
		return err
	}

	// Notification Logs Indexes
	if err := createNotificationLogsIndexes(ctx, db); err != nil {
		return err
	}

	slog.Info("Successfully created all MongoDB indexes")
	return nil
}

func createTargetIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionTargets)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "host_name", Value: 1},
				{Key: "service_name", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_target_key_unique"),
		},
		{
			Keys:    bson.D{{Key: "metadata.tags", Value: 1}},
			Options: options.Index().SetName("idx_tags"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created targets indexes")
	return nil
}

func createDowntimeIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionDowntimes)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "target_key", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_target_key_id"),
		},
		{
			Keys: bson.D{
				{Key: "scheduled_by", Value: 1},
				{Key: "start_time", Value: 1},
			},
			Options: options.Index().SetName("idx_scheduled_by_start_time"),
		},
		{
			Keys: bson.D{
				{Key: "config_owner", Value: 1},
				{Key: "start_time", Value: 1},
			},
			Options: options.Index().SetName("idx_config_owner_start_time"),
		},
		{
			Keys:    bson.D{{Key: "start_time", Value: -1}},
			Options: options.Index().SetName("idx_start_time"),
		},
		{
			Keys:    bson.D{{Key: "end_time", Value: 1}},
			Options: options.Index().SetName("idx_end_time"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created downtimes indexes")
	return nil
}

func createScheduleIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionDowntimeSchedules)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_name_unique"),
		},
		{
			Keys: bson.D{
				{Key: "host_name", Value: 1},
				{Key: "service_name", Value: 1},
			},
			Options: options.Index().SetName("idx_target"),
		},
		{
			Keys: bson.D{
				{Key: "enabled", Value: 1},
				{Key: "metadata.created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_enabled_created_at"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created downtime_schedules indexes")
	return nil
}

func createScheduleLocksIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionScheduleLocks)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "schedule_name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_schedule_name_unique"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_expires_at_ttl"),
		},
		{
			Keys:    bson.D{{Key: "locked_by", Value: 1}},
			Options: options.Index().SetName("idx_locked_by"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created schedule_locks indexes")
	return nil
}

func createNotificationLogsIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionNotificationLogs)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "correlation_id", Value: 1}},
			Options: options.Index().SetName("idx_correlation_id"),
		},
		{
			Keys: bson.D{
				{Key: "final_status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_final_status_created_at"),
		},
		{
			Keys: bson.D{
				{Key: "schedule_name", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_schedule_name_created_at"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created notification_logs indexes")
	return nil
}
