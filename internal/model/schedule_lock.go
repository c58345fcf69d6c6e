package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleLock represents a distributed lock guarding one schedule's
// reconciliation so check-then-create stays atomic across workers and pods
type ScheduleLock struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ScheduleName string             `json:"schedule_name" bson:"schedule_name"`
	LockedBy     string             `json:"locked_by" bson:"locked_by"`   // Pod identifier (hostname)
	LockedAt     time.Time          `json:"locked_at" bson:"locked_at"`   // Lock acquisition timestamp
	ExpiresAt    time.Time          `json:"expires_at" bson:"expires_at"` // Lock expiration (TTL)
}
