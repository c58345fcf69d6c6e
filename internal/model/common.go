package model

import (
	"time"
)

// RetryConfig represents webhook retry configuration
type RetryConfig struct {
	MaxAttempts    int     `json:"max_attempts" bson:"max_attempts"`
	InitialDelayMs int     `json:"initial_delay_ms" bson:"initial_delay_ms"`
	MaxDelayMs     int     `json:"max_delay_ms" bson:"max_delay_ms"`
	Multiplier     float64 `json:"multiplier" bson:"multiplier"`
}

// SetDefaults sets default values for retry configuration
func (rc *RetryConfig) SetDefaults() {
	if rc.MaxAttempts == 0 {
		rc.MaxAttempts = 3
	}
	if rc.InitialDelayMs == 0 {
		rc.InitialDelayMs = 1000
	}
	if rc.MaxDelayMs == 0 {
		rc.MaxDelayMs = 30000
	}
	if rc.Multiplier == 0 {
		rc.Multiplier = 2.0
	}
}

// Metadata represents common metadata fields
type Metadata struct {
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	Tags      []string  `json:"tags,omitempty" bson:"tags,omitempty"`
}
