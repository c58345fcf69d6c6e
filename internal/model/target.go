package model

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Target represents a monitored entity downtimes apply to: a host, or a
// service on a host when ServiceName is set
type Target struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	HostName    string             `json:"host_name" bson:"host_name"`
	ServiceName string             `json:"service_name,omitempty" bson:"service_name"`
	DisplayName string             `json:"display_name,omitempty" bson:"display_name,omitempty"`
	Metadata    Metadata           `json:"metadata" bson:"metadata"`
}

// TargetKey composes the canonical key for a host or host service.
// Hosts are keyed by host name, services by "host!service".
func TargetKey(hostName, serviceName string) string {
	if serviceName == "" {
		return hostName
	}
	return hostName + "!" + serviceName
}

// Key returns the target's canonical key
func (t *Target) Key() string {
	return TargetKey(t.HostName, t.ServiceName)
}

// IsService reports whether the target is a host service rather than a host
func (t *Target) IsService() bool {
	return t.ServiceName != ""
}

// Validate validates the target and normalizes its fields
func (t *Target) Validate() error {
	t.HostName = strings.TrimSpace(t.HostName)
	t.ServiceName = strings.TrimSpace(t.ServiceName)

	if t.HostName == "" {
		return errors.New("host name is required")
	}
	if strings.Contains(t.HostName, "!") {
		return errors.New("host name must not contain '!'")
	}
	if strings.Contains(t.ServiceName, "!") {
		return errors.New("service name must not contain '!'")
	}
	if len(t.Key()) > 255 {
		return errors.New("target key must be 255 characters or less")
	}

	// Set metadata timestamps
	now := time.Now().UTC()
	if t.Metadata.CreatedAt.IsZero() {
		t.Metadata.CreatedAt = now
	}
	if t.Metadata.UpdatedAt.IsZero() {
		t.Metadata.UpdatedAt = now
	}

	return nil
}

// TargetListItem represents a summary of a target for list responses
type TargetListItem struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	HostName    string    `json:"host_name"`
	ServiceName string    `json:"service_name,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []string  `json:"tags,omitempty"`
}

// ToListItem converts Target to TargetListItem
func (t *Target) ToListItem() TargetListItem {
	return TargetListItem{
		ID:          t.ID.Hex(),
		Key:         t.Key(),
		HostName:    t.HostName,
		ServiceName: t.ServiceName,
		DisplayName: t.DisplayName,
		CreatedAt:   t.Metadata.CreatedAt,
		Tags:        t.Metadata.Tags,
	}
}
