package worker

import (
	"context"

	"github.com/dandantas/hush/internal/model"
)

// Job represents one schedule reconciliation job
type Job struct {
	Schedule      *model.DowntimeSchedule
	CorrelationID string
	Context       context.Context
}
