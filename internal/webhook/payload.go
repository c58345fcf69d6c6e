package webhook

import (
	"fmt"
	"time"

	"github.com/dandantas/hush/internal/model"
)

// FormatDowntimePayload builds the webhook payload for a downtime event
func FormatDowntimePayload(event string, schedule *model.DowntimeSchedule, downtime *model.Downtime) model.NotificationPayload {
	scheduleName := ""
	if schedule != nil {
		scheduleName = schedule.Name
	}

	return model.NotificationPayload{
		Event:        event,
		ScheduleName: scheduleName,
		TargetKey:    downtime.TargetKey,
		DowntimeID:   downtime.ID.Hex(),
		StartTime:    downtime.StartTime,
		EndTime:      downtime.EndTime,
		Fixed:        downtime.Fixed,
		Author:       downtime.Author,
		Comment:      downtime.Comment,
		Text:         formatText(event, scheduleName, downtime),
	}
}

// formatText creates a human readable message for chat style webhook receivers
func formatText(event, scheduleName string, downtime *model.Downtime) string {
	window := fmt.Sprintf("%s to %s",
		downtime.StartTime.Format(time.RFC3339),
		downtime.EndTime.Format(time.RFC3339),
	)

	switch event {
	case model.EventDowntimeScheduled:
		return fmt.Sprintf("🔕 Downtime scheduled for %s: %s (schedule '%s')",
			downtime.TargetKey, window, scheduleName)
	case model.EventDowntimeCreated:
		return fmt.Sprintf("🔕 Downtime created for %s: %s", downtime.TargetKey, window)
	case model.EventDowntimeRemoved:
		return fmt.Sprintf("🔔 Downtime removed for %s: %s", downtime.TargetKey, window)
	default:
		return fmt.Sprintf("Downtime event %s for %s: %s", event, downtime.TargetKey, window)
	}
}
