package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
)

// NormalizeSchedule validates an agenda, assigns ids to new items and orders
// the result by start time.
func NormalizeSchedule(items []ScheduleItem) ([]ScheduleItem, error) {
	errs := apperrors.NewValidationErrors()
	out := make([]ScheduleItem, 0, len(items))

	for i, item := range items {
		field := fmt.Sprintf("schedule[%d]", i)
		item.Title = strings.TrimSpace(item.Title)
		if item.Title == "" {
			errs.Add(field+".title", "title is required")
		}
		if item.StartTime.IsZero() {
			errs.Add(field+".startTime", "start time is required")
		}
		if !item.EndTime.IsZero() && item.EndTime.Before(item.StartTime) {
			errs.Add(field+".endTime", "end time must not precede start time")
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.StartTime = item.StartTime.UTC()
		item.EndTime = item.EndTime.UTC()
		out = append(out, item)
	}

	if errs.HasErrors() {
		return nil, errs
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}
