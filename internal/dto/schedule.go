package dto

import (
	"github.com/terpsched/schedule-api/internal/models"
)

// CreateScheduleRequest asks the engine for every conflict-free schedule
// covering the requested courses.
type CreateScheduleRequest struct {
	Courses      []string            `json:"courses" validate:"required,min=1,max=8,dive,required"`
	Semester     string              `json:"semester"`
	Restrictions models.Restrictions `json:"restrictions"`
}

// CreateScheduleResponse carries the ranked schedule list.
type CreateScheduleResponse struct {
	Semester  string            `json:"semester"`
	Schedules []models.Schedule `json:"schedules"`
}

// ExportScheduleRequest renders one chosen schedule as an iCalendar feed.
type ExportScheduleRequest struct {
	// StartDate is the first day of classes, formatted 2006-01-02.
	StartDate string          `json:"startDate" validate:"required,datetime=2006-01-02"`
	Weeks     int             `json:"weeks" validate:"omitempty,min=1,max=52"`
	Schedule  models.Schedule `json:"schedule" validate:"required"`
}
