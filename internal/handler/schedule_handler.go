package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/terpsched/schedule-api/internal/dto"
	"github.com/terpsched/schedule-api/pkg/export"
	appErrors "github.com/terpsched/schedule-api/pkg/errors"
	"github.com/terpsched/schedule-api/pkg/response"
)

type scheduleCreator interface {
	Create(ctx context.Context, req dto.CreateScheduleRequest) (*dto.CreateScheduleResponse, error)
}

// ScheduleHandler exposes the schedule generation endpoints.
type ScheduleHandler struct {
	service   scheduleCreator
	exporter  *export.ICSExporter
	validator *validator.Validate
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service scheduleCreator, exporter *export.ICSExporter, validate *validator.Validate) *ScheduleHandler {
	if validate == nil {
		validate = validator.New()
	}
	if exporter == nil {
		exporter = export.NewICSExporter("", 0)
	}
	return &ScheduleHandler{service: service, exporter: exporter, validator: validate}
}

// Create godoc
// @Summary Generate all valid schedules for the requested courses
// @Description Enumerates every conflict-free combination of sections under the supplied restrictions, ranked by instructor quality.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateScheduleRequest true "Schedule request"
// @Success 200 {object} response.Envelope
// @Router /api/v1/schedule [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, map[string]interface{}{"count": len(result.Schedules)})
}

// Export godoc
// @Summary Export one schedule as an iCalendar feed
// @Tags Schedules
// @Accept json
// @Produce text/calendar
// @Param payload body dto.ExportScheduleRequest true "Export request"
// @Success 200 {string} string "iCalendar document"
// @Router /api/v1/schedule/export [post]
func (h *ScheduleHandler) Export(c *gin.Context) {
	var req dto.ExportScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "startDate must be formatted 2006-01-02"))
		return
	}

	document, err := h.exporter.Export(req.Schedule, start, req.Weeks)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "schedule cannot be exported"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(document))
}
