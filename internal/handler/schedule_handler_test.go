package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terpsched/schedule-api/internal/dto"
	"github.com/terpsched/schedule-api/internal/models"
	appErrors "github.com/terpsched/schedule-api/pkg/errors"
	"github.com/terpsched/schedule-api/pkg/response"
)

type scheduleServiceMock struct {
	resp    *dto.CreateScheduleResponse
	err     error
	lastReq dto.CreateScheduleRequest
	called  bool
}

func (m *scheduleServiceMock) Create(ctx context.Context, req dto.CreateScheduleRequest) (*dto.CreateScheduleResponse, error) {
	m.called = true
	m.lastReq = req
	return m.resp, m.err
}

func postJSON(t *testing.T, h gin.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	h(c)
	return w
}

func TestScheduleHandlerCreate(t *testing.T) {
	mockSvc := &scheduleServiceMock{
		resp: &dto.CreateScheduleResponse{
			Semester: "202601",
			Schedules: []models.Schedule{
				{Sections: map[string]models.Section{"CMSC131": {CourseID: "CMSC131", SectionID: "0101"}}, QualityWeight: 3.5},
			},
		},
	}
	h := NewScheduleHandler(mockSvc, nil, nil)

	w := postJSON(t, h.Create, "/schedule", dto.CreateScheduleRequest{Courses: []string{"CMSC131"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.called)
	assert.Equal(t, []string{"CMSC131"}, mockSvc.lastReq.Courses)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
	assert.EqualValues(t, 1, envelope.Meta["count"])
}

func TestScheduleHandlerCreateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{}
	h := NewScheduleHandler(mockSvc, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/schedule", bytes.NewReader([]byte("{not json")))
	c.Request = req
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.called)
}

func TestScheduleHandlerCreateServiceErrorStatus(t *testing.T) {
	mockSvc := &scheduleServiceMock{err: appErrors.ErrNoFeasibleCombination}
	h := NewScheduleHandler(mockSvc, nil, nil)

	w := postJSON(t, h.Create, "/schedule", dto.CreateScheduleRequest{Courses: []string{"CMSC131", "MATH140"}})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNoFeasibleCombination.Code, envelope.Error.Code)
}

func TestScheduleHandlerExport(t *testing.T) {
	h := NewScheduleHandler(&scheduleServiceMock{}, nil, nil)

	payload := dto.ExportScheduleRequest{
		StartDate: "2026-01-26",
		Weeks:     15,
		Schedule: models.Schedule{
			Sections: map[string]models.Section{
				"CMSC131": {
					CourseID:  "CMSC131",
					SectionID: "0101",
					Meetings: []models.Meeting{
						{Days: []models.Weekday{models.Monday}, StartMinutes: 600, EndMinutes: 650},
					},
				},
			},
		},
	}

	w := postJSON(t, h.Export, "/schedule/export", payload)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule.ics")
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
}

func TestScheduleHandlerExportRejectsBadStartDate(t *testing.T) {
	h := NewScheduleHandler(&scheduleServiceMock{}, nil, nil)

	payload := map[string]any{
		"startDate": "26/01/2026",
		"schedule": map[string]any{
			"sections": map[string]any{"CMSC131": map[string]any{"courseId": "CMSC131", "sectionId": "0101"}},
		},
	}

	w := postJSON(t, h.Export, "/schedule/export", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerExportRejectsEmptySchedule(t *testing.T) {
	h := NewScheduleHandler(&scheduleServiceMock{}, nil, nil)

	payload := dto.ExportScheduleRequest{StartDate: "2026-01-26", Schedule: models.Schedule{}}

	w := postJSON(t, h.Export, "/schedule/export", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
