package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/terpsched/schedule-api/internal/models"
)

// UMDIOClient fetches course sections from the umd.io API.
type UMDIOClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	observe    func(provider string, duration time.Duration)
}

// NewUMDIO constructs a umd.io client. observe may be nil.
func NewUMDIO(baseURL string, timeout time.Duration, logger *zap.Logger, observe func(string, time.Duration)) *UMDIOClient {
	if baseURL == "" {
		baseURL = "https://api.umd.io/v1"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UMDIOClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		observe:    observe,
	}
}

// umd.io v1 serialises seat counts as strings.
type umdioSection struct {
	Course      string         `json:"course"`
	SectionID   string         `json:"section_id"`
	Number      string         `json:"number"`
	Seats       string         `json:"seats"`
	OpenSeats   string         `json:"open_seats"`
	Waitlist    string         `json:"waitlist"`
	Instructors []string       `json:"instructors"`
	Meetings    []umdioMeeting `json:"meetings"`
}

type umdioMeeting struct {
	Days      string `json:"days"`
	Room      string `json:"room"`
	Building  string `json:"building"`
	Classtype string `json:"classtype"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// GetSections returns the raw sections for one course in one term. An empty
// list is a valid answer; only transport and format problems are errors.
func (c *UMDIOClient) GetSections(ctx context.Context, courseID, term string) ([]models.Section, error) {
	endpoint := fmt.Sprintf("%s/courses/sections?%s", c.baseURL, url.Values{
		"course_id": {courseID},
		"semester":  {term},
		"per_page":  {"100"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build sections request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.observe != nil {
		c.observe("umdio", time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("fetch sections for %s: %w", courseID, err)
	}
	defer resp.Body.Close()

	// umd.io answers 404 with an error body when the course does not exist
	// in the term; treat that as an empty section list.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sections for %s: unexpected status %d", courseID, resp.StatusCode)
	}

	var wire []umdioSection
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode sections for %s: %w", courseID, err)
	}

	sections := make([]models.Section, 0, len(wire))
	for _, ws := range wire {
		section, err := c.convert(courseID, ws)
		if err != nil {
			c.logger.Warn("skipping malformed section",
				zap.String("course", courseID),
				zap.String("section", ws.SectionID),
				zap.Error(err),
			)
			continue
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func (c *UMDIOClient) convert(courseID string, ws umdioSection) (models.Section, error) {
	meetings := make([]models.Meeting, 0, len(ws.Meetings))
	for _, wm := range ws.Meetings {
		days := models.ParseWeekdays(wm.Days)
		if len(days) == 0 {
			// Online/asynchronous blocks carry no day tokens; they never
			// conflict, so they are dropped from the meeting list.
			continue
		}
		start, err := parseClock(wm.StartTime)
		if err != nil {
			return models.Section{}, err
		}
		end, err := parseClock(wm.EndTime)
		if err != nil {
			return models.Section{}, err
		}
		location := wm.Building
		if wm.Room != "" {
			location = fmt.Sprintf("%s %s", wm.Building, wm.Room)
		}
		meetings = append(meetings, models.Meeting{
			Days:         days,
			StartMinutes: start,
			EndMinutes:   end,
			Location:     location,
			Kind:         wm.Classtype,
		})
	}

	sectionID := ws.Number
	if sectionID == "" {
		sectionID = ws.SectionID
	}
	return models.Section{
		CourseID:      courseID,
		SectionID:     sectionID,
		Instructors:   ws.Instructors,
		Meetings:      meetings,
		TotalSeats:    atoiLoose(ws.Seats),
		OpenSeats:     atoiLoose(ws.OpenSeats),
		WaitlistCount: atoiLoose(ws.Waitlist),
	}, nil
}
