package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/terpsched/schedule-api/internal/models"
)

// TestudoScraper reads sections straight from the Testudo schedule-of-classes
// HTML pages. It serves as a fallback course data provider and feeds the
// catalog sync job.
type TestudoScraper struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	observe    func(provider string, duration time.Duration)
}

// NewTestudo constructs a Testudo scraper. observe may be nil.
func NewTestudo(baseURL string, timeout time.Duration, logger *zap.Logger, observe func(string, time.Duration)) *TestudoScraper {
	if baseURL == "" {
		baseURL = "https://app.testudo.umd.edu"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestudoScraper{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		observe:    observe,
	}
}

// GetSections scrapes every section of one course in one term.
func (s *TestudoScraper) GetSections(ctx context.Context, courseID, term string) ([]models.Section, error) {
	dept := departmentOf(courseID)
	doc, err := s.fetch(ctx, fmt.Sprintf("%s/soc/%s/%s/%s", s.baseURL, term, dept, courseID))
	if err != nil {
		return nil, err
	}

	var sections []models.Section
	doc.Find("div.section").Each(func(_ int, sel *goquery.Selection) {
		section := models.Section{
			CourseID:      courseID,
			SectionID:     cleanText(sel.Find("span.section-id").First().Text()),
			TotalSeats:    atoiLoose(sel.Find("span.total-seats-count").First().Text()),
			OpenSeats:     atoiLoose(sel.Find("span.open-seats-count").First().Text()),
			WaitlistCount: atoiLoose(sel.Find("span.waitlist-count").First().Text()),
		}
		sel.Find("span.section-instructor").Each(func(_ int, instructor *goquery.Selection) {
			if name := cleanText(instructor.Text()); name != "" && name != "Instructor: TBA" {
				section.Instructors = append(section.Instructors, name)
			}
		})
		sel.Find("div.class-days-container div.row").Each(func(_ int, row *goquery.Selection) {
			meeting, ok := s.parseMeetingRow(courseID, row)
			if ok {
				section.Meetings = append(section.Meetings, meeting)
			}
		})
		if section.SectionID != "" {
			sections = append(sections, section)
		}
	})
	return sections, nil
}

// ListCourseIDs scrapes the course codes offered by a department in a term.
func (s *TestudoScraper) ListCourseIDs(ctx context.Context, dept, term string) ([]string, error) {
	doc, err := s.fetch(ctx, fmt.Sprintf("%s/soc/%s/%s", s.baseURL, term, strings.ToUpper(dept)))
	if err != nil {
		return nil, err
	}

	var courseIDs []string
	doc.Find("div.course div.course-id").Each(func(_ int, sel *goquery.Selection) {
		if id := cleanText(sel.Text()); id != "" {
			courseIDs = append(courseIDs, id)
		}
	})
	return courseIDs, nil
}

func (s *TestudoScraper) fetch(ctx context.Context, endpoint string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build testudo request: %w", err)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if s.observe != nil {
		s.observe("testudo", time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", endpoint, err)
	}
	return doc, nil
}

// parseMeetingRow extracts one meeting block. The day-time group reads like
// "MWF 10:00am - 10:50am"; rows without a time (online sections) are skipped.
func (s *TestudoScraper) parseMeetingRow(courseID string, row *goquery.Selection) (models.Meeting, bool) {
	dayTime := cleanText(row.Find("div.section-day-time-group").First().Text())
	if dayTime == "" {
		return models.Meeting{}, false
	}

	split := strings.SplitN(dayTime, " ", 2)
	if len(split) != 2 {
		return models.Meeting{}, false
	}
	days := models.ParseWeekdays(split[0])
	times := strings.SplitN(split[1], "-", 2)
	if len(days) == 0 || len(times) != 2 {
		return models.Meeting{}, false
	}

	start, err := parseClock(times[0])
	if err != nil {
		s.logger.Warn("unparseable meeting time", zap.String("course", courseID), zap.String("raw", dayTime), zap.Error(err))
		return models.Meeting{}, false
	}
	end, err := parseClock(times[1])
	if err != nil {
		s.logger.Warn("unparseable meeting time", zap.String("course", courseID), zap.String("raw", dayTime), zap.Error(err))
		return models.Meeting{}, false
	}

	return models.Meeting{
		Days:         days,
		StartMinutes: start,
		EndMinutes:   end,
		Location:     cleanText(row.Find("div.section-class-building-group").First().Text()),
		Kind:         cleanText(row.Find("span.class-type").First().Text()),
	}, true
}

// departmentOf returns the leading letters of a course code, e.g. CMSC for
// CMSC132.
func departmentOf(courseID string) string {
	for i, r := range courseID {
		if unicode.IsDigit(r) {
			return courseID[:i]
		}
	}
	return courseID
}

func cleanText(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
