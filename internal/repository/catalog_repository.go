package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/terpsched/schedule-api/internal/models"
)

// CatalogRepository persists scraped course sections in Postgres and serves
// them back as a course data provider.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type catalogRow struct {
	Term          string         `db:"term"`
	CourseID      string         `db:"course_id"`
	SectionID     string         `db:"section_id"`
	Instructors   types.JSONText `db:"instructors"`
	Meetings      types.JSONText `db:"meetings"`
	TotalSeats    int            `db:"total_seats"`
	OpenSeats     int            `db:"open_seats"`
	WaitlistCount int            `db:"waitlist_count"`
}

// GetSections returns the stored sections for one course in one term. An
// empty result is a valid answer, not an error.
func (r *CatalogRepository) GetSections(ctx context.Context, courseID, term string) ([]models.Section, error) {
	const query = `
		SELECT term, course_id, section_id, instructors, meetings, total_seats, open_seats, waitlist_count
		FROM catalog_sections
		WHERE course_id = $1 AND term = $2
		ORDER BY section_id`

	var rows []catalogRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID, term); err != nil {
		return nil, fmt.Errorf("select sections for %s: %w", courseID, err)
	}

	sections := make([]models.Section, 0, len(rows))
	for _, row := range rows {
		section := models.Section{
			CourseID:      row.CourseID,
			SectionID:     row.SectionID,
			TotalSeats:    row.TotalSeats,
			OpenSeats:     row.OpenSeats,
			WaitlistCount: row.WaitlistCount,
		}
		if len(row.Instructors) > 0 {
			if err := json.Unmarshal(row.Instructors, &section.Instructors); err != nil {
				return nil, fmt.Errorf("decode instructors for %s-%s: %w", row.CourseID, row.SectionID, err)
			}
		}
		if len(row.Meetings) > 0 {
			if err := json.Unmarshal(row.Meetings, &section.Meetings); err != nil {
				return nil, fmt.Errorf("decode meetings for %s-%s: %w", row.CourseID, row.SectionID, err)
			}
		}
		sections = append(sections, section)
	}
	return sections, nil
}

// UpsertSections writes a batch of scraped sections for one term.
func (r *CatalogRepository) UpsertSections(ctx context.Context, term string, sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}

	const query = `
		INSERT INTO catalog_sections (term, course_id, section_id, instructors, meetings, total_seats, open_seats, waitlist_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (term, course_id, section_id) DO UPDATE SET
			instructors = EXCLUDED.instructors,
			meetings = EXCLUDED.meetings,
			total_seats = EXCLUDED.total_seats,
			open_seats = EXCLUDED.open_seats,
			waitlist_count = EXCLUDED.waitlist_count,
			updated_at = NOW()`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, section := range sections {
		instructors, err := json.Marshal(section.Instructors)
		if err != nil {
			return fmt.Errorf("encode instructors for %s: %w", section.Key(), err)
		}
		meetings, err := json.Marshal(section.Meetings)
		if err != nil {
			return fmt.Errorf("encode meetings for %s: %w", section.Key(), err)
		}
		if _, err := tx.ExecContext(ctx, query,
			term,
			section.CourseID,
			section.SectionID,
			types.JSONText(instructors),
			types.JSONText(meetings),
			section.TotalSeats,
			section.OpenSeats,
			section.WaitlistCount,
		); err != nil {
			return fmt.Errorf("upsert section %s: %w", section.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog upsert: %w", err)
	}
	return nil
}
