package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/terpsched/schedule-api/internal/models"
	"github.com/terpsched/schedule-api/internal/provider"
	"github.com/terpsched/schedule-api/internal/repository"
	"github.com/terpsched/schedule-api/pkg/config"
	"github.com/terpsched/schedule-api/pkg/database"
	"github.com/terpsched/schedule-api/pkg/logger"
)

// catalog-sync scrapes the schedule of classes for the given departments
// and upserts every section into the local catalog table, so the API can
// serve section lookups without hitting the upstream on each request.
func main() {
	var (
		depts   = flag.String("depts", "", "comma-separated department prefixes to sync, e.g. CMSC,MATH")
		term    = flag.String("term", "", "term identifier, defaults to SCHEDULER_DEFAULT_TERM")
		workers = flag.Int("workers", 4, "concurrent course fetches")
		timeout = flag.Duration("timeout", 30*time.Minute, "overall sync deadline")
	)
	flag.Parse()

	if *depts == "" {
		log.Fatal("at least one department is required, e.g. -depts CMSC,MATH")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	syncTerm := *term
	if syncTerm == "" {
		syncTerm = cfg.Scheduler.DefaultTerm
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("postgres connection failed", "error", err)
	}
	defer db.Close()

	scraper := provider.NewTestudo(cfg.Providers.TestudoBaseURL, cfg.Providers.Timeout, logr, nil)
	catalog := repository.NewCatalogRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	total := 0
	for _, dept := range strings.Split(*depts, ",") {
		dept = strings.ToUpper(strings.TrimSpace(dept))
		if dept == "" {
			continue
		}
		n, err := syncDepartment(ctx, logr, scraper, catalog, dept, syncTerm, *workers)
		if err != nil {
			logr.Sugar().Fatalw("department sync failed", "dept", dept, "error", err)
		}
		total += n
	}

	logr.Sugar().Infow("catalog sync complete",
		"term", syncTerm,
		"sections", total,
		"elapsed", time.Since(start),
	)
}

func syncDepartment(
	ctx context.Context,
	logr *zap.Logger,
	scraper *provider.TestudoScraper,
	catalog *repository.CatalogRepository,
	dept, term string,
	workers int,
) (int, error) {
	courseIDs, err := scraper.ListCourseIDs(ctx, dept, term)
	if err != nil {
		return 0, err
	}
	logr.Sugar().Infow("syncing department", "dept", dept, "courses", len(courseIDs))

	if workers < 1 {
		workers = 1
	}

	var (
		mu       sync.Mutex
		sections []models.Section
		wg       sync.WaitGroup
	)
	jobs := make(chan string)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for courseID := range jobs {
				fetched, err := scraper.GetSections(ctx, courseID, term)
				if err != nil {
					logr.Sugar().Warnw("course fetch failed, skipping", "course", courseID, "error", err)
					continue
				}
				mu.Lock()
				sections = append(sections, fetched...)
				mu.Unlock()
			}
		}()
	}

	for _, courseID := range courseIDs {
		select {
		case jobs <- courseID:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return 0, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if err := catalog.UpsertSections(ctx, term, sections); err != nil {
		return 0, err
	}
	return len(sections), nil
}
