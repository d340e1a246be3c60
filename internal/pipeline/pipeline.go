// Package pipeline orchestrates one daily-news collection run:
// fetch enabled feeds, parse, filter to fresh unseen items, summarize and
// match courses per item, persist, and write a single run log.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leesh5000/interview-guide/internal/dateutil"
	"github.com/leesh5000/interview-guide/internal/model"
	"github.com/leesh5000/interview-guide/pkg/feed"
	"github.com/leesh5000/interview-guide/pkg/llm"
)

const (
	// maxItemsPerSource caps how many fresh items one feed contributes
	// to a single run.
	maxItemsPerSource = 10

	// freshnessWindow drops items published more than a day before the
	// run started.
	freshnessWindow = 24 * time.Hour
)

type SourceStore interface {
	ListEnabled() ([]model.RssSource, error)
}

type NewsStore interface {
	ExistingURLs(displayDate time.Time) (map[string]bool, error)
	Save(n *model.DailyNews) error
}

type CourseStore interface {
	ListForMatching() ([]model.Course, error)
}

type RunLogStore interface {
	Save(entry *model.CronLog) error
}

type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (string, error)
}

// Deps wires the stores and clients into the pipeline. LLM may be nil
// when no API key is configured; items are then skipped, not persisted
// half-done.
type Deps struct {
	Sources SourceStore
	News    NewsStore
	Courses CourseStore
	Logs    RunLogStore
	Fetcher Fetcher
	LLM     llm.Client
	Now     func() time.Time
}

type Pipeline struct {
	sources SourceStore
	news    NewsStore
	courses CourseStore
	logs    RunLogStore
	fetcher Fetcher
	llm     llm.Client
	now     func() time.Time
}

func New(deps Deps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		sources: deps.Sources,
		news:    deps.News,
		courses: deps.Courses,
		logs:    deps.Logs,
		fetcher: deps.Fetcher,
		llm:     deps.LLM,
		now:     now,
	}
}

// ProcessedItem identifies one persisted news record.
type ProcessedItem struct {
	ID    string
	Title string
}

// Result summarizes a completed run.
type Result struct {
	Processed     []ProcessedItem
	ExistingCount int
	NoNewItems    bool
}

type sourceBatch struct {
	source model.RssSource
	items  []feed.Item
}

// Run executes one collection pass. A failing source or item is logged
// and skipped; only a failure before any source can be processed returns
// an error, and every invocation writes exactly one run log.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.now()
	today := dateutil.DisplayDate(start)
	windowStart := start.Add(-freshnessWindow)

	sources, err := p.sources.ListEnabled()
	if err != nil {
		// An unreachable registry means nothing to poll, not a failed run.
		slog.Error("source registry unavailable, treating as no sources", "error", err)
		sources = nil
	}

	existing, err := p.news.ExistingURLs(today)
	if err != nil {
		runErr := fmt.Errorf("load existing urls: %w", err)
		p.writeRunLog(start, model.StatusError, "뉴스 수집 실패", 0, runErr)
		return nil, runErr
	}

	var batches []sourceBatch
	for _, src := range sources {
		raw, err := p.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			slog.Error("feed fetch failed", "source", src.Name, "error", err)
			continue
		}

		items, err := feed.Parse(raw)
		if err != nil {
			slog.Error("feed parse failed", "source", src.Name, "error", err)
			continue
		}

		fresh := FilterNew(items, existing, windowStart, maxItemsPerSource)
		slog.Info("feed filtered", "source", src.Name, "fetched", len(items), "fresh", len(fresh))
		if len(fresh) == 0 {
			continue
		}

		batches = append(batches, sourceBatch{source: src, items: fresh})
	}

	result := &Result{ExistingCount: len(existing)}

	if len(batches) == 0 {
		result.NoNewItems = true
		p.writeRunLog(start, model.StatusSuccess, "새로운 뉴스 없음", 0, nil)
		return result, nil
	}

	catalog := p.loadCatalog()

	for _, batch := range batches {
		for _, item := range batch.items {
			// The same URL can appear in more than one feed within a run.
			if existing[item.Link] {
				continue
			}

			record, ok := p.processItem(ctx, batch.source, item, catalog, today, start)
			if !ok {
				continue
			}

			existing[item.Link] = true
			result.Processed = append(result.Processed, ProcessedItem{ID: record.ID, Title: record.Title})
		}
	}

	message := fmt.Sprintf("%d개 뉴스 수집 완료", len(result.Processed))
	p.writeRunLog(start, model.StatusSuccess, message, len(result.Processed), nil)
	return result, nil
}

// processItem summarizes, matches, and persists one feed item. A failed
// summary or persist skips the item so the next run can retry it; a
// failed match degrades to an unmatched record.
func (p *Pipeline) processItem(ctx context.Context, src model.RssSource, item feed.Item, catalog []llm.CourseOption, today, start time.Time) (*model.DailyNews, bool) {
	if p.llm == nil {
		slog.Error("summarization skipped, no LLM API key configured", "source", src.Name, "title", item.Title)
		return nil, false
	}

	summary, err := p.llm.SummarizeNews(ctx, item.Title, item.Description)
	if err != nil {
		slog.Error("summarize failed", "source", src.Name, "title", item.Title, "error", err)
		return nil, false
	}

	var related []model.MatchedCourse
	matches, err := p.llm.MatchCourses(ctx, item.Title, summary, catalog)
	if err != nil {
		slog.Error("course match failed, saving without matches", "source", src.Name, "title", item.Title, "error", err)
	} else {
		for _, m := range matches {
			related = append(related, model.MatchedCourse{
				CourseID:     m.CourseID,
				Title:        m.Title,
				AffiliateURL: m.AffiliateURL,
				MatchScore:   m.Score,
			})
		}
	}

	publishedAt := start
	if item.PublishedAt != nil {
		publishedAt = *item.PublishedAt
	}

	record := &model.DailyNews{
		Title:          item.Title,
		OriginalURL:    item.Link,
		SourceURL:      src.SourceURL,
		Description:    item.Description,
		AISummary:      summary,
		RelatedCourses: related,
		PublishedAt:    publishedAt,
		DisplayDate:    today,
	}

	if err := p.news.Save(record); err != nil {
		slog.Error("save news failed", "source", src.Name, "title", item.Title, "error", err)
		return nil, false
	}

	return record, true
}

func (p *Pipeline) loadCatalog() []llm.CourseOption {
	courses, err := p.courses.ListForMatching()
	if err != nil {
		slog.Error("course catalog unavailable, matching disabled for this run", "error", err)
		return nil
	}

	catalog := make([]llm.CourseOption, 0, len(courses))
	for _, c := range courses {
		catalog = append(catalog, llm.CourseOption{
			ID:           c.ID,
			Title:        c.Title,
			AffiliateURL: c.AffiliateURL,
			Description:  c.Description,
		})
	}
	return catalog
}

func (p *Pipeline) writeRunLog(start time.Time, status, message string, processed int, runErr error) {
	entry := &model.CronLog{
		JobName:        model.JobDailyNews,
		Status:         status,
		Message:        message,
		ProcessedCount: processed,
		DurationMs:     p.now().Sub(start).Milliseconds(),
	}
	if runErr != nil {
		entry.ErrorDetail = runErr.Error()
	}

	if err := p.logs.Save(entry); err != nil {
		slog.Error("failed to write run log", "error", err)
	}
}
