package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/leesh5000/interview-guide/internal/dateutil"
	"github.com/leesh5000/interview-guide/internal/model"
	"github.com/leesh5000/interview-guide/pkg/llm"
)

var runStart = time.Date(2024, 6, 2, 9, 0, 0, 0, dateutil.KST)

type fakeSources struct {
	sources []model.RssSource
	err     error
}

func (f *fakeSources) ListEnabled() ([]model.RssSource, error) {
	return f.sources, f.err
}

type fakeNews struct {
	existing    map[string]bool
	existingErr error
	saveErr     error
	saved       []model.DailyNews
}

func (f *fakeNews) ExistingURLs(displayDate time.Time) (map[string]bool, error) {
	if f.existingErr != nil {
		return nil, f.existingErr
	}
	existing := make(map[string]bool, len(f.existing))
	for url := range f.existing {
		existing[url] = true
	}
	return existing, nil
}

func (f *fakeNews) Save(n *model.DailyNews) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	n.ID = fmt.Sprintf("news-%d", len(f.saved)+1)
	f.saved = append(f.saved, *n)
	return nil
}

type fakeCourses struct {
	courses []model.Course
	err     error
}

func (f *fakeCourses) ListForMatching() ([]model.Course, error) {
	return f.courses, f.err
}

type fakeLogs struct {
	entries []model.CronLog
	err     error
}

func (f *fakeLogs) Save(entry *model.CronLog) error {
	if f.err != nil {
		return f.err
	}
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

type fakeFetcher struct {
	payloads map[string]string
	errs     map[string]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	if err := f.errs[feedURL]; err != nil {
		return "", err
	}
	return f.payloads[feedURL], nil
}

type fakeLLM struct {
	summary        string
	failTitles     map[string]bool
	matches        []llm.CourseMatch
	matchErr       error
	summarizeCalls int
	matchCalls     int
	gotCatalogLen  int
}

func (f *fakeLLM) SummarizeNews(ctx context.Context, title, description string) (string, error) {
	f.summarizeCalls++
	if f.failTitles[title] {
		return "", errors.New("provider unavailable")
	}
	return f.summary, nil
}

func (f *fakeLLM) MatchCourses(ctx context.Context, title, summary string, catalog []llm.CourseOption) ([]llm.CourseMatch, error) {
	f.matchCalls++
	f.gotCatalogLen = len(catalog)
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return f.matches, nil
}

func rssFeed(items ...[2]string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Feed</title>`)
	for _, item := range items {
		sb.WriteString("<item>")
		sb.WriteString("<title>" + item[0] + "</title>")
		sb.WriteString("<link>" + item[0] + "</link>")
		sb.WriteString("<description>desc</description>")
		sb.WriteString("<pubDate>" + item[1] + "</pubDate>")
		sb.WriteString("</item>")
	}
	sb.WriteString("</channel></rss>")
	return sb.String()
}

func pubDate(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006 15:04:05 -0700")
}

func testSource(key, url string) model.RssSource {
	return model.RssSource{
		ID:        key,
		Key:       key,
		Name:      key,
		URL:       url,
		SourceURL: "https://" + key + ".example.com",
		IsEnabled: true,
	}
}

func newTestPipeline(sources *fakeSources, news *fakeNews, courses *fakeCourses, logs *fakeLogs, fetcher *fakeFetcher, client llm.Client) *Pipeline {
	return New(Deps{
		Sources: sources,
		News:    news,
		Courses: courses,
		Logs:    logs,
		Fetcher: fetcher,
		LLM:     client,
		Now:     func() time.Time { return runStart },
	})
}

func TestRunEndToEnd(t *testing.T) {
	stale := pubDate(runStart.Add(-48 * time.Hour))
	staleFeed := rssFeed(
		[2]string{"https://a.example.com/1", stale},
		[2]string{"https://a.example.com/2", stale},
	)
	freshFeed := rssFeed(
		[2]string{"https://b.example.com/1", pubDate(runStart.Add(-time.Hour))},
		[2]string{"https://b.example.com/2", pubDate(runStart.Add(-2 * time.Hour))},
		[2]string{"https://b.example.com/3", pubDate(runStart.Add(-3 * time.Hour))},
	)

	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
		testSource("b", "https://b.example.com/rss"),
	}}
	news := &fakeNews{existing: map[string]bool{}}
	logs := &fakeLogs{}
	client := &fakeLLM{summary: "개발자에게 중요한 소식입니다."}
	fetcher := &fakeFetcher{payloads: map[string]string{
		"https://a.example.com/rss": staleFeed,
		"https://b.example.com/rss": freshFeed,
	}}

	p := newTestPipeline(sources, news, &fakeCourses{}, logs, fetcher, client)
	result, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, false, result.NoNewItems)
	assert.Equal(t, 3, len(result.Processed))
	assert.Equal(t, 3, len(news.saved))

	for _, n := range news.saved {
		assert.Equal(t, "개발자에게 중요한 소식입니다.", n.AISummary)
		assert.Equal(t, "https://b.example.com", n.SourceURL)
		assert.Equal(t, dateutil.DisplayDate(runStart), n.DisplayDate)
	}

	assert.Equal(t, 1, len(logs.entries))
	entry := logs.entries[0]
	assert.Equal(t, model.JobDailyNews, entry.JobName)
	assert.Equal(t, model.StatusSuccess, entry.Status)
	assert.Equal(t, 3, entry.ProcessedCount)
	assert.Equal(t, "3개 뉴스 수집 완료", entry.Message)
}

func TestRunFetchFailureIsolation(t *testing.T) {
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
		testSource("b", "https://b.example.com/rss"),
	}}
	news := &fakeNews{existing: map[string]bool{}}
	logs := &fakeLogs{}
	fetcher := &fakeFetcher{
		payloads: map[string]string{
			"https://b.example.com/rss": rssFeed([2]string{"https://b.example.com/1", pubDate(runStart.Add(-time.Hour))}),
		},
		errs: map[string]error{
			"https://a.example.com/rss": errors.New("connection refused"),
		},
	}

	p := newTestPipeline(sources, news, &fakeCourses{}, logs, fetcher, &fakeLLM{summary: "요약"})
	result, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(result.Processed))
	assert.Equal(t, 1, len(news.saved))
	assert.Equal(t, model.StatusSuccess, logs.entries[0].Status)
}

func TestRunParseFailureIsolation(t *testing.T) {
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
		testSource("b", "https://b.example.com/rss"),
	}}
	news := &fakeNews{existing: map[string]bool{}}
	logs := &fakeLogs{}
	fetcher := &fakeFetcher{payloads: map[string]string{
		"https://a.example.com/rss": "garbage, not xml",
		"https://b.example.com/rss": rssFeed([2]string{"https://b.example.com/1", pubDate(runStart.Add(-time.Hour))}),
	}}

	p := newTestPipeline(sources, news, &fakeCourses{}, logs, fetcher, &fakeLLM{summary: "요약"})
	result, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(result.Processed))
	assert.Equal(t, model.StatusSuccess, logs.entries[0].Status)
}

func TestRunNoNewItems(t *testing.T) {
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
	}}
	news := &fakeNews{existing: map[string]bool{"https://a.example.com/1": true}}
	logs := &fakeLogs{}
	client := &fakeLLM{summary: "요약"}
	fetcher := &fakeFetcher{payloads: map[string]string{
		"https://a.example.com/rss": rssFeed([2]string{"https://a.example.com/1", pubDate(runStart.Add(-time.Hour))}),
	}}

	p := newTestPipeline(sources, news, &fakeCourses{}, logs, fetcher, client)
	result, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, true, result.NoNewItems)
	assert.Equal(t, 1, result.ExistingCount)
	assert.Equal(t, 0, client.summarizeCalls)
	assert.Equal(t, 0, client.matchCalls)
	assert.Equal(t, 0, len(news.saved))

	entry := logs.entries[0]
	assert.Equal(t, model.StatusSuccess, entry.Status)
	assert.Equal(t, 0, entry.ProcessedCount)
	assert.Equal(t, "새로운 뉴스 없음", entry.Message)
}

func TestRunSecondPassIsIdempotent(t *testing.T) {
	feedPayload := rssFeed(
		[2]string{"https://a.example.com/1", pubDate(runStart.Add(-time.Hour))},
		[2]string{"https://a.example.com/2", pubDate(runStart.Add(-2 * time.Hour))},
	)
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
	}}
	fetcher := &fakeFetcher{payloads: map[string]string{"https://a.example.com/rss": feedPayload}}

	news := &fakeNews{existing: map[string]bool{}}
	p := newTestPipeline(sources, news, &fakeCourses{}, &fakeLogs{}, fetcher, &fakeLLM{summary: "요약"})
	first, err := p.Run(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(first.Processed))

	for _, n := range news.saved {
		news.existing[n.OriginalURL] = true
	}

	second, err := p.Run(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, true, second.NoNewItems)
	assert.Equal(t, 2, len(news.saved))
}

func TestRunMatchFailureStillPersists(t *testing.T) {
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
	}}
	news := &fakeNews{existing: map[string]bool{}}
	logs := &fakeLogs{}
	client := &fakeLLM{summary: "요약", matchErr: errors.New("invalid json from model")}
	fetcher := &fakeFetcher{payloads: map[string]string{
		"https://a.example.com/rss": rssFeed([2]string{"https://a.example.com/1", pubDate(runStart.Add(-time.Hour))}),
	}}

	p := newTestPipeline(sources, news, &fakeCourses{courses: []model.Course{{ID: "c1", Title: "Go"}}}, logs, fetcher, client)
	result, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(result.Processed))
	assert.Equal(t, 1, len(news.saved))
	assert.Equal(t, 0, len(news.saved[0].RelatedCourses))
	assert.Equal(t, model.StatusSuccess, logs.entries[0].Status)
}

func TestRunSummarizeFailureSkipsItem(t *testing.T) {
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
	}}
	news := &fakeNews{existing: map[string]bool{}}
	logs := &fakeLogs{}
	client := &fakeLLM{
		summary:    "요약",
		failTitles: map[string]bool{"https://a.example.com/1": true},
	}
	fetcher := &fakeFetcher{payloads: map[string]string{
		"https://a.example.com/rss": rssFeed(
			[2]string{"https://a.example.com/1", pubDate(runStart.Add(-time.Hour))},
			[2]string{"https://a.example.com/2", pubDate(runStart.Add(-2 * time.Hour))},
		),
	}}

	p := newTestPipeline(sources, news, &fakeCourses{}, logs, fetcher, client)
	result, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(result.Processed))
	assert.Equal(t, 1, len(news.saved))
	assert.Equal(t, "https://a.example.com/2", news.saved[0].OriginalURL)

	entry := logs.entries[0]
	assert.Equal(t, model.StatusSuccess, entry.Status)
	assert.Equal(t, 1, entry.ProcessedCount)
}

func TestRunMatchedCoursesPersisted(t *testing.T) {
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
	}}
	news := &fakeNews{existing: map[string]bool{}}
	client := &fakeLLM{
		summary: "요약",
		matches: []llm.CourseMatch{
			{CourseID: "c1", Title: "Go 백엔드 입문", AffiliateURL: "https://courses.example.com/c1", Score: 0.8},
		},
	}
	fetcher := &fakeFetcher{payloads: map[string]string{
		"https://a.example.com/rss": rssFeed([2]string{"https://a.example.com/1", pubDate(runStart.Add(-time.Hour))}),
	}}
	courses := &fakeCourses{courses: []model.Course{
		{ID: "c1", Title: "Go 백엔드 입문", AffiliateURL: "https://courses.example.com/c1"},
		{ID: "c2", Title: "Kubernetes 실전", AffiliateURL: "https://courses.example.com/c2"},
	}}

	p := newTestPipeline(sources, news, courses, &fakeLogs{}, fetcher, client)
	_, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, client.gotCatalogLen)
	assert.Equal(t, 1, len(news.saved))

	related := news.saved[0].RelatedCourses
	assert.Equal(t, 1, len(related))
	assert.Equal(t, "c1", related[0].CourseID)
	assert.Equal(t, 0.8, related[0].MatchScore)
}

func TestRunDuplicateURLAcrossSources(t *testing.T) {
	shared := [2]string{"https://shared.example.com/1", pubDate(runStart.Add(-time.Hour))}
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
		testSource("b", "https://b.example.com/rss"),
	}}
	news := &fakeNews{existing: map[string]bool{}}
	fetcher := &fakeFetcher{payloads: map[string]string{
		"https://a.example.com/rss": rssFeed(shared),
		"https://b.example.com/rss": rssFeed(shared),
	}}

	p := newTestPipeline(sources, news, &fakeCourses{}, &fakeLogs{}, fetcher, &fakeLLM{summary: "요약"})
	result, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(result.Processed))
	assert.Equal(t, 1, len(news.saved))
}

func TestRunExistingURLsError(t *testing.T) {
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
	}}
	news := &fakeNews{existingErr: errors.New("db down")}
	logs := &fakeLogs{}

	p := newTestPipeline(sources, news, &fakeCourses{}, logs, &fakeFetcher{}, &fakeLLM{summary: "요약"})
	result, err := p.Run(context.Background())

	assert.NotEqual(t, nil, err)
	assert.Equal(t, (*Result)(nil), result)

	assert.Equal(t, 1, len(logs.entries))
	entry := logs.entries[0]
	assert.Equal(t, model.StatusError, entry.Status)
	assert.Equal(t, 0, entry.ProcessedCount)
	assert.NotEqual(t, "", entry.ErrorDetail)
}

func TestRunSourceRegistryUnavailable(t *testing.T) {
	sources := &fakeSources{err: errors.New("db down")}
	news := &fakeNews{existing: map[string]bool{}}
	logs := &fakeLogs{}

	p := newTestPipeline(sources, news, &fakeCourses{}, logs, &fakeFetcher{}, &fakeLLM{summary: "요약"})
	result, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, true, result.NoNewItems)
	assert.Equal(t, model.StatusSuccess, logs.entries[0].Status)
}

func TestRunWithoutLLMClient(t *testing.T) {
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
	}}
	news := &fakeNews{existing: map[string]bool{}}
	logs := &fakeLogs{}
	fetcher := &fakeFetcher{payloads: map[string]string{
		"https://a.example.com/rss": rssFeed([2]string{"https://a.example.com/1", pubDate(runStart.Add(-time.Hour))}),
	}}

	p := newTestPipeline(sources, news, &fakeCourses{}, logs, fetcher, nil)
	result, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(result.Processed))
	assert.Equal(t, 0, len(news.saved))
	assert.Equal(t, model.StatusSuccess, logs.entries[0].Status)
}

func TestRunPersistFailureContinues(t *testing.T) {
	sources := &fakeSources{sources: []model.RssSource{
		testSource("a", "https://a.example.com/rss"),
	}}
	news := &fakeNews{existing: map[string]bool{}, saveErr: errors.New("constraint violation")}
	logs := &fakeLogs{}
	fetcher := &fakeFetcher{payloads: map[string]string{
		"https://a.example.com/rss": rssFeed([2]string{"https://a.example.com/1", pubDate(runStart.Add(-time.Hour))}),
	}}

	p := newTestPipeline(sources, news, &fakeCourses{}, logs, fetcher, &fakeLLM{summary: "요약"})
	result, err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(result.Processed))

	entry := logs.entries[0]
	assert.Equal(t, model.StatusSuccess, entry.Status)
	assert.Equal(t, 0, entry.ProcessedCount)
}
