package model

import "time"

const (
	JobDailyNews = "daily-news"

	StatusSuccess = "success"
	StatusError   = "error"
)

// RssSource is a configured feed endpoint the collector polls.
type RssSource struct {
	ID        string
	Key       string
	Name      string
	URL       string
	SourceURL string
	IsEnabled bool
	CreatedAt time.Time
}

// MatchedCourse links a news record to an affiliate course with the
// relevance score the model assigned.
type MatchedCourse struct {
	CourseID     string  `json:"courseId"`
	Title        string  `json:"title"`
	AffiliateURL string  `json:"affiliateUrl"`
	MatchScore   float64 `json:"matchScore"`
}

// DailyNews is one collected news record, bucketed by KST display date.
type DailyNews struct {
	ID             string
	Title          string
	OriginalURL    string
	SourceURL      string
	Description    string
	AISummary      string
	RelatedCourses []MatchedCourse
	PublishedAt    time.Time
	DisplayDate    time.Time
	CreatedAt      time.Time
}

// Course is the read-only catalog entry used for matching. The course
// catalog is managed elsewhere; the collector only reads it.
type Course struct {
	ID           string
	Title        string
	AffiliateURL string
	Description  string
}

// CronLog records one collector run, success or failure.
type CronLog struct {
	ID             int64
	JobName        string
	Status         string
	Message        string
	ProcessedCount int
	DurationMs     int64
	ErrorDetail    string
	ExecutedAt     time.Time
}
