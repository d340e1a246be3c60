package llm

import "context"

// CourseOption is one catalog entry offered to the matcher.
type CourseOption struct {
	ID           string
	Title        string
	AffiliateURL string
	Description  string
}

// CourseMatch is a course the model judged relevant to a news item.
type CourseMatch struct {
	CourseID     string
	Title        string
	AffiliateURL string
	Score        float64
}

type Client interface {
	SummarizeNews(ctx context.Context, title, description string) (string, error)
	MatchCourses(ctx context.Context, title, summary string, catalog []CourseOption) ([]CourseMatch, error)
}
