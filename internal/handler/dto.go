package handler

type LoginRequest struct {
	Password string `json:"password"`
}

type MatchedCourseResponse struct {
	CourseID     string  `json:"courseId"`
	Title        string  `json:"title"`
	AffiliateURL string  `json:"affiliateUrl"`
	MatchScore   float64 `json:"matchScore"`
}

type NewsResponse struct {
	ID             string                  `json:"id"`
	Title          string                  `json:"title"`
	OriginalURL    string                  `json:"originalUrl"`
	SourceURL      string                  `json:"sourceUrl"`
	Description    string                  `json:"description"`
	AISummary      string                  `json:"aiSummary"`
	RelatedCourses []MatchedCourseResponse `json:"relatedCourses"`
	PublishedAt    string                  `json:"publishedAt"`
	DisplayDate    string                  `json:"displayDate"`
}

type NewsListResponse struct {
	Date string         `json:"date"`
	News []NewsResponse `json:"news"`
}

type SourceResponse struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	SourceURL string `json:"sourceUrl"`
	IsEnabled bool   `json:"isEnabled"`
	CreatedAt string `json:"createdAt"`
}

type CreateSourceRequest struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	SourceURL string `json:"sourceUrl"`
}

type ToggleSourceRequest struct {
	IsEnabled *bool `json:"isEnabled"`
}

type CronLogResponse struct {
	ID             int64  `json:"id"`
	JobName        string `json:"jobName"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	ProcessedCount int    `json:"processedCount"`
	DurationMs     int64  `json:"duration"`
	ErrorDetail    string `json:"errorDetail,omitempty"`
	ExecutedAt     string `json:"executedAt"`
}

type ProcessedNewsResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type CollectResponse struct {
	Message   string                  `json:"message"`
	Processed int                     `json:"processed"`
	News      []ProcessedNewsResponse `json:"news"`
}

type CollectStatusResponse struct {
	Status         string `json:"status"`
	TodayNewsCount int    `json:"todayNewsCount"`
	LastCheck      string `json:"lastCheck"`
}
