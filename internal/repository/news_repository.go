package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/leesh5000/interview-guide/internal/dateutil"
	"github.com/leesh5000/interview-guide/internal/model"
)

type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// ExistingURLs returns the original URLs already collected for the given
// display date, for dedup before a run.
func (r *NewsRepository) ExistingURLs(displayDate time.Time) (map[string]bool, error) {
	rows, err := r.db.Query(`
		SELECT original_url FROM daily_news
		WHERE display_date = $1
	`, dateutil.DayString(displayDate))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls[u] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return urls, nil
}

func (r *NewsRepository) CountByDate(displayDate time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM daily_news
		WHERE display_date = $1
	`, dateutil.DayString(displayDate)).Scan(&count)
	return count, err
}

func (r *NewsRepository) Save(n *model.DailyNews) error {
	related, err := json.Marshal(n.RelatedCourses)
	if err != nil {
		return err
	}
	if n.RelatedCourses == nil {
		related = []byte("[]")
	}

	n.ID = uuid.NewString()
	return r.db.QueryRow(`
		INSERT INTO daily_news(id, title, original_url, source_url, description, ai_summary, related_courses, published_at, display_date)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, n.ID, n.Title, n.OriginalURL, n.SourceURL, n.Description, n.AISummary, related,
		n.PublishedAt, dateutil.DayString(n.DisplayDate)).Scan(&n.CreatedAt)
}

func (r *NewsRepository) ListByDate(displayDate time.Time) ([]model.DailyNews, error) {
	rows, err := r.db.Query(`
		SELECT id, title, original_url, source_url, description, ai_summary, related_courses, published_at, display_date, created_at
		FROM daily_news
		WHERE display_date = $1
		ORDER BY published_at DESC
	`, dateutil.DayString(displayDate))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var news []model.DailyNews
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		news = append(news, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return news, nil
}

func (r *NewsRepository) GetByID(id string) (*model.DailyNews, error) {
	row := r.db.QueryRow(`
		SELECT id, title, original_url, source_url, description, ai_summary, related_courses, published_at, display_date, created_at
		FROM daily_news
		WHERE id = $1
	`, id)

	n, err := scanNews(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNews(row rowScanner) (*model.DailyNews, error) {
	var n model.DailyNews
	var related []byte
	err := row.Scan(&n.ID, &n.Title, &n.OriginalURL, &n.SourceURL, &n.Description,
		&n.AISummary, &related, &n.PublishedAt, &n.DisplayDate, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(related) > 0 {
		if err := json.Unmarshal(related, &n.RelatedCourses); err != nil {
			return nil, err
		}
	}
	return &n, nil
}
