package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/leesh5000/interview-guide/internal/model"
)

// DefaultSources seeds the registry on first use so collection works
// without a separate provisioning step.
var DefaultSources = []model.RssSource{
	{
		Key:       "GEEK_NEWS",
		Name:      "GeekNews",
		URL:       "https://news.hada.io/rss/news",
		SourceURL: "https://news.hada.io",
		IsEnabled: true,
	},
	{
		Key:       "HACKER_NEWS",
		Name:      "Hacker News",
		URL:       "https://news.ycombinator.com/rss",
		SourceURL: "https://news.ycombinator.com",
		IsEnabled: true,
	},
}

type SourceRepository struct {
	db *sql.DB
}

func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// ListAll returns every source, seeding the defaults first when the
// table is empty.
func (r *SourceRepository) ListAll() ([]model.RssSource, error) {
	if err := r.seedIfEmpty(); err != nil {
		return nil, err
	}
	return r.list(`
		SELECT id, key, name, url, source_url, is_enabled, created_at
		FROM rss_source
		ORDER BY created_at ASC
	`)
}

// ListEnabled returns the sources the collector should poll, seeding the
// defaults first when the table is empty.
func (r *SourceRepository) ListEnabled() ([]model.RssSource, error) {
	if err := r.seedIfEmpty(); err != nil {
		return nil, err
	}
	return r.list(`
		SELECT id, key, name, url, source_url, is_enabled, created_at
		FROM rss_source
		WHERE is_enabled = TRUE
		ORDER BY created_at ASC
	`)
}

func (r *SourceRepository) list(query string) ([]model.RssSource, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []model.RssSource
	for rows.Next() {
		var s model.RssSource
		err := rows.Scan(&s.ID, &s.Key, &s.Name, &s.URL, &s.SourceURL, &s.IsEnabled, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sources, nil
}

// seedIfEmpty inserts the default sources when none exist. The unique
// key constraint makes concurrent seeding first-writer-wins.
func (r *SourceRepository) seedIfEmpty() error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM rss_source`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, s := range DefaultSources {
		_, err := r.db.Exec(`
			INSERT INTO rss_source(id, key, name, url, source_url, is_enabled)
			VALUES($1, $2, $3, $4, $5, $6)
			ON CONFLICT (key) DO NOTHING
		`, uuid.NewString(), s.Key, s.Name, s.URL, s.SourceURL, s.IsEnabled)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SourceRepository) GetByKey(key string) (*model.RssSource, error) {
	var s model.RssSource
	err := r.db.QueryRow(`
		SELECT id, key, name, url, source_url, is_enabled, created_at
		FROM rss_source
		WHERE key = $1
	`, key).Scan(&s.ID, &s.Key, &s.Name, &s.URL, &s.SourceURL, &s.IsEnabled, &s.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *SourceRepository) Create(s *model.RssSource) error {
	s.ID = uuid.NewString()
	return r.db.QueryRow(`
		INSERT INTO rss_source(id, key, name, url, source_url, is_enabled)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, s.ID, s.Key, s.Name, s.URL, s.SourceURL, s.IsEnabled).Scan(&s.CreatedAt)
}

func (r *SourceRepository) SetEnabled(id string, enabled bool) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE rss_source SET is_enabled = $1 WHERE id = $2
	`, enabled, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *SourceRepository) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM rss_source WHERE id = $1
	`, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
