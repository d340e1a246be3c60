package repository

import (
	"database/sql"

	"github.com/leesh5000/interview-guide/internal/model"
)

type CronLogRepository struct {
	db *sql.DB
}

func NewCronLogRepository(db *sql.DB) *CronLogRepository {
	return &CronLogRepository{db: db}
}

func (r *CronLogRepository) Save(entry *model.CronLog) error {
	var errorDetail sql.NullString
	if entry.ErrorDetail != "" {
		errorDetail = sql.NullString{String: entry.ErrorDetail, Valid: true}
	}

	return r.db.QueryRow(`
		INSERT INTO cron_log(job_name, status, message, processed_count, duration_ms, error_detail)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id, executed_at
	`, entry.JobName, entry.Status, entry.Message, entry.ProcessedCount, entry.DurationMs,
		errorDetail).Scan(&entry.ID, &entry.ExecutedAt)
}

func (r *CronLogRepository) ListRecent(limit int) ([]model.CronLog, error) {
	rows, err := r.db.Query(`
		SELECT id, job_name, status, message, processed_count, duration_ms, COALESCE(error_detail, ''), executed_at
		FROM cron_log
		ORDER BY executed_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.CronLog
	for rows.Next() {
		var l model.CronLog
		err := rows.Scan(&l.ID, &l.JobName, &l.Status, &l.Message, &l.ProcessedCount, &l.DurationMs, &l.ErrorDetail, &l.ExecutedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
