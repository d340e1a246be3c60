package repository

import (
	"database/sql"

	"github.com/leesh5000/interview-guide/internal/model"
)

// CourseRepository reads the course catalog. Courses are managed by the
// admin subsystem; the collector only needs a snapshot for matching.
type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) ListForMatching() ([]model.Course, error) {
	rows, err := r.db.Query(`
		SELECT id, title, affiliate_url, COALESCE(description, '')
		FROM course
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		err := rows.Scan(&c.ID, &c.Title, &c.AffiliateURL, &c.Description)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}
