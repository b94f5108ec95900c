package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int64  `json:"count" db:"count"`
}

type DepartmentCount struct {
	Department string `json:"department" db:"department"`
	Count      int64  `json:"count" db:"count"`
}

type StatsRepository interface {
	CountPostsByStatus(ctx context.Context) ([]StatusCount, error)
	CountPostsByDepartment(ctx context.Context) ([]DepartmentCount, error)
	CountPosts(ctx context.Context) (int64, error)
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Posts without a status row count as Pending, same default the status
// engine reports.
func (r *statsRepository) CountPostsByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	query := `
		SELECT COALESCE(cs.status, 'Pending') AS status, COUNT(*) AS count
		FROM posts p
		LEFT JOIN complaint_status cs ON cs.post_id = p.post_id
		GROUP BY COALESCE(cs.status, 'Pending')
		ORDER BY count DESC`
	err := r.db.SelectContext(ctx, &counts, query)
	return counts, err
}

func (r *statsRepository) CountPostsByDepartment(ctx context.Context) ([]DepartmentCount, error) {
	var counts []DepartmentCount
	query := `
		SELECT COALESCE(d.name, 'Unassigned') AS department, COUNT(*) AS count
		FROM posts p
		LEFT JOIN departments d ON d.department_id = p.department_id
		GROUP BY COALESCE(d.name, 'Unassigned')
		ORDER BY count DESC`
	err := r.db.SelectContext(ctx, &counts, query)
	return counts, err
}

func (r *statsRepository) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`)
	return count, err
}
