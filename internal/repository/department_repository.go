package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"civicwatch/internal/domain"
)

type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error)
	GetByName(ctx context.Context, name string) (*domain.Department, error)
	FindOrCreateByName(ctx context.Context, name string) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	Update(ctx context.Context, dept *domain.Department) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type departmentRepository struct {
	db *sqlx.DB
}

func NewDepartmentRepository(db *sqlx.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	query := `
		INSERT INTO departments (department_id, name, description, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		dept.ID, dept.Name, dept.Description, dept.Latitude, dept.Longitude,
	).Scan(&dept.CreatedAt)
}

func (r *departmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	var dept domain.Department
	query := `SELECT * FROM departments WHERE department_id = $1`
	err := r.db.GetContext(ctx, &dept, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	var dept domain.Department
	query := `SELECT * FROM departments WHERE name = $1`
	err := r.db.GetContext(ctx, &dept, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// FindOrCreateByName is a single atomic statement so two classifier calls
// racing on the same missing department both land on one row.
func (r *departmentRepository) FindOrCreateByName(ctx context.Context, name string) (*domain.Department, error) {
	var dept domain.Department
	query := `
		INSERT INTO departments (department_id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING department_id, name, description, latitude, longitude, created_at`

	err := r.db.GetContext(ctx, &dept, query, uuid.New(), name)
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	var depts []domain.Department
	query := `SELECT * FROM departments ORDER BY name`
	err := r.db.SelectContext(ctx, &depts, query)
	return depts, err
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	query := `
		UPDATE departments
		SET name = $2, description = $3, latitude = $4, longitude = $5
		WHERE department_id = $1`
	result, err := r.db.ExecContext(ctx, query,
		dept.ID, dept.Name, dept.Description, dept.Latitude, dept.Longitude)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE department_id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
