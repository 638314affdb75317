package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-activities-api/internal/models"
)

const applicationColumns = `id, user_id, student_name, activity_type, activity_number, college, department, specialization, phone, details, status, submitted_at, updated_at`

// ApplicationRepository persists student applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts an application and fills its id.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	now := time.Now().UTC()
	app.SubmittedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}

	const query = `INSERT INTO applications (user_id, student_name, activity_type, activity_number, college, department, specialization, phone, details, status, submitted_at, updated_at)
VALUES (:user_id, :student_name, :activity_type, :activity_number, :college, :department, :specialization, :phone, :details, :status, :submitted_at, :updated_at) RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, app)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&app.ID); err != nil {
			return fmt.Errorf("scan application id: %w", err)
		}
	}
	return rows.Err()
}

// FindByID fetches an application.
func (r *ApplicationRepository) FindByID(ctx context.Context, id int64) (*models.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &app, nil
}

// ListByUser returns the user's applications, newest submission first.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1 ORDER BY submitted_at DESC, id DESC`
	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query, userID); err != nil {
		return nil, fmt.Errorf("list user applications: %w", err)
	}
	return apps, nil
}

// ListAll returns every application, newest first.
func (r *ApplicationRepository) ListAll(ctx context.Context) ([]models.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications ORDER BY submitted_at DESC, id DESC`
	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// UpdateStatus sets the status. It returns sql.ErrNoRows when id is unknown.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	const query = `UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1 RETURNING ` + applicationColumns
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id, status, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return &app, nil
}

// CountByStatus aggregates all applications by status.
func (r *ApplicationRepository) CountByStatus(ctx context.Context) (*models.StatusCounts, error) {
	const query = `SELECT COUNT(*) AS total,
COUNT(*) FILTER (WHERE status = 'pending') AS pending,
COUNT(*) FILTER (WHERE status = 'approved') AS approved,
COUNT(*) FILTER (WHERE status = 'rejected') AS rejected
FROM applications`
	var counts models.StatusCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	return &counts, nil
}
