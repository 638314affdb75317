package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-activities-api/internal/dto"
	"github.com/noah-isme/campus-activities-api/internal/models"
)

const requestColumns = `id, employee_id, student_id, request_type, title, description, activity_name, activity_code, deadline, status, response_message, created_at, updated_at, responded_at`

const requestRowSelect = `SELECT er.id, er.employee_id, er.student_id, er.request_type, er.title, er.description,
er.activity_name, er.activity_code, er.deadline, er.status, er.response_message, er.created_at, er.updated_at,
er.responded_at, e.full_name AS employee_name, s.full_name AS student_name
FROM employee_requests er
LEFT JOIN users e ON e.id = er.employee_id
LEFT JOIN users s ON s.id = er.student_id`

// EmployeeRequestRepository persists staff-authored requests.
type EmployeeRequestRepository struct {
	db *sqlx.DB
}

// NewEmployeeRequestRepository constructs the repository.
func NewEmployeeRequestRepository(db *sqlx.DB) *EmployeeRequestRepository {
	return &EmployeeRequestRepository{db: db}
}

// Create inserts a pending request.
func (r *EmployeeRequestRepository) Create(ctx context.Context, req *models.EmployeeRequest) error {
	now := time.Now().UTC()
	req.Status = models.RequestStatusPending
	req.CreatedAt = now
	req.UpdatedAt = now

	const query = `INSERT INTO employee_requests (employee_id, student_id, request_type, title, description, activity_name, activity_code, deadline, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err := r.db.GetContext(ctx, &req.ID, query,
		req.EmployeeID, req.StudentID, req.RequestType, req.Title, req.Description,
		req.ActivityName, req.ActivityCode, req.Deadline, req.Status, req.CreatedAt, req.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create employee request: %w", err)
	}
	return nil
}

// FindRowByID returns a request with author and student names.
func (r *EmployeeRequestRepository) FindRowByID(ctx context.Context, id int64) (*dto.RequestRow, error) {
	var row dto.RequestRow
	if err := r.db.GetContext(ctx, &row, requestRowSelect+` WHERE er.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find employee request: %w", err)
	}
	return &row, nil
}

// ListByEmployee returns requests authored by employeeID, newest first.
func (r *EmployeeRequestRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]dto.RequestRow, error) {
	var rows []dto.RequestRow
	query := requestRowSelect + ` WHERE er.employee_id = $1 ORDER BY er.created_at DESC, er.id DESC`
	if err := r.db.SelectContext(ctx, &rows, query, employeeID); err != nil {
		return nil, fmt.Errorf("list employee requests: %w", err)
	}
	return rows, nil
}

// ListForStudent returns requests bound to studentID plus unclaimed broadcasts.
func (r *EmployeeRequestRepository) ListForStudent(ctx context.Context, studentID int64) ([]dto.RequestRow, error) {
	var rows []dto.RequestRow
	query := requestRowSelect + ` WHERE er.student_id = $1 OR er.student_id IS NULL ORDER BY er.created_at DESC, er.id DESC`
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student requests: %w", err)
	}
	return rows, nil
}

// Respond records studentID's answer. The row is locked so two students
// answering the same broadcast cannot both claim it: the first binds
// student_id and the second sees ErrRequestNotAssigned. Answering twice yields
// ErrAlreadyResponded.
func (r *EmployeeRequestRepository) Respond(ctx context.Context, id, studentID int64, status models.RequestStatus, message *string) (updated *models.EmployeeRequest, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin respond transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current models.EmployeeRequest
	if err = tx.GetContext(ctx, &current, `SELECT `+requestColumns+` FROM employee_requests WHERE id = $1 FOR UPDATE`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock employee request: %w", err)
	}
	if !current.AddressedTo(studentID) {
		err = ErrRequestNotAssigned
		return nil, err
	}
	if current.RespondedAt != nil {
		err = ErrAlreadyResponded
		return nil, err
	}

	now := time.Now().UTC()
	const update = `UPDATE employee_requests
SET status = $2, response_message = $3, updated_at = $4, responded_at = $4, student_id = COALESCE(student_id, $5)
WHERE id = $1 RETURNING ` + requestColumns
	var result models.EmployeeRequest
	if err = tx.GetContext(ctx, &result, update, id, status, message, now, studentID); err != nil {
		return nil, fmt.Errorf("update employee request: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit respond: %w", err)
	}
	return &result, nil
}

// CountByStatusForEmployee aggregates requests authored by employeeID.
func (r *EmployeeRequestRepository) CountByStatusForEmployee(ctx context.Context, employeeID int64) (*models.StatusCounts, error) {
	const query = `SELECT COUNT(*) AS total,
COUNT(*) FILTER (WHERE status = 'pending') AS pending,
COUNT(*) FILTER (WHERE status = 'approved') AS approved,
COUNT(*) FILTER (WHERE status = 'rejected') AS rejected
FROM employee_requests WHERE employee_id = $1`
	var counts models.StatusCounts
	if err := r.db.GetContext(ctx, &counts, query, employeeID); err != nil {
		return nil, fmt.Errorf("count employee requests: %w", err)
	}
	return &counts, nil
}
