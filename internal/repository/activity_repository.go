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

const activityColumns = `id, name, description, category, available_slots, registered_count, location, start_date, end_date, is_active, created_at, updated_at`

// ActivityRepository handles persistence for activities and registrations.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Count returns the number of stored activities.
func (r *ActivityRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM activities`); err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return total, nil
}

// Create inserts an activity with a zero registered count.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.create(ctx, r.db, activity)
}

// CreateBatch inserts activities in a single transaction.
func (r *ActivityRepository) CreateBatch(ctx context.Context, activities []models.Activity) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create activities transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i := range activities {
		if err = r.create(ctx, tx, &activities[i]); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create activities: %w", err)
	}
	return nil
}

func (r *ActivityRepository) create(ctx context.Context, q sqlx.QueryerContext, activity *models.Activity) error {
	now := time.Now().UTC()
	activity.RegisteredCount = 0
	activity.CreatedAt = now
	activity.UpdatedAt = now

	const query = `INSERT INTO activities (name, description, category, available_slots, registered_count, location, start_date, end_date, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := sqlx.GetContext(ctx, q, &activity.ID, query,
		activity.Name, activity.Description, activity.Category, activity.AvailableSlots,
		activity.Location, activity.StartDate, activity.EndDate, activity.IsActive,
		activity.CreatedAt, activity.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// ListActiveWithStatus returns active activities annotated with userID's
// registration status, if any.
func (r *ActivityRepository) ListActiveWithStatus(ctx context.Context, userID int64) ([]dto.ActivityWithStatus, error) {
	const query = `SELECT a.id, a.name, a.description, a.category, a.available_slots, a.registered_count, a.location,
a.start_date, a.end_date, a.is_active, a.created_at, a.updated_at, ar.status AS registration_status
FROM activities a
LEFT JOIN activity_registrations ar ON ar.activity_id = a.id AND ar.user_id = $1
WHERE a.is_active = TRUE
ORDER BY a.start_date ASC NULLS LAST, a.id ASC`
	var items []dto.ActivityWithStatus
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return items, nil
}

// ListAll returns every activity regardless of is_active.
func (r *ActivityRepository) ListAll(ctx context.Context) ([]models.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities ORDER BY created_at DESC, id DESC`
	var items []models.Activity
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list all activities: %w", err)
	}
	return items, nil
}

// ListRoster returns every registration joined with its user, grouped by
// activity in registration order.
func (r *ActivityRepository) ListRoster(ctx context.Context) ([]dto.RosterEntry, error) {
	const query = `SELECT ar.activity_id, u.id AS user_id, u.full_name, u.email, ar.registered_at, ar.status
FROM activity_registrations ar
JOIN users u ON u.id = ar.user_id
ORDER BY ar.activity_id, ar.registered_at ASC`
	var entries []dto.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return entries, nil
}

// ListRegistrationsByUser returns the user's registrations with activity
// details, newest first.
func (r *ActivityRepository) ListRegistrationsByUser(ctx context.Context, userID int64) ([]dto.RegistrationRow, error) {
	const query = `SELECT ar.id, ar.status, ar.registered_at, a.id AS activity_id, a.name AS activity_name,
a.description AS activity_description, a.category AS activity_category, a.location AS activity_location
FROM activity_registrations ar
JOIN activities a ON a.id = ar.activity_id
WHERE ar.user_id = $1
ORDER BY ar.registered_at DESC`
	var rows []dto.RegistrationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return rows, nil
}

// Register creates the registration and increments registered_count in one
// transaction. The activity row is locked first so concurrent callers racing
// for the last slot are serialised. It returns sql.ErrNoRows, ErrActivityFull
// or ErrAlreadyRegistered, in that order of precedence.
func (r *ActivityRepository) Register(ctx context.Context, activityID, userID int64) (reg *models.ActivityRegistration, activity *models.Activity, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin register transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked models.Activity
	if err = tx.GetContext(ctx, &locked, `SELECT `+activityColumns+` FROM activities WHERE id = $1 FOR UPDATE`, activityID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("lock activity: %w", err)
	}
	if locked.IsFull() {
		err = ErrActivityFull
		return nil, nil, err
	}

	var existing int
	err = tx.GetContext(ctx, &existing, `SELECT 1 FROM activity_registrations WHERE activity_id = $1 AND user_id = $2 LIMIT 1`, activityID, userID)
	switch {
	case err == nil:
		err = ErrAlreadyRegistered
		return nil, nil, err
	case err != sql.ErrNoRows:
		return nil, nil, fmt.Errorf("check registration: %w", err)
	}

	now := time.Now().UTC()
	reg = &models.ActivityRegistration{
		ActivityID:   activityID,
		UserID:       userID,
		Status:       models.RegistrationStatusRegistered,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	const insert = `INSERT INTO activity_registrations (activity_id, user_id, status, registered_at, updated_at)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err = tx.GetContext(ctx, &reg.ID, insert, reg.ActivityID, reg.UserID, reg.Status, reg.RegisteredAt, reg.UpdatedAt); err != nil {
		if _, ok := uniqueConstraint(err); ok {
			err = ErrAlreadyRegistered
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("insert registration: %w", err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE activities SET registered_count = registered_count + 1, updated_at = $2
WHERE id = $1 AND registered_count < available_slots`, activityID, now)
	if err != nil {
		return nil, nil, fmt.Errorf("increment registered count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrActivityFull
		return nil, nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit registration: %w", err)
	}

	locked.RegisteredCount++
	locked.UpdatedAt = now
	return reg, &locked, nil
}

// Delete removes an activity and its registrations.
func (r *ActivityRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete activity transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM activity_registrations WHERE activity_id = $1`, id); err != nil {
		return fmt.Errorf("delete activity registrations: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete activity: %w", err)
	}
	return nil
}
