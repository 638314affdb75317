package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-activities-api/internal/models"
)

const userColumns = `id, full_name, username, email, password_hash, role, created_at, updated_at`

// UserRepository provides database access for accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByUsernameAndRole returns the account matching both username and role.
func (r *UserRepository) FindByUsernameAndRole(ctx context.Context, username string, role models.UserRole) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND role = $2 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username, role); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// ExistsByUsername reports whether the username is taken.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE username = $1 LIMIT 1`, username)
}

// ExistsByEmail reports whether the email is taken.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE email = $1 LIMIT 1`, email)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var found int
	if err := r.db.GetContext(ctx, &found, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return true, nil
}

// Create inserts a new user and fills the generated id and timestamps. The
// unique constraints are the source of truth; a violation is reported as
// ErrDuplicateUsername or ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (full_name, username, email, password_hash, role, created_at, updated_at)
VALUES (:full_name, :username, :email, :password_hash, :role, :created_at, :updated_at) RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, user)
	if err != nil {
		switch constraint, ok := uniqueConstraint(err); {
		case ok && constraint == "users_email_key":
			return ErrDuplicateEmail
		case ok:
			return ErrDuplicateUsername
		}
		return fmt.Errorf("create user: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&user.ID); err != nil {
			return fmt.Errorf("scan user id: %w", err)
		}
	}
	return rows.Err()
}

// Delete removes a user together with the rows it owns: applications and
// activity registrations. Activities losing a registration have their
// registered_count decremented in the same transaction. Employee requests and
// notifications only back-reference the user and are kept.
func (r *UserRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const releaseSlots = `UPDATE activities a SET registered_count = a.registered_count - 1, updated_at = $2
FROM activity_registrations ar WHERE ar.activity_id = a.id AND ar.user_id = $1 AND a.registered_count > 0`
	if _, err = tx.ExecContext(ctx, releaseSlots, id, now); err != nil {
		return fmt.Errorf("release user registrations: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM activity_registrations WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete user registrations: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM applications WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete user applications: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete user: %w", err)
	}
	return nil
}
