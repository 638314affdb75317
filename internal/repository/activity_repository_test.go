package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-activities-api/internal/models"
)

var activityMockColumns = []string{"id", "name", "description", "category", "available_slots", "registered_count", "location", "start_date", "end_date", "is_active", "created_at", "updated_at"}

func activityRow(id int64, slots, count int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(activityMockColumns).
		AddRow(id, "Football", "League", "sports", slots, count, "Field", now, now.Add(time.Hour), true, now, now)
}

const lockActivity = "SELECT id, name, description, category, available_slots, registered_count, location, start_date, end_date, is_active, created_at, updated_at FROM activities WHERE id = $1 FOR UPDATE"

func TestRegisterCommitsBothWrites(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockActivity)).WithArgs(int64(1)).WillReturnRows(activityRow(1, 2, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM activity_registrations WHERE activity_id = $1 AND user_id = $2 LIMIT 1")).
		WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectQuery("INSERT INTO activity_registrations").
		WithArgs(int64(1), int64(5), "registered", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE activities SET registered_count = registered_count + 1")).
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	reg, activity, err := repo.Register(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), reg.ID)
	assert.Equal(t, models.RegistrationStatusRegistered, reg.Status)
	assert.Equal(t, 2, activity.RegisteredCount)
	assert.True(t, activity.IsFull())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUnknownActivity(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockActivity)).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := repo.Register(context.Background(), 404, 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterFullBeforeDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockActivity)).WithArgs(int64(1)).WillReturnRows(activityRow(1, 1, 1))
	mock.ExpectRollback()

	_, _, err := repo.Register(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrActivityFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockActivity)).WithArgs(int64(1)).WillReturnRows(activityRow(1, 5, 1))
	mock.ExpectQuery("SELECT 1 FROM activity_registrations").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectRollback()

	_, _, err := repo.Register(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUniqueViolationIsDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockActivity)).WithArgs(int64(1)).WillReturnRows(activityRow(1, 5, 1))
	mock.ExpectQuery("SELECT 1 FROM activity_registrations").WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectQuery("INSERT INTO activity_registrations").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "unique_activity_user"})
	mock.ExpectRollback()

	_, _, err := repo.Register(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterIncrementLostRollsBackInsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockActivity)).WithArgs(int64(1)).WillReturnRows(activityRow(1, 1, 0))
	mock.ExpectQuery("SELECT 1 FROM activity_registrations").WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectQuery("INSERT INTO activity_registrations").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec("UPDATE activities SET registered_count").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := repo.Register(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrActivityFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveWithStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	now := time.Now()
	cols := append(append([]string{}, activityMockColumns...), "registration_status")
	rows := sqlmock.NewRows(cols).
		AddRow(int64(1), "Football", nil, "sports", 10, 1, nil, now, now, true, now, now, "registered").
		AddRow(int64(2), "Choir", nil, "cultural", 10, 0, nil, now, now, true, now, now, nil)
	mock.ExpectQuery("FROM activities a\nLEFT JOIN activity_registrations ar ON ar.activity_id = a.id AND ar.user_id = \\$1\nWHERE a.is_active = TRUE").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	items, err := repo.ListActiveWithStatus(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].RegistrationStatus)
	assert.Equal(t, "registered", *items[0].RegistrationStatus)
	assert.Nil(t, items[1].RegistrationStatus)
	assert.Nil(t, items[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRegistrationsByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "status", "registered_at", "activity_id", "activity_name", "activity_description", "activity_category", "activity_location"}).
		AddRow(int64(4), "registered", now, int64(1), "Football", "League", "sports", "Field")
	mock.ExpectQuery("WHERE ar.user_id = \\$1").WithArgs(int64(5)).WillReturnRows(rows)

	regs, err := repo.ListRegistrationsByUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, int64(1), regs[0].RegistrationActivity.ID)
	assert.Equal(t, "Football", regs[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO activities").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO activities").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), []models.Activity{{Name: "A", Category: "sports", AvailableSlots: 1}, {Name: "B", Category: "arts", AvailableSlots: 1}})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteActivity(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM activity_registrations WHERE activity_id = $1")).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM activities WHERE id = $1")).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
