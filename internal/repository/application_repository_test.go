package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-activities-api/internal/models"
)

var applicationMockColumns = []string{"id", "user_id", "student_name", "activity_type", "activity_number", "college", "department", "specialization", "phone", "details", "status", "submitted_at", "updated_at"}

func TestCreateApplicationDefaultsPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("INSERT INTO applications").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	app := &models.Application{UserID: 5, StudentName: "Sara", ActivityType: "volunteer", ActivityNumber: "V-1", College: "Eng", Department: "CS", Specialization: "AI", Phone: "0500"}
	require.NoError(t, repo.Create(context.Background(), app))
	assert.Equal(t, int64(12), app.ID)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicationsNewestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(applicationMockColumns).
		AddRow(int64(2), int64(5), "Sara", "volunteer", "V-2", "Eng", "CS", "AI", "0500", nil, "pending", now, now).
		AddRow(int64(1), int64(5), "Sara", "volunteer", "V-1", "Eng", "CS", "AI", "0500", "note", "approved", now.Add(-time.Hour), now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE user_id = $1 ORDER BY submitted_at DESC, id DESC")).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	apps, err := repo.ListByUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, int64(2), apps[0].ID)
	assert.Nil(t, apps[0].Details)
	require.NotNil(t, apps[1].Details)
	assert.Equal(t, "note", *apps[1].Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplicationStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1 RETURNING")).
		WithArgs(int64(1), "on hold", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(applicationMockColumns).
			AddRow(int64(1), int64(5), "Sara", "volunteer", "V-1", "Eng", "CS", "AI", "0500", nil, "on hold", now, now))

	app, err := repo.UpdateStatus(context.Background(), 1, models.ApplicationStatus("on hold"))
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatus("on hold"), app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplicationStatusNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("UPDATE applications").WillReturnRows(sqlmock.NewRows(applicationMockColumns))

	_, err := repo.UpdateStatus(context.Background(), 99, models.ApplicationStatusApproved)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountApplicationsByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE status = 'pending') AS pending")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "approved", "rejected"}).AddRow(4, 2, 1, 1))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCounts{Total: 4, Pending: 2, Approved: 1, Rejected: 1}, *counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindApplicationByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(applicationMockColumns).
			AddRow(int64(4), int64(5), "Sara", "volunteer", "V-4", "Eng", "CS", "AI", "0500", nil, "approved", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	app, err := repo.FindByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, app.Status)

	_, err = repo.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
