package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwiesse/horarios-api/internal/models"
)

func newSessionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sessionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "teacher_id", "room_id", "course_id", "day", "start_time", "end_time", "created_at", "updated_at"}).
		AddRow("s1", "t1", "r1", "c1", 1, "08:00:00", "09:00:00", time.Now(), time.Now())
}

func TestSessionRepositoryList(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, room_id, course_id, day, start_time, end_time, created_at, updated_at FROM sessions WHERE 1=1 AND teacher_id = $1 ORDER BY day ASC, start_time ASC, id ASC LIMIT 20 OFFSET 0")).
		WithArgs("t1").
		WillReturnRows(sessionRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sessions WHERE 1=1 AND teacher_id = $1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.SessionFilter{TeacherID: "t1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.Monday, list[0].Day)
	assert.Equal(t, "08:00", list[0].StartTime.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryHasTeacherConflict(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sessions WHERE teacher_id = $1 AND day = $2 AND start_time < $3 AND end_time > $4")).
		WithArgs("t1", 1, "09:30", "08:30").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	conflict, err := repo.HasTeacherConflict(context.Background(), "t1", models.Monday, models.TimeOfDay(8*60+30), models.TimeOfDay(9*60+30), "")
	require.NoError(t, err)
	assert.True(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryHasRoomConflictExcludesSelf(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sessions WHERE room_id = $1 AND day = $2 AND start_time < $3 AND end_time > $4 AND id != $5")).
		WithArgs("r1", 1, "09:15", "08:15", "s1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	conflict, err := repo.HasRoomConflict(context.Background(), "r1", models.Monday, models.TimeOfDay(8*60+15), models.TimeOfDay(9*60+15), "s1")
	require.NoError(t, err)
	assert.False(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(sqlmock.AnyArg(), "t1", "r1", "c1", 1, "08:00", "09:00", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	session := &models.Session{
		TeacherID: "t1",
		RoomID:    "r1",
		CourseID:  "c1",
		Day:       models.Monday,
		StartTime: models.TimeOfDay(8 * 60),
		EndTime:   models.TimeOfDay(9 * 60),
	}
	require.NoError(t, repo.Create(context.Background(), session))
	assert.NotEmpty(t, session.ID)
	assert.False(t, session.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryCreateConstraintViolation(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("INSERT INTO sessions").
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "sessions_room_no_overlap"})

	session := &models.Session{
		TeacherID: "t1",
		RoomID:    "r1",
		CourseID:  "c1",
		Day:       models.Monday,
		StartTime: models.TimeOfDay(8 * 60),
		EndTime:   models.TimeOfDay(9 * 60),
	}
	err := repo.Create(context.Background(), session)
	require.Error(t, err)

	var conflict *models.SessionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, models.DimensionRoom, conflict.Dimension)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryUpdateNotFound(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("UPDATE sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Session{ID: "missing"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id = $1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "s1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id = $1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "s1"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
