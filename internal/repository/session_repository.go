package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cwiesse/horarios-api/internal/models"
)

const sessionColumns = "id, teacher_id, room_id, course_id, day, start_time, end_time, created_at, updated_at"

// Exclusion constraints guarding the no-double-booking invariant at the
// storage layer. A violation on the write path means another transaction
// won a check-then-write race; it is mapped to the same conflict error the
// pre-write check produces.
const (
	teacherOverlapConstraint = "sessions_teacher_no_overlap"
	roomOverlapConstraint    = "sessions_room_no_overlap"
)

// SessionRepository provides persistence for timetable sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns sessions with optional filtering and pagination, ordered by
// day, start time and id for deterministic display.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	base := "FROM sessions WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Day.Valid() {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, int(filter.Day))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY day ASC, start_time ASC, id ASC LIMIT %d OFFSET %d", sessionColumns, base, size, offset)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	return sessions, total, nil
}

// FindByID loads a session by id.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE id = $1", sessionColumns)
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListAll returns the whole timetable ordered by day, start time and id.
func (r *SessionRepository) ListAll(ctx context.Context) ([]models.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions ORDER BY day ASC, start_time ASC, id ASC", sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list all sessions: %w", err)
	}
	return sessions, nil
}

// ListByTeacher returns sessions taught by a teacher.
func (r *SessionRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Session, error) {
	return r.listByColumn(ctx, "teacher_id", teacherID)
}

// ListByRoom returns sessions held in a room.
func (r *SessionRepository) ListByRoom(ctx context.Context, roomID string) ([]models.Session, error) {
	return r.listByColumn(ctx, "room_id", roomID)
}

// ListByCourse returns sessions in which a course is taught.
func (r *SessionRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Session, error) {
	return r.listByColumn(ctx, "course_id", courseID)
}

func (r *SessionRepository) listByColumn(ctx context.Context, column, id string) ([]models.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE %s = $1 ORDER BY day ASC, start_time ASC, id ASC", sessionColumns, column)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, id); err != nil {
		return nil, fmt.Errorf("list sessions by %s: %w", column, err)
	}
	return sessions, nil
}

// Count returns the total number of sessions.
func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sessions"); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// CountByDay returns the number of sessions scheduled on a given day.
func (r *SessionRepository) CountByDay(ctx context.Context, day models.Weekday) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sessions WHERE day = $1", int(day)); err != nil {
		return 0, fmt.Errorf("count sessions by day: %w", err)
	}
	return count, nil
}

// HasTeacherConflict reports whether any persisted session for the teacher
// overlaps [start, end) on the given day. Two half-open intervals overlap
// iff each starts before the other ends.
func (r *SessionRepository) HasTeacherConflict(ctx context.Context, teacherID string, day models.Weekday, start, end models.TimeOfDay, excludeID string) (bool, error) {
	return r.hasConflict(ctx, "teacher_id", teacherID, day, start, end, excludeID)
}

// HasRoomConflict reports whether any persisted session in the room
// overlaps [start, end) on the given day.
func (r *SessionRepository) HasRoomConflict(ctx context.Context, roomID string, day models.Weekday, start, end models.TimeOfDay, excludeID string) (bool, error) {
	return r.hasConflict(ctx, "room_id", roomID, day, start, end, excludeID)
}

func (r *SessionRepository) hasConflict(ctx context.Context, column, id string, day models.Weekday, start, end models.TimeOfDay, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM sessions WHERE %s = $1 AND day = $2 AND start_time < $3 AND end_time > $4", column)
	args := []interface{}{id, int(day), end, start}
	if excludeID != "" {
		query += " AND id != $5"
		args = append(args, excludeID)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check %s conflict: %w", column, err)
	}
	return count > 0, nil
}

// Create stores a new session record. A concurrent writer that slips past
// the pre-write conflict check is rejected by the exclusion constraints and
// surfaces as a SessionConflictError.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	const query = `INSERT INTO sessions (id, teacher_id, room_id, course_id, day, start_time, end_time, created_at, updated_at) VALUES (:id, :teacher_id, :room_id, :course_id, :day, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		if conflictErr := asConflictError(err, session); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update replaces a session record. Returns sql.ErrNoRows when the id does
// not exist.
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sessions SET teacher_id = :teacher_id, room_id = :room_id, course_id = :course_id, day = :day, start_time = :start_time, end_time = :end_time, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		if conflictErr := asConflictError(err, session); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a session by id. Returns sql.ErrNoRows when absent.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func asConflictError(err error, session *models.Session) *models.SessionConflictError {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23P01" {
		return nil
	}
	switch pqErr.Constraint {
	case teacherOverlapConstraint:
		return &models.SessionConflictError{
			Dimension: models.DimensionTeacher,
			Message:   "teacher is already booked at an overlapping time",
			Conflict: &models.SessionConflict{
				TeacherID: session.TeacherID,
				RoomID:    session.RoomID,
				Day:       session.Day,
				StartTime: session.StartTime,
				EndTime:   session.EndTime,
				Dimension: models.DimensionTeacher,
			},
		}
	case roomOverlapConstraint:
		return &models.SessionConflictError{
			Dimension: models.DimensionRoom,
			Message:   "room is already booked at an overlapping time",
			Conflict: &models.SessionConflict{
				TeacherID: session.TeacherID,
				RoomID:    session.RoomID,
				Day:       session.Day,
				StartTime: session.StartTime,
				EndTime:   session.EndTime,
				Dimension: models.DimensionRoom,
			},
		}
	default:
		return nil
	}
}
