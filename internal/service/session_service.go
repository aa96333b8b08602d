package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cwiesse/horarios-api/internal/models"
	appErrors "github.com/cwiesse/horarios-api/pkg/errors"
)

const sessionCachePrefix = "sessions"

type sessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error)
	FindByID(ctx context.Context, id string) (*models.Session, error)
	ListAll(ctx context.Context) ([]models.Session, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Session, error)
	ListByRoom(ctx context.Context, roomID string) ([]models.Session, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Session, error)
	HasTeacherConflict(ctx context.Context, teacherID string, day models.Weekday, start, end models.TimeOfDay, excludeID string) (bool, error)
	HasRoomConflict(ctx context.Context, roomID string, day models.Weekday, start, end models.TimeOfDay, excludeID string) (bool, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

// catalog is the lookup surface the session service needs from each of the
// teacher, room and course masters: existence plus the active flag.
type catalog interface {
	ExistsActive(ctx context.Context, id string) (exists bool, active bool, err error)
}

// CreateSessionRequest describes payload for scheduling a session.
type CreateSessionRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	RoomID    string `json:"room_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// UpdateSessionRequest replaces an existing session.
type UpdateSessionRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	RoomID    string `json:"room_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// SessionService coordinates timetable mutations, enforcing that no teacher
// or room is double-booked at an overlapping time on the same day.
type SessionService struct {
	repo      sessionRepository
	teachers  catalog
	rooms     catalog
	courses   catalog
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService instantiates SessionService.
func NewSessionService(repo sessionRepository, teachers, rooms, courses catalog, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		repo:      repo,
		teachers:  teachers,
		rooms:     rooms,
		courses:   courses,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns sessions with pagination metadata.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, *models.Pagination, error) {
	sessions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to list sessions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return sessions, pagination, nil
}

// ListAll returns the full timetable, served from cache when possible.
func (s *SessionService) ListAll(ctx context.Context) ([]models.Session, error) {
	cacheKey := sessionCachePrefix + ":all"
	var cached []models.Session
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	sessions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to list sessions")
	}
	s.cache.Set(ctx, cacheKey, sessions)
	return sessions, nil
}

// ListByTeacher returns a teacher's sessions ordered by day and start time.
func (s *SessionService) ListByTeacher(ctx context.Context, teacherID string) ([]models.Session, error) {
	sessions, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to list teacher sessions")
	}
	return sessions, nil
}

// ListByRoom returns a room's sessions ordered by day and start time.
func (s *SessionService) ListByRoom(ctx context.Context, roomID string) ([]models.Session, error) {
	sessions, err := s.repo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to list room sessions")
	}
	return sessions, nil
}

// ListByCourse returns a course's sessions ordered by day and start time.
func (s *SessionService) ListByCourse(ctx context.Context, courseID string) ([]models.Session, error) {
	sessions, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to list course sessions")
	}
	return sessions, nil
}

// Get returns a session by id.
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to load session")
	}
	return session, nil
}

// Create schedules a new session after reference resolution and conflict
// detection on both the teacher and room dimensions.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	candidate, err := s.buildCandidate(req.TeacherID, req.RoomID, req.CourseID, req.Day, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if err := s.resolveReferences(ctx, candidate); err != nil {
		return nil, err
	}
	if err := s.ensureNoConflict(ctx, candidate, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, candidate); err != nil {
		return nil, s.mapWriteError(err, "failed to create session")
	}

	s.cache.Invalidate(ctx, sessionCachePrefix+":*")
	s.logger.Info("session created",
		zap.String("session_id", candidate.ID),
		zap.String("teacher_id", candidate.TeacherID),
		zap.String("room_id", candidate.RoomID),
		zap.Stringer("day", candidate.Day),
	)
	return candidate, nil
}

// Update replaces an existing session, excluding it from its own conflict
// comparison so unchanged or shifted times validate correctly.
func (s *SessionService) Update(ctx context.Context, id string, req UpdateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to load session")
	}

	candidate, err := s.buildCandidate(req.TeacherID, req.RoomID, req.CourseID, req.Day, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	candidate.ID = existing.ID
	candidate.CreatedAt = existing.CreatedAt

	if err := s.resolveReferences(ctx, candidate); err != nil {
		return nil, err
	}
	if err := s.ensureNoConflict(ctx, candidate, existing.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, candidate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, s.mapWriteError(err, "failed to update session")
	}

	s.cache.Invalidate(ctx, sessionCachePrefix+":*")
	return candidate, nil
}

// Delete removes a session. No conflict checking applies: removing a
// session can never introduce an overlap.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to delete session")
	}
	s.cache.Invalidate(ctx, sessionCachePrefix+":*")
	return nil
}

func (s *SessionService) buildCandidate(teacherID, roomID, courseID, day, startTime, endTime string) (*models.Session, error) {
	parsedDay, err := models.ParseWeekday(day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "day must be a weekday between Monday and Friday")
	}
	start, err := models.ParseTimeOfDay(startTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start_time must be HH:MM")
	}
	end, err := models.ParseTimeOfDay(endTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "end_time must be HH:MM")
	}
	if !start.Before(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time must be strictly before end time")
	}

	return &models.Session{
		TeacherID: teacherID,
		RoomID:    roomID,
		CourseID:  courseID,
		Day:       parsedDay,
		StartTime: start,
		EndTime:   end,
	}, nil
}

func (s *SessionService) resolveReferences(ctx context.Context, session *models.Session) error {
	refs := []struct {
		catalog catalog
		id      string
		name    string
	}{
		{s.teachers, session.TeacherID, "teacher"},
		{s.rooms, session.RoomID, "room"},
		{s.courses, session.CourseID, "course"},
	}
	for _, ref := range refs {
		exists, active, err := ref.catalog.ExistsActive(ctx, ref.id)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, fmt.Sprintf("failed to resolve %s", ref.name))
		}
		if !exists {
			return appErrors.Clone(appErrors.ErrReference, fmt.Sprintf("%s %s does not exist", ref.name, ref.id))
		}
		if !active {
			return appErrors.Clone(appErrors.ErrReference, fmt.Sprintf("%s %s is inactive", ref.name, ref.id))
		}
	}
	return nil
}

// ensureNoConflict checks the teacher dimension and then the room dimension
// independently. A storage failure during either lookup fails closed: the
// write is rejected as a conflict rather than allowed through unverified.
func (s *SessionService) ensureNoConflict(ctx context.Context, session *models.Session, excludeID string) error {
	if s.hasTeacherConflict(ctx, session, excludeID) {
		return s.conflictError(models.DimensionTeacher, "teacher is already booked at an overlapping time", session)
	}
	if s.hasRoomConflict(ctx, session, excludeID) {
		return s.conflictError(models.DimensionRoom, "room is already booked at an overlapping time", session)
	}
	return nil
}

func (s *SessionService) hasTeacherConflict(ctx context.Context, session *models.Session, excludeID string) bool {
	conflict, err := s.repo.HasTeacherConflict(ctx, session.TeacherID, session.Day, session.StartTime, session.EndTime, excludeID)
	if err != nil {
		s.logger.Warn("teacher conflict check failed, failing closed",
			zap.String("teacher_id", session.TeacherID),
			zap.Error(err),
		)
		return true
	}
	return conflict
}

func (s *SessionService) hasRoomConflict(ctx context.Context, session *models.Session, excludeID string) bool {
	conflict, err := s.repo.HasRoomConflict(ctx, session.RoomID, session.Day, session.StartTime, session.EndTime, excludeID)
	if err != nil {
		s.logger.Warn("room conflict check failed, failing closed",
			zap.String("room_id", session.RoomID),
			zap.Error(err),
		)
		return true
	}
	return conflict
}

func (s *SessionService) conflictError(dimension models.ConflictDimension, message string, session *models.Session) error {
	if s.metrics != nil {
		s.metrics.RecordConflict(string(dimension))
	}
	domainErr := &models.SessionConflictError{
		Dimension: dimension,
		Message:   message,
		Conflict: &models.SessionConflict{
			TeacherID: session.TeacherID,
			RoomID:    session.RoomID,
			Day:       session.Day,
			StartTime: session.StartTime,
			EndTime:   session.EndTime,
			Dimension: dimension,
		},
	}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, message)
}

// mapWriteError translates a storage-layer constraint rejection (a lost
// check-then-write race) into the same conflict error the pre-write check
// produces.
func (s *SessionService) mapWriteError(err error, message string) error {
	var conflictErr *models.SessionConflictError
	if errors.As(err, &conflictErr) {
		if s.metrics != nil {
			s.metrics.RecordConflict(string(conflictErr.Dimension))
		}
		return appErrors.Wrap(conflictErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflictErr.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, message)
}
