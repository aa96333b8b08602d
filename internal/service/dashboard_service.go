package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cwiesse/horarios-api/internal/models"
	appErrors "github.com/cwiesse/horarios-api/pkg/errors"
)

type activeCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type sessionCounter interface {
	Count(ctx context.Context) (int, error)
	CountByDay(ctx context.Context, day models.Weekday) (int, error)
}

// DashboardService aggregates headline counts for the landing view.
type DashboardService struct {
	teachers activeCounter
	rooms    activeCounter
	courses  activeCounter
	sessions sessionCounter
	now      func() time.Time
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(teachers, rooms, courses activeCounter, sessions sessionCounter, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		teachers: teachers,
		rooms:    rooms,
		courses:  courses,
		sessions: sessions,
		now:      time.Now,
		logger:   logger,
	}
}

// Summary returns the active counts per catalog plus today's session load.
// On weekends Today is left unset and TodaySessions is zero.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{GeneratedAt: s.now().UTC()}

	var err error
	if summary.ActiveTeachers, err = s.teachers.CountActive(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to count teachers")
	}
	if summary.ActiveRooms, err = s.rooms.CountActive(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to count rooms")
	}
	if summary.ActiveCourses, err = s.courses.CountActive(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to count courses")
	}
	if summary.TotalSessions, err = s.sessions.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to count sessions")
	}

	if day, ok := currentWeekday(s.now()); ok {
		summary.Today = day
		if summary.TodaySessions, err = s.sessions.CountByDay(ctx, day); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to count today's sessions")
		}
	}

	return summary, nil
}

// currentWeekday maps the wall clock onto the schedulable week. Saturday and
// Sunday fall outside it.
func currentWeekday(now time.Time) (models.Weekday, bool) {
	switch now.Weekday() {
	case time.Monday:
		return models.Monday, true
	case time.Tuesday:
		return models.Tuesday, true
	case time.Wednesday:
		return models.Wednesday, true
	case time.Thursday:
		return models.Thursday, true
	case time.Friday:
		return models.Friday, true
	default:
		return 0, false
	}
}
