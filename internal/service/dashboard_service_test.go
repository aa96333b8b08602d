package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cwiesse/horarios-api/internal/models"
	appErrors "github.com/cwiesse/horarios-api/pkg/errors"
)

type staticCounter struct {
	count int
	err   error
}

func (c *staticCounter) CountActive(ctx context.Context) (int, error) { return c.count, c.err }

type staticSessionCounter struct {
	total  int
	perDay map[models.Weekday]int
}

func (c *staticSessionCounter) Count(ctx context.Context) (int, error) { return c.total, nil }

func (c *staticSessionCounter) CountByDay(ctx context.Context, day models.Weekday) (int, error) {
	return c.perDay[day], nil
}

func TestDashboardServiceSummaryWeekday(t *testing.T) {
	svc := NewDashboardService(
		&staticCounter{count: 12},
		&staticCounter{count: 8},
		&staticCounter{count: 15},
		&staticSessionCounter{total: 40, perDay: map[models.Weekday]int{models.Wednesday: 9}},
		zap.NewNop(),
	)
	// 2024-03-06 is a Wednesday.
	svc.now = func() time.Time { return time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC) }

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, summary.ActiveTeachers)
	assert.Equal(t, 8, summary.ActiveRooms)
	assert.Equal(t, 15, summary.ActiveCourses)
	assert.Equal(t, 40, summary.TotalSessions)
	assert.Equal(t, models.Wednesday, summary.Today)
	assert.Equal(t, 9, summary.TodaySessions)
}

func TestDashboardServiceSummaryWeekend(t *testing.T) {
	svc := NewDashboardService(
		&staticCounter{count: 1},
		&staticCounter{count: 1},
		&staticCounter{count: 1},
		&staticSessionCounter{total: 5, perDay: map[models.Weekday]int{models.Monday: 5}},
		zap.NewNop(),
	)
	// 2024-03-09 is a Saturday: no schedulable day, no today count.
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Weekday(0), summary.Today)
	assert.Zero(t, summary.TodaySessions)
}

func TestCurrentWeekday(t *testing.T) {
	// 2024-03-04 is a Monday.
	for offset, want := range []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday} {
		day, ok := currentWeekday(time.Date(2024, 3, 4+offset, 12, 0, 0, 0, time.UTC))
		require.True(t, ok)
		assert.Equal(t, want, day)
	}
	for _, weekend := range []int{9, 10} {
		_, ok := currentWeekday(time.Date(2024, 3, weekend, 12, 0, 0, 0, time.UTC))
		assert.False(t, ok)
	}
}

func TestDashboardServiceSummaryStorageError(t *testing.T) {
	svc := NewDashboardService(
		&staticCounter{err: errors.New("connection refused")},
		&staticCounter{},
		&staticCounter{},
		&staticSessionCounter{},
		zap.NewNop(),
	)

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStorageUnavailable.Code, appErrors.FromError(err).Code)
}
