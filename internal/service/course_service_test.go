package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cwiesse/horarios-api/internal/models"
	appErrors "github.com/cwiesse/horarios-api/pkg/errors"
)

type mockCourseRepo struct {
	items       map[string]*models.Course
	deactivated []string
	nextID      int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{items: map[string]*models.Course{}}
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	var out []models.Course
	for _, c := range m.items {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	for id, c := range m.items {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(c.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	m.nextID++
	course.ID = fmt.Sprintf("course-%d", m.nextID)
	cp := *course
	m.items[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := m.items[course.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *course
	m.items[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Deactivate(ctx context.Context, id string) error {
	if c, ok := m.items[id]; ok {
		c.Active = false
	}
	m.deactivated = append(m.deactivated, id)
	return nil
}

func newCourseTestService() (*CourseService, *mockCourseRepo) {
	repo := newMockCourseRepo()
	return NewCourseService(repo, nil, zap.NewNop()), repo
}

func validCourseRequest() CreateCourseRequest {
	return CreateCourseRequest{
		Code:        "mat-3p",
		Name:        "Matemática",
		Level:       "PRIMARIA",
		Grade:       3,
		WeeklyHours: 6,
	}
}

func TestCourseServiceCreate(t *testing.T) {
	svc, repo := newCourseTestService()

	course, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)

	assert.Equal(t, "MAT-3P", course.Code)
	assert.True(t, course.Active)
	assert.Len(t, repo.items, 1)
}

func TestCourseServiceCreateDuplicateCode(t *testing.T) {
	svc, _ := newCourseTestService()

	_, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)

	req := validCourseRequest()
	req.Code = "MAT-3P"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCourseServiceCreateInvalidPayload(t *testing.T) {
	svc, repo := newCourseTestService()

	req := validCourseRequest()
	req.Level = "INICIAL"
	req.Grade = 9

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.items)
}

func TestCourseServiceUpdate(t *testing.T) {
	svc, _ := newCourseTestService()

	course, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(context.Background(), course.ID, UpdateCourseRequest{
		Code:        course.Code,
		Name:        "Matemática Avanzada",
		Level:       "SECUNDARIA",
		Grade:       1,
		WeeklyHours: 8,
		Active:      &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Matemática Avanzada", updated.Name)
	assert.Equal(t, "SECUNDARIA", updated.Level)
	assert.False(t, updated.Active)
}

func TestCourseServiceUpdateNotFound(t *testing.T) {
	svc, _ := newCourseTestService()

	_, err := svc.Update(context.Background(), "ghost", UpdateCourseRequest{
		Code:        "HIS-2S",
		Name:        "Historia",
		Level:       "SECUNDARIA",
		Grade:       2,
		WeeklyHours: 4,
	})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCourseServiceDeactivate(t *testing.T) {
	svc, repo := newCourseTestService()

	course, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), course.ID))
	assert.Equal(t, []string{course.ID}, repo.deactivated)
	assert.False(t, repo.items[course.ID].Active)

	err = svc.Deactivate(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
