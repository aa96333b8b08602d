package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cwiesse/horarios-api/internal/models"
	appErrors "github.com/cwiesse/horarios-api/pkg/errors"
)

type mockTeacherRepo struct {
	items       map[string]*models.Teacher
	dniIndex    map[string]string
	listResult  []models.Teacher
	listTotal   int
	listErr     error
	deactivated []string
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := m.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) ExistsByDNI(ctx context.Context, dni, excludeID string) (bool, error) {
	if owner, ok := m.dniIndex[dni]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[string]*models.Teacher)
	}
	if teacher.ID == "" {
		teacher.ID = "generated"
	}
	now := time.Now()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[string]*models.Teacher)
	}
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	if t, ok := m.items[id]; ok {
		t.Active = false
	}
	return nil
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := &mockTeacherRepo{}
	service := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := service.Create(context.Background(), CreateTeacherRequest{
		DNI:          "12345678",
		FirstName:    "María",
		PaternalName: "Quispe",
		Email:        "MARIA@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", teacher.Email)
	assert.True(t, teacher.Active)
	assert.Len(t, repo.items, 1)
}

func TestTeacherServiceCreateDuplicateDNI(t *testing.T) {
	repo := &mockTeacherRepo{dniIndex: map[string]string{"12345678": "another"}}
	service := NewTeacherService(repo, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreateTeacherRequest{
		DNI:          "12345678",
		FirstName:    "María",
		PaternalName: "Quispe",
		Email:        "maria@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceCreateInvalidPayload(t *testing.T) {
	service := NewTeacherService(&mockTeacherRepo{}, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreateTeacherRequest{
		DNI:          "123", // too short
		FirstName:    "María",
		PaternalName: "Quispe",
		Email:        "not-an-email",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceUpdate(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			"t1": {ID: "t1", DNI: "12345678", FirstName: "María", PaternalName: "Quispe", Email: "maria@example.com", Active: true},
		},
	}
	service := NewTeacherService(repo, validator.New(), zap.NewNop())

	active := false
	updated, err := service.Update(context.Background(), "t1", UpdateTeacherRequest{
		DNI:          "12345678",
		FirstName:    "María Elena",
		PaternalName: "Quispe",
		Email:        "maria.elena@example.com",
		Active:       &active,
	})
	require.NoError(t, err)
	assert.Equal(t, "María Elena", updated.FirstName)
	assert.False(t, updated.Active)
}

func TestTeacherServiceUpdateNotFound(t *testing.T) {
	service := NewTeacherService(&mockTeacherRepo{}, validator.New(), zap.NewNop())

	_, err := service.Update(context.Background(), "missing", UpdateTeacherRequest{
		DNI:          "12345678",
		FirstName:    "María",
		PaternalName: "Quispe",
		Email:        "maria@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceDeactivate(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			"t1": {ID: "t1", DNI: "12345678", FirstName: "María", PaternalName: "Quispe", Email: "maria@example.com", Active: true},
		},
	}
	service := NewTeacherService(repo, validator.New(), zap.NewNop())

	require.NoError(t, service.Deactivate(context.Background(), "t1"))
	assert.Equal(t, []string{"t1"}, repo.deactivated)

	err := service.Deactivate(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
