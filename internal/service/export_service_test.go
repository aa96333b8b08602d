package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cwiesse/horarios-api/internal/models"
	appErrors "github.com/cwiesse/horarios-api/pkg/errors"
)

type staticSessions struct{ items []models.Session }

func (d *staticSessions) ListAll(ctx context.Context) ([]models.Session, error) { return d.items, nil }

type staticTeachers struct{ items []models.Teacher }

func (d *staticTeachers) ListAll(ctx context.Context) ([]models.Teacher, error) { return d.items, nil }

type staticRooms struct{ items []models.Room }

func (d *staticRooms) ListAll(ctx context.Context) ([]models.Room, error) { return d.items, nil }

type staticCourses struct{ items []models.Course }

func (d *staticCourses) ListAll(ctx context.Context) ([]models.Course, error) { return d.items, nil }

func newExportTestService() *ExportService {
	sessions := &staticSessions{items: []models.Session{
		{
			ID:        "s1",
			TeacherID: "t1",
			RoomID:    "r1",
			CourseID:  "c1",
			Day:       models.Monday,
			StartTime: models.TimeOfDay(8 * 60),
			EndTime:   models.TimeOfDay(9 * 60),
		},
	}}
	teachers := &staticTeachers{items: []models.Teacher{
		{ID: "t1", DNI: "12345678", FirstName: "María", PaternalName: "Quispe", Email: "maria@example.com", Active: true},
	}}
	rooms := &staticRooms{items: []models.Room{
		{ID: "r1", Code: "A-101", Name: "Aula 101", Capacity: 30, Active: true},
	}}
	courses := &staticCourses{items: []models.Course{
		{ID: "c1", Code: "MAT-1", Name: "Matemática", Level: models.LevelPrimary, Grade: 1, WeeklyHours: 6, Active: true},
	}}
	return NewExportService(sessions, teachers, rooms, courses, "Colegio Test", zap.NewNop())
}

func TestExportServiceSessionsCSV(t *testing.T) {
	svc := newExportTestService()

	doc, err := svc.Sessions(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
	assert.True(t, strings.HasSuffix(doc.Filename, ".csv"))

	content := string(doc.Bytes)
	assert.Contains(t, content, "MONDAY")
	assert.Contains(t, content, "08:00")
	assert.Contains(t, content, "Matemática")
	assert.Contains(t, content, "María Quispe")
	assert.Contains(t, content, "A-101")
}

func TestExportServiceTeachersExcel(t *testing.T) {
	svc := newExportTestService()

	doc, err := svc.Teachers(context.Background(), FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", doc.ContentType)
	assert.True(t, strings.HasSuffix(doc.Filename, ".xlsx"))
	assert.NotEmpty(t, doc.Bytes)
}

func TestExportServiceRoomsPDF(t *testing.T) {
	svc := newExportTestService()

	doc, err := svc.Rooms(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.NotEmpty(t, doc.Bytes)
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc := newExportTestService()

	_, err := svc.Sessions(context.Background(), "docx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
