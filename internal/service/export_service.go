package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cwiesse/horarios-api/internal/models"
	appErrors "github.com/cwiesse/horarios-api/pkg/errors"
	"github.com/cwiesse/horarios-api/pkg/export"
)

// Supported export formats.
const (
	FormatExcel = "xlsx"
	FormatCSV   = "csv"
	FormatPDF   = "pdf"
)

type exportSessionSource interface {
	ListAll(ctx context.Context) ([]models.Session, error)
}

type exportTeacherSource interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
}

type exportRoomSource interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type exportCourseSource interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// Document is a rendered export ready to stream to the client.
type Document struct {
	Bytes       []byte
	Filename    string
	ContentType string
}

// ExportService produces downloadable reports of the master data and the
// timetable. It only reads; it imposes nothing back on the scheduling core.
type ExportService struct {
	sessions  exportSessionSource
	teachers  exportTeacherSource
	rooms     exportRoomSource
	courses   exportCourseSource
	renderers map[string]datasetRenderer
	title     string
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(sessions exportSessionSource, teachers exportTeacherSource, rooms exportRoomSource, courses exportCourseSource, institution string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		sessions: sessions,
		teachers: teachers,
		rooms:    rooms,
		courses:  courses,
		renderers: map[string]datasetRenderer{
			FormatExcel: export.NewExcelExporter(),
			FormatCSV:   export.NewCSVExporter(),
			FormatPDF:   export.NewPDFExporter(),
		},
		title:  institution,
		logger: logger,
	}
}

// Teachers renders the teacher roster in the requested format.
func (s *ExportService) Teachers(ctx context.Context, format string) (*Document, error) {
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to load teachers for export")
	}

	headers := []string{"DNI", "Nombre completo", "Email", "Teléfono", "Estado"}
	rows := make([]map[string]string, 0, len(teachers))
	for _, t := range teachers {
		phone := ""
		if t.Phone != nil {
			phone = *t.Phone
		}
		rows = append(rows, map[string]string{
			"DNI":             t.DNI,
			"Nombre completo": t.FullName(),
			"Email":           t.Email,
			"Teléfono":        phone,
			"Estado":          statusLabel(t.Active),
		})
	}

	return s.render(format, "docentes", export.Dataset{
		Title:       s.title + " - Docentes",
		GeneratedAt: time.Now(),
		Headers:     headers,
		Rows:        rows,
	})
}

// Rooms renders the classroom inventory in the requested format.
func (s *ExportService) Rooms(ctx context.Context, format string) (*Document, error) {
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to load rooms for export")
	}

	headers := []string{"Código", "Nombre", "Capacidad", "Piso", "Edificio", "Estado"}
	rows := make([]map[string]string, 0, len(rooms))
	for _, r := range rooms {
		floor := ""
		if r.Floor != nil {
			floor = strconv.Itoa(*r.Floor)
		}
		building := ""
		if r.Building != nil {
			building = *r.Building
		}
		rows = append(rows, map[string]string{
			"Código":    r.Code,
			"Nombre":    r.Name,
			"Capacidad": strconv.Itoa(r.Capacity),
			"Piso":      floor,
			"Edificio":  building,
			"Estado":    statusLabel(r.Active),
		})
	}

	return s.render(format, "aulas", export.Dataset{
		Title:       s.title + " - Aulas",
		GeneratedAt: time.Now(),
		Headers:     headers,
		Rows:        rows,
	})
}

// Sessions renders the full timetable in the requested format, resolving
// teacher, room and course references to readable names.
func (s *ExportService) Sessions(ctx context.Context, format string) (*Document, error) {
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to load sessions for export")
	}
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to load teachers for export")
	}
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to load rooms for export")
	}
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to load courses for export")
	}

	teacherNames := make(map[string]string, len(teachers))
	for _, t := range teachers {
		teacherNames[t.ID] = t.FullName()
	}
	roomNames := make(map[string]string, len(rooms))
	for _, r := range rooms {
		roomNames[r.ID] = r.Code + " - " + r.Name
	}
	courseNames := make(map[string]string, len(courses))
	for _, c := range courses {
		courseNames[c.ID] = c.Name
	}

	headers := []string{"Día", "Inicio", "Fin", "Curso", "Docente", "Aula"}
	rows := make([]map[string]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, map[string]string{
			"Día":     session.Day.String(),
			"Inicio":  session.StartTime.String(),
			"Fin":     session.EndTime.String(),
			"Curso":   courseNames[session.CourseID],
			"Docente": teacherNames[session.TeacherID],
			"Aula":    roomNames[session.RoomID],
		})
	}

	return s.render(format, "horarios", export.Dataset{
		Title:       s.title + " - Horarios",
		GeneratedAt: time.Now(),
		Headers:     headers,
		Rows:        rows,
	})
}

func (s *ExportService) render(format, name string, data export.Dataset) (*Document, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	payload, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	doc := &Document{
		Bytes:    payload,
		Filename: fmt.Sprintf("%s_%s.%s", name, time.Now().Format("20060102"), format),
	}
	switch format {
	case FormatExcel:
		doc.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		doc.ContentType = "text/csv"
	case FormatPDF:
		doc.ContentType = "application/pdf"
	}
	return doc, nil
}

func statusLabel(active bool) string {
	if active {
		return "Activo"
	}
	return "Inactivo"
}
