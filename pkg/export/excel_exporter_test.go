package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelExporterRender(t *testing.T) {
	data := Dataset{
		// Longer than the 31-character sheet name limit on purpose.
		Title:       "Sistema de Horarios - Reporte General de Docentes",
		GeneratedAt: time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
		Headers:     []string{"DNI", "Nombre completo"},
		Rows: []map[string]string{
			{"DNI": "12345678", "Nombre completo": "María Quispe"},
		},
	}

	raw, err := NewExcelExporter().Render(data)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Export"}, f.GetSheetList())

	title, err := f.GetCellValue("Export", "A1")
	require.NoError(t, err)
	assert.Equal(t, data.Title, title)

	header, err := f.GetCellValue("Export", "A4")
	require.NoError(t, err)
	assert.Equal(t, "DNI", header)

	name, err := f.GetCellValue("Export", "B5")
	require.NoError(t, err)
	assert.Equal(t, "María Quispe", name)
}

func TestExcelExporterRequiresHeaders(t *testing.T) {
	_, err := NewExcelExporter().Render(Dataset{Title: "Vacío"})
	assert.Error(t, err)
}
