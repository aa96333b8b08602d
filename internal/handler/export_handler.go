package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cwiesse/horarios-api/internal/service"
	"github.com/cwiesse/horarios-api/pkg/response"
)

// ExportHandler exposes report download endpoints.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Sessions godoc
// @Summary Download the timetable
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "Export format (xlsx, csv, pdf)" default(xlsx)
// @Success 200 {file} binary
// @Router /exports/sessions [get]
func (h *ExportHandler) Sessions(c *gin.Context) {
	doc, err := h.service.Sessions(c.Request.Context(), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}

// Teachers godoc
// @Summary Download the teacher roster
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "Export format (xlsx, csv, pdf)" default(xlsx)
// @Success 200 {file} binary
// @Router /exports/teachers [get]
func (h *ExportHandler) Teachers(c *gin.Context) {
	doc, err := h.service.Teachers(c.Request.Context(), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}

// Rooms godoc
// @Summary Download the classroom inventory
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "Export format (xlsx, csv, pdf)" default(xlsx)
// @Success 200 {file} binary
// @Router /exports/rooms [get]
func (h *ExportHandler) Rooms(c *gin.Context) {
	doc, err := h.service.Rooms(c.Request.Context(), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}

func exportFormat(c *gin.Context) string {
	return strings.ToLower(c.DefaultQuery("format", service.FormatExcel))
}

func writeDocument(c *gin.Context, doc *service.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(200, doc.ContentType, doc.Bytes)
}
