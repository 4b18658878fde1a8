package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmartEval-2025/assessment-platform/internal/services"
	"github.com/SmartEval-2025/assessment-platform/internal/utils"
)

type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// ExportResults downloads an assessment's results as CSV or XLSX
// @Summary Export assessment results
// @Description Streams the graded results of an ended assessment as a CSV or XLSX file; creator only
// @Tags export
// @Produce octet-stream
// @Param id path uint true "Assessment ID"
// @Param format query string false "File format: csv or xlsx, default csv"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/export [get]
func (h *ExportHandler) ExportResults(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	format := c.DefaultQuery("format", "csv")
	h.LogRequest(c, "Exporting assessment results", "assessment_id", id, "format", format)

	user := h.currentUser(c)
	if user == nil {
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(c.Request.Context(), id, user.ID)
		contentType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context(), id, user.ID)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: fmt.Sprintf("format %q is not supported, use csv or xlsx", format),
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
