package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guided-platform/matching-service/internal/services"
	"github.com/guided-platform/matching-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	service services.ReportService
}

func NewReportHandler(service services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ExportInvites streams the invite pipeline as an Excel workbook
// @Summary Export invite pipeline
// @Description Download the invite pipeline as a spreadsheet, with stalled pending invites flagged
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param student_id query string false "Filter by student"
// @Param mentor_id query string false "Filter by mentor"
// @Param status query string false "Filter by status"
// @Param pending query bool false "Pending statuses only"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /reports/invites.xlsx [get]
func (h *ReportHandler) ExportInvites(c *gin.Context) {
	h.LogRequest(c, "Exporting invites")

	var req services.InviteListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	buf, filename, err := h.service.ExportInvites(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Transfer-Encoding", "binary")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
