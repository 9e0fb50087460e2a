package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteer-dashboard/backend/internal/service"
	"volunteer-dashboard/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSchedule 导出日期范围内的活动排班为 Excel
// GET /api/v1/export/schedule?from=2024-06-01&to=2024-06-30
func (h *ExportHandler) ExportSchedule(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, 10001, "from/to 日期参数不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportSchedule(c.Request.Context(), from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportCalendar 导出日期范围内的活动为 iCalendar 订阅文件
// GET /api/v1/export/calendar?from=2024-06-01&to=2024-06-30
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, 10001, "from/to 日期参数不能为空")
		return
	}

	cal, err := h.exportSvc.ExportCalendar(c.Request.Context(), from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal))
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportInvalidRange):
		response.BadRequest(c, 17001, "导出日期范围非法")
	case errors.Is(err, service.ErrExportNoEvents):
		response.NotFound(c, 17002, "该日期范围内无活动")
	default:
		response.InternalError(c)
	}
}
