package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteer-dashboard/backend/config"
	"volunteer-dashboard/backend/internal/dto"
	"volunteer-dashboard/backend/internal/service"
	"volunteer-dashboard/backend/pkg/response"
)

// AttendanceHandler 签到模块 HTTP 处理器
type AttendanceHandler struct {
	cfg           *config.AttendanceConfig
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(cfg *config.AttendanceConfig, attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{cfg: cfg, attendanceSvc: attendanceSvc}
}

// IssueToken 申请签到码（志愿者设备轮询刷新）
// POST /api/v1/attendance/token
func (h *AttendanceHandler) IssueToken(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	var req dto.IssueAttendanceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.IssueToken(c.Request.Context(), &req, claims)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// Confirm 扫码端提交签到确认
// POST /api/v1/attendance/confirm
func (h *AttendanceHandler) Confirm(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	var req dto.ConfirmAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.Confirm(c.Request.Context(), &req, claims)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// handleAttendanceError 统一处理签到模块业务错误。
// 失败响应附带 display_millis，扫码端按此时长展示错误横幅。
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	details := gin.H{"display_millis": int(h.cfg.ErrorDisplayTime.Milliseconds())}

	switch {
	case errors.Is(err, service.ErrAttendanceNotScheduled):
		response.BadRequest(c, 16001, "该志愿者未排班在此活动")
	case errors.Is(err, service.ErrAttendanceIssueForbidden):
		response.Forbidden(c, 16005, "无权为该志愿者生成签到码")
	case errors.Is(err, service.ErrAttendanceTokenExpired):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16002, "签到码已过期，请刷新后重试", details)
	case errors.Is(err, service.ErrAttendanceRejected):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16003, "签到失败，请重新出示签到码", details)
	case errors.Is(err, service.ErrScanBusy):
		response.ErrorWithDetails(c, http.StatusTooManyRequests, 16004, "上一次签到结果展示中，请稍候", nil)
	default:
		response.InternalError(c)
	}
}
