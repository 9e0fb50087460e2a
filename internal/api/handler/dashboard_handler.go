package handler

import (
	"github.com/gin-gonic/gin"

	"volunteer-dashboard/backend/internal/dto"
	"volunteer-dashboard/backend/internal/service"
	"volunteer-dashboard/backend/pkg/response"
)

// DashboardHandler 仪表盘模块 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetDashboard 获取仪表盘聚合数据（按角色收敛可见范围）
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	result, err := h.dashboardSvc.Build(c.Request.Context(), &req, claims)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
