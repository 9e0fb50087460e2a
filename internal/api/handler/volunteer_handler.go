package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"volunteer-dashboard/backend/internal/dto"
	"volunteer-dashboard/backend/internal/service"
	pkgerrors "volunteer-dashboard/backend/pkg/errors"
	"volunteer-dashboard/backend/pkg/response"
)

// VolunteerHandler 志愿者模块 HTTP 处理器
type VolunteerHandler struct {
	volSvc service.VolunteerService
}

// NewVolunteerHandler 创建 VolunteerHandler
func NewVolunteerHandler(volSvc service.VolunteerService) *VolunteerHandler {
	return &VolunteerHandler{volSvc: volSvc}
}

// ListVolunteers 获取志愿者列表（分页 + 过滤）
// GET /api/v1/volunteers
func (h *VolunteerHandler) ListVolunteers(c *gin.Context) {
	var req dto.VolunteerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.volSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// GetVolunteer 获取志愿者详情
// GET /api/v1/volunteers/:id
func (h *VolunteerHandler) GetVolunteer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "志愿者ID不能为空")
		return
	}

	v, err := h.volSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleVolunteerError(c, err)
		return
	}

	response.OK(c, v)
}

// CreateVolunteer 创建志愿者
// POST /api/v1/volunteers
func (h *VolunteerHandler) CreateVolunteer(c *gin.Context) {
	var req dto.CreateVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	v, err := h.volSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleVolunteerError(c, err)
		return
	}

	response.Created(c, v)
}

// UpdateVolunteer 更新志愿者
// PUT /api/v1/volunteers/:id
func (h *VolunteerHandler) UpdateVolunteer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "志愿者ID不能为空")
		return
	}

	var req dto.UpdateVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	v, err := h.volSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleVolunteerError(c, err)
		return
	}

	response.OK(c, v)
}

// DeleteVolunteer 删除志愿者
// DELETE /api/v1/volunteers/:id
func (h *VolunteerHandler) DeleteVolunteer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "志愿者ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.volSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleVolunteerError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleVolunteerError 统一处理志愿者模块业务错误
func (h *VolunteerHandler) handleVolunteerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVolunteerNotFound):
		response.NotFound(c, 14001, "志愿者不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试", nil)
	default:
		response.InternalError(c)
	}
}
