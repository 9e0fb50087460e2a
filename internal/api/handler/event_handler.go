package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"volunteer-dashboard/backend/internal/dto"
	"volunteer-dashboard/backend/internal/service"
	pkgerrors "volunteer-dashboard/backend/pkg/errors"
	"volunteer-dashboard/backend/pkg/response"
)

// EventHandler 活动模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// ListEvents 获取活动列表（按日期范围）
// GET /api/v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	events, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": events})
}

// GetEvent 获取活动详情（含部门与排班）
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	event, err := h.eventSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// CreateEvent 创建活动（冲突即拒绝）
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// UpdateEvent 更新活动
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// RescheduleEvent 日历拖拽/缩放调整活动时间
// PUT /api/v1/events/:id/schedule
func (h *EventHandler) RescheduleEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	var req dto.RescheduleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Reschedule(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent 删除活动
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignDepartment 活动添加部门
// POST /api/v1/events/:id/departments
func (h *EventHandler) AssignDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	var req dto.AssignDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.eventSvc.AssignDepartment(c.Request.Context(), id, &req); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, nil)
}

// UnassignDepartment 活动移除部门
// DELETE /api/v1/events/:id/departments/:deptId
func (h *EventHandler) UnassignDepartment(c *gin.Context) {
	id := c.Param("id")
	deptID := c.Param("deptId")
	if id == "" || deptID == "" {
		response.BadRequest(c, 10001, "活动ID与部门ID不能为空")
		return
	}

	if err := h.eventSvc.UnassignDepartment(c.Request.Context(), id, deptID); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignVolunteer 活动添加志愿者排班（可能附带重复排班提醒）
// POST /api/v1/events/:id/volunteers
func (h *EventHandler) AssignVolunteer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	var req dto.AssignVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.eventSvc.AssignVolunteer(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, result)
}

// UnassignVolunteer 活动移除志愿者排班
// DELETE /api/v1/events/:id/volunteers/:volId/departments/:deptId
func (h *EventHandler) UnassignVolunteer(c *gin.Context) {
	id := c.Param("id")
	volID := c.Param("volId")
	deptID := c.Param("deptId")
	if id == "" || volID == "" || deptID == "" {
		response.BadRequest(c, 10001, "活动ID、志愿者ID与部门ID不能为空")
		return
	}

	if err := h.eventSvc.UnassignVolunteer(c.Request.Context(), id, volID, deptID); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleEventError 统一处理活动模块业务错误
func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	var conflictErr *service.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		// 冲突详情随 details 返回；调整场景额外携带还原坐标
		if conflictErr.Revert != nil {
			response.Conflict(c, 15003, "活动时间冲突", dto.RescheduleConflictResponse{
				Conflict: conflictErr.Conflict,
				Revert:   *conflictErr.Revert,
			})
			return
		}
		response.Conflict(c, 15003, "活动时间冲突", conflictErr.Conflict)
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 15001, "活动不存在")
	case errors.Is(err, service.ErrInvalidEventTime):
		response.BadRequest(c, 15002, "活动时间非法")
	case errors.Is(err, service.ErrDepartmentNotAssigned):
		response.BadRequest(c, 15004, "该部门未参与此活动")
	case errors.Is(err, service.ErrDepartmentAlreadyInEvent):
		response.BadRequest(c, 15005, "该部门已参与此活动")
	case errors.Is(err, service.ErrVolunteerAlreadyAssigned):
		response.BadRequest(c, 15006, "志愿者已在该活动该部门排班")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 15007, "排班记录不存在")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "部门不存在")
	case errors.Is(err, service.ErrVolunteerNotFound):
		response.NotFound(c, 14001, "志愿者不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试", nil)
	default:
		response.InternalError(c)
	}
}
