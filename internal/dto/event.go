package dto

// ── 活动模块 DTO ──

// CreateEventRequest 创建活动请求
// 时间为存储时区墙钟："15:04"；跨午夜活动 end < start
type CreateEventRequest struct {
	Name                string  `json:"name"                  binding:"required,min=2,max=200"`
	EventDate           string  `json:"event_date"            binding:"required,datetime=2006-01-02"`
	StartTime           string  `json:"start_time"            binding:"required,datetime=15:04"`
	EndTime             string  `json:"end_time"              binding:"required,datetime=15:04"`
	Location            string  `json:"location"              binding:"omitempty,max=200"`
	Status              string  `json:"status"                binding:"omitempty,oneof=pending confirmed cancelled"`
	Color               string  `json:"color"                 binding:"omitempty,max=20"`
	Notes               string  `json:"notes"                 binding:"omitempty,max=2000"`
	PrincipalTemplateID *string `json:"principal_template_id" binding:"omitempty,uuid"`
	KidsTemplateID      *string `json:"kids_template_id"      binding:"omitempty,uuid"`
}

// UpdateEventRequest 更新活动请求
type UpdateEventRequest struct {
	Name                *string `json:"name"                  binding:"omitempty,min=2,max=200"`
	EventDate           *string `json:"event_date"            binding:"omitempty,datetime=2006-01-02"`
	StartTime           *string `json:"start_time"            binding:"omitempty,datetime=15:04"`
	EndTime             *string `json:"end_time"              binding:"omitempty,datetime=15:04"`
	Location            *string `json:"location"              binding:"omitempty,max=200"`
	Status              *string `json:"status"                binding:"omitempty,oneof=pending confirmed cancelled"`
	Color               *string `json:"color"                 binding:"omitempty,max=20"`
	Notes               *string `json:"notes"                 binding:"omitempty,max=2000"`
	PrincipalTemplateID *string `json:"principal_template_id" binding:"omitempty,uuid"`
	KidsTemplateID      *string `json:"kids_template_id"      binding:"omitempty,uuid"`
}

// RescheduleEventRequest 拖拽/缩放调整活动时间请求
// 日历视图拖动（改日期+起止）或缩放（只改起止）后的提交
type RescheduleEventRequest struct {
	EventDate string `json:"event_date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time"   binding:"required,datetime=15:04"`
}

// EventListRequest 活动列表查询参数（按日期范围过滤）
type EventListRequest struct {
	From   string `form:"from"   binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to"     binding:"omitempty,datetime=2006-01-02"`
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}

// AssignDepartmentRequest 活动添加部门请求
type AssignDepartmentRequest struct {
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

// AssignVolunteerRequest 活动添加志愿者请求（指定参与部门）
type AssignVolunteerRequest struct {
	VolunteerID  string `json:"volunteer_id"  binding:"required,uuid"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

// EventResponse 活动详细信息响应
type EventResponse struct {
	ID                  string                    `json:"id"`
	Name                string                    `json:"name"`
	EventDate           string                    `json:"event_date"`
	StartTime           string                    `json:"start_time"`
	EndTime             string                    `json:"end_time"`
	Location            string                    `json:"location,omitempty"`
	Status              string                    `json:"status"`
	Color               string                    `json:"color,omitempty"`
	Notes               string                    `json:"notes,omitempty"`
	PrincipalTemplateID *string                   `json:"principal_template_id,omitempty"`
	KidsTemplateID      *string                   `json:"kids_template_id,omitempty"`
	Departments         []DepartmentResponse      `json:"departments,omitempty"`
	Volunteers          []EventVolunteerResponse  `json:"volunteers,omitempty"`
	CreatedAt           string                    `json:"created_at"`
	UpdatedAt           string                    `json:"updated_at"`
}

// EventVolunteerResponse 活动中一条志愿者排班
type EventVolunteerResponse struct {
	Volunteer  VolunteerBrief     `json:"volunteer"`
	Department DepartmentResponse `json:"department"`
	Present    bool               `json:"present"`
}

// ConflictInfo 冲突活动信息（随冲突错误返回，供用户定位）
type ConflictInfo struct {
	EventID   string `json:"event_id"`
	Name      string `json:"name"`
	EventDate string `json:"event_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// RescheduleConflictResponse 调整被冲突拒绝时的响应数据
// Revert 携带活动当前（调整前）坐标，前端据此立即还原视觉状态
type RescheduleConflictResponse struct {
	Conflict ConflictInfo           `json:"conflict"`
	Revert   RescheduleEventRequest `json:"revert"`
}

// DoubleBookingWarning 志愿者重复排班提醒（编辑期检查，非硬约束）
type DoubleBookingWarning struct {
	VolunteerID string       `json:"volunteer_id"`
	Event       ConflictInfo `json:"event"`
}

// AssignVolunteerResponse 添加志愿者响应（含可选重复排班提醒）
type AssignVolunteerResponse struct {
	Assigned bool                  `json:"assigned"`
	Warning  *DoubleBookingWarning `json:"warning,omitempty"`
}
