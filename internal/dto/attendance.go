package dto

// ── 签到模块 DTO ──

// IssueAttendanceTokenRequest 志愿者设备申请签到码
type IssueAttendanceTokenRequest struct {
	VolunteerID  string `json:"volunteer_id"  binding:"required,uuid"`
	EventID      string `json:"event_id"      binding:"required,uuid"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

// IssueAttendanceTokenResponse 签到码响应（前端渲染为二维码）
type IssueAttendanceTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // 秒
}

// ConfirmAttendanceRequest 扫码端提交签到确认
// EventID 为扫码会话当前对准的活动，用于拒绝上一场次残留的签到码
type ConfirmAttendanceRequest struct {
	Token   string `json:"token"    binding:"required"`
	EventID string `json:"event_id" binding:"required,uuid"`
}

// ConfirmAttendanceResponse 签到确认成功响应
type ConfirmAttendanceResponse struct {
	VolunteerID    string `json:"volunteer_id"`
	VolunteerName  string `json:"volunteer_name"`
	EventID        string `json:"event_id"`
	DepartmentID   string `json:"department_id"`
	AlreadyPresent bool   `json:"already_present"` // 重复确认（幂等命中）
	DisplayMillis  int    `json:"display_millis"`  // 建议的成功横幅展示时长
}
