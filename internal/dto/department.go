package dto

// ── 部门模块 DTO ──

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name          string   `json:"name"           binding:"required,min=2,max=100"`
	LeaderName    string   `json:"leader_name"    binding:"omitempty,max=100"`
	LeaderContact string   `json:"leader_contact" binding:"omitempty,max=255"`
	Skills        []string `json:"skills"         binding:"omitempty,dive,max=50"`
	MeetingDays   []string `json:"meeting_days"   binding:"omitempty,dive,max=20"`
}

// UpdateDepartmentRequest 更新部门请求
type UpdateDepartmentRequest struct {
	Name          *string   `json:"name"           binding:"omitempty,min=2,max=100"`
	LeaderName    *string   `json:"leader_name"    binding:"omitempty,max=100"`
	LeaderContact *string   `json:"leader_contact" binding:"omitempty,max=255"`
	Skills        *[]string `json:"skills"         binding:"omitempty,dive,max=50"`
	MeetingDays   *[]string `json:"meeting_days"   binding:"omitempty,dive,max=20"`
	IsActive      *bool     `json:"is_active"`
}

// DepartmentListRequest 部门列表查询参数
type DepartmentListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// DepartmentDetailResponse 部门详细信息响应
type DepartmentDetailResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	LeaderName    string   `json:"leader_name,omitempty"`
	LeaderContact string   `json:"leader_contact,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	MeetingDays   []string `json:"meeting_days,omitempty"`
	IsActive      bool     `json:"is_active"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}
