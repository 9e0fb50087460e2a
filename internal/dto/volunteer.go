package dto

// ── 志愿者模块 DTO ──

// CreateVolunteerRequest 创建志愿者请求
type CreateVolunteerRequest struct {
	Name             string   `json:"name"              binding:"required,min=2,max=100"`
	Email            string   `json:"email"             binding:"omitempty,email"`
	Phone            string   `json:"phone"             binding:"omitempty,max=50"`
	Initials         string   `json:"initials"          binding:"omitempty,max=10"`
	Status           string   `json:"status"            binding:"omitempty,oneof=active inactive pending"`
	Skills           []string `json:"skills"            binding:"omitempty,dive,max=50"`
	AvailabilityDays []string `json:"availability_days" binding:"omitempty,dive,max=20"`
	UserID           *string  `json:"user_id"           binding:"omitempty,uuid"`
}

// UpdateVolunteerRequest 更新志愿者请求
type UpdateVolunteerRequest struct {
	Name             *string   `json:"name"              binding:"omitempty,min=2,max=100"`
	Email            *string   `json:"email"             binding:"omitempty,email"`
	Phone            *string   `json:"phone"             binding:"omitempty,max=50"`
	Initials         *string   `json:"initials"          binding:"omitempty,max=10"`
	Status           *string   `json:"status"            binding:"omitempty,oneof=active inactive pending"`
	Skills           *[]string `json:"skills"            binding:"omitempty,dive,max=50"`
	AvailabilityDays *[]string `json:"availability_days" binding:"omitempty,dive,max=20"`
	UserID           *string   `json:"user_id"           binding:"omitempty,uuid"`
}

// VolunteerListRequest 志愿者列表查询参数
type VolunteerListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=active inactive pending"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

// VolunteerResponse 志愿者详细信息响应
type VolunteerResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Initials         string   `json:"initials,omitempty"`
	Status           string   `json:"status"`
	Skills           []string `json:"skills,omitempty"`
	AvailabilityDays []string `json:"availability_days,omitempty"`
	UserID           *string  `json:"user_id,omitempty"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

// VolunteerListResponse 志愿者分页列表响应
type VolunteerListResponse struct {
	Items    []VolunteerResponse `json:"items"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

// VolunteerBrief 志愿者简要信息
type VolunteerBrief struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials,omitempty"`
}
