package dto

// ── 仪表盘模块 DTO ──

// DashboardRequest 仪表盘查询参数
// Today 可选，格式 2006-01-02；缺省为服务器当前日期（测试与回放用）
type DashboardRequest struct {
	Today string `form:"today" binding:"omitempty,datetime=2006-01-02"`
}

// DashboardStats 顶部统计卡片
type DashboardStats struct {
	TodayEvents      int  `json:"today_events"`
	TodayVolunteers  int  `json:"today_volunteers"`
	UpcomingEvents   int  `json:"upcoming_events"`
	Departments      int  `json:"departments"`                 // admin=活跃部门数；leader 恒为 1
	AnnualAttendance *int `json:"annual_attendance,omitempty"` // 仅 leader：年度出席次数
}

// DayBucket 单日聚合桶（稠密时间序列，缺失日补零）
type DayBucket struct {
	Date                string   `json:"date"`
	ScheduledVolunteers int      `json:"scheduled_volunteers"`
	InvolvedDepartments int      `json:"involved_departments"`
	EventNames          []string `json:"event_names,omitempty"` // 悬浮提示用
}

// DashboardEventBrief 今日/即将活动简要条目
type DashboardEventBrief struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EventDate  string `json:"event_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
	Volunteers int    `json:"volunteers"`
}

// DashboardResponse 仪表盘完整响应
type DashboardResponse struct {
	Stats          DashboardStats        `json:"stats"`
	Series         []DayBucket           `json:"series"` // 30 天趋势（含今日）
	TodayEvents    []DashboardEventBrief `json:"today_events"`
	UpcomingEvents []DashboardEventBrief `json:"upcoming_events"`
}
