package handler

import (
	"volunteer-dashboard/backend/config"
	"volunteer-dashboard/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Department *DepartmentHandler
	Volunteer  *VolunteerHandler
	Event      *EventHandler
	Attendance *AttendanceHandler
	Dashboard  *DashboardHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Department: NewDepartmentHandler(svc.Department),
		Volunteer:  NewVolunteerHandler(svc.Volunteer),
		Event:      NewEventHandler(svc.Event),
		Attendance: NewAttendanceHandler(&cfg.Attendance, svc.Attendance),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		Export:     NewExportHandler(svc.Export),
	}
}
