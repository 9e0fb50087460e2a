package service

import (
	"go.uber.org/zap"

	"volunteer-dashboard/backend/config"
	"volunteer-dashboard/backend/internal/repository"
	"volunteer-dashboard/backend/pkg/jwt"
	"volunteer-dashboard/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Department DepartmentService
	Volunteer  VolunteerService
	Event      EventService
	Attendance AttendanceService
	Dashboard  DashboardService
	Export     ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（降级模式：黑名单校验跳过，仅影响登出即时生效）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	tokenMgr := NewAttendanceTokenManager(cfg.Auth.JWTSecret, cfg.Attendance.TokenTTL)

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Department: NewDepartmentService(repo, logger),
		Volunteer:  NewVolunteerService(repo, logger),
		Event:      NewEventService(cfg, repo, logger),
		Attendance: NewAttendanceService(cfg, repo, tokenMgr, logger),
		Dashboard:  NewDashboardService(cfg, repo, logger),
		Export:     NewExportService(cfg, repo, logger),
	}
}
