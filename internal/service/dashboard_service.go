package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"volunteer-dashboard/backend/config"
	"volunteer-dashboard/backend/internal/dto"
	"volunteer-dashboard/backend/internal/model"
	"volunteer-dashboard/backend/internal/repository"
	"volunteer-dashboard/backend/pkg/jwt"
)

// ── 可见范围 ──

// ScopeFilter 聚合可见范围
// DepartmentID 为空表示全局（admin）；非空表示只统计该部门的排班
type ScopeFilter struct {
	DepartmentID string
}

// Global 是否全局范围
func (f ScopeFilter) Global() bool { return f.DepartmentID == "" }

// ScopeFromClaims 按角色推导可见范围：admin 全局，leader 绑定本部门
func ScopeFromClaims(claims *jwt.Claims) ScopeFilter {
	if claims.Role == jwt.RoleAdmin {
		return ScopeFilter{}
	}
	return ScopeFilter{DepartmentID: claims.DepartmentID}
}

// DashboardService 仪表盘业务接口
type DashboardService interface {
	Build(ctx context.Context, req *dto.DashboardRequest, claims *jwt.Claims) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Build ──────────────────────
//
// 统计口径：
//   - 今日活动/志愿者：今天（存储时区日历日）在范围内的活动及其排班数
//   - 即将活动：今天之后 7 天内（不含今天，含第 7 天）
//   - 趋势序列：今天往前 30 天（含今天），稠密补零
//   - 部门卡片：admin = 活跃部门数；leader 恒为 1
//   - 年度出席：仅 leader，本部门当年 1 月 1 日至今 present=true 的排班数
//   - 已取消活动不进入任何统计

const (
	seriesDays   = 30
	upcomingDays = 7
)

func (s *dashboardService) Build(ctx context.Context, req *dto.DashboardRequest, claims *jwt.Claims) (*dto.DashboardResponse, error) {
	loc := s.cfg.Location()
	scope := ScopeFromClaims(claims)

	today, err := s.resolveToday(req, loc)
	if err != nil {
		return nil, err
	}

	// 一次取齐两个窗口：序列往回 30 天，即将往前 7 天
	seriesStart := today.AddDate(0, 0, -(seriesDays - 1))
	events, err := s.repo.Event.ListByDateRange(ctx, seriesStart, today.AddDate(0, 0, upcomingDays), "")
	if err != nil {
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, err
	}

	// 稠密 trailing 30 天桶（末桶为今天）：缺失日补零
	series := make([]dto.DayBucket, seriesDays)
	bucketIndex := make(map[string]int, seriesDays)
	deptSets := make([]map[string]bool, seriesDays)
	for i := 0; i < seriesDays; i++ {
		day := seriesStart.AddDate(0, 0, i).Format("2006-01-02")
		series[i] = dto.DayBucket{Date: day}
		bucketIndex[day] = i
		deptSets[i] = make(map[string]bool)
	}

	todayKey := today.Format("2006-01-02")
	upcomingEnd := today.AddDate(0, 0, upcomingDays).Format("2006-01-02")

	stats := dto.DashboardStats{}
	var todayBriefs, upcomingBriefs []dto.DashboardEventBrief

	for i := range events {
		e := &events[i]
		if e.Status == model.EventStatusCancelled {
			continue
		}
		if !eventInScope(e, scope) {
			continue
		}

		day := e.EventDate.Format("2006-01-02")
		volunteers := scopedVolunteerCount(e, scope)

		if idx, ok := bucketIndex[day]; ok {
			series[idx].ScheduledVolunteers += volunteers
			series[idx].EventNames = append(series[idx].EventNames, e.Name)
			for _, ed := range e.Departments {
				if scope.Global() || ed.DepartmentID == scope.DepartmentID {
					deptSets[idx][ed.DepartmentID] = true
				}
			}
		}

		brief := dto.DashboardEventBrief{
			ID:         e.EventID,
			Name:       e.Name,
			EventDate:  day,
			StartTime:  e.StartTime,
			EndTime:    e.EndTime,
			Status:     e.Status,
			Volunteers: volunteers,
		}

		switch {
		case day == todayKey:
			stats.TodayEvents++
			stats.TodayVolunteers += volunteers
			todayBriefs = append(todayBriefs, brief)
		case day > todayKey && day <= upcomingEnd:
			// 第 7 天含端点；序列窗口内的历史活动不算即将
			stats.UpcomingEvents++
			upcomingBriefs = append(upcomingBriefs, brief)
		}
	}

	for i := range series {
		series[i].InvolvedDepartments = len(deptSets[i])
	}

	if err := s.fillScopeStats(ctx, &stats, scope, today, loc); err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Stats:          stats,
		Series:         series,
		TodayEvents:    todayBriefs,
		UpcomingEvents: upcomingBriefs,
	}, nil
}

// ── 内部逻辑 ──

func (s *dashboardService) resolveToday(req *dto.DashboardRequest, loc *time.Location) (time.Time, error) {
	if req.Today != "" {
		return time.ParseInLocation("2006-01-02", req.Today, loc)
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
}

// fillScopeStats 部门卡片与年度出席统计
func (s *dashboardService) fillScopeStats(ctx context.Context, stats *dto.DashboardStats, scope ScopeFilter, today time.Time, loc *time.Location) error {
	if scope.Global() {
		count, err := s.repo.Department.CountActive(ctx)
		if err != nil {
			s.logger.Error("统计活跃部门失败", zap.Error(err))
			return err
		}
		stats.Departments = int(count)
		return nil
	}

	// leader 视角固定为本部门
	stats.Departments = 1

	yearStart := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, loc)
	rows, err := s.repo.EventVolunteer.ListByDepartmentAndDateRange(ctx, scope.DepartmentID, yearStart, today)
	if err != nil {
		s.logger.Error("统计年度出席失败", zap.Error(err))
		return err
	}

	annual := 0
	for _, row := range rows {
		if row.Present {
			annual++
		}
	}
	stats.AnnualAttendance = &annual
	return nil
}

// eventInScope 活动是否落在可见范围内
// 范围判定看排班归属：部门参与了活动，或有以该部门身份排班的志愿者
func eventInScope(e *model.Event, scope ScopeFilter) bool {
	if scope.Global() {
		return true
	}
	for _, ed := range e.Departments {
		if ed.DepartmentID == scope.DepartmentID {
			return true
		}
	}
	for _, ev := range e.Volunteers {
		if ev.DepartmentID == scope.DepartmentID {
			return true
		}
	}
	return false
}

// scopedVolunteerCount 范围内的排班志愿者数
func scopedVolunteerCount(e *model.Event, scope ScopeFilter) int {
	if scope.Global() {
		return len(e.Volunteers)
	}
	count := 0
	for _, ev := range e.Volunteers {
		if ev.DepartmentID == scope.DepartmentID {
			count++
		}
	}
	return count
}
