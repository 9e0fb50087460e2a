package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"volunteer-dashboard/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *mockRepos) {
	repo, m := newMockRepos()
	svc := NewExportService(testConfig(), repo, zap.NewNop())
	return svc, m
}

// ── ExportSchedule 测试 ──

func TestExportService_ExportSchedule_Success(t *testing.T) {
	svc, m := setupTestExportService()
	e := seedEvent(m, "e1", "周日礼拜", "2024-06-10", "09:00", "11:00")
	e.Volunteers = []model.EventVolunteer{
		{
			EventID: "e1", VolunteerID: "vol-1", DepartmentID: "dept-a", Present: true,
			Volunteer:  &model.Volunteer{VolunteerID: "vol-1", Name: "张三"},
			Department: &model.Department{DepartmentID: "dept-a", Name: "接待部"},
		},
	}

	buf, filename, err := svc.ExportSchedule(context.Background(), "2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("ExportSchedule 应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("导出内容不应为空")
	}
	if filename != "schedule_2024-06-01_2024-06-30.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}
}

func TestExportService_ExportSchedule_NoEvents(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportSchedule(context.Background(), "2024-06-01", "2024-06-30")
	if !errors.Is(err, ErrExportNoEvents) {
		t.Errorf("无活动应返回 ErrExportNoEvents，实际=%v", err)
	}
}

func TestExportService_ExportSchedule_InvalidRange(t *testing.T) {
	svc, _ := setupTestExportService()

	if _, _, err := svc.ExportSchedule(context.Background(), "bad-date", "2024-06-30"); !errors.Is(err, ErrExportInvalidRange) {
		t.Errorf("非法日期应拒绝，实际=%v", err)
	}
	if _, _, err := svc.ExportSchedule(context.Background(), "2024-06-30", "2024-06-01"); !errors.Is(err, ErrExportInvalidRange) {
		t.Errorf("倒置范围应拒绝，实际=%v", err)
	}
}

// ── ExportCalendar 测试 ──

func TestExportService_ExportCalendar_Success(t *testing.T) {
	svc, m := setupTestExportService()
	seedEvent(m, "e1", "周日礼拜", "2024-06-10", "09:00", "11:00")
	cancelled := seedEvent(m, "e2", "已取消活动", "2024-06-12", "19:00", "21:00")
	cancelled.Status = model.EventStatusCancelled

	text, err := svc.ExportCalendar(context.Background(), "2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("ExportCalendar 应成功: %v", err)
	}
	if !strings.Contains(text, "BEGIN:VCALENDAR") {
		t.Error("缺少 VCALENDAR 包裹")
	}
	if !strings.Contains(text, "SUMMARY:周日礼拜") {
		t.Error("缺少活动 SUMMARY")
	}
	if !strings.Contains(text, "STATUS:CANCELLED") {
		t.Error("已取消活动应标记 STATUS:CANCELLED")
	}
	if !strings.Contains(text, "e1@volunteer-dashboard") {
		t.Error("UID 应含活动 id")
	}
}

func TestExportService_ExportCalendar_SkipsMalformedTimes(t *testing.T) {
	svc, m := setupTestExportService()
	seedEvent(m, "e1", "正常活动", "2024-06-10", "09:00", "11:00")
	seedEvent(m, "bad", "脏数据", "2024-06-11", "not-a-time", "11:00")

	text, err := svc.ExportCalendar(context.Background(), "2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("脏数据应跳过而非失败: %v", err)
	}
	if !strings.Contains(text, "SUMMARY:正常活动") {
		t.Error("正常活动应导出")
	}
	if strings.Contains(text, "脏数据") {
		t.Error("脏数据活动应跳过")
	}
}
