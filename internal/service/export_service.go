package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"volunteer-dashboard/backend/config"
	"volunteer-dashboard/backend/internal/model"
	"volunteer-dashboard/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEvents     = errors.New("该日期范围内无活动")
	ErrExportInvalidRange = errors.New("导出日期范围非法")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - Excel 导出面向线下排班核对：按日期排列活动与排班明细
//   - iCalendar 导出供志愿者订阅到个人日历，跨午夜活动按归一化后
//     的绝对时刻写入，时区随存储时区
//   - 均以内存生成返回，由 Handler 层设置响应头后写出
type ExportService interface {
	// ExportSchedule 导出日期范围内的活动排班为 Excel
	ExportSchedule(ctx context.Context, from, to string) (*bytes.Buffer, string, error)
	// ExportCalendar 导出日期范围内的活动为 iCalendar 文本
	ExportCalendar(ctx context.Context, from, to string) (string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSchedule — 导出活动排班为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "活动排班"
//   - 列：日期 | 活动 | 开始 | 结束 | 地点 | 状态 | 参与部门 | 志愿者 | 已出席
//   - 行：每活动一行，志愿者按「姓名(部门)」逗号拼接

func (s *exportService) ExportSchedule(ctx context.Context, from, to string) (*bytes.Buffer, string, error) {
	events, err := s.loadRange(ctx, from, to)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "活动排班"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"日期", "活动", "开始", "结束", "地点", "状态", "参与部门", "志愿者", "已出席"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, e := range events {
		present := 0
		var volunteers []string
		for _, ev := range e.Volunteers {
			if ev.Present {
				present++
			}
			if ev.Volunteer == nil {
				continue
			}
			name := ev.Volunteer.Name
			if ev.Department != nil {
				name += " (" + ev.Department.Name + ")"
			}
			volunteers = append(volunteers, name)
		}

		var departments []string
		for _, ed := range e.Departments {
			if ed.Department != nil {
				departments = append(departments, ed.Department.Name)
			}
		}

		values := []interface{}{
			e.EventDate.Format("2006-01-02"),
			e.Name,
			e.StartTime,
			e.EndTime,
			e.Location,
			e.Status,
			strings.Join(departments, ", "),
			strings.Join(volunteers, ", "),
			fmt.Sprintf("%d/%d", present, len(e.Volunteers)),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("schedule_%s_%s.xlsx", from, to)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar — 导出活动为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, from, to string) (string, error) {
	events, err := s.loadRange(ctx, from, to)
	if err != nil {
		return "", err
	}

	loc := s.cfg.Location()
	now := time.Now()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//volunteer-dashboard//calendar//EN")

	for i := range events {
		e := &events[i]

		iv, err := intervalFromEvent(e, loc)
		if err != nil {
			s.logger.Warn("活动时间数据异常，跳过日历导出",
				zap.String("event_id", e.EventID), zap.Error(err))
			continue
		}

		ve := cal.AddEvent(e.EventID + "@volunteer-dashboard")
		ve.SetDtStampTime(now)
		ve.SetStartAt(iv.Start)
		ve.SetEndAt(iv.End)
		ve.SetSummary(e.Name)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Notes != "" {
			ve.SetDescription(e.Notes)
		}
		if e.Status == model.EventStatusCancelled {
			ve.SetStatus(ics.ObjectStatusCancelled)
		}
	}

	return cal.Serialize(), nil
}

// ── 内部逻辑 ──

func (s *exportService) loadRange(ctx context.Context, from, to string) ([]model.Event, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, ErrExportInvalidRange
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, ErrExportInvalidRange
	}
	if toDate.Before(fromDate) {
		return nil, ErrExportInvalidRange
	}

	events, err := s.repo.Event.ListByDateRange(ctx, fromDate, toDate, "")
	if err != nil {
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrExportNoEvents
	}
	return events, nil
}
