package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"volunteer-dashboard/backend/config"
	"volunteer-dashboard/backend/internal/dto"
	"volunteer-dashboard/backend/internal/model"
	"volunteer-dashboard/backend/internal/repository"
)

// ── 活动模块业务错误 ──

var (
	ErrEventNotFound            = errors.New("活动不存在")
	ErrInvalidEventTime         = errors.New("活动时间非法")
	ErrDepartmentNotAssigned    = errors.New("该部门未参与此活动")
	ErrDepartmentAlreadyInEvent = errors.New("该部门已参与此活动")
	ErrVolunteerAlreadyAssigned = errors.New("志愿者已在该活动该部门排班")
	ErrAssignmentNotFound       = errors.New("排班记录不存在")
)

// ConflictError 活动时间冲突
// 写入被拒绝时携带冲突活动详情；调整（拖拽/缩放）场景额外携带
// 活动调整前的坐标，供前端立即还原视觉状态
type ConflictError struct {
	Conflict dto.ConflictInfo
	Revert   *dto.RescheduleEventRequest
}

func (e *ConflictError) Error() string {
	return "活动时间冲突: " + e.Conflict.Name
}

// EventService 活动业务接口
// 所有涉及时间的写入（创建/更新/调整）先过冲突检查，冲突即拒绝；
// 检查每次重新读取邻域活动，不做缓存
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error)
	// Reschedule 日历拖拽/缩放提交的时间调整；冲突时返回 *ConflictError（含还原坐标）
	Reschedule(ctx context.Context, id string, req *dto.RescheduleEventRequest, callerID string) (*dto.EventResponse, error)
	Delete(ctx context.Context, id string, callerID string) error

	AssignDepartment(ctx context.Context, eventID string, req *dto.AssignDepartmentRequest) error
	UnassignDepartment(ctx context.Context, eventID, departmentID string) error
	// AssignVolunteer 添加排班；若志愿者同时段已排在其他活动，附带提醒但不拒绝
	AssignVolunteer(ctx context.Context, eventID string, req *dto.AssignVolunteerRequest) (*dto.AssignVolunteerResponse, error)
	UnassignVolunteer(ctx context.Context, eventID, volunteerID, departmentID string) error
}

type eventService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*dto.EventResponse, error) {
	date, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, ErrInvalidEventTime
	}

	if err := s.checkConflict(ctx, date, req.StartTime, req.EndTime, "", nil); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.EventStatusPending
	}

	event := &model.Event{
		Name:                req.Name,
		EventDate:           date,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Location:            req.Location,
		Status:              status,
		Color:               req.Color,
		Notes:               req.Notes,
		PrincipalTemplateID: req.PrincipalTemplateID,
		KidsTemplateID:      req.KidsTemplateID,
	}
	event.CreatedBy = &callerID
	event.UpdatedBy = &callerID

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("创建活动失败", zap.Error(err))
		return nil, err
	}

	resp := toEventResponse(event)
	return &resp, nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *eventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, error) {
	var from, to time.Time
	if req.From != "" {
		from, _ = time.Parse("2006-01-02", req.From)
	}
	if req.To != "" {
		to, _ = time.Parse("2006-01-02", req.To)
	}

	events, err := s.repo.Event.ListByDateRange(ctx, from, to, req.Status)
	if err != nil {
		s.logger.Error("列出活动失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, toEventResponse(&events[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error) {
	event, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	// 计算更新后的时间坐标；任一坐标变化即重新过冲突检查
	newDate := event.EventDate
	newStart := event.StartTime
	newEnd := event.EndTime
	timeChanged := false

	if req.EventDate != nil {
		d, err := time.Parse("2006-01-02", *req.EventDate)
		if err != nil {
			return nil, ErrInvalidEventTime
		}
		if !d.Equal(newDate) {
			newDate = d
			timeChanged = true
		}
	}
	if req.StartTime != nil && *req.StartTime != newStart {
		newStart = *req.StartTime
		timeChanged = true
	}
	if req.EndTime != nil && *req.EndTime != newEnd {
		newEnd = *req.EndTime
		timeChanged = true
	}

	if timeChanged {
		if err := s.checkConflict(ctx, newDate, newStart, newEnd, event.EventID, nil); err != nil {
			return nil, err
		}
	}

	event.EventDate = newDate
	event.StartTime = newStart
	event.EndTime = newEnd
	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
	if req.Color != nil {
		event.Color = *req.Color
	}
	if req.Notes != nil {
		event.Notes = *req.Notes
	}
	if req.PrincipalTemplateID != nil {
		event.PrincipalTemplateID = req.PrincipalTemplateID
	}
	if req.KidsTemplateID != nil {
		event.KidsTemplateID = req.KidsTemplateID
	}
	event.UpdatedBy = &callerID

	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("更新活动失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toEventResponse(event)
	return &resp, nil
}

// ────────────────────── Reschedule ──────────────────────

func (s *eventService) Reschedule(ctx context.Context, id string, req *dto.RescheduleEventRequest, callerID string) (*dto.EventResponse, error) {
	event, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	// 调整前坐标：冲突被拒时前端据此还原
	revert := dto.RescheduleEventRequest{
		EventDate: event.EventDate.Format("2006-01-02"),
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
	}

	date, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, ErrInvalidEventTime
	}

	if err := s.checkConflict(ctx, date, req.StartTime, req.EndTime, event.EventID, &revert); err != nil {
		return nil, err
	}

	event.EventDate = date
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.UpdatedBy = &callerID

	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("调整活动时间失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toEventResponse(event)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.loadEvent(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Event.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除活动失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 部门/志愿者排班 ──────────────────────

func (s *eventService) AssignDepartment(ctx context.Context, eventID string, req *dto.AssignDepartmentRequest) error {
	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return err
	}
	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return err
	}

	if _, err := s.repo.EventDepartment.Get(ctx, eventID, req.DepartmentID); err == nil {
		return ErrDepartmentAlreadyInEvent
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询活动部门关联失败", zap.Error(err))
		return err
	}

	ed := &model.EventDepartment{EventID: eventID, DepartmentID: req.DepartmentID}
	if err := s.repo.EventDepartment.Create(ctx, ed); err != nil {
		s.logger.Error("活动添加部门失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *eventService) UnassignDepartment(ctx context.Context, eventID, departmentID string) error {
	if _, err := s.repo.EventDepartment.Get(ctx, eventID, departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotAssigned
		}
		s.logger.Error("查询活动部门关联失败", zap.Error(err))
		return err
	}
	return s.repo.EventDepartment.Delete(ctx, eventID, departmentID)
}

func (s *eventService) AssignVolunteer(ctx context.Context, eventID string, req *dto.AssignVolunteerRequest) (*dto.AssignVolunteerResponse, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// 志愿者只能排进已参与该活动的部门
	if _, err := s.repo.EventDepartment.Get(ctx, eventID, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotAssigned
		}
		s.logger.Error("查询活动部门关联失败", zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.Volunteer.GetByID(ctx, req.VolunteerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		s.logger.Error("查询志愿者失败", zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.EventVolunteer.Get(ctx, eventID, req.VolunteerID, req.DepartmentID); err == nil {
		return nil, ErrVolunteerAlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询排班失败", zap.Error(err))
		return nil, err
	}

	ev := &model.EventVolunteer{
		EventID:      eventID,
		VolunteerID:  req.VolunteerID,
		DepartmentID: req.DepartmentID,
	}
	if err := s.repo.EventVolunteer.Create(ctx, ev); err != nil {
		s.logger.Error("活动添加志愿者失败", zap.Error(err))
		return nil, err
	}

	// 编辑期重复排班检查：提醒编辑者，但不阻止排班
	warning := s.doubleBookingWarning(ctx, event, req.VolunteerID)

	return &dto.AssignVolunteerResponse{Assigned: true, Warning: warning}, nil
}

func (s *eventService) UnassignVolunteer(ctx context.Context, eventID, volunteerID, departmentID string) error {
	if _, err := s.repo.EventVolunteer.Get(ctx, eventID, volunteerID, departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("查询排班失败", zap.Error(err))
		return err
	}
	return s.repo.EventVolunteer.Delete(ctx, eventID, volunteerID, departmentID)
}

// ── 内部逻辑 ──

func (s *eventService) loadEvent(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

// checkConflict 候选时间坐标的冲突检查
// revert 非空时冲突错误携带还原坐标（调整场景）
func (s *eventService) checkConflict(ctx context.Context, date time.Time, startTime, endTime, excludeEventID string, revert *dto.RescheduleEventRequest) error {
	loc := s.cfg.Location()

	candidate, err := normalizeInterval(date, startTime, endTime, loc)
	if err != nil {
		return ErrInvalidEventTime
	}

	existing, err := s.repo.Event.ListAroundDate(ctx, date)
	if err != nil {
		s.logger.Error("查询邻域活动失败", zap.Error(err))
		return err
	}

	hit := findConflict(candidate, existing, excludeEventID, loc, s.logger)
	if hit == nil {
		return nil
	}

	return &ConflictError{
		Conflict: toConflictInfo(hit),
		Revert:   revert,
	}
}

// doubleBookingWarning 志愿者跨活动重复排班检查（提醒性质）
// 检查失败只记日志，不影响排班结果
func (s *eventService) doubleBookingWarning(ctx context.Context, event *model.Event, volunteerID string) *dto.DoubleBookingWarning {
	loc := s.cfg.Location()

	candidate, err := intervalFromEvent(event, loc)
	if err != nil {
		s.logger.Warn("活动时间数据异常，跳过重复排班检查",
			zap.String("event_id", event.EventID), zap.Error(err))
		return nil
	}

	rows, err := s.repo.EventVolunteer.ListByVolunteer(ctx, volunteerID)
	if err != nil {
		s.logger.Warn("查询志愿者排班失败，跳过重复排班检查",
			zap.String("volunteer_id", volunteerID), zap.Error(err))
		return nil
	}

	others := make([]model.Event, 0, len(rows))
	for _, row := range rows {
		if row.EventID == event.EventID || row.Event == nil {
			continue
		}
		others = append(others, *row.Event)
	}

	hit := findConflict(candidate, others, event.EventID, loc, s.logger)
	if hit == nil {
		return nil
	}

	return &dto.DoubleBookingWarning{
		VolunteerID: volunteerID,
		Event:       toConflictInfo(hit),
	}
}

// ── 辅助函数 ──

func toConflictInfo(e *model.Event) dto.ConflictInfo {
	return dto.ConflictInfo{
		EventID:   e.EventID,
		Name:      e.Name,
		EventDate: e.EventDate.Format("2006-01-02"),
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
	}
}

func toEventResponse(e *model.Event) dto.EventResponse {
	resp := dto.EventResponse{
		ID:                  e.EventID,
		Name:                e.Name,
		EventDate:           e.EventDate.Format("2006-01-02"),
		StartTime:           e.StartTime,
		EndTime:             e.EndTime,
		Location:            e.Location,
		Status:              e.Status,
		Color:               e.Color,
		Notes:               e.Notes,
		PrincipalTemplateID: e.PrincipalTemplateID,
		KidsTemplateID:      e.KidsTemplateID,
		CreatedAt:           e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:           e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	for _, ed := range e.Departments {
		if ed.Department == nil {
			continue
		}
		resp.Departments = append(resp.Departments, dto.DepartmentResponse{
			ID:   ed.Department.DepartmentID,
			Name: ed.Department.Name,
		})
	}

	for _, ev := range e.Volunteers {
		item := dto.EventVolunteerResponse{Present: ev.Present}
		if ev.Volunteer != nil {
			item.Volunteer = dto.VolunteerBrief{
				ID:       ev.Volunteer.VolunteerID,
				Name:     ev.Volunteer.Name,
				Initials: ev.Volunteer.Initials,
			}
		}
		if ev.Department != nil {
			item.Department = dto.DepartmentResponse{
				ID:   ev.Department.DepartmentID,
				Name: ev.Department.Name,
			}
		}
		resp.Volunteers = append(resp.Volunteers, item)
	}

	return resp
}
