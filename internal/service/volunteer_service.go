package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"volunteer-dashboard/backend/internal/dto"
	"volunteer-dashboard/backend/internal/model"
	"volunteer-dashboard/backend/internal/repository"
)

// ── 志愿者模块业务错误 ──

var (
	ErrVolunteerNotFound = errors.New("志愿者不存在")
)

// VolunteerService 志愿者业务接口
type VolunteerService interface {
	Create(ctx context.Context, req *dto.CreateVolunteerRequest, callerID string) (*dto.VolunteerResponse, error)
	GetByID(ctx context.Context, id string) (*dto.VolunteerResponse, error)
	List(ctx context.Context, req *dto.VolunteerListRequest) (*dto.VolunteerListResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateVolunteerRequest, callerID string) (*dto.VolunteerResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type volunteerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewVolunteerService 创建 VolunteerService 实例
func NewVolunteerService(repo *repository.Repository, logger *zap.Logger) VolunteerService {
	return &volunteerService{repo: repo, logger: logger}
}

func (s *volunteerService) Create(ctx context.Context, req *dto.CreateVolunteerRequest, callerID string) (*dto.VolunteerResponse, error) {
	status := req.Status
	if status == "" {
		status = "active"
	}

	v := &model.Volunteer{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Initials:         req.Initials,
		Status:           status,
		Skills:           req.Skills,
		AvailabilityDays: req.AvailabilityDays,
		UserID:           req.UserID,
	}
	v.CreatedBy = &callerID
	v.UpdatedBy = &callerID

	if err := s.repo.Volunteer.Create(ctx, v); err != nil {
		s.logger.Error("创建志愿者失败", zap.Error(err))
		return nil, err
	}

	resp := toVolunteerResponse(v)
	return &resp, nil
}

func (s *volunteerService) GetByID(ctx context.Context, id string) (*dto.VolunteerResponse, error) {
	v, err := s.repo.Volunteer.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		s.logger.Error("查询志愿者失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toVolunteerResponse(v)
	return &resp, nil
}

func (s *volunteerService) List(ctx context.Context, req *dto.VolunteerListRequest) (*dto.VolunteerListResponse, error) {
	filters := &repository.VolunteerListFilters{
		Status: req.Status,
		Search: req.Search,
	}

	volunteers, total, err := s.repo.Volunteer.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出志愿者失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.VolunteerResponse, 0, len(volunteers))
	for i := range volunteers {
		items = append(items, toVolunteerResponse(&volunteers[i]))
	}

	return &dto.VolunteerListResponse{
		Items:    items,
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
	}, nil
}

func (s *volunteerService) Update(ctx context.Context, id string, req *dto.UpdateVolunteerRequest, callerID string) (*dto.VolunteerResponse, error) {
	v, err := s.repo.Volunteer.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		s.logger.Error("查询志愿者失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.Email != nil {
		v.Email = *req.Email
	}
	if req.Phone != nil {
		v.Phone = *req.Phone
	}
	if req.Initials != nil {
		v.Initials = *req.Initials
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.Skills != nil {
		v.Skills = *req.Skills
	}
	if req.AvailabilityDays != nil {
		v.AvailabilityDays = *req.AvailabilityDays
	}
	if req.UserID != nil {
		v.UserID = req.UserID
	}
	v.UpdatedBy = &callerID

	if err := s.repo.Volunteer.Update(ctx, v); err != nil {
		s.logger.Error("更新志愿者失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toVolunteerResponse(v)
	return &resp, nil
}

func (s *volunteerService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Volunteer.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVolunteerNotFound
		}
		s.logger.Error("查询志愿者失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Volunteer.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除志愿者失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助函数 ──

func toVolunteerResponse(v *model.Volunteer) dto.VolunteerResponse {
	return dto.VolunteerResponse{
		ID:               v.VolunteerID,
		Name:             v.Name,
		Email:            v.Email,
		Phone:            v.Phone,
		Initials:         v.Initials,
		Status:           v.Status,
		Skills:           v.Skills,
		AvailabilityDays: v.AvailabilityDays,
		UserID:           v.UserID,
		CreatedAt:        v.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        v.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
