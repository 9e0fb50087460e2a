package repository

import (
	"context"

	"gorm.io/gorm"

	"volunteer-dashboard/backend/internal/model"
	pkgerrors "volunteer-dashboard/backend/pkg/errors"
)

// VolunteerListFilters 志愿者列表过滤条件
type VolunteerListFilters struct {
	Status string
	Search string // 按姓名/邮箱模糊匹配
}

// VolunteerRepository 志愿者数据访问接口
type VolunteerRepository interface {
	Create(ctx context.Context, v *model.Volunteer) error
	GetByID(ctx context.Context, id string) (*model.Volunteer, error)
	ListWithFilters(ctx context.Context, filters *VolunteerListFilters, offset, limit int) ([]model.Volunteer, int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Volunteer, error)
	Update(ctx context.Context, v *model.Volunteer) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// volunteerRepo VolunteerRepository 的 GORM 实现
type volunteerRepo struct {
	db *gorm.DB
}

// NewVolunteerRepo 创建 VolunteerRepository 实例
func NewVolunteerRepo(db *gorm.DB) VolunteerRepository {
	return &volunteerRepo{db: db}
}

func (r *volunteerRepo) Create(ctx context.Context, v *model.Volunteer) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *volunteerRepo) GetByID(ctx context.Context, id string) (*model.Volunteer, error) {
	var v model.Volunteer
	err := r.db.WithContext(ctx).
		Where("volunteer_id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *volunteerRepo) ListWithFilters(ctx context.Context, filters *VolunteerListFilters, offset, limit int) ([]model.Volunteer, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Volunteer{})

	if filters != nil {
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.Search != "" {
			pattern := "%" + filters.Search + "%"
			db = db.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var volunteers []model.Volunteer
	err := db.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&volunteers).Error
	return volunteers, total, err
}

func (r *volunteerRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Volunteer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var volunteers []model.Volunteer
	err := r.db.WithContext(ctx).
		Where("volunteer_id IN ?", ids).
		Find(&volunteers).Error
	return volunteers, err
}

func (r *volunteerRepo) Update(ctx context.Context, v *model.Volunteer) error {
	oldVersion := v.Version
	result := r.db.WithContext(ctx).
		Model(v).
		Where("volunteer_id = ? AND version = ?", v.VolunteerID, oldVersion).
		Updates(map[string]interface{}{
			"name":              v.Name,
			"email":             v.Email,
			"phone":             v.Phone,
			"initials":          v.Initials,
			"status":            v.Status,
			"skills":            v.Skills,
			"availability_days": v.AvailabilityDays,
			"user_id":           v.UserID,
			"updated_by":        v.UpdatedBy,
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	v.Version = oldVersion + 1
	return nil
}

func (r *volunteerRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Volunteer{}).
		Where("volunteer_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
