package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"volunteer-dashboard/backend/internal/model"
	pkgerrors "volunteer-dashboard/backend/pkg/errors"
)

// EventRepository 活动数据访问接口
// 冲突检查不缓存任何活动列表：每次校验都重新读取当前数据，
// 避免陈旧数据导致的漏检
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	// ListByDateRange 按日期范围读取（含两端）；from/to 零值表示不设界
	ListByDateRange(ctx context.Context, from, to time.Time, status string) ([]model.Event, error)
	// ListAroundDate 指定日期邻域内的活动（冲突检查用，含跨午夜延伸）
	ListAroundDate(ctx context.Context, date time.Time) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// eventRepo EventRepository 的 GORM 实现
type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Departments").Preload("Departments.Department").
		Preload("Volunteers").Preload("Volunteers.Volunteer").Preload("Volunteers.Department").
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListByDateRange(ctx context.Context, from, to time.Time, status string) ([]model.Event, error) {
	db := r.db.WithContext(ctx).
		Preload("Departments").Preload("Departments.Department").
		Preload("Volunteers").Preload("Volunteers.Volunteer").Preload("Volunteers.Department")

	if !from.IsZero() {
		db = db.Where("event_date >= ?", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		db = db.Where("event_date <= ?", to.Format("2006-01-02"))
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var events []model.Event
	err := db.Order("event_date ASC, start_time ASC").Find(&events).Error
	return events, err
}

func (r *eventRepo) ListAroundDate(ctx context.Context, date time.Time) ([]model.Event, error) {
	// 前一日跨午夜的活动会延伸进 date；date 当日跨午夜的候选会延伸进次日，
	// 可能与次日凌晨的活动重叠，因此范围取 [date-1, date+1]
	from := date.AddDate(0, 0, -1)
	to := date.AddDate(0, 0, 1)
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("event_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("event_date ASC, start_time ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	oldVersion := event.Version
	result := r.db.WithContext(ctx).
		Model(event).
		Where("event_id = ? AND version = ?", event.EventID, oldVersion).
		Updates(map[string]interface{}{
			"name":                  event.Name,
			"event_date":            event.EventDate,
			"start_time":            event.StartTime,
			"end_time":              event.EndTime,
			"location":              event.Location,
			"status":                event.Status,
			"color":                 event.Color,
			"notes":                 event.Notes,
			"principal_template_id": event.PrincipalTemplateID,
			"kids_template_id":      event.KidsTemplateID,
			"updated_by":            event.UpdatedBy,
			"version":               oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version = oldVersion + 1
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("event_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
