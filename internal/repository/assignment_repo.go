package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"volunteer-dashboard/backend/internal/model"
)

// forUpdate SELECT ... FOR UPDATE 行锁
func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// EventDepartmentRepository 活动-部门关联数据访问接口
type EventDepartmentRepository interface {
	Create(ctx context.Context, ed *model.EventDepartment) error
	Get(ctx context.Context, eventID, departmentID string) (*model.EventDepartment, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.EventDepartment, error)
	// CountByDepartment 某部门参与的活动数（删除部门前的引用检查）
	CountByDepartment(ctx context.Context, departmentID string) (int64, error)
	Delete(ctx context.Context, eventID, departmentID string) error
}

// EventVolunteerRepository 活动-志愿者排班数据访问接口
type EventVolunteerRepository interface {
	Create(ctx context.Context, ev *model.EventVolunteer) error
	Get(ctx context.Context, eventID, volunteerID, departmentID string) (*model.EventVolunteer, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.EventVolunteer, error)
	ListByVolunteer(ctx context.Context, volunteerID string) ([]model.EventVolunteer, error)
	// ListByDepartmentAndDateRange 某部门在日期范围内的排班（年度出席统计用）
	ListByDepartmentAndDateRange(ctx context.Context, departmentID string, from, to time.Time) ([]model.EventVolunteer, error)
	Delete(ctx context.Context, eventID, volunteerID, departmentID string) error
	// ConfirmPresent 特权签到写入：事务内按复合键重新校验三元组后翻转 present。
	// present 只进不出：已为 true 时返回 alreadyPresent=true 且不报错（幂等）。
	// 这是唯一允许写 present 的代码路径。
	ConfirmPresent(ctx context.Context, eventID, volunteerID, departmentID string) (alreadyPresent bool, err error)
}

// ── EventDepartment Repository 实现 ──

type eventDepartmentRepo struct {
	db *gorm.DB
}

// NewEventDepartmentRepo 创建 EventDepartmentRepository 实例
func NewEventDepartmentRepo(db *gorm.DB) EventDepartmentRepository {
	return &eventDepartmentRepo{db: db}
}

func (r *eventDepartmentRepo) Create(ctx context.Context, ed *model.EventDepartment) error {
	return r.db.WithContext(ctx).Create(ed).Error
}

func (r *eventDepartmentRepo) Get(ctx context.Context, eventID, departmentID string) (*model.EventDepartment, error) {
	var ed model.EventDepartment
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND department_id = ?", eventID, departmentID).
		First(&ed).Error
	if err != nil {
		return nil, err
	}
	return &ed, nil
}

func (r *eventDepartmentRepo) ListByEvent(ctx context.Context, eventID string) ([]model.EventDepartment, error) {
	var list []model.EventDepartment
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("event_id = ?", eventID).
		Find(&list).Error
	return list, err
}

func (r *eventDepartmentRepo) CountByDepartment(ctx context.Context, departmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EventDepartment{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}

func (r *eventDepartmentRepo) Delete(ctx context.Context, eventID, departmentID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ? AND department_id = ?", eventID, departmentID).
		Delete(&model.EventDepartment{}).Error
}

// ── EventVolunteer Repository 实现 ──

type eventVolunteerRepo struct {
	db *gorm.DB
}

// NewEventVolunteerRepo 创建 EventVolunteerRepository 实例
func NewEventVolunteerRepo(db *gorm.DB) EventVolunteerRepository {
	return &eventVolunteerRepo{db: db}
}

func (r *eventVolunteerRepo) Create(ctx context.Context, ev *model.EventVolunteer) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *eventVolunteerRepo) Get(ctx context.Context, eventID, volunteerID, departmentID string) (*model.EventVolunteer, error) {
	var ev model.EventVolunteer
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND volunteer_id = ? AND department_id = ?", eventID, volunteerID, departmentID).
		First(&ev).Error
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventVolunteerRepo) ListByEvent(ctx context.Context, eventID string) ([]model.EventVolunteer, error) {
	var list []model.EventVolunteer
	err := r.db.WithContext(ctx).
		Preload("Volunteer").
		Preload("Department").
		Where("event_id = ?", eventID).
		Find(&list).Error
	return list, err
}

func (r *eventVolunteerRepo) ListByVolunteer(ctx context.Context, volunteerID string) ([]model.EventVolunteer, error) {
	var list []model.EventVolunteer
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("volunteer_id = ?", volunteerID).
		Find(&list).Error
	return list, err
}

func (r *eventVolunteerRepo) ListByDepartmentAndDateRange(ctx context.Context, departmentID string, from, to time.Time) ([]model.EventVolunteer, error) {
	var list []model.EventVolunteer
	err := r.db.WithContext(ctx).
		Joins("JOIN events ON events.event_id = event_volunteers.event_id AND events.deleted_at IS NULL").
		Where("event_volunteers.department_id = ?", departmentID).
		Where("events.event_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Find(&list).Error
	return list, err
}

func (r *eventVolunteerRepo) Delete(ctx context.Context, eventID, volunteerID, departmentID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ? AND volunteer_id = ? AND department_id = ?", eventID, volunteerID, departmentID).
		Delete(&model.EventVolunteer{}).Error
}

func (r *eventVolunteerRepo) ConfirmPresent(ctx context.Context, eventID, volunteerID, departmentID string) (bool, error) {
	var already bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 按复合键重新读取当前行，行锁防止并发重复翻转
		var ev model.EventVolunteer
		if err := tx.
			Clauses(forUpdate()).
			Where("event_id = ? AND volunteer_id = ? AND department_id = ?", eventID, volunteerID, departmentID).
			First(&ev).Error; err != nil {
			return err
		}

		if ev.Present {
			already = true
			return nil
		}

		return tx.Model(&model.EventVolunteer{}).
			Where("event_id = ? AND volunteer_id = ? AND department_id = ?", eventID, volunteerID, departmentID).
			Update("present", true).Error
	})
	return already, err
}
