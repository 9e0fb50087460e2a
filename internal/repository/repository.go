package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User            UserRepository
	Department      DepartmentRepository
	Volunteer       VolunteerRepository
	Event           EventRepository
	EventDepartment EventDepartmentRepository
	EventVolunteer  EventVolunteerRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:            NewUserRepo(db),
		Department:      NewDepartmentRepo(db),
		Volunteer:       NewVolunteerRepo(db),
		Event:           NewEventRepo(db),
		EventDepartment: NewEventDepartmentRepo(db),
		EventVolunteer:  NewEventVolunteerRepo(db),
	}
}
