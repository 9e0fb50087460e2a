package model

import "time"

// EventDepartment 活动-部门关联表 — 对应 event_departments
// (event_id, department_id) 唯一：声明某部门参与某活动
type EventDepartment struct {
	EventID      string    `gorm:"type:uuid;primaryKey" json:"event_id"`
	DepartmentID string    `gorm:"type:uuid;primaryKey" json:"department_id"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (EventDepartment) TableName() string { return "event_departments" }

// EventVolunteer 活动-志愿者排班表 — 对应 event_volunteers
// (event_id, volunteer_id, department_id) 唯一：志愿者以某部门身份参与某活动。
// 同一志愿者可在不同活动中以不同部门出现；Present 由签到确认翻转，只进不出。
type EventVolunteer struct {
	EventID      string    `gorm:"type:uuid;primaryKey" json:"event_id"`
	VolunteerID  string    `gorm:"type:uuid;primaryKey" json:"volunteer_id"`
	DepartmentID string    `gorm:"type:uuid;primaryKey" json:"department_id"`
	Present      bool      `gorm:"not null;default:false" json:"present"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Event      *Event      `gorm:"foreignKey:EventID;references:EventID"           json:"event,omitempty"`
	Volunteer  *Volunteer  `gorm:"foreignKey:VolunteerID;references:VolunteerID"   json:"volunteer,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (EventVolunteer) TableName() string { return "event_volunteers" }
