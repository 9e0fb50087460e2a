package model

import "time"

// 活动状态常量
const (
	EventStatusPending   = "pending"
	EventStatusConfirmed = "confirmed"
	EventStatusCancelled = "cancelled"
)

// Event 活动表 — 对应 events
// EventDate 为日历日；StartTime/EndTime 为存储时区的墙钟时间（"15:04"）。
// 墙钟上 end < start 的活动表示跨午夜，实际结束时间在次日。
type Event struct {
	EventID             string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Name                string    `gorm:"type:varchar(200);not null"                     json:"name"`
	EventDate           time.Time `gorm:"type:date;not null"                             json:"event_date"`
	StartTime           string    `gorm:"type:time;not null"                             json:"start_time"`
	EndTime             string    `gorm:"type:time;not null"                             json:"end_time"`
	Location            string    `gorm:"type:varchar(200);not null;default:''"          json:"location,omitempty"`
	Status              string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Color               string    `gorm:"type:varchar(20);not null;default:''"           json:"color,omitempty"`
	Notes               string    `gorm:"type:text;not null;default:''"                  json:"notes,omitempty"`
	PrincipalTemplateID *string   `gorm:"type:uuid"                                      json:"principal_template_id,omitempty"` // 外部时间线渲染器使用
	KidsTemplateID      *string   `gorm:"type:uuid"                                      json:"kids_template_id,omitempty"`
	VersionedModel

	// 关联
	Departments []EventDepartment `gorm:"foreignKey:EventID" json:"departments,omitempty"`
	Volunteers  []EventVolunteer  `gorm:"foreignKey:EventID" json:"volunteers,omitempty"`
}

// TableName 指定表名
func (Event) TableName() string { return "events" }
