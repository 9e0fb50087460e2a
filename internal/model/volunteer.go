package model

// Volunteer 志愿者表 — 对应 volunteers
// Status: active | inactive | pending
type Volunteer struct {
	VolunteerID      string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"volunteer_id"`
	Name             string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Email            string      `gorm:"type:varchar(255);not null;default:''"          json:"email,omitempty"`
	Phone            string      `gorm:"type:varchar(50);not null;default:''"           json:"phone,omitempty"`
	Initials         string      `gorm:"type:varchar(10);not null;default:''"           json:"initials,omitempty"`
	Status           string      `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	Skills           StringArray `gorm:"type:text[]"                                    json:"skills,omitempty"`
	AvailabilityDays StringArray `gorm:"type:text[]"                                    json:"availability_days,omitempty"`
	UserID           *string     `gorm:"type:uuid"                                      json:"user_id,omitempty"` // 可选绑定登录账号
	VersionedModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Volunteer) TableName() string { return "volunteers" }
