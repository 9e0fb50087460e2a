package model

// Department 部门表 — 对应 departments
type Department struct {
	DepartmentID  string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name          string      `gorm:"type:varchar(100);not null"                     json:"name"`
	LeaderName    string      `gorm:"type:varchar(100);not null;default:''"          json:"leader_name"`
	LeaderContact string      `gorm:"type:varchar(255);not null;default:''"          json:"leader_contact"`
	Skills        StringArray `gorm:"type:text[]"                                    json:"skills,omitempty"`
	MeetingDays   StringArray `gorm:"type:text[]"                                    json:"meeting_days,omitempty"`
	IsActive      bool        `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
