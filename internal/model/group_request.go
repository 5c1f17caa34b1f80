package model

// 组队请求状态
const (
	GroupRequestActive    = "active"
	GroupRequestCancelled = "cancelled"
)

// GroupRequest 组队请求表 — 对应 group_requests
// 部分唯一索引保证同一学号只有一条 active 请求
type GroupRequest struct {
	RequestID         string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	SID               string      `gorm:"column:sid;type:varchar(20);not null"           json:"sid"`
	Description       string      `gorm:"type:text;not null;default:''"                  json:"description"`
	Email             string      `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	Phone             string      `gorm:"type:varchar(30);not null;default:''"           json:"phone"`
	Major             string      `gorm:"type:varchar(100);not null"                     json:"major"`
	DesiredGroupmates string      `gorm:"type:text;not null;default:''"                  json:"desired_groupmates"`
	GPA               *float64    `gorm:"column:gpa;type:numeric(3,2)"                   json:"gpa,omitempty"`
	DSEScore          string      `gorm:"column:dse_score;type:varchar(20);not null;default:''" json:"dse_score"`
	Status            string      `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	BaseModel
}

// TableName 指定表名
func (GroupRequest) TableName() string { return "group_requests" }
