package model

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultCredits 账号审批通过时的初始积分
const DefaultCredits = 3

// User 用户表 — 对应 users
// sid（学号）是自然主键，由审批流程从 PendingAccount 晋升而来
type User struct {
	SID          string      `gorm:"column:sid;type:varchar(20);primaryKey"       json:"sid"`
	Email        string      `gorm:"type:varchar(255);not null;uniqueIndex"       json:"email"`
	PasswordHash string      `gorm:"type:varchar(255);not null"                   json:"-"`
	Role         string      `gorm:"type:varchar(20);not null;default:'user'"     json:"role"`
	Credits      int         `gorm:"not null;default:3;check:credits >= 0"        json:"credits"`
	PhotoFileID  string      `gorm:"type:varchar(64);not null;default:''"         json:"photo_file_id,omitempty"`
	GPA          *float64    `gorm:"column:gpa;type:numeric(3,2)"                 json:"gpa,omitempty"`
	DSEScore     *string     `gorm:"column:dse_score;type:varchar(20)"            json:"dse_score,omitempty"`
	Phone        string      `gorm:"type:varchar(30);not null;default:''"         json:"phone"`
	Major        string      `gorm:"type:varchar(100);not null;default:''"        json:"major"`
	Skills       StringArray `gorm:"type:text[];not null;default:'{}'"            json:"skills"`
	YearOfStudy  int         `gorm:"type:smallint;not null;default:1"             json:"year_of_study"`
	AboutMe      string      `gorm:"type:text;not null;default:''"                json:"about_me"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
