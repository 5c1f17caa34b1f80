package model

// Course 课程表 — 对应 courses
type Course struct {
	Code        string `gorm:"type:varchar(20);primaryKey"  json:"code"`
	Title       string `gorm:"type:varchar(255);not null"   json:"title"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	BaseModel

	// 关联
	Sessions  []CourseSession `gorm:"foreignKey:CourseCode;references:Code" json:"timetable,omitempty"`
	Materials []Material      `gorm:"foreignKey:CourseCode;references:Code" json:"materials,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// CourseSession 课程时段表 — 对应 course_sessions
// weekday 采用 0-6（周日为 0），时间为 "HH:MM" 字符串
type CourseSession struct {
	SessionID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CourseCode string `gorm:"type:varchar(20);not null;index"                json:"code"`
	Weekday    int    `gorm:"type:smallint;not null"                         json:"weekday"`
	StartTime  string `gorm:"type:varchar(5);not null"                       json:"startTime"`
	EndTime    string `gorm:"type:varchar(5);not null"                       json:"endTime"`
	Room       string `gorm:"type:varchar(50);not null;default:''"           json:"room"`
	ClassNo    string `gorm:"type:varchar(10);not null;default:'01'"         json:"classNo"`
	Campus     string `gorm:"type:varchar(50);not null;default:''"           json:"campus"`
}

// TableName 指定表名
func (CourseSession) TableName() string { return "course_sessions" }
