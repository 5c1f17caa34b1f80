package model

import "time"

// TimetableSelection 用户已选课程时段表 — 对应 timetable_selections
// 保存即整表替换；冲突检测是派生数据，不落库
type TimetableSelection struct {
	SelectionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"               json:"selection_id"`
	SID         string    `gorm:"column:sid;type:varchar(20);not null;uniqueIndex:idx_timetable_selections_unique" json:"sid"`
	SessionID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_timetable_selections_unique" json:"session_id"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                           json:"created_at"`

	// 关联
	Session *CourseSession `gorm:"foreignKey:SessionID;references:SessionID" json:"session,omitempty"`
}

// TableName 指定表名
func (TimetableSelection) TableName() string { return "timetable_selections" }
