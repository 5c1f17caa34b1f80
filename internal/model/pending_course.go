package model

import "time"

// PendingCourse 待审批课程申请表 — 对应 pending_courses
// 与 PendingAccount 同样的晋升/删除生命周期
type PendingCourse struct {
	Code        string    `gorm:"type:varchar(20);primaryKey"        json:"code"`
	Title       string    `gorm:"type:varchar(255);not null"         json:"title"`
	RequestedBy string    `gorm:"type:varchar(20);not null"          json:"requested_by"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (PendingCourse) TableName() string { return "pending_courses" }
