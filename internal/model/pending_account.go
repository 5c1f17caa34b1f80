package model

import "time"

// PendingAccount 待审批注册申请表 — 对应 pending_accounts
// 审批通过晋升为 User 并删除本记录；驳回直接删除
type PendingAccount struct {
	SID          string    `gorm:"column:sid;type:varchar(20);primaryKey"   json:"sid"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"   json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"               json:"-"`
	PhotoFileID  string    `gorm:"type:varchar(64);not null;default:''"     json:"photo_file_id"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"       json:"created_at"`
}

// TableName 指定表名
func (PendingAccount) TableName() string { return "pending_accounts" }
