package dto

import "time"

// ── 管理端 DTO ──

// PendingAccountResponse 待审批账号
type PendingAccountResponse struct {
	SID       string    `json:"sid"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingCourseResponse 待审批课程
type PendingCourseResponse struct {
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	RequestedBy string    `json:"requested_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// GrantCreditsRequest 管理员发放积分
type GrantCreditsRequest struct {
	SID    string `json:"sid"    binding:"required"`
	Amount int    `json:"amount" binding:"required,min=1"`
}

// AdminUserResponse 用户管理列表项
type AdminUserResponse struct {
	SID       string    `json:"sid"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Credits   int       `json:"credits"`
	Major     string    `json:"major"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminStatsResponse 平台统计
type AdminStatsResponse struct {
	Users           int64 `json:"users"`
	PendingAccounts int64 `json:"pending_accounts"`
	Courses         int64 `json:"courses"`
	PendingCourses  int64 `json:"pending_courses"`
	GroupRequests   int64 `json:"group_requests"`
	Questionnaires  int64 `json:"questionnaires"`
	Materials       int64 `json:"materials"`
}
