package dto

import "time"

// ── 组队模块 DTO ──

// CreateGroupRequestRequest 发布组队请求
type CreateGroupRequestRequest struct {
	Major             string   `json:"major"              binding:"required,max=100"`
	Description       string   `json:"description"        binding:"omitempty,max=2000"`
	Email             string   `json:"email"              binding:"omitempty,email"`
	Phone             string   `json:"phone"              binding:"omitempty,max=30"`
	DesiredGroupmates string   `json:"desired_groupmates" binding:"omitempty,max=500"`
	GPA               *float64 `json:"gpa"                binding:"omitempty,min=0,max=4.3"`
	DSEScore          string   `json:"dse_score"          binding:"omitempty,max=20"`
}

// GroupRequestResponse 组队请求（公开列表不含联系方式）
type GroupRequestResponse struct {
	RequestID         string    `json:"request_id"`
	SID               string    `json:"sid"`
	Major             string    `json:"major"`
	Description       string    `json:"description"`
	DesiredGroupmates string    `json:"desired_groupmates"`
	GPA               *float64  `json:"gpa,omitempty"`
	DSEScore          string    `json:"dse_score,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// GroupContactResponse 联系方式（仅登录用户按需获取）
type GroupContactResponse struct {
	SID   string `json:"sid"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
