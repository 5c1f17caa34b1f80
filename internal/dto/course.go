package dto

import "time"

// ── 课程模块 DTO ──

// SessionInput 课程时段输入
type SessionInput struct {
	Weekday   int    `json:"weekday"   binding:"min=0,max=6"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime"   binding:"required"`
	Room      string `json:"room"      binding:"omitempty,max=50"`
	ClassNo   string `json:"classNo"   binding:"omitempty,max=10"`
	Campus    string `json:"campus"    binding:"omitempty,max=50"`
}

// CreateCourseRequest 创建课程请求（管理员）
type CreateCourseRequest struct {
	Code        string         `json:"code"        binding:"required,max=20"`
	Title       string         `json:"title"       binding:"required,max=255"`
	Description string         `json:"description" binding:"omitempty,max=5000"`
	Timetable   []SessionInput `json:"timetable"   binding:"omitempty,dive"`
}

// UpdateCourseRequest 更新课程请求（管理员）
// Timetable 提交即整表替换
type UpdateCourseRequest struct {
	Title       *string        `json:"title"       binding:"omitempty,max=255"`
	Description *string        `json:"description" binding:"omitempty,max=5000"`
	Timetable   []SessionInput `json:"timetable"   binding:"omitempty,dive"`
}

// RequestCourseRequest 申请开设课程请求（普通用户）
type RequestCourseRequest struct {
	Code  string `json:"code"  binding:"required,max=20"`
	Title string `json:"title" binding:"required,max=255"`
}

// SessionResponse 课程时段
type SessionResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Room      string `json:"room"`
	ClassNo   string `json:"classNo"`
	Campus    string `json:"campus"`
}

// CourseResponse 课程详情
type CourseResponse struct {
	Code        string             `json:"code"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Timetable   []SessionResponse  `json:"timetable"`
	Materials   []MaterialResponse `json:"materials,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}
