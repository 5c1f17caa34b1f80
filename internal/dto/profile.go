package dto

import "time"

// ── 个人资料模块 DTO ──

// ProfileResponse 个人资料
type ProfileResponse struct {
	SID         string    `json:"sid"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Credits     int       `json:"credits"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	GPA         *float64  `json:"gpa,omitempty"`
	DSEScore    *string   `json:"dse_score,omitempty"`
	Phone       string    `json:"phone"`
	Major       string    `json:"major"`
	Skills      []string  `json:"skills"`
	YearOfStudy int       `json:"year_of_study"`
	AboutMe     string    `json:"about_me"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpdateProfileRequest 更新个人资料请求（全部可选）
type UpdateProfileRequest struct {
	GPA         *float64 `json:"gpa"           binding:"omitempty,min=0,max=4.3"`
	DSEScore    *string  `json:"dse_score"     binding:"omitempty,max=20"`
	Phone       *string  `json:"phone"         binding:"omitempty,max=30"`
	Major       *string  `json:"major"         binding:"omitempty,max=100"`
	Skills      []string `json:"skills"        binding:"omitempty,max=20"`
	YearOfStudy *int     `json:"year_of_study" binding:"omitempty,min=1,max=8"`
	AboutMe     *string  `json:"about_me"      binding:"omitempty,max=2000"`
}
