package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册申请（附 Base64 学生证照片）
type RegisterRequest struct {
	SID       string `json:"sid"        binding:"required,max=20"`
	Email     string `json:"email"      binding:"required,email"`
	Password  string `json:"password"   binding:"required,min=8,max=64"`
	PhotoData string `json:"photo_data" binding:"required"` // Base64，可带 data: 前缀
	FileName  string `json:"file_name"  binding:"omitempty,max=255"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	SID      string `json:"sid"      binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 换发 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse 登录响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// UserResponse 用户概要信息
type UserResponse struct {
	SID     string `json:"sid"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Credits int    `json:"credits"`
}
