package dto

import "time"

// ── 课程资料模块 DTO ──

// UploadMaterialRequest 上传课程资料请求（管理员，文件以 base64 传输）
type UploadMaterialRequest struct {
	CourseCode  string `json:"course_code" binding:"required,max=20"`
	Name        string `json:"name"        binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	FileName    string `json:"file_name"   binding:"required,max=255"`
	FileData    string `json:"file_data"   binding:"required"` // base64 编码内容
	Mimetype    string `json:"mimetype"    binding:"max=100"`
}

// MaterialResponse 资料元信息
type MaterialResponse struct {
	MaterialID  string    `json:"material_id"`
	CourseCode  string    `json:"course_code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FileName    string    `json:"file_name"`
	Size        int64     `json:"size"`
	Mimetype    string    `json:"mimetype"`
	Downloads   int64     `json:"downloads"`
	CreatedAt   time.Time `json:"created_at"`
}
