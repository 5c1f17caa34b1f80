package model

import "time"

// Material 课程资料表 — 对应 materials
// file_id 指向 GridFS 中的二进制内容
type Material struct {
	MaterialID  string    `gorm:"type:varchar(36);primaryKey"                       json:"id"`
	CourseCode  string    `gorm:"type:varchar(20);not null;index"                   json:"course_code"`
	Name        string    `gorm:"type:varchar(255);not null"                        json:"name"`
	Description string    `gorm:"type:text;not null;default:''"                     json:"description"`
	FileName    string    `gorm:"type:varchar(255);not null"                        json:"file_name"`
	FileID      string    `gorm:"type:varchar(64);not null"                         json:"file_id"`
	Size        int64     `gorm:"not null;default:0"                                json:"size"`
	Mimetype    string    `gorm:"type:varchar(100);not null;default:'application/octet-stream'" json:"mimetype"`
	UploadedBy  string    `gorm:"type:varchar(20);not null;index"                   json:"uploaded_by"`
	Downloads   int       `gorm:"not null;default:0"                                json:"downloads"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                json:"created_at"`
}

// TableName 指定表名
func (Material) TableName() string { return "materials" }
