package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/service"
	"github.com/MyFGitAccount/platform-efs/pkg/response"
)

// MaterialHandler 课程资料模块 HTTP 处理器
type MaterialHandler struct {
	materialSvc service.MaterialService
}

// NewMaterialHandler 创建 MaterialHandler
func NewMaterialHandler(materialSvc service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialSvc: materialSvc}
}

// Upload 上传课程资料（管理员，JSON Base64 载荷）
// POST /api/v1/materials
func (h *MaterialHandler) Upload(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	var req dto.UploadMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.materialSvc.Upload(c.Request.Context(), sid, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 13001, "课程不存在")
		case errors.Is(err, service.ErrInvalidFileData):
			response.BadRequest(c, 17001, "文件数据无法解析")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ListByCourse 某门课程的资料列表
// GET /api/v1/courses/:code/materials
func (h *MaterialHandler) ListByCourse(c *gin.Context) {
	list, err := h.materialSvc.ListByCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 13001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// Download 下载课程资料（成功后下载计数 +1）
// GET /api/v1/materials/:id/download
func (h *MaterialHandler) Download(c *gin.Context) {
	// 先写入内存缓冲：响应头依赖元数据，且失败时还能返回 JSON 错误
	var buf bytes.Buffer
	material, err := h.materialSvc.Download(c.Request.Context(), c.Param("id"), &buf)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			response.NotFound(c, 17002, "课程资料不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, material.FileName))
	c.Data(http.StatusOK, material.Mimetype, buf.Bytes())
}

// Delete 删除课程资料（管理员）
// DELETE /api/v1/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.materialSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			response.NotFound(c, 17002, "课程资料不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
