package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MyFGitAccount/platform-efs/internal/service"
	"github.com/MyFGitAccount/platform-efs/pkg/blobstore"
	"github.com/MyFGitAccount/platform-efs/pkg/response"
)

// UploadHandler 上传文件读取处理器（学生证照片等 GridFS 内容）
type UploadHandler struct {
	blobs service.BlobStore
}

// NewUploadHandler 创建 UploadHandler
func NewUploadHandler(blobs service.BlobStore) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

// Photo 按文件 ID 返回学生证照片
// GET /api/v1/uploads/photos/:fileID
func (h *UploadHandler) Photo(c *gin.Context) {
	data, err := h.blobs.Download(c.Request.Context(), c.Param("fileID"))
	if err != nil {
		if errors.Is(err, blobstore.ErrFileNotFound) {
			response.NotFound(c, 17003, "文件不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(data), data)
}
