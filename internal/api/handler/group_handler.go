package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/service"
	pkgerrors "github.com/MyFGitAccount/platform-efs/pkg/errors"
	"github.com/MyFGitAccount/platform-efs/pkg/response"
)

// GroupHandler 组队匹配模块 HTTP 处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// Create 发布组队请求（每人同时最多一条进行中）
// POST /api/v1/groups/requests
func (h *GroupHandler) Create(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	var req dto.CreateGroupRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.groupSvc.Create(c.Request.Context(), sid, &req)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateActiveRequest) {
			response.Conflict(c, 15001, "已存在进行中的组队请求")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11004, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// ListActive 进行中的组队请求列表（不含联系方式）
// GET /api/v1/groups/requests
func (h *GroupHandler) ListActive(c *gin.Context) {
	requests, err := h.groupSvc.ListActive(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, requests)
}

// GetMy 本人进行中的组队请求
// GET /api/v1/groups/requests/my
func (h *GroupHandler) GetMy(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	result, err := h.groupSvc.GetMy(c.Request.Context(), sid)
	if err != nil {
		if errors.Is(err, service.ErrGroupRequestNotFound) {
			response.NotFound(c, 15002, "组队请求不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Cancel 取消本人进行中的组队请求
// DELETE /api/v1/groups/requests/my
func (h *GroupHandler) Cancel(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	if err := h.groupSvc.Cancel(c.Request.Context(), sid); err != nil {
		if errors.Is(err, service.ErrGroupRequestNotFound) {
			response.NotFound(c, 15002, "组队请求不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Contact 按请求 ID 获取发布者联系方式
// GET /api/v1/groups/requests/:id/contact
func (h *GroupHandler) Contact(c *gin.Context) {
	contact, err := h.groupSvc.Contact(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrGroupRequestNotFound) {
			response.NotFound(c, 15002, "组队请求不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, contact)
}
