package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/service"
	"github.com/MyFGitAccount/platform-efs/pkg/response"
)

// AdminHandler 管理端 HTTP 处理器，所有路由要求 admin 角色
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// ── 账号审批 ──

// ListPendingAccounts 待审批账号列表
// GET /api/v1/admin/pending-accounts
func (h *AdminHandler) ListPendingAccounts(c *gin.Context) {
	list, err := h.adminSvc.ListPendingAccounts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ApproveAccount 通过账号审批（晋升为正式用户）
// POST /api/v1/admin/pending-accounts/:sid/approve
func (h *AdminHandler) ApproveAccount(c *gin.Context) {
	user, err := h.adminSvc.ApproveAccount(c.Request.Context(), c.Param("sid"))
	if err != nil {
		if errors.Is(err, service.ErrPendingAccountNotFound) {
			response.NotFound(c, 12001, "待审批账号不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, user)
}

// RejectAccount 驳回账号审批（删除记录与照片）
// POST /api/v1/admin/pending-accounts/:sid/reject
func (h *AdminHandler) RejectAccount(c *gin.Context) {
	if err := h.adminSvc.RejectAccount(c.Request.Context(), c.Param("sid")); err != nil {
		if errors.Is(err, service.ErrPendingAccountNotFound) {
			response.NotFound(c, 12001, "待审批账号不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ── 课程审批 ──

// ListPendingCourses 待审批课程列表
// GET /api/v1/admin/pending-courses
func (h *AdminHandler) ListPendingCourses(c *gin.Context) {
	list, err := h.adminSvc.ListPendingCourses(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ApproveCourse 通过课程申请（进入课程目录）
// POST /api/v1/admin/pending-courses/:code/approve
func (h *AdminHandler) ApproveCourse(c *gin.Context) {
	course, err := h.adminSvc.ApproveCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrPendingCourseNotFound) {
			response.NotFound(c, 12002, "待审批课程不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, course)
}

// RejectCourse 驳回课程申请
// POST /api/v1/admin/pending-courses/:code/reject
func (h *AdminHandler) RejectCourse(c *gin.Context) {
	if err := h.adminSvc.RejectCourse(c.Request.Context(), c.Param("code")); err != nil {
		if errors.Is(err, service.ErrPendingCourseNotFound) {
			response.NotFound(c, 12002, "待审批课程不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ── 用户管理 ──

// ListUsers 用户列表（分页）
// GET /api/v1/admin/users?offset=0&limit=20
func (h *AdminHandler) ListUsers(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, total, err := h.adminSvc.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{
		"users":  users,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

// DeleteUser 删除用户（不能删除管理员或当前登录账号）
// DELETE /api/v1/admin/users/:sid
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	operatorSID, ok := MustGetSID(c)
	if !ok {
		return
	}

	err := h.adminSvc.DeleteUser(c.Request.Context(), operatorSID, c.Param("sid"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 11004, "用户不存在")
		case errors.Is(err, service.ErrCannotModifyAdmin):
			response.Forbidden(c, 12003, "不能对管理员账号执行该操作")
		case errors.Is(err, service.ErrCannotDeleteSelf):
			response.Forbidden(c, 12004, "不能删除当前登录账号")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// GrantCredits 为用户补发积分
// POST /api/v1/admin/credits
func (h *AdminHandler) GrantCredits(c *gin.Context) {
	var req dto.GrantCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.adminSvc.GrantCredits(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 11004, "用户不存在")
		case errors.Is(err, service.ErrCannotModifyAdmin):
			response.Forbidden(c, 12003, "不能对管理员账号执行该操作")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, user)
}

// Stats 平台总量统计
// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}
