package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/service"
	"github.com/MyFGitAccount/platform-efs/pkg/response"
)

// CourseHandler 课程目录模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// List 课程目录
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, courses)
}

// Get 单门课程详情（含时段与资料）
// GET /api/v1/courses/:code
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courseSvc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 13001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, course)
}

// Create 创建课程（管理员）
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCourseExists) {
			response.Conflict(c, 13002, "课程代码已存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, course)
}

// Update 更新课程（管理员，timetable 提交即整表替换）
// PUT /api/v1/courses/:code
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), c.Param("code"), &req)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 13001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, course)
}

// Delete 删除课程（管理员）
// DELETE /api/v1/courses/:code
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courseSvc.Delete(c.Request.Context(), c.Param("code")); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 13001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Request 申请开设课程（普通用户）
// POST /api/v1/courses/request
func (h *CourseHandler) Request(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	var req dto.RequestCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.courseSvc.Request(c.Request.Context(), sid, &req); err != nil {
		if errors.Is(err, service.ErrCourseExists) {
			response.Conflict(c, 13002, "课程代码已存在或正在审批中")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, gin.H{"status": "pending"})
}
