package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/service"
	"github.com/MyFGitAccount/platform-efs/pkg/response"
)

// CalendarHandler 时间表规划模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ListSessions 全量课程时段（选课界面数据源）
// GET /api/v1/calendar/courses
func (h *CalendarHandler) ListSessions(c *gin.Context) {
	sessions, err := h.calendarSvc.ListSessions(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, sessions)
}

// Save 保存个人时间表（整表替换，返回冲突报告）
// PUT /api/v1/calendar/my
func (h *CalendarHandler) Save(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	var req dto.SaveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.calendarSvc.Save(c.Request.Context(), sid, &req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownSession) {
			response.BadRequest(c, 14001, "存在无效的课程时段 ID")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// GetMy 个人时间表（含冲突报告）
// GET /api/v1/calendar/my
func (h *CalendarHandler) GetMy(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	result, err := h.calendarSvc.GetMy(c.Request.Context(), sid)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ExportExcel 导出个人时间表为 Excel
// GET /api/v1/calendar/my/export/excel
func (h *CalendarHandler) ExportExcel(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	buf, filename, err := h.calendarSvc.ExportExcel(c.Request.Context(), sid)
	if err != nil {
		if errors.Is(err, service.ErrExportEmpty) {
			response.BadRequest(c, 14002, "时间表为空，无可导出内容")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportICS 导出个人时间表为 ICS 日历
// GET /api/v1/calendar/my/export/ics
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	buf, filename, err := h.calendarSvc.ExportICS(c.Request.Context(), sid)
	if err != nil {
		if errors.Is(err, service.ErrExportEmpty) {
			response.BadRequest(c, 14002, "时间表为空，无可导出内容")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}
