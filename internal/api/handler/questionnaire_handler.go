package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/service"
	pkgerrors "github.com/MyFGitAccount/platform-efs/pkg/errors"
	"github.com/MyFGitAccount/platform-efs/pkg/response"
)

// QuestionnaireHandler 问卷积分交换模块 HTTP 处理器
type QuestionnaireHandler struct {
	questionnaireSvc service.QuestionnaireService
}

// NewQuestionnaireHandler 创建 QuestionnaireHandler
func NewQuestionnaireHandler(questionnaireSvc service.QuestionnaireService) *QuestionnaireHandler {
	return &QuestionnaireHandler{questionnaireSvc: questionnaireSvc}
}

// Create 发布问卷（扣 3 积分，积分不足返回 402）
// POST /api/v1/questionnaires
func (h *QuestionnaireHandler) Create(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	var req dto.CreateQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.questionnaireSvc.Create(c.Request.Context(), sid, &req)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInsufficientCredits) {
			response.PaymentRequired(c, 16001, "积分不足，发布问卷需要 3 积分")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Fill 填写问卷（得 1 积分）
// POST /api/v1/questionnaires/:id/fill
func (h *QuestionnaireHandler) Fill(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	result, err := h.questionnaireSvc.Fill(c.Request.Context(), sid, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestionnaireNotFound):
			response.NotFound(c, 16002, "问卷不存在")
		case errors.Is(err, pkgerrors.ErrOwnQuestionnaire):
			response.BadRequest(c, 16003, "不能填写自己发布的问卷")
		case errors.Is(err, pkgerrors.ErrDuplicateFill):
			response.Conflict(c, 16004, "该问卷已填写过")
		case errors.Is(err, pkgerrors.ErrQuestionnaireClosed):
			response.BadRequest(c, 16005, "问卷已截止")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ListFillable 可填写的问卷列表（排除本人发布与已填写）
// GET /api/v1/questionnaires
func (h *QuestionnaireHandler) ListFillable(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	list, err := h.questionnaireSvc.ListFillable(c.Request.Context(), sid)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ListMine 本人发布的问卷列表
// GET /api/v1/questionnaires/my
func (h *QuestionnaireHandler) ListMine(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	list, err := h.questionnaireSvc.ListMine(c.Request.Context(), sid)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// Stats 本人积分与问卷统计
// GET /api/v1/questionnaires/stats
func (h *QuestionnaireHandler) Stats(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	stats, err := h.questionnaireSvc.Stats(c.Request.Context(), sid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11004, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// Delete 删除问卷（发布者本人或管理员，不退还积分）
// DELETE /api/v1/questionnaires/:id
func (h *QuestionnaireHandler) Delete(c *gin.Context) {
	sid, ok := MustGetSID(c)
	if !ok {
		return
	}

	err := h.questionnaireSvc.Delete(c.Request.Context(), sid, c.Param("id"), IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestionnaireNotFound):
			response.NotFound(c, 16002, "问卷不存在")
		case errors.Is(err, service.ErrNotQuestionnaireOwner):
			response.Forbidden(c, 16006, "只能删除自己发布的问卷")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
