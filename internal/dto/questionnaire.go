package dto

import "time"

// ── 问卷模块 DTO ──

// CreateQuestionnaireRequest 发布问卷请求（消耗 3 积分）
type CreateQuestionnaireRequest struct {
	Description     string `json:"description"      binding:"required,max=2000"`
	Link            string `json:"link"             binding:"required,url,max=500"`
	TargetResponses int    `json:"target_responses" binding:"required,min=1,max=1000"`
}

// QuestionnaireResponse 问卷详情
type QuestionnaireResponse struct {
	QuestionnaireID  string    `json:"questionnaire_id"`
	CreatorSID       string    `json:"creator_sid"`
	Description      string    `json:"description"`
	Link             string    `json:"link"`
	TargetResponses  int       `json:"target_responses"`
	CurrentResponses int       `json:"current_responses"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// FillQuestionnaireResponse 填写结果
type FillQuestionnaireResponse struct {
	Credits          int `json:"credits"`           // 填写人最新积分
	CurrentResponses int `json:"current_responses"` // 问卷最新份数
}

// QuestionnaireStatsResponse 个人问卷统计
type QuestionnaireStatsResponse struct {
	Credits    int   `json:"credits"`
	MyPosted   int64 `json:"my_posted"`
	FillsGiven int64 `json:"fills_given"`
}
