package model

import "time"

// 问卷派生状态
const (
	QuestionnaireOpen   = "open"
	QuestionnaireClosed = "closed"
)

// QuestionnaireCost 发布一份问卷消耗的积分
const QuestionnaireCost = 3

// FillReward 填写一份问卷获得的积分
const FillReward = 1

// Questionnaire 问卷表 — 对应 questionnaires
// status 不落库，由 current/target 派生
type Questionnaire struct {
	QuestionnaireID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"questionnaire_id"`
	CreatorSID       string    `gorm:"column:creator_sid;type:varchar(20);not null;index" json:"creator_sid"`
	Description      string    `gorm:"type:text;not null"                             json:"description"`
	Link             string    `gorm:"type:varchar(500);not null"                     json:"link"`
	TargetResponses  int       `gorm:"not null;check:target_responses > 0"            json:"target_responses"`
	CurrentResponses int       `gorm:"not null;default:0"                             json:"current_responses"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Questionnaire) TableName() string { return "questionnaires" }

// Status 达到目标份数即截止
func (q *Questionnaire) Status() string {
	if q.CurrentResponses >= q.TargetResponses {
		return QuestionnaireClosed
	}
	return QuestionnaireOpen
}

// QuestionnaireFill 问卷填写记录表 — 对应 questionnaire_fills
// (questionnaire_id, sid) 唯一索引保证每人每份问卷只计一次
type QuestionnaireFill struct {
	FillID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"            json:"fill_id"`
	QuestionnaireID string    `gorm:"type:uuid;not null;uniqueIndex:idx_questionnaire_fills_once" json:"questionnaire_id"`
	SID             string    `gorm:"column:sid;type:varchar(20);not null;uniqueIndex:idx_questionnaire_fills_once" json:"sid"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                        json:"created_at"`
}

// TableName 指定表名
func (QuestionnaireFill) TableName() string { return "questionnaire_fills" }
