package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MyFGitAccount/platform-efs/internal/model"
	pkgerrors "github.com/MyFGitAccount/platform-efs/pkg/errors"
)

// QuestionnaireRepository 问卷数据访问接口
//
// CreateWithDebit 与 Fill 是积分账本的两条事务路径：
// 扣积分+建问卷、计份数+发奖励必须同取同消。
type QuestionnaireRepository interface {
	CreateWithDebit(ctx context.Context, questionnaire *model.Questionnaire) error
	Fill(ctx context.Context, questionnaireID, fillerSID string) (*model.Questionnaire, int, error)
	GetByID(ctx context.Context, questionnaireID string) (*model.Questionnaire, error)
	ListFillable(ctx context.Context, sid string) ([]model.Questionnaire, error)
	ListByCreator(ctx context.Context, sid string) ([]model.Questionnaire, error)
	Delete(ctx context.Context, questionnaireID string) error
	Count(ctx context.Context) (int64, error)
	CountOpen(ctx context.Context) (int64, error)
	CountFillsBySID(ctx context.Context, sid string) (int64, error)
}

type questionnaireRepo struct {
	db *gorm.DB
}

// NewQuestionnaireRepo 创建 QuestionnaireRepository 实例
func NewQuestionnaireRepo(db *gorm.DB) QuestionnaireRepository {
	return &questionnaireRepo{db: db}
}

// CreateWithDebit 扣除发布成本后创建问卷，积分不足时整体回滚
func (r *questionnaireRepo) CreateWithDebit(ctx context.Context, questionnaire *model.Questionnaire) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.User{}).
			Where("sid = ? AND credits >= ?", questionnaire.CreatorSID, model.QuestionnaireCost).
			Update("credits", gorm.Expr("credits - ?", model.QuestionnaireCost))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrInsufficientCredits
		}

		return tx.Create(questionnaire).Error
	})
}

// Fill 记录一次填写：锁问卷行，校验自填/截止/重复，然后份数 +1、填写人积分 +1。
// 返回更新后的问卷与填写人最新积分。
func (r *questionnaireRepo) Fill(ctx context.Context, questionnaireID, fillerSID string) (*model.Questionnaire, int, error) {
	var questionnaire model.Questionnaire
	var credits int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("questionnaire_id = ?", questionnaireID).
			First(&questionnaire).Error; err != nil {
			return err
		}

		if questionnaire.CreatorSID == fillerSID {
			return pkgerrors.ErrOwnQuestionnaire
		}
		if questionnaire.CurrentResponses >= questionnaire.TargetResponses {
			return pkgerrors.ErrQuestionnaireClosed
		}

		fill := model.QuestionnaireFill{
			QuestionnaireID: questionnaireID,
			SID:             fillerSID,
		}
		if err := tx.Create(&fill).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgerrors.ErrDuplicateFill
			}
			return err
		}

		questionnaire.CurrentResponses++
		if err := tx.Model(&model.Questionnaire{}).
			Where("questionnaire_id = ?", questionnaireID).
			Update("current_responses", questionnaire.CurrentResponses).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).
			Where("sid = ?", fillerSID).
			Update("credits", gorm.Expr("credits + ?", model.FillReward)).Error; err != nil {
			return err
		}

		var filler model.User
		if err := tx.Select("credits").Where("sid = ?", fillerSID).First(&filler).Error; err != nil {
			return err
		}
		credits = filler.Credits
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &questionnaire, credits, nil
}

func (r *questionnaireRepo) GetByID(ctx context.Context, questionnaireID string) (*model.Questionnaire, error) {
	var questionnaire model.Questionnaire
	err := r.db.WithContext(ctx).
		Where("questionnaire_id = ?", questionnaireID).
		First(&questionnaire).Error
	if err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

// ListFillable 列出该学号还能填写的问卷：未截止、非自己发布、未填写过
func (r *questionnaireRepo) ListFillable(ctx context.Context, sid string) ([]model.Questionnaire, error) {
	var questionnaires []model.Questionnaire
	err := r.db.WithContext(ctx).
		Where("current_responses < target_responses").
		Where("creator_sid <> ?", sid).
		Where("NOT EXISTS (SELECT 1 FROM questionnaire_fills f WHERE f.questionnaire_id = questionnaires.questionnaire_id AND f.sid = ?)", sid).
		Order("created_at DESC").
		Find(&questionnaires).Error
	return questionnaires, err
}

func (r *questionnaireRepo) ListByCreator(ctx context.Context, sid string) ([]model.Questionnaire, error) {
	var questionnaires []model.Questionnaire
	err := r.db.WithContext(ctx).
		Where("creator_sid = ?", sid).
		Order("created_at DESC").
		Find(&questionnaires).Error
	return questionnaires, err
}

func (r *questionnaireRepo) Delete(ctx context.Context, questionnaireID string) error {
	result := r.db.WithContext(ctx).
		Where("questionnaire_id = ?", questionnaireID).
		Delete(&model.Questionnaire{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionnaireRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Questionnaire{}).Count(&total).Error
	return total, err
}

func (r *questionnaireRepo) CountOpen(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Questionnaire{}).
		Where("current_responses < target_responses").
		Count(&total).Error
	return total, err
}

func (r *questionnaireRepo) CountFillsBySID(ctx context.Context, sid string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.QuestionnaireFill{}).
		Where("sid = ?", sid).
		Count(&total).Error
	return total, err
}
