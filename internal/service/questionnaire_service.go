package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/model"
	"github.com/MyFGitAccount/platform-efs/internal/repository"
)

var (
	ErrQuestionnaireNotFound = errors.New("问卷不存在")
	ErrNotQuestionnaireOwner = errors.New("只能删除自己发布的问卷")
)

// QuestionnaireService 问卷积分交换业务接口
//
// 积分规则：发布扣 3 分，填写得 1 分。
// 扣分与建卷、计数与奖励分别在 Repository 事务内同取同消。
type QuestionnaireService interface {
	Create(ctx context.Context, sid string, req *dto.CreateQuestionnaireRequest) (*dto.QuestionnaireResponse, error)
	Fill(ctx context.Context, sid, questionnaireID string) (*dto.FillQuestionnaireResponse, error)
	ListFillable(ctx context.Context, sid string) ([]dto.QuestionnaireResponse, error)
	ListMine(ctx context.Context, sid string) ([]dto.QuestionnaireResponse, error)
	Delete(ctx context.Context, sid, questionnaireID string, isAdmin bool) error
	Stats(ctx context.Context, sid string) (*dto.QuestionnaireStatsResponse, error)
}

type questionnaireService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQuestionnaireService 创建 QuestionnaireService 实例
func NewQuestionnaireService(repo *repository.Repository, logger *zap.Logger) QuestionnaireService {
	return &questionnaireService{repo: repo, logger: logger}
}

func (s *questionnaireService) Create(ctx context.Context, sid string, req *dto.CreateQuestionnaireRequest) (*dto.QuestionnaireResponse, error) {
	questionnaire := &model.Questionnaire{
		CreatorSID:      sid,
		Description:     req.Description,
		Link:            req.Link,
		TargetResponses: req.TargetResponses,
	}

	// 积分不足由事务内条件更新判定，原样上抛给 Handler 映射 402
	if err := s.repo.Questionnaire.CreateWithDebit(ctx, questionnaire); err != nil {
		return nil, err
	}

	s.logger.Info("问卷已发布",
		zap.String("sid", sid),
		zap.String("questionnaire_id", questionnaire.QuestionnaireID),
		zap.Int("target", req.TargetResponses),
	)
	return toQuestionnaireResponse(questionnaire), nil
}

func (s *questionnaireService) Fill(ctx context.Context, sid, questionnaireID string) (*dto.FillQuestionnaireResponse, error) {
	questionnaire, credits, err := s.repo.Questionnaire.Fill(ctx, questionnaireID, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, err
	}

	s.logger.Info("问卷填写已记录",
		zap.String("sid", sid),
		zap.String("questionnaire_id", questionnaireID),
	)
	return &dto.FillQuestionnaireResponse{
		Credits:          credits,
		CurrentResponses: questionnaire.CurrentResponses,
	}, nil
}

func (s *questionnaireService) ListFillable(ctx context.Context, sid string) ([]dto.QuestionnaireResponse, error) {
	questionnaires, err := s.repo.Questionnaire.ListFillable(ctx, sid)
	if err != nil {
		return nil, err
	}
	return toQuestionnaireResponses(questionnaires), nil
}

func (s *questionnaireService) ListMine(ctx context.Context, sid string) ([]dto.QuestionnaireResponse, error) {
	questionnaires, err := s.repo.Questionnaire.ListByCreator(ctx, sid)
	if err != nil {
		return nil, err
	}
	return toQuestionnaireResponses(questionnaires), nil
}

// Delete 删除问卷；已消耗的积分不退还。管理员可删除任意问卷。
func (s *questionnaireService) Delete(ctx context.Context, sid, questionnaireID string, isAdmin bool) error {
	questionnaire, err := s.repo.Questionnaire.GetByID(ctx, questionnaireID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionnaireNotFound
		}
		return err
	}

	if !isAdmin && questionnaire.CreatorSID != sid {
		return ErrNotQuestionnaireOwner
	}

	if err := s.repo.Questionnaire.Delete(ctx, questionnaireID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionnaireNotFound
		}
		return err
	}

	s.logger.Info("问卷已删除",
		zap.String("questionnaire_id", questionnaireID),
		zap.String("by", sid),
	)
	return nil
}

func (s *questionnaireService) Stats(ctx context.Context, sid string) (*dto.QuestionnaireStatsResponse, error) {
	user, err := s.repo.User.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	mine, err := s.repo.Questionnaire.ListByCreator(ctx, sid)
	if err != nil {
		return nil, err
	}

	fills, err := s.repo.Questionnaire.CountFillsBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	return &dto.QuestionnaireStatsResponse{
		Credits:    user.Credits,
		MyPosted:   int64(len(mine)),
		FillsGiven: fills,
	}, nil
}

func toQuestionnaireResponse(q *model.Questionnaire) *dto.QuestionnaireResponse {
	return &dto.QuestionnaireResponse{
		QuestionnaireID:  q.QuestionnaireID,
		CreatorSID:       q.CreatorSID,
		Description:      q.Description,
		Link:             q.Link,
		TargetResponses:  q.TargetResponses,
		CurrentResponses: q.CurrentResponses,
		Status:           q.Status(),
		CreatedAt:        q.CreatedAt,
	}
}

func toQuestionnaireResponses(qs []model.Questionnaire) []dto.QuestionnaireResponse {
	resp := make([]dto.QuestionnaireResponse, 0, len(qs))
	for i := range qs {
		resp = append(resp, *toQuestionnaireResponse(&qs[i]))
	}
	return resp
}
