package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/repository"
)

// DashboardService 学生首页概览
type DashboardService interface {
	Summary(ctx context.Context, sid string) (*dto.DashboardSummaryResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Summary(ctx context.Context, sid string) (*dto.DashboardSummaryResponse, error) {
	user, err := s.repo.User.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	selections, err := s.repo.Timetable.ListBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	selected := make([]dto.SelectedSession, 0, len(selections))
	for _, sel := range selections {
		if sel.Session == nil {
			continue
		}
		selected = append(selected, toSelectedSession(sel.Session))
	}

	hasActive := true
	if _, err := s.repo.GroupRequest.GetActiveBySID(ctx, sid); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		hasActive = false
	}

	open, err := s.repo.Questionnaire.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardSummaryResponse{
		Credits:            user.Credits,
		SelectedSessions:   len(selected),
		Conflicts:          DetectConflicts(selected),
		ActiveGroupRequest: hasActive,
		OpenQuestionnaires: open,
	}, nil
}
