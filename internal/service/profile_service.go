package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/config"
	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/model"
	"github.com/MyFGitAccount/platform-efs/internal/repository"
)

// ProfileService 个人资料业务接口
type ProfileService interface {
	Get(ctx context.Context, sid string) (*dto.ProfileResponse, error)
	Update(ctx context.Context, sid string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{cfg: cfg, repo: repo, logger: logger}
}

func (s *profileService) Get(ctx context.Context, sid string) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.toProfile(user), nil
}

// Update 只更新请求中出现的字段
func (s *profileService) Update(ctx context.Context, sid string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.GPA != nil {
		user.GPA = req.GPA
	}
	if req.DSEScore != nil {
		user.DSEScore = req.DSEScore
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Major != nil {
		user.Major = *req.Major
	}
	if req.Skills != nil {
		user.Skills = model.StringArray(req.Skills)
	}
	if req.YearOfStudy != nil {
		user.YearOfStudy = *req.YearOfStudy
	}
	if req.AboutMe != nil {
		user.AboutMe = *req.AboutMe
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新个人资料失败", zap.String("sid", sid), zap.Error(err))
		return nil, err
	}

	return s.toProfile(user), nil
}

func (s *profileService) toProfile(user *model.User) *dto.ProfileResponse {
	photoURL := ""
	if user.PhotoFileID != "" {
		photoURL = fmt.Sprintf("%s/api/v1/uploads/photos/%s", s.cfg.Server.BaseURL, user.PhotoFileID)
	}
	return &dto.ProfileResponse{
		SID:         user.SID,
		Email:       user.Email,
		Role:        user.Role,
		Credits:     user.Credits,
		PhotoURL:    photoURL,
		GPA:         user.GPA,
		DSEScore:    user.DSEScore,
		Phone:       user.Phone,
		Major:       user.Major,
		Skills:      user.Skills,
		YearOfStudy: user.YearOfStudy,
		AboutMe:     user.AboutMe,
		CreatedAt:   user.CreatedAt,
	}
}
