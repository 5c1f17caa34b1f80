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
	ErrPendingAccountNotFound = errors.New("待审批账号不存在")
	ErrPendingCourseNotFound  = errors.New("待审批课程不存在")
	ErrCannotModifyAdmin      = errors.New("不能对管理员账号执行该操作")
	ErrCannotDeleteSelf       = errors.New("不能删除当前登录账号")
)

// AdminService 管理端业务接口
//
// 审批语义：通过即晋升并删除待审批记录，驳回直接删除。
// 两种结果都使记录离开队列，重复操作返回 NotFound。
type AdminService interface {
	ListPendingAccounts(ctx context.Context) ([]dto.PendingAccountResponse, error)
	ApproveAccount(ctx context.Context, sid string) (*dto.UserResponse, error)
	RejectAccount(ctx context.Context, sid string) error
	ListPendingCourses(ctx context.Context) ([]dto.PendingCourseResponse, error)
	ApproveCourse(ctx context.Context, code string) (*dto.CourseResponse, error)
	RejectCourse(ctx context.Context, code string) error
	ListUsers(ctx context.Context, offset, limit int) ([]dto.AdminUserResponse, int64, error)
	DeleteUser(ctx context.Context, operatorSID, targetSID string) error
	GrantCredits(ctx context.Context, req *dto.GrantCreditsRequest) (*dto.AdminUserResponse, error)
	Stats(ctx context.Context) (*dto.AdminStatsResponse, error)
}

type adminService struct {
	repo   *repository.Repository
	blobs  BlobStore
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, blobs BlobStore, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, blobs: blobs, logger: logger}
}

// ── 账号审批 ──

func (s *adminService) ListPendingAccounts(ctx context.Context) ([]dto.PendingAccountResponse, error) {
	accounts, err := s.repo.PendingAccount.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.PendingAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, dto.PendingAccountResponse{
			SID:       a.SID,
			Email:     a.Email,
			CreatedAt: a.CreatedAt,
		})
	}
	return resp, nil
}

// ApproveAccount 晋升为正式用户：初始积分 3，角色 user
func (s *adminService) ApproveAccount(ctx context.Context, sid string) (*dto.UserResponse, error) {
	user, err := s.repo.PendingAccount.Promote(ctx, sid, func(p *model.PendingAccount) *model.User {
		return &model.User{
			SID:          p.SID,
			Email:        p.Email,
			PasswordHash: p.PasswordHash,
			Role:         model.RoleUser,
			Credits:      model.DefaultCredits,
			PhotoFileID:  p.PhotoFileID,
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPendingAccountNotFound
		}
		s.logger.Error("审批账号失败", zap.String("sid", sid), zap.Error(err))
		return nil, err
	}

	s.logger.Info("账号审批通过", zap.String("sid", sid))
	return &dto.UserResponse{
		SID:     user.SID,
		Email:   user.Email,
		Role:    user.Role,
		Credits: user.Credits,
	}, nil
}

// RejectAccount 驳回并删除申请，学生证照片一并清理
func (s *adminService) RejectAccount(ctx context.Context, sid string) error {
	account, err := s.repo.PendingAccount.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPendingAccountNotFound
		}
		return err
	}

	if err := s.repo.PendingAccount.Delete(ctx, sid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPendingAccountNotFound
		}
		return err
	}

	if account.PhotoFileID != "" {
		if err := s.blobs.Delete(ctx, account.PhotoFileID); err != nil {
			s.logger.Warn("清理学生证照片失败", zap.String("sid", sid), zap.Error(err))
		}
	}

	s.logger.Info("账号申请已驳回", zap.String("sid", sid))
	return nil
}

// ── 课程审批 ──

func (s *adminService) ListPendingCourses(ctx context.Context) ([]dto.PendingCourseResponse, error) {
	pendings, err := s.repo.PendingCourse.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.PendingCourseResponse, 0, len(pendings))
	for _, p := range pendings {
		resp = append(resp, dto.PendingCourseResponse{
			Code:        p.Code,
			Title:       p.Title,
			RequestedBy: p.RequestedBy,
			CreatedAt:   p.CreatedAt,
		})
	}
	return resp, nil
}

// ApproveCourse 晋升为正式课程，时段表由管理员后续补充
func (s *adminService) ApproveCourse(ctx context.Context, code string) (*dto.CourseResponse, error) {
	course, err := s.repo.PendingCourse.Promote(ctx, code, func(p *model.PendingCourse) *model.Course {
		return &model.Course{
			Code:  p.Code,
			Title: p.Title,
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPendingCourseNotFound
		}
		s.logger.Error("审批课程失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程审批通过", zap.String("code", code))
	return toCourseResponse(course), nil
}

func (s *adminService) RejectCourse(ctx context.Context, code string) error {
	if err := s.repo.PendingCourse.Delete(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPendingCourseNotFound
		}
		return err
	}
	s.logger.Info("课程申请已驳回", zap.String("code", code))
	return nil
}

// ── 用户管理 ──

func (s *adminService) ListUsers(ctx context.Context, offset, limit int) ([]dto.AdminUserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toAdminUserResponse(&users[i]))
	}
	return resp, total, nil
}

// DeleteUser 删除用户账号；管理员账号与操作者本人受保护
func (s *adminService) DeleteUser(ctx context.Context, operatorSID, targetSID string) error {
	if operatorSID == targetSID {
		return ErrCannotDeleteSelf
	}

	target, err := s.repo.User.GetBySID(ctx, targetSID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if target.IsAdmin() {
		return ErrCannotModifyAdmin
	}

	if err := s.repo.User.Delete(ctx, targetSID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if target.PhotoFileID != "" {
		if err := s.blobs.Delete(ctx, target.PhotoFileID); err != nil {
			s.logger.Warn("清理用户照片失败", zap.String("sid", targetSID), zap.Error(err))
		}
	}

	s.logger.Info("用户已删除", zap.String("sid", targetSID), zap.String("by", operatorSID))
	return nil
}

// GrantCredits 发放积分：数额必须为正整数，目标不能是管理员
func (s *adminService) GrantCredits(ctx context.Context, req *dto.GrantCreditsRequest) (*dto.AdminUserResponse, error) {
	target, err := s.repo.User.GetBySID(ctx, req.SID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if target.IsAdmin() {
		return nil, ErrCannotModifyAdmin
	}

	if err := s.repo.User.AddCredits(ctx, req.SID, req.Amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("发放积分失败", zap.String("sid", req.SID), zap.Error(err))
		return nil, err
	}

	// 余额以原子更新后的数据库值为准，发放期间可能有并发填写
	target, err = s.repo.User.GetBySID(ctx, req.SID)
	if err != nil {
		s.logger.Error("读取发放后余额失败", zap.String("sid", req.SID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("积分已发放",
		zap.String("sid", req.SID),
		zap.Int("amount", req.Amount),
		zap.Int("credits", target.Credits),
	)
	resp := toAdminUserResponse(target)
	return &resp, nil
}

// ── 平台统计 ──

func (s *adminService) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	stats := &dto.AdminStatsResponse{}

	counters := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&stats.Users, s.repo.User.Count},
		{&stats.PendingAccounts, s.repo.PendingAccount.Count},
		{&stats.Courses, s.repo.Course.Count},
		{&stats.PendingCourses, s.repo.PendingCourse.Count},
		{&stats.GroupRequests, s.repo.GroupRequest.Count},
		{&stats.Questionnaires, s.repo.Questionnaire.Count},
		{&stats.Materials, s.repo.Material.Count},
	}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return stats, nil
}

func toAdminUserResponse(user *model.User) dto.AdminUserResponse {
	return dto.AdminUserResponse{
		SID:       user.SID,
		Email:     user.Email,
		Role:      user.Role,
		Credits:   user.Credits,
		Major:     user.Major,
		CreatedAt: user.CreatedAt,
	}
}
