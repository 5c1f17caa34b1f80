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

var ErrGroupRequestNotFound = errors.New("组队请求不存在")

// GroupService 组队匹配业务接口
//
// 公开列表不含联系方式，联系方式单独按请求 ID 获取。
type GroupService interface {
	Create(ctx context.Context, sid string, req *dto.CreateGroupRequestRequest) (*dto.GroupRequestResponse, error)
	ListActive(ctx context.Context) ([]dto.GroupRequestResponse, error)
	GetMy(ctx context.Context, sid string) (*dto.GroupRequestResponse, error)
	Cancel(ctx context.Context, sid string) error
	Contact(ctx context.Context, requestID string) (*dto.GroupContactResponse, error)
}

type groupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(repo *repository.Repository, logger *zap.Logger) GroupService {
	return &groupService{repo: repo, logger: logger}
}

// Create 发布组队请求；联系方式缺省时回填个人资料中的信息
func (s *groupService) Create(ctx context.Context, sid string, req *dto.CreateGroupRequestRequest) (*dto.GroupRequestResponse, error) {
	user, err := s.repo.User.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	email := req.Email
	if email == "" {
		email = user.Email
	}
	phone := req.Phone
	if phone == "" {
		phone = user.Phone
	}
	gpa := req.GPA
	if gpa == nil {
		gpa = user.GPA
	}
	dse := req.DSEScore
	if dse == "" && user.DSEScore != nil {
		dse = *user.DSEScore
	}

	request := &model.GroupRequest{
		SID:               sid,
		Description:       req.Description,
		Email:             email,
		Phone:             phone,
		Major:             req.Major,
		DesiredGroupmates: req.DesiredGroupmates,
		GPA:               gpa,
		DSEScore:          dse,
		Status:            model.GroupRequestActive,
	}

	// 部分唯一索引保证每人一条 active 请求，重复创建由 Repository 判定
	if err := s.repo.GroupRequest.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("组队请求已发布", zap.String("sid", sid), zap.String("request_id", request.RequestID))
	return toGroupRequestResponse(request), nil
}

func (s *groupService) ListActive(ctx context.Context) ([]dto.GroupRequestResponse, error) {
	requests, err := s.repo.GroupRequest.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.GroupRequestResponse, 0, len(requests))
	for i := range requests {
		resp = append(resp, *toGroupRequestResponse(&requests[i]))
	}
	return resp, nil
}

func (s *groupService) GetMy(ctx context.Context, sid string) (*dto.GroupRequestResponse, error) {
	request, err := s.repo.GroupRequest.GetActiveBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupRequestNotFound
		}
		return nil, err
	}
	return toGroupRequestResponse(request), nil
}

func (s *groupService) Cancel(ctx context.Context, sid string) error {
	if err := s.repo.GroupRequest.Cancel(ctx, sid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupRequestNotFound
		}
		return err
	}
	s.logger.Info("组队请求已取消", zap.String("sid", sid))
	return nil
}

// Contact 按请求 ID 返回发布者联系方式（需登录）
func (s *groupService) Contact(ctx context.Context, requestID string) (*dto.GroupContactResponse, error) {
	request, err := s.repo.GroupRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupRequestNotFound
		}
		return nil, err
	}
	return &dto.GroupContactResponse{
		SID:   request.SID,
		Email: request.Email,
		Phone: request.Phone,
	}, nil
}

func toGroupRequestResponse(request *model.GroupRequest) *dto.GroupRequestResponse {
	return &dto.GroupRequestResponse{
		RequestID:         request.RequestID,
		SID:               request.SID,
		Major:             request.Major,
		Description:       request.Description,
		DesiredGroupmates: request.DesiredGroupmates,
		GPA:               request.GPA,
		DSEScore:          request.DSEScore,
		Status:            request.Status,
		CreatedAt:         request.CreatedAt,
	}
}
