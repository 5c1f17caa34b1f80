package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/MyFGitAccount/platform-efs/config"
	"github.com/MyFGitAccount/platform-efs/internal/repository"
	"github.com/MyFGitAccount/platform-efs/pkg/blobstore"
	"github.com/MyFGitAccount/platform-efs/pkg/jwt"
)

// BlobStore 二进制文件存储接口，生产实现为 GridFS
type BlobStore interface {
	Upload(ctx context.Context, filename string, data []byte, meta blobstore.Metadata) (string, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	StreamTo(ctx context.Context, fileID string, w io.Writer) (int64, error)
	Delete(ctx context.Context, fileID string) error
}

// TokenBlacklist 已注销 Token 的黑名单，生产实现为 Redis。
// 传 nil 时注销降级为客户端丢弃 Token。
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	Profile       ProfileService
	Course        CourseService
	Calendar      CalendarService
	Group         GroupService
	Questionnaire QuestionnaireService
	Material      MaterialService
	Admin         AdminService
	Dashboard     DashboardService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blobs BlobStore,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:          NewAuthService(cfg, repo, jwtMgr, blobs, blacklist, logger),
		Profile:       NewProfileService(cfg, repo, logger),
		Course:        NewCourseService(repo, logger),
		Calendar:      NewCalendarService(repo, logger),
		Group:         NewGroupService(repo, logger),
		Questionnaire: NewQuestionnaireService(repo, logger),
		Material:      NewMaterialService(repo, blobs, logger),
		Admin:         NewAdminService(repo, blobs, logger),
		Dashboard:     NewDashboardService(repo, logger),
	}
}
