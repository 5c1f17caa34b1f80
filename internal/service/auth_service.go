package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/config"
	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/model"
	"github.com/MyFGitAccount/platform-efs/internal/repository"
	"github.com/MyFGitAccount/platform-efs/pkg/blobstore"
	"github.com/MyFGitAccount/platform-efs/pkg/jwt"
)

var (
	ErrInvalidCredentials  = errors.New("学号或密码错误")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrAccountTaken        = errors.New("学号或邮箱已被注册或正在审批中")
	ErrInvalidPhoto        = errors.New("学生证照片数据无法解析")
	ErrInvalidRefreshToken = errors.New("Refresh Token 无效或已过期")
)

const bcryptCost = 12

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	GetCurrentUser(ctx context.Context, sid string) (*dto.UserResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blobs     BlobStore
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blobs BlobStore,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blobs:     blobs,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Register 提交注册申请：照片入 GridFS，账号进入待审批队列
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	// 1. 学号/邮箱在正式用户表与待审批表中都不得占用
	taken, err := s.repo.User.ExistsBySIDOrEmail(ctx, req.SID, req.Email)
	if err != nil {
		s.logger.Error("检查用户占用失败", zap.Error(err))
		return err
	}
	if !taken {
		taken, err = s.repo.PendingAccount.ExistsBySIDOrEmail(ctx, req.SID, req.Email)
		if err != nil {
			s.logger.Error("检查待审批占用失败", zap.Error(err))
			return err
		}
	}
	if taken {
		return ErrAccountTaken
	}

	// 2. 解码学生证照片
	photo, err := decodeBase64Payload(req.PhotoData)
	if err != nil {
		return ErrInvalidPhoto
	}

	// 3. 照片写入 GridFS
	fileName := req.FileName
	if fileName == "" {
		fileName = req.SID + "_student_card"
	}
	fileID, err := s.blobs.Upload(ctx, fileName, photo, blobstore.Metadata{
		OriginalName: fileName,
		Mimetype:     sniffMimetype(req.PhotoData, photo),
		Size:         int64(len(photo)),
		UploadedBy:   req.SID,
		Type:         "student_card",
	})
	if err != nil {
		s.logger.Error("上传学生证照片失败", zap.Error(err))
		return err
	}

	// 照片已入库后任何一步失败都要回收，避免产生孤儿 blob
	cleanupPhoto := func() {
		if delErr := s.blobs.Delete(ctx, fileID); delErr != nil {
			s.logger.Warn("回收学生证照片失败", zap.String("file_id", fileID), zap.Error(delErr))
		}
	}

	// 4. 口令哈希后写入待审批表
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		cleanupPhoto()
		return err
	}

	pending := &model.PendingAccount{
		SID:          req.SID,
		Email:        req.Email,
		PasswordHash: string(hash),
		PhotoFileID:  fileID,
	}
	if err := s.repo.PendingAccount.Create(ctx, pending); err != nil {
		cleanupPhoto()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAccountTaken
		}
		s.logger.Error("创建待审批账号失败", zap.Error(err))
		return err
	}

	s.logger.Info("注册申请已提交", zap.String("sid", req.SID))
	return nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户（待审批账号查不到，等同凭证错误）
	user, err := s.repo.User.GetBySID(ctx, req.SID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.SID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.SID, user.Role)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			SID:     user.SID,
			Email:   user.Email,
			Role:    user.Role,
			Credits: user.Credits,
		},
	}, nil
}

// Refresh 用 Refresh Token 换发新的 Token 对，旧 Refresh Token 立即作废（轮换）
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidRefreshToken
	}

	// 黑名单不可用时降级放行，与访问鉴权策略一致
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单查询失败，降级放行", zap.Error(err))
		} else if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	// 换发前确认账号仍然存在（可能已被管理员删除）
	user, err := s.repo.User.GetBySID(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.SID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	newRefreshToken, err := s.jwtMgr.GenerateRefreshToken(user.SID, user.Role)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	// 旧 Refresh Token 进黑名单，失败只告警不阻断换发
	if s.blacklist != nil {
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("旧 RefreshToken 加入黑名单失败", zap.String("jti", claims.ID), zap.Error(err))
		}
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			SID:     user.SID,
			Email:   user.Email,
			Role:    user.Role,
			Credits: user.Credits,
		},
	}, nil
}

// Logout 将当前 Token 加入黑名单；未配置黑名单时直接成功
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) GetCurrentUser(ctx context.Context, sid string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &dto.UserResponse{
		SID:     user.SID,
		Email:   user.Email,
		Role:    user.Role,
		Credits: user.Credits,
	}, nil
}

// decodeBase64Payload 支持裸 Base64 与 data URI 两种格式
func decodeBase64Payload(data string) ([]byte, error) {
	if idx := strings.Index(data, ";base64,"); idx >= 0 {
		data = data[idx+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("空文件")
	}
	return raw, nil
}

// sniffMimetype 优先取 data URI 前缀中的类型，否则按内容猜测
func sniffMimetype(dataURI string, raw []byte) string {
	if strings.HasPrefix(dataURI, "data:") {
		if idx := strings.Index(dataURI, ";"); idx > 5 {
			return dataURI[5:idx]
		}
	}
	switch {
	case len(raw) >= 3 && raw[0] == 0xFF && raw[1] == 0xD8 && raw[2] == 0xFF:
		return "image/jpeg"
	case len(raw) >= 8 && string(raw[:8]) == "\x89PNG\r\n\x1a\n":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
