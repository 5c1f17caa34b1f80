package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MyFGitAccount/platform-efs/config"
	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/model"
	"github.com/MyFGitAccount/platform-efs/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *testMocks) {
	repo, mocks := newTestMocks()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-0123456789",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, mocks.blobs, newMockBlacklist(), zap.NewNop())
	return svc, mocks
}

func testPhotoData() string {
	return base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02})
}

func seedUser(t *testing.T, mocks *testMocks, sid, password string, credits int) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	user := &model.User{
		SID:          sid,
		Email:        sid + "@edu.hk",
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Credits:      credits,
	}
	if err := mocks.users.Create(context.Background(), user); err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

// ── Register 测试 ──

func TestAuthService_Register_Success(t *testing.T) {
	svc, mocks := setupTestAuthService()

	req := &dto.RegisterRequest{
		SID:       "20260001",
		Email:     "alice@edu.hk",
		Password:  "password123",
		PhotoData: testPhotoData(),
		FileName:  "card.jpg",
	}
	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}

	// 进入待审批队列而非正式用户表
	pending, err := mocks.pendingAccount.GetBySID(context.Background(), "20260001")
	if err != nil {
		t.Fatalf("待审批记录应存在: %v", err)
	}
	if pending.PasswordHash == "password123" {
		t.Error("密码必须哈希存储")
	}
	if pending.PhotoFileID == "" {
		t.Error("学生证照片应已写入存储")
	}
	if _, err := mocks.users.GetBySID(context.Background(), "20260001"); err == nil {
		t.Error("注册不应直接创建正式用户")
	}

	// 照片内容确实进入了 BlobStore
	if len(mocks.blobs.files) != 1 {
		t.Errorf("期望 1 个文件，得到 %d", len(mocks.blobs.files))
	}
}

func TestAuthService_Register_TakenSID(t *testing.T) {
	svc, mocks := setupTestAuthService()
	seedUser(t, mocks, "20260001", "password123", 3)

	req := &dto.RegisterRequest{
		SID:       "20260001",
		Email:     "other@edu.hk",
		Password:  "password123",
		PhotoData: testPhotoData(),
	}
	if err := svc.Register(context.Background(), req); !errors.Is(err, ErrAccountTaken) {
		t.Errorf("期望 ErrAccountTaken，得到: %v", err)
	}
}

func TestAuthService_Register_TakenPendingEmail(t *testing.T) {
	svc, _ := setupTestAuthService()

	first := &dto.RegisterRequest{
		SID:       "20260001",
		Email:     "alice@edu.hk",
		Password:  "password123",
		PhotoData: testPhotoData(),
	}
	if err := svc.Register(context.Background(), first); err != nil {
		t.Fatalf("首次注册应成功: %v", err)
	}

	second := &dto.RegisterRequest{
		SID:       "20260002",
		Email:     "alice@edu.hk",
		Password:  "password123",
		PhotoData: testPhotoData(),
	}
	if err := svc.Register(context.Background(), second); !errors.Is(err, ErrAccountTaken) {
		t.Errorf("期望 ErrAccountTaken，得到: %v", err)
	}
}

func TestAuthService_Register_InvalidPhoto(t *testing.T) {
	svc, _ := setupTestAuthService()

	req := &dto.RegisterRequest{
		SID:       "20260001",
		Email:     "alice@edu.hk",
		Password:  "password123",
		PhotoData: "not-valid-base64!!!",
	}
	if err := svc.Register(context.Background(), req); !errors.Is(err, ErrInvalidPhoto) {
		t.Errorf("期望 ErrInvalidPhoto，得到: %v", err)
	}
}

func TestAuthService_Register_FailureCleansUpPhoto(t *testing.T) {
	svc, mocks := setupTestAuthService()
	seedUser(t, mocks, "20260001", "password123", 3)

	req := &dto.RegisterRequest{
		SID:       "20260001",
		Email:     "other@edu.hk",
		Password:  "password123",
		PhotoData: testPhotoData(),
	}
	if err := svc.Register(context.Background(), req); !errors.Is(err, ErrAccountTaken) {
		t.Fatalf("期望 ErrAccountTaken，得到: %v", err)
	}

	// 注册失败后不能残留孤儿照片
	if len(mocks.blobs.files) != 0 {
		t.Errorf("注册失败后存储中残留 %d 个文件", len(mocks.blobs.files))
	}
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, mocks := setupTestAuthService()
	seedUser(t, mocks, "20260001", "password123", 3)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		SID:      "20260001",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("应返回 Token 对")
	}
	if resp.User.SID != "20260001" || resp.User.Credits != 3 {
		t.Errorf("用户概要错误: %+v", resp.User)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn 错误: %d", resp.ExpiresIn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, mocks := setupTestAuthService()
	seedUser(t, mocks, "20260001", "password123", 3)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		SID:      "20260001",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，得到: %v", err)
	}
}

func TestAuthService_Login_PendingAccountCannotLogin(t *testing.T) {
	svc, _ := setupTestAuthService()

	if err := svc.Register(context.Background(), &dto.RegisterRequest{
		SID:       "20260009",
		Email:     "pending@edu.hk",
		Password:  "password123",
		PhotoData: testPhotoData(),
	}); err != nil {
		t.Fatalf("注册应成功: %v", err)
	}

	// 审批前不能登录
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		SID:      "20260009",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("待审批账号登录期望 ErrInvalidCredentials，得到: %v", err)
	}
}

// ── Refresh 测试 ──

func setupRefreshTest(t *testing.T) (AuthService, *testMocks, *jwt.Manager, *mockBlacklist) {
	t.Helper()
	repo, mocks := newTestMocks()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-0123456789",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	blacklist := newMockBlacklist()
	svc := NewAuthService(cfg, repo, jwtMgr, mocks.blobs, blacklist, zap.NewNop())
	return svc, mocks, jwtMgr, blacklist
}

func TestAuthService_Refresh_Success(t *testing.T) {
	svc, mocks, jwtMgr, blacklist := setupRefreshTest(t)
	seedUser(t, mocks, "20260001", "password123", 3)

	refreshToken, err := jwtMgr.GenerateRefreshToken("20260001", model.RoleUser)
	if err != nil {
		t.Fatalf("生成 RefreshToken 失败: %v", err)
	}
	oldClaims, err := jwtMgr.ParseToken(refreshToken)
	if err != nil {
		t.Fatalf("解析 RefreshToken 失败: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), refreshToken)
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("应返回新 Token 对")
	}
	if resp.User.SID != "20260001" {
		t.Errorf("用户概要错误: %+v", resp.User)
	}

	// 新 Token 对类型正确
	accessClaims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("解析新 AccessToken 失败: %v", err)
	}
	if accessClaims.TokenType != "access" {
		t.Errorf("期望 access 类型，得到 %s", accessClaims.TokenType)
	}
	newRefreshClaims, err := jwtMgr.ParseToken(resp.RefreshToken)
	if err != nil {
		t.Fatalf("解析新 RefreshToken 失败: %v", err)
	}
	if newRefreshClaims.TokenType != "refresh" {
		t.Errorf("期望 refresh 类型，得到 %s", newRefreshClaims.TokenType)
	}

	// 旧 RefreshToken 轮换后立即作废
	if !blacklist.tokens[oldClaims.ID] {
		t.Error("旧 RefreshToken 应已加入黑名单")
	}
	if _, err := svc.Refresh(context.Background(), refreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("复用已轮换的 RefreshToken 期望 ErrInvalidRefreshToken，得到: %v", err)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, mocks, jwtMgr, _ := setupRefreshTest(t)
	seedUser(t, mocks, "20260001", "password123", 3)

	accessToken, err := jwtMgr.GenerateAccessToken("20260001", model.RoleUser)
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	// AccessToken 不能用于换发
	if _, err := svc.Refresh(context.Background(), accessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，得到: %v", err)
	}
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	svc, _, _, _ := setupRefreshTest(t)

	if _, err := svc.Refresh(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，得到: %v", err)
	}
}

func TestAuthService_Refresh_DeletedUser(t *testing.T) {
	svc, _, jwtMgr, _ := setupRefreshTest(t)

	// 用户签发 Token 后被管理员删除
	refreshToken, err := jwtMgr.GenerateRefreshToken("20260001", model.RoleUser)
	if err != nil {
		t.Fatalf("生成 RefreshToken 失败: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), refreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，得到: %v", err)
	}
}

// ── Logout / GetCurrentUser 测试 ──

func TestAuthService_Logout(t *testing.T) {
	repo, mocks := newTestMocks()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-0123456789",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	blacklist := newMockBlacklist()
	svc := NewAuthService(cfg, repo, jwtMgr, mocks.blobs, blacklist, zap.NewNop())

	token, err := jwtMgr.GenerateAccessToken("20260001", model.RoleUser)
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}
	claims, err := jwtMgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}

	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("Logout 应成功: %v", err)
	}
	if !blacklist.tokens[claims.ID] {
		t.Error("Token 应已加入黑名单")
	}
}

func TestAuthService_Logout_NilBlacklist(t *testing.T) {
	repo, mocks := newTestMocks()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-0123456789",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, mocks.blobs, nil, zap.NewNop())

	token, _ := jwtMgr.GenerateAccessToken("20260001", model.RoleUser)
	claims, _ := jwtMgr.ParseToken(token)

	// 黑名单未配置时降级为客户端丢弃 Token
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Errorf("无黑名单时 Logout 应成功: %v", err)
	}
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, mocks := setupTestAuthService()
	seedUser(t, mocks, "20260001", "password123", 5)

	resp, err := svc.GetCurrentUser(context.Background(), "20260001")
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if resp.Credits != 5 {
		t.Errorf("期望积分 5，得到 %d", resp.Credits)
	}

	if _, err := svc.GetCurrentUser(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，得到: %v", err)
	}
}
