package database

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/config"
	"github.com/MyFGitAccount/platform-efs/internal/model"
)

// SeedAdmin 播种哨兵管理员账号
// 已存在 admin 角色用户时跳过；admin.password 为空时同样跳过（生产环境必须显式配置）
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig, logger *zap.Logger) error {
	var existing model.User
	err := db.Where("role = ?", model.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("检查管理员账号失败: %w", err)
	}

	if cfg.Password == "" {
		logger.Warn("未配置 admin.password，跳过管理员播种")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), 12)
	if err != nil {
		return fmt.Errorf("管理员密码哈希失败: %w", err)
	}

	admin := model.User{
		SID:          cfg.SID,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Credits:      999,
		Major:        "Administration",
		YearOfStudy:  1,
		AboutMe:      "System Administrator",
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("创建管理员账号失败: %w", err)
	}

	logger.Info("已创建初始管理员账号", zap.String("sid", cfg.SID), zap.String("email", cfg.Email))
	return nil
}
