package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/model"
)

// PendingAccountRepository 待审批账号数据访问接口
type PendingAccountRepository interface {
	Create(ctx context.Context, account *model.PendingAccount) error
	GetBySID(ctx context.Context, sid string) (*model.PendingAccount, error)
	ExistsBySIDOrEmail(ctx context.Context, sid, email string) (bool, error)
	List(ctx context.Context) ([]model.PendingAccount, error)
	Delete(ctx context.Context, sid string) error
	Count(ctx context.Context) (int64, error)
	// Promote 在同一事务内创建正式用户并删除待审批记录
	Promote(ctx context.Context, sid string, build func(*model.PendingAccount) *model.User) (*model.User, error)
}

type pendingAccountRepo struct {
	db *gorm.DB
}

// NewPendingAccountRepo 创建 PendingAccountRepository 实例
func NewPendingAccountRepo(db *gorm.DB) PendingAccountRepository {
	return &pendingAccountRepo{db: db}
}

func (r *pendingAccountRepo) Create(ctx context.Context, account *model.PendingAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *pendingAccountRepo) GetBySID(ctx context.Context, sid string) (*model.PendingAccount, error) {
	var account model.PendingAccount
	err := r.db.WithContext(ctx).
		Where("sid = ?", sid).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *pendingAccountRepo) ExistsBySIDOrEmail(ctx context.Context, sid, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PendingAccount{}).
		Where("sid = ? OR email = ?", sid, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pendingAccountRepo) List(ctx context.Context) ([]model.PendingAccount, error) {
	var accounts []model.PendingAccount
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *pendingAccountRepo) Delete(ctx context.Context, sid string) error {
	result := r.db.WithContext(ctx).Where("sid = ?", sid).Delete(&model.PendingAccount{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pendingAccountRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.PendingAccount{}).Count(&total).Error
	return total, err
}

func (r *pendingAccountRepo) Promote(ctx context.Context, sid string, build func(*model.PendingAccount) *model.User) (*model.User, error) {
	var user *model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account model.PendingAccount
		if err := tx.Where("sid = ?", sid).First(&account).Error; err != nil {
			return err
		}

		user = build(&account)
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		return tx.Where("sid = ?", sid).Delete(&model.PendingAccount{}).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
