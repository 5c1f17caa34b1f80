package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/model"
	pkgerrors "github.com/MyFGitAccount/platform-efs/pkg/errors"
)

// GroupRequestRepository 组队请求数据访问接口
type GroupRequestRepository interface {
	Create(ctx context.Context, request *model.GroupRequest) error
	GetByID(ctx context.Context, requestID string) (*model.GroupRequest, error)
	GetActiveBySID(ctx context.Context, sid string) (*model.GroupRequest, error)
	ListActive(ctx context.Context) ([]model.GroupRequest, error)
	Cancel(ctx context.Context, sid string) error
	Count(ctx context.Context) (int64, error)
}

type groupRequestRepo struct {
	db *gorm.DB
}

// NewGroupRequestRepo 创建 GroupRequestRepository 实例
func NewGroupRequestRepo(db *gorm.DB) GroupRequestRepository {
	return &groupRequestRepo{db: db}
}

// Create 依赖部分唯一索引保证每人同时只有一条 active 请求
func (r *groupRequestRepo) Create(ctx context.Context, request *model.GroupRequest) error {
	err := r.db.WithContext(ctx).Create(request).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrDuplicateActiveRequest
	}
	return err
}

func (r *groupRequestRepo) GetByID(ctx context.Context, requestID string) (*model.GroupRequest, error) {
	var request model.GroupRequest
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *groupRequestRepo) GetActiveBySID(ctx context.Context, sid string) (*model.GroupRequest, error) {
	var request model.GroupRequest
	err := r.db.WithContext(ctx).
		Where("sid = ? AND status = ?", sid, model.GroupRequestActive).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *groupRequestRepo) ListActive(ctx context.Context) ([]model.GroupRequest, error) {
	var requests []model.GroupRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", model.GroupRequestActive).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *groupRequestRepo) Cancel(ctx context.Context, sid string) error {
	result := r.db.WithContext(ctx).Model(&model.GroupRequest{}).
		Where("sid = ? AND status = ?", sid, model.GroupRequestActive).
		Update("status", model.GroupRequestCancelled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *groupRequestRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.GroupRequest{}).
		Where("status = ?", model.GroupRequestActive).
		Count(&total).Error
	return total, err
}
