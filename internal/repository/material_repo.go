package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/model"
)

// MaterialRepository 课程资料元数据访问接口
type MaterialRepository interface {
	Create(ctx context.Context, material *model.Material) error
	GetByID(ctx context.Context, materialID string) (*model.Material, error)
	ListByCourse(ctx context.Context, courseCode string) ([]model.Material, error)
	IncrementDownloads(ctx context.Context, materialID string) error
	Delete(ctx context.Context, materialID string) error
	Count(ctx context.Context) (int64, error)
}

type materialRepo struct {
	db *gorm.DB
}

// NewMaterialRepo 创建 MaterialRepository 实例
func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db: db}
}

func (r *materialRepo) Create(ctx context.Context, material *model.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepo) GetByID(ctx context.Context, materialID string) (*model.Material, error) {
	var material model.Material
	err := r.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		First(&material).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) ListByCourse(ctx context.Context, courseCode string) ([]model.Material, error) {
	var materials []model.Material
	err := r.db.WithContext(ctx).
		Where("course_code = ?", courseCode).
		Order("created_at DESC").
		Find(&materials).Error
	return materials, err
}

func (r *materialRepo) IncrementDownloads(ctx context.Context, materialID string) error {
	return r.db.WithContext(ctx).Model(&model.Material{}).
		Where("material_id = ?", materialID).
		Update("downloads", gorm.Expr("downloads + 1")).Error
}

func (r *materialRepo) Delete(ctx context.Context, materialID string) error {
	result := r.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Delete(&model.Material{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *materialRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Material{}).Count(&total).Error
	return total, err
}
