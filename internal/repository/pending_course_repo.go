package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/model"
)

// PendingCourseRepository 待审批课程数据访问接口
type PendingCourseRepository interface {
	Create(ctx context.Context, pending *model.PendingCourse) error
	GetByCode(ctx context.Context, code string) (*model.PendingCourse, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]model.PendingCourse, error)
	Delete(ctx context.Context, code string) error
	Count(ctx context.Context) (int64, error)
	// Promote 在同一事务内创建正式课程并删除待审批记录
	Promote(ctx context.Context, code string, build func(*model.PendingCourse) *model.Course) (*model.Course, error)
}

type pendingCourseRepo struct {
	db *gorm.DB
}

// NewPendingCourseRepo 创建 PendingCourseRepository 实例
func NewPendingCourseRepo(db *gorm.DB) PendingCourseRepository {
	return &pendingCourseRepo{db: db}
}

func (r *pendingCourseRepo) Create(ctx context.Context, pending *model.PendingCourse) error {
	return r.db.WithContext(ctx).Create(pending).Error
}

func (r *pendingCourseRepo) GetByCode(ctx context.Context, code string) (*model.PendingCourse, error) {
	var pending model.PendingCourse
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&pending).Error
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

func (r *pendingCourseRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PendingCourse{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pendingCourseRepo) List(ctx context.Context) ([]model.PendingCourse, error) {
	var pendings []model.PendingCourse
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&pendings).Error
	return pendings, err
}

func (r *pendingCourseRepo) Delete(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Where("code = ?", code).Delete(&model.PendingCourse{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pendingCourseRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.PendingCourse{}).Count(&total).Error
	return total, err
}

func (r *pendingCourseRepo) Promote(ctx context.Context, code string, build func(*model.PendingCourse) *model.Course) (*model.Course, error) {
	var course *model.Course
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending model.PendingCourse
		if err := tx.Where("code = ?", code).First(&pending).Error; err != nil {
			return err
		}

		course = build(&pending)
		if err := tx.Create(course).Error; err != nil {
			return err
		}

		return tx.Where("code = ?", code).Delete(&model.PendingCourse{}).Error
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}
