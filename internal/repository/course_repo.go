package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/model"
)

// CourseRepository 课程与课节数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	// ReplaceSessions 整体替换课程的课节表（事务内先删后插）
	ReplaceSessions(ctx context.Context, code string, sessions []model.CourseSession) error
	Delete(ctx context.Context, code string) error
	Count(ctx context.Context) (int64, error)
	ListAllSessions(ctx context.Context) ([]model.CourseSession, error)
	GetSessionsByIDs(ctx context.Context, ids []string) ([]model.CourseSession, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Sessions").
		Preload("Materials").
		Where("code = ?", code).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Sessions").
		Order("code ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) ReplaceSessions(ctx context.Context, code string, sessions []model.CourseSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_code = ?", code).Delete(&model.CourseSession{}).Error; err != nil {
			return err
		}
		if len(sessions) == 0 {
			return nil
		}
		return tx.Create(&sessions).Error
	})
}

func (r *courseRepo) Delete(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Where("code = ?", code).Delete(&model.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).Count(&total).Error
	return total, err
}

func (r *courseRepo) ListAllSessions(ctx context.Context) ([]model.CourseSession, error) {
	var sessions []model.CourseSession
	err := r.db.WithContext(ctx).
		Order("course_code ASC, weekday ASC, start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *courseRepo) GetSessionsByIDs(ctx context.Context, ids []string) ([]model.CourseSession, error) {
	var sessions []model.CourseSession
	err := r.db.WithContext(ctx).
		Where("session_id IN ?", ids).
		Find(&sessions).Error
	return sessions, err
}
