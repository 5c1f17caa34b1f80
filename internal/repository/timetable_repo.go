package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/model"
)

// TimetableRepository 个人课表选课记录数据访问接口
type TimetableRepository interface {
	// ReplaceBySID 整体替换某学号的选课记录（事务内先删后插）
	ReplaceBySID(ctx context.Context, sid string, sessionIDs []string) error
	ListBySID(ctx context.Context, sid string) ([]model.TimetableSelection, error)
	CountBySID(ctx context.Context, sid string) (int64, error)
}

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) ReplaceBySID(ctx context.Context, sid string, sessionIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sid = ?", sid).Delete(&model.TimetableSelection{}).Error; err != nil {
			return err
		}
		if len(sessionIDs) == 0 {
			return nil
		}

		selections := make([]model.TimetableSelection, 0, len(sessionIDs))
		for _, id := range sessionIDs {
			selections = append(selections, model.TimetableSelection{
				SID:       sid,
				SessionID: id,
			})
		}
		return tx.Create(&selections).Error
	})
}

func (r *timetableRepo) ListBySID(ctx context.Context, sid string) ([]model.TimetableSelection, error) {
	var selections []model.TimetableSelection
	err := r.db.WithContext(ctx).
		Preload("Session").
		Where("sid = ?", sid).
		Find(&selections).Error
	return selections, err
}

func (r *timetableRepo) CountBySID(ctx context.Context, sid string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.TimetableSelection{}).
		Where("sid = ?", sid).
		Count(&total).Error
	return total, err
}
