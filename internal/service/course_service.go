package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/model"
	"github.com/MyFGitAccount/platform-efs/internal/repository"
)

var (
	ErrCourseNotFound = errors.New("课程不存在")
	ErrCourseExists   = errors.New("课程代码已存在或正在审批中")
)

// CourseService 课程目录业务接口
type CourseService interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Get(ctx context.Context, code string) (*dto.CourseResponse, error)
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Update(ctx context.Context, code string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, code string) error
	Request(ctx context.Context, sid string, req *dto.RequestCourseRequest) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		resp = append(resp, *toCourseResponse(&courses[i]))
	}
	return resp, nil
}

func (s *courseService) Get(ctx context.Context, code string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return toCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &model.Course{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Sessions:    toSessions(req.Code, req.Timetable),
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCourseExists
		}
		s.logger.Error("创建课程失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程已创建", zap.String("code", course.Code))
	return toCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, code string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}

	// 先存基本字段（Save 会级联 Sessions，置空避免误写）
	sessions := course.Sessions
	course.Sessions = nil
	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	course.Sessions = sessions

	// timetable 提交即整表替换
	if req.Timetable != nil {
		newSessions := toSessions(code, req.Timetable)
		if err := s.repo.Course.ReplaceSessions(ctx, code, newSessions); err != nil {
			s.logger.Error("替换课程时段失败", zap.String("code", code), zap.Error(err))
			return nil, err
		}
		course.Sessions = newSessions
	}

	return toCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, code string) error {
	if err := s.repo.Course.ReplaceSessions(ctx, code, nil); err != nil {
		return err
	}
	if err := s.repo.Course.Delete(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	s.logger.Info("课程已删除", zap.String("code", code))
	return nil
}

// Request 普通用户申请开设课程，进入待审批队列
func (s *courseService) Request(ctx context.Context, sid string, req *dto.RequestCourseRequest) error {
	exists, err := s.repo.Course.ExistsByCode(ctx, req.Code)
	if err != nil {
		return err
	}
	if !exists {
		exists, err = s.repo.PendingCourse.ExistsByCode(ctx, req.Code)
		if err != nil {
			return err
		}
	}
	if exists {
		return ErrCourseExists
	}

	pending := &model.PendingCourse{
		Code:        req.Code,
		Title:       req.Title,
		RequestedBy: sid,
	}
	if err := s.repo.PendingCourse.Create(ctx, pending); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCourseExists
		}
		s.logger.Error("创建课程申请失败", zap.String("code", req.Code), zap.Error(err))
		return err
	}

	s.logger.Info("课程申请已提交", zap.String("code", req.Code), zap.String("sid", sid))
	return nil
}

func toSessions(code string, inputs []dto.SessionInput) []model.CourseSession {
	sessions := make([]model.CourseSession, 0, len(inputs))
	for _, in := range inputs {
		classNo := in.ClassNo
		if classNo == "" {
			classNo = "01"
		}
		sessions = append(sessions, model.CourseSession{
			CourseCode: code,
			Weekday:    in.Weekday,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
			Room:       in.Room,
			ClassNo:    classNo,
			Campus:     in.Campus,
		})
	}
	return sessions
}

func toCourseResponse(course *model.Course) *dto.CourseResponse {
	timetable := make([]dto.SessionResponse, 0, len(course.Sessions))
	for _, sess := range course.Sessions {
		timetable = append(timetable, dto.SessionResponse{
			ID:        sess.SessionID,
			Code:      sess.CourseCode,
			Weekday:   sess.Weekday,
			StartTime: sess.StartTime,
			EndTime:   sess.EndTime,
			Room:      sess.Room,
			ClassNo:   sess.ClassNo,
			Campus:    sess.Campus,
		})
	}

	var materials []dto.MaterialResponse
	for _, m := range course.Materials {
		materials = append(materials, toMaterialResponse(&m))
	}

	return &dto.CourseResponse{
		Code:        course.Code,
		Title:       course.Title,
		Description: course.Description,
		Timetable:   timetable,
		Materials:   materials,
		CreatedAt:   course.CreatedAt,
	}
}
