package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/model"
	"github.com/MyFGitAccount/platform-efs/internal/repository"
	"github.com/MyFGitAccount/platform-efs/pkg/blobstore"
)

var (
	ErrMaterialNotFound = errors.New("课程资料不存在")
	ErrInvalidFileData  = errors.New("文件数据无法解析")
)

// MaterialService 课程资料业务接口
//
// 二进制内容存 GridFS，元数据行存 PostgreSQL。
type MaterialService interface {
	Upload(ctx context.Context, uploaderSID string, req *dto.UploadMaterialRequest) (*dto.MaterialResponse, error)
	ListByCourse(ctx context.Context, courseCode string) ([]dto.MaterialResponse, error)
	// Download 将文件内容流式写入 w，返回元数据；计数在写入成功后递增
	Download(ctx context.Context, materialID string, w io.Writer) (*model.Material, error)
	Delete(ctx context.Context, materialID string) error
}

type materialService struct {
	repo   *repository.Repository
	blobs  BlobStore
	logger *zap.Logger
}

// NewMaterialService 创建 MaterialService 实例
func NewMaterialService(repo *repository.Repository, blobs BlobStore, logger *zap.Logger) MaterialService {
	return &materialService{repo: repo, blobs: blobs, logger: logger}
}

func (s *materialService) Upload(ctx context.Context, uploaderSID string, req *dto.UploadMaterialRequest) (*dto.MaterialResponse, error) {
	// 1. 课程必须存在
	exists, err := s.repo.Course.ExistsByCode(ctx, req.CourseCode)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	// 2. 解码文件内容
	data, err := decodeBase64Payload(req.FileData)
	if err != nil {
		return nil, ErrInvalidFileData
	}

	mimetype := req.Mimetype
	if mimetype == "" {
		mimetype = sniffMimetype(req.FileData, data)
	}

	// 3. 内容写入 GridFS
	fileID, err := s.blobs.Upload(ctx, req.FileName, data, blobstore.Metadata{
		OriginalName: req.FileName,
		Mimetype:     mimetype,
		Size:         int64(len(data)),
		UploadedBy:   uploaderSID,
		Type:         "course_material",
		CourseCode:   req.CourseCode,
	})
	if err != nil {
		s.logger.Error("上传课程资料失败", zap.String("course", req.CourseCode), zap.Error(err))
		return nil, err
	}

	// 4. 元数据落库
	material := &model.Material{
		MaterialID:  uuid.New().String(),
		CourseCode:  req.CourseCode,
		Name:        req.Name,
		Description: req.Description,
		FileName:    req.FileName,
		FileID:      fileID,
		Size:        int64(len(data)),
		Mimetype:    mimetype,
		UploadedBy:  uploaderSID,
	}
	if err := s.repo.Material.Create(ctx, material); err != nil {
		// 元数据失败时回收已写入的 GridFS 内容
		if delErr := s.blobs.Delete(ctx, fileID); delErr != nil {
			s.logger.Warn("回收 GridFS 文件失败", zap.String("file_id", fileID), zap.Error(delErr))
		}
		s.logger.Error("保存资料元数据失败", zap.String("course", req.CourseCode), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程资料已上传",
		zap.String("course", req.CourseCode),
		zap.String("material_id", material.MaterialID),
		zap.Int64("size", material.Size),
	)
	resp := toMaterialResponse(material)
	return &resp, nil
}

func (s *materialService) ListByCourse(ctx context.Context, courseCode string) ([]dto.MaterialResponse, error) {
	exists, err := s.repo.Course.ExistsByCode(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	materials, err := s.repo.Material.ListByCourse(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.MaterialResponse, 0, len(materials))
	for i := range materials {
		resp = append(resp, toMaterialResponse(&materials[i]))
	}
	return resp, nil
}

func (s *materialService) Download(ctx context.Context, materialID string, w io.Writer) (*model.Material, error) {
	material, err := s.repo.Material.GetByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	if _, err := s.blobs.StreamTo(ctx, material.FileID, w); err != nil {
		if errors.Is(err, blobstore.ErrFileNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	// 下载成功后才计数
	if err := s.repo.Material.IncrementDownloads(ctx, materialID); err != nil {
		s.logger.Warn("更新下载计数失败", zap.String("material_id", materialID), zap.Error(err))
	}
	return material, nil
}

func (s *materialService) Delete(ctx context.Context, materialID string) error {
	material, err := s.repo.Material.GetByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	if err := s.repo.Material.Delete(ctx, materialID); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, material.FileID); err != nil && !errors.Is(err, blobstore.ErrFileNotFound) {
		s.logger.Warn("删除 GridFS 文件失败", zap.String("file_id", material.FileID), zap.Error(err))
	}

	s.logger.Info("课程资料已删除", zap.String("material_id", materialID))
	return nil
}

func toMaterialResponse(m *model.Material) dto.MaterialResponse {
	return dto.MaterialResponse{
		MaterialID:  m.MaterialID,
		CourseCode:  m.CourseCode,
		Name:        m.Name,
		Description: m.Description,
		FileName:    m.FileName,
		Size:        m.Size,
		Mimetype:    m.Mimetype,
		Downloads:   int64(m.Downloads),
		CreatedAt:   m.CreatedAt,
	}
}
