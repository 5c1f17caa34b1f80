package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/MyFGitAccount/platform-efs/config"
)

// ErrFileNotFound 文件不存在于 GridFS
var ErrFileNotFound = errors.New("文件不存在")

// Metadata 上传文件附带的元数据
type Metadata struct {
	OriginalName string `bson:"originalName"`
	Mimetype     string `bson:"mimetype"`
	Size         int64  `bson:"size"`
	UploadedBy   string `bson:"uploadedBy"`
	Type         string `bson:"type"` // student_card | course_material
	CourseCode   string `bson:"courseCode,omitempty"`
}

// Store GridFS 文件存储
// 学生证照片与课程资料的二进制内容存放于此，元数据行存放在 PostgreSQL
type Store struct {
	client *mongo.Client
	bucket *gridfs.Bucket
	logger *zap.Logger
}

// New 连接 MongoDB 并打开 GridFS bucket
func New(ctx context.Context, cfg *config.MongoConfig, logger *zap.Logger) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("连接 MongoDB 失败: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB ping 失败: %w", err)
	}

	bucket, err := gridfs.NewBucket(
		client.Database(cfg.Database),
		options.GridFSBucket().SetName(cfg.Bucket),
	)
	if err != nil {
		return nil, fmt.Errorf("打开 GridFS bucket 失败: %w", err)
	}

	logger.Info("GridFS 存储就绪",
		zap.String("database", cfg.Database),
		zap.String("bucket", cfg.Bucket),
	)

	return &Store{client: client, bucket: bucket, logger: logger}, nil
}

// Upload 写入文件内容，返回十六进制文件 ID
func (s *Store) Upload(ctx context.Context, filename string, data []byte, meta Metadata) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetWriteDeadline(deadline)
	}

	doc := bson.M{
		"originalName": meta.OriginalName,
		"mimetype":     meta.Mimetype,
		"size":         meta.Size,
		"uploadedBy":   meta.UploadedBy,
		"uploadedAt":   time.Now(),
		"type":         meta.Type,
	}
	if meta.CourseCode != "" {
		doc["courseCode"] = meta.CourseCode
	}

	id, err := s.bucket.UploadFromStream(filename, bytes.NewReader(data),
		options.GridFSUpload().SetMetadata(doc))
	if err != nil {
		return "", fmt.Errorf("GridFS 上传失败: %w", err)
	}

	return id.Hex(), nil
}

// Download 读取整个文件内容
func (s *Store) Download(ctx context.Context, fileID string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.StreamTo(ctx, fileID, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StreamTo 将文件内容流式写入 w，返回写入字节数
func (s *Store) StreamTo(ctx context.Context, fileID string, w io.Writer) (int64, error) {
	id, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return 0, ErrFileNotFound
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetReadDeadline(deadline)
	}

	n, err := s.bucket.DownloadToStream(id, w)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return 0, ErrFileNotFound
		}
		return n, fmt.Errorf("GridFS 下载失败: %w", err)
	}
	return n, nil
}

// Delete 删除文件
func (s *Store) Delete(ctx context.Context, fileID string) error {
	id, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return ErrFileNotFound
	}

	if err := s.bucket.Delete(id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("GridFS 删除失败: %w", err)
	}
	return nil
}

// Close 断开 MongoDB 连接
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
