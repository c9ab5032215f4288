package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// 存储桶名称，对应前端上传时使用的分组
const (
	BucketProjectImages = "project-images"
	BucketArticleImages = "article-images"
)

// DefaultMaxBytes 是单张图片允许的最大字节数
const DefaultMaxBytes int64 = 10 << 20

var (
	ErrNotImage      = errors.New("only image files can be uploaded")
	ErrTooLarge      = errors.New("image exceeds the upload size limit")
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrEmptyUpload   = errors.New("no image provided")
)

// UploadError wraps any failure while storing an image. Callers show it and
// let the user paste an image URL instead.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return "upload failed: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Image describes a stored image.
type Image struct {
	URL    string `json:"url"`
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// LocalStore 把图片写入本地目录，并通过静态路由对外提供访问
type LocalStore struct {
	dir      string
	urlPath  string
	maxBytes int64
	now      func() time.Time
}

// NewLocalStore creates a store rooted at dir whose files are served under urlPath.
func NewLocalStore(dir, urlPath string, maxBytes int64) *LocalStore {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	urlPath = "/" + strings.Trim(strings.TrimSpace(urlPath), "/")
	return &LocalStore{
		dir:      dir,
		urlPath:  urlPath,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Dir returns the on-disk root.
func (s *LocalStore) Dir() string {
	return s.dir
}

// URLPath returns the public URL prefix.
func (s *LocalStore) URLPath() string {
	return s.urlPath
}

// UploadImage validates r as an image and stores it inside bucket, returning its public URL.
// The stored extension follows the decoded format.
func (s *LocalStore) UploadImage(ctx context.Context, bucket, contentType string, r io.Reader) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, &UploadError{Err: err}
	}

	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		bucket = BucketProjectImages
	}
	if bucket != BucketProjectImages && bucket != BucketArticleImages {
		return nil, &UploadError{Err: fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)}
	}

	// 未声明类型的文件交给解码结果判断
	if contentType != "" && contentType != "application/octet-stream" && !strings.HasPrefix(contentType, "image/") {
		return nil, &UploadError{Err: ErrNotImage}
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	if len(data) == 0 {
		return nil, &UploadError{Err: ErrEmptyUpload}
	}
	if int64(len(data)) > s.maxBytes {
		return nil, &UploadError{Err: ErrTooLarge}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &UploadError{Err: ErrNotImage}
	}

	// 扩展名取自解码出的真实格式，忽略客户端文件名
	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}

	bucketDir := filepath.Join(s.dir, bucket)
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return nil, &UploadError{Err: err}
	}

	// 生成唯一文件名
	name := fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(bucketDir, name), data, 0o644); err != nil {
		return nil, &UploadError{Err: err}
	}

	rel := path.Join(bucket, name)
	return &Image{
		URL:    path.Join(s.urlPath, rel),
		Path:   rel,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}
