package photos

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"SecurityAlert/config"
	"SecurityAlert/pkg/logger"
)

// 通缉照片落盘存储，文件名使用 uuid 防止冲突与猜测

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Save 保存上传的照片，返回相对存储路径
func Save(file *multipart.FileHeader) (string, error) {
	if file.Size > config.Cfg.PhotoMaxBytes {
		return "", fmt.Errorf("photo exceeds max size: %d bytes", file.Size)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported photo extension: %s", ext)
	}

	dir := config.Cfg.PhotoStorageDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create photo storage dir: %w", err)
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(dir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded photo: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	logger.Logger.Debug("Photo saved",
		zap.String("path", name),
		zap.Int64("size", file.Size),
	)

	return name, nil
}

// Remove 删除已存储的照片，文件不存在时静默成功
func Remove(path string) error {
	if path == "" {
		return nil
	}

	full := filepath.Join(config.Cfg.PhotoStorageDir, filepath.Base(path))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove photo file: %w", err)
	}
	return nil
}
