package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/modentca/modentca-api/config"
)

const maxImageSize = 5 * 1024 * 1024

var errImageTooLarge = errors.New("image exceeds size limit")
var errImageType = errors.New("unsupported image type")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// saveImage stores an uploaded image under the configured upload directory,
// partitioned by date, with a uuid filename. It returns the local path and
// the public URL.
func saveImage(header *multipart.FileHeader, subdir string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		return "", "", errImageType
	}
	if header.Size > maxImageSize {
		return "", "", errImageTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	now := time.Now()
	datePath := filepath.Join(now.Format("2006"), now.Format("01"))
	baseDir := filepath.Join(config.Get().UploadDir, subdir, datePath)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	name := uuid.New().String() + ext
	dstPath := filepath.Join(baseDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", "", err
	}
	defer out.Close()

	lr := &io.LimitedReader{R: src, N: maxImageSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		return "", "", err
	}
	if written > maxImageSize {
		_ = os.Remove(dstPath)
		return "", "", errImageTooLarge
	}

	url := fmt.Sprintf("/static/%s/%s/%s", subdir, strings.ReplaceAll(datePath, string(os.PathSeparator), "/"), name)
	return dstPath, url, nil
}

// removeStoredFile deletes a previously saved upload, ignoring files that
// are already gone.
func removeStoredFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
