package validation

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"fixtrack/pkg/config"
)

// DetectFileType определяет MIME-тип по сигнатуре содержимого и возвращает курсор в начало.
// Усечённые документы Word распознаются по расширению.
func DetectFileType(file io.ReadSeeker, fileName string) (string, error) {
	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения файла")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("ошибка обработки файла")
	}

	mimeType := detected.String()
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}

	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".docx") && mimeType == "application/zip":
		mimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case strings.HasSuffix(lower, ".doc") && (mimeType == "application/octet-stream" || mimeType == "application/x-ole-storage"):
		mimeType = "application/msword"
	}
	return mimeType, nil
}

// ValidateFile проверяет размер и тип файла по правилам загрузки.
func ValidateFile(rules config.UploadConfig, size int64, mimeType string) error {
	if rules.MaxSizeBytes > 0 && size > rules.MaxSizeBytes {
		return fmt.Errorf("размер файла (%.2f MB) превышает лимит в %.0f MB", float64(size)/1024/1024, float64(rules.MaxSizeBytes)/1024/1024)
	}
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return fmt.Errorf("недопустимый формат файла: %s", mimeType)
	}
	return nil
}
