package filestorage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStorageInterface хранилище вложений заявок. Пути относительные, со слэшами.
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	Delete(filePath string) error
	PublicURL(filePath string) string
}

var ErrInvalidPath = errors.New("недопустимый путь к файлу")

type LocalFileStorage struct {
	root      string
	urlPrefix string
	now       func() time.Time
}

func NewLocalFileStorage(basePath, urlPrefix string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию %s: %w", basePath, err)
	}
	urlPrefix = "/" + strings.Trim(urlPrefix, "/") + "/"
	if urlPrefix == "//" {
		urlPrefix = "/uploads/"
	}
	return &LocalFileStorage{root: basePath, urlPrefix: urlPrefix, now: time.Now}, nil
}

// Save кладёт файл в prefix/ГГГГ/ММ под именем из UUID с исходным расширением.
// Содержимое сначала пишется во временный файл, затем переименовывается.
func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	rel := path.Join(
		prefix,
		s.now().Format("2006/01"),
		uuid.NewString()+strings.ToLower(filepath.Ext(originalFileName)),
	)
	target := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", err
	}
	_, copyErr := io.Copy(tmp, file)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("не удалось записать файл: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return rel, nil
}

// Delete принимает относительный путь или публичный URL. Отсутствующий файл не ошибка.
func (s *LocalFileStorage) Delete(filePath string) error {
	rel, err := s.relative(filePath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalFileStorage) PublicURL(filePath string) string {
	return s.urlPrefix + strings.TrimPrefix(filePath, "/")
}

func (s *LocalFileStorage) relative(filePath string) (string, error) {
	rel := strings.TrimPrefix(strings.TrimPrefix(filePath, s.urlPrefix), "/")
	if rel == "" || !fs.ValidPath(rel) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, filePath)
	}
	return rel, nil
}
