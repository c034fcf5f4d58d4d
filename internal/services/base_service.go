package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/dto"
	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/utils"
)

type BaseService struct {
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger
}

func NewBaseService(cache repositories.CacheRepositoryInterface, logger *zap.Logger) *BaseService {
	return &BaseService{cache: cache, logger: logger}
}

// CheckPermission достаёт сессию из контекста и проверяет, что роль владеет разрешением.
func (s *BaseService) CheckPermission(ctx context.Context, permission string) (*authz.Session, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		s.logger.Error("Пользователь не авторизован", zap.Error(err))
		return nil, err
	}
	if !session.Can(permission) {
		s.logger.Warn("Отказано в доступе",
			zap.Uint64("userID", session.AccountID),
			zap.String("role", session.Role.String()),
			zap.String("permission", permission),
		)
		return session, apperrors.NewForbiddenError("Недостаточно прав для выполнения операции")
	}
	return session, nil
}

// CacheGet читает JSON из кеша. Любая ошибка кеша трактуется как промах.
func (s *BaseService) CacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("Кеш недоступен", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		s.logger.Warn("Повреждённая запись кеша", zap.String("key", key), zap.Error(err))
		return false
	}
	s.logger.Debug("Данные получены из кеша", zap.String("key", key))
	return true
}

func (s *BaseService) CacheSet(ctx context.Context, key string, data interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	serialized, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, serialized, ttl); err != nil {
		s.logger.Warn("Не удалось записать в кеш", zap.String("key", key), zap.Error(err))
	}
}

// mapRepoError переводит ошибки хранилища в ошибки для клиента.
func mapRepoError(err error, notFoundMessage string) error {
	var httpErr *apperrors.HttpError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &httpErr):
		return err
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewNotFoundError(notFoundMessage)
	case errors.Is(err, apperrors.ErrConflict):
		return apperrors.NewConflictError("Запись с такими данными уже существует")
	default:
		return apperrors.NewInternalError(err, nil)
	}
}

func toUserDTO(u *entities.User) dto.UserDTO {
	return dto.UserDTO{
		ID:                 u.ID,
		Username:           u.Username,
		Role:               u.Role.String(),
		IsActive:           u.IsActive,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
