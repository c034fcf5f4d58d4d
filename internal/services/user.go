package services

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/dto"
	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/config"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/types"
	"fixtrack/pkg/utils"
)

const temporaryPasswordLength = 12

type UserServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	Create(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	GetByID(ctx context.Context, id uint64) (*dto.UserDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	SetActive(ctx context.Context, id uint64, active bool) (*dto.UserDTO, error)
	ResetPassword(ctx context.Context, id uint64, payload dto.ResetPasswordDTO) (*dto.ResetPasswordResponseDTO, error)
}

type UserService struct {
	*BaseService
	userRepo repositories.UserRepositoryInterface
	hasher   utils.PasswordHasher
	policy   config.PasswordPolicyConfig
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	hasher utils.PasswordHasher,
	policy config.PasswordPolicyConfig,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		BaseService: NewBaseService(nil, logger),
		userRepo:    userRepo,
		hasher:      hasher,
		policy:      policy,
	}
}

func (s *UserService) List(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	if _, err := s.CheckPermission(ctx, authz.UsersView); err != nil {
		return nil, 0, err
	}

	repoFilter := repositories.UserListFilter{
		Role:   filter.Value("role"),
		Search: strings.TrimSpace(filter.Search),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if raw := filter.Value("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, 0, apperrors.NewValidationError("Параметр is_active должен быть true или false")
		}
		repoFilter.IsActive = &active
	}

	users, total, err := s.userRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err, nil)
	}
	result := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		result = append(result, toUserDTO(&users[i]))
	}
	return result, total, nil
}

func (s *UserService) Create(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	session, err := s.CheckPermission(ctx, authz.UsersManage)
	if err != nil {
		return nil, err
	}

	role := constants.Role(payload.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("Недопустимая роль")
	}
	if problems := utils.ValidatePasswordStrength(s.policy, payload.Password); len(problems) > 0 {
		return nil, apperrors.NewValidationErrorWithDetails("Пароль не соответствует требованиям безопасности", problems)
	}

	username := strings.TrimSpace(payload.Username)
	exists, err := s.userRepo.ExistsByUsername(ctx, username, 0)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	if exists {
		return nil, apperrors.NewConflictError("Пользователь с таким логином уже существует")
	}

	hash, err := s.hasher.Hash(payload.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	user := &entities.User{
		Username:           username,
		PasswordHash:       hash,
		Role:               role,
		IsActive:           true,
		MustChangePassword: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}

	s.logger.Info("Создан пользователь",
		zap.Uint64("userID", user.ID),
		zap.String("role", role.String()),
		zap.Uint64("createdBy", session.AccountID),
	)
	result := toUserDTO(user)
	return &result, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	if _, err := s.CheckPermission(ctx, authz.UsersManage); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}
	result := toUserDTO(user)
	return &result, nil
}

func (s *UserService) Update(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	if _, err := s.CheckPermission(ctx, authz.UsersManage); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}

	if payload.Username.Valid {
		username := strings.TrimSpace(payload.Username.String)
		if username == "" {
			return nil, apperrors.NewValidationError("Логин не может быть пустым")
		}
		if username != user.Username {
			exists, err := s.userRepo.ExistsByUsername(ctx, username, user.ID)
			if err != nil {
				return nil, apperrors.NewInternalError(err, nil)
			}
			if exists {
				return nil, apperrors.NewConflictError("Пользователь с таким логином уже существует")
			}
			user.Username = username
		}
	}
	if payload.Role.Valid {
		role := constants.Role(payload.Role.String)
		if !role.IsValid() {
			return nil, apperrors.NewValidationError("Недопустимая роль")
		}
		user.Role = role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}
	result := toUserDTO(user)
	return &result, nil
}

// SetActive включает или отключает учётную запись. Отключить самого себя нельзя.
func (s *UserService) SetActive(ctx context.Context, id uint64, active bool) (*dto.UserDTO, error) {
	session, err := s.CheckPermission(ctx, authz.UsersManage)
	if err != nil {
		return nil, err
	}
	if !active && session.AccountID == id {
		return nil, apperrors.NewValidationError("Нельзя деактивировать собственную учётную запись")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}
	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}

	s.logger.Info("Изменён статус учётной записи",
		zap.Uint64("userID", id),
		zap.Bool("isActive", active),
		zap.Uint64("changedBy", session.AccountID),
	)
	result := toUserDTO(user)
	return &result, nil
}

// ResetPassword задаёт переданный пароль или генерирует временный; после сброса пароль нужно сменить.
func (s *UserService) ResetPassword(ctx context.Context, id uint64, payload dto.ResetPasswordDTO) (*dto.ResetPasswordResponseDTO, error) {
	session, err := s.CheckPermission(ctx, authz.UsersManage)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}

	password := payload.NewPassword
	var generated *string
	if password == "" {
		password, err = s.generatePassword()
		if err != nil {
			return nil, apperrors.NewInternalError(err, nil)
		}
		generated = &password
	} else if problems := utils.ValidatePasswordStrength(s.policy, password); len(problems) > 0 {
		return nil, apperrors.NewValidationErrorWithDetails("Пароль не соответствует требованиям безопасности", problems)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash, true); err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}
	user.MustChangePassword = true

	s.logger.Info("Пароль сброшен администратором", zap.Uint64("userID", id), zap.Uint64("resetBy", session.AccountID))
	return &dto.ResetPasswordResponseDTO{User: toUserDTO(user), TemporaryPassword: generated}, nil
}

// generatePassword повторяет генерацию, пока пароль не пройдёт текущую политику.
func (s *UserService) generatePassword() (string, error) {
	length := temporaryPasswordLength
	if s.policy.MinLength > length {
		length = s.policy.MinLength
	}
	for {
		password, err := utils.GenerateTemporaryPassword(length)
		if err != nil {
			return "", err
		}
		if len(utils.ValidatePasswordStrength(s.policy, password)) == 0 {
			return password, nil
		}
	}
}
