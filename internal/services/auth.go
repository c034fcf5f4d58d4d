package services

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/dto"
	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/config"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/service"
	"fixtrack/pkg/utils"
)

const invalidCredentialsMessage = "Неверные учётные данные"

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error)
	// Authenticate проверяет токен и заново сверяет учётную запись с базой на каждом запросе.
	Authenticate(ctx context.Context, token string) (*authz.Session, error)
	ChangePassword(ctx context.Context, payload dto.ChangePasswordDTO) (*dto.LoginResponseDTO, error)
	Profile(ctx context.Context) (*dto.ProfileDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	hasher     utils.PasswordHasher
	jwtService service.JWTService
	policy     config.PasswordPolicyConfig
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	hasher utils.PasswordHasher,
	jwtService service.JWTService,
	policy config.PasswordPolicyConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		policy:     policy,
		logger:     logger,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	logger := s.logger.With(zap.String("username", payload.Username))

	user, err := s.userRepo.FindByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Вход с неизвестным логином")
			return nil, apperrors.NewUnauthorizedError(invalidCredentialsMessage, apperrors.ErrInvalidCredentials)
		}
		return nil, apperrors.NewInternalError(err, nil)
	}

	if !s.hasher.Verify(payload.Password, user.PasswordHash) {
		logger.Warn("Неверный пароль", zap.Uint64("userID", user.ID))
		return nil, apperrors.NewUnauthorizedError(invalidCredentialsMessage, apperrors.ErrInvalidCredentials)
	}
	if !user.IsActive {
		logger.Warn("Попытка входа в деактивированную учётную запись", zap.Uint64("userID", user.ID))
		return nil, apperrors.NewUnauthorizedError("Учётная запись деактивирована. Обратитесь к администратору", apperrors.ErrAccountDeactivated)
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	logger.Info("Пользователь вошёл в систему", zap.Uint64("userID", user.ID), zap.String("role", user.Role.String()))
	return resp, nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*authz.Session, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Недействительный или просроченный токен", err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("Пользователь не найден", apperrors.ErrInvalidToken)
		}
		return nil, apperrors.NewInternalError(err, nil)
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError("Учётная запись деактивирована", apperrors.ErrAccountDeactivated)
	}

	// роль и флаг смены пароля берутся из базы, а не из токена
	return &authz.Session{
		AccountID:          user.ID,
		Username:           user.Username,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
	}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, payload dto.ChangePasswordDTO) (*dto.LoginResponseDTO, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if payload.NewPassword != payload.ConfirmPassword {
		return nil, apperrors.NewValidationError("Новый пароль и подтверждение не совпадают")
	}
	if problems := utils.ValidatePasswordStrength(s.policy, payload.NewPassword); len(problems) > 0 {
		return nil, apperrors.NewValidationErrorWithDetails("Пароль не соответствует требованиям безопасности", problems)
	}

	user, err := s.userRepo.FindByID(ctx, session.AccountID)
	if err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}
	if !s.hasher.Verify(payload.CurrentPassword, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Текущий пароль указан неверно", apperrors.ErrInvalidCredentials)
	}
	if payload.NewPassword == payload.CurrentPassword {
		return nil, apperrors.NewValidationError("Новый пароль должен отличаться от текущего")
	}

	hash, err := s.hasher.Hash(payload.NewPassword)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash, false); err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}
	user.PasswordHash = hash
	user.MustChangePassword = false

	s.logger.Info("Пароль изменён", zap.Uint64("userID", user.ID))
	return s.issue(user)
}

func (s *AuthService) Profile(ctx context.Context) (*dto.ProfileDTO, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, session.AccountID)
	if err != nil {
		return nil, mapRepoError(err, "Пользователь не найден")
	}
	permissions := authz.PermissionsFor(user.Role)
	sort.Strings(permissions)
	return &dto.ProfileDTO{UserDTO: toUserDTO(user), Permissions: permissions}, nil
}

func (s *AuthService) issue(user *entities.User) (*dto.LoginResponseDTO, error) {
	token, err := s.jwtService.GenerateToken(service.TokenSubject{
		UserID:             user.ID,
		Username:           user.Username,
		Role:               user.Role.String(),
		MustChangePassword: user.MustChangePassword,
	})
	if err != nil {
		s.logger.Error("Не удалось выпустить токен", zap.Uint64("userID", user.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(err, nil)
	}
	return &dto.LoginResponseDTO{Token: token, User: toUserDTO(user)}, nil
}
