package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fixtrack/internal/authz"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/utils"
)

// Authenticator превращает bearer-токен в сессию сотрудника.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*authz.Session, error)
}

type AuthMiddleware struct {
	authenticator Authenticator
	logger        *zap.Logger
}

func NewAuthMiddleware(authenticator Authenticator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger,
	}
}

// Auth проверяет заголовок Authorization и кладёт сессию в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.NewUnauthorizedError("Требуется авторизация", apperrors.ErrEmptyAuthHeader), m.logger)
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.NewUnauthorizedError("Неверный формат заголовка авторизации", apperrors.ErrInvalidAuthHeader), m.logger)
		}

		session, err := m.authenticator.Authenticate(c.Request().Context(), parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: токен отклонён", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		c.SetRequest(c.Request().WithContext(utils.ContextWithSession(c.Request().Context(), session)))
		return next(c)
	}
}

// RequirePasswordChanged пропускает только смену пароля, пока у сотрудника временный пароль.
// Применяется после Auth.
func (m *AuthMiddleware) RequirePasswordChanged(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := utils.GetSessionFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if !session.MustChangePassword {
				return next(c)
			}
			path := c.Path()
			for _, p := range allowed {
				if path == p {
					return next(c)
				}
			}
			return utils.ErrorResponse(c,
				apperrors.NewHttpError(http.StatusForbidden, "Необходимо сменить временный пароль", apperrors.ErrPasswordChangeRequired, nil),
				m.logger,
			)
		}
	}
}

// Authorize ограничивает маршрут ролями, которым выдано разрешение.
func (m *AuthMiddleware) Authorize(permission string) echo.MiddlewareFunc {
	return m.AuthorizeAny(permission)
}

// AuthorizeAny пропускает, если у роли есть хотя бы одно из разрешений.
func (m *AuthMiddleware) AuthorizeAny(permissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := utils.GetSessionFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if !authz.CanAny(session.Role, permissions...) {
				m.logger.Warn("AuthMiddleware: роль не допущена к маршруту",
					zap.Uint64("userID", session.AccountID),
					zap.String("role", session.Role.String()),
					zap.String("path", c.Path()),
				)
				return utils.ErrorResponse(c, apperrors.NewForbiddenError("Недостаточно прав для выполнения операции"), m.logger)
			}
			return next(c)
		}
	}
}
