package utils

import (
	"context"

	"fixtrack/internal/authz"
	"fixtrack/pkg/contextkeys"
	apperrors "fixtrack/pkg/errors"
)

func GetSessionFromCtx(ctx context.Context) (*authz.Session, error) {
	session, ok := ctx.Value(contextkeys.SessionKey).(*authz.Session)
	if !ok || session == nil {
		return nil, apperrors.NewUnauthorizedError("Требуется авторизация", apperrors.ErrSessionNotFoundInContext)
	}
	return session, nil
}

func ContextWithSession(ctx context.Context, session *authz.Session) context.Context {
	return context.WithValue(ctx, contextkeys.SessionKey, session)
}
