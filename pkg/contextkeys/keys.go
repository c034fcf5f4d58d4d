package contextkeys

type contextKey string

const (
	// SessionKey хранит *authz.Session аутентифицированного сотрудника.
	SessionKey contextKey = "Session"
	// RequestIDKey идентификатор запроса для логов.
	RequestIDKey contextKey = "RequestID"
)
