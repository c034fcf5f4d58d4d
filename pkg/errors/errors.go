package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Таксономия ошибок предметной области
	ErrValidation   = fmt.Errorf("ошибка валидации")
	ErrNotFound     = fmt.Errorf("запись не найдена")
	ErrUnauthorized = fmt.Errorf("неавторизован")
	ErrForbidden    = fmt.Errorf("доступ запрещён")
	ErrConflict     = fmt.Errorf("конфликт состояния")

	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")

	// Авторизация
	ErrEmptyAuthHeader        = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader      = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials     = fmt.Errorf("неверные учётные данные")
	ErrAccountDeactivated     = fmt.Errorf("учётная запись деактивирована")
	ErrPasswordChangeRequired = fmt.Errorf("необходимо сменить временный пароль")

	// Контекст
	ErrSessionNotFoundInContext = fmt.Errorf("сессия не найдена в контексте запроса")
)

// HttpError ошибка, которую контроллер может отдать клиенту как есть.
// Err хранит внутреннюю причину и только логируется.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

// Is связывает HTTP-код с сентинелом таксономии, поэтому
// errors.Is(err, ErrConflict) работает для любой ошибки с кодом 409.
func (e *HttpError) Is(target error) bool {
	kind := kindForCode(e.Code)
	return kind != nil && kind == target
}

func kindForCode(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return nil
}

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

func NewValidationError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, nil, nil)
}

// NewValidationErrorWithDetails добавляет список нарушений в тело ответа.
func NewValidationErrorWithDetails(message string, details interface{}) *HttpError {
	e := NewHttpError(http.StatusBadRequest, message, nil, nil)
	e.Details = details
	return e
}

func NewNotFoundError(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message, nil, nil)
}

func NewUnauthorizedError(message string, err error) *HttpError {
	return NewHttpError(http.StatusUnauthorized, message, err, nil)
}

func NewForbiddenError(message string) *HttpError {
	return NewHttpError(http.StatusForbidden, message, nil, nil)
}

func NewConflictError(message string) *HttpError {
	return NewHttpError(http.StatusConflict, message, nil, nil)
}

// NewInternalError оборачивает непредвиденную ошибку; клиенту уходит только общее сообщение.
func NewInternalError(err error, ctx map[string]interface{}) *HttpError {
	return NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, ctx)
}

// CodeOf возвращает HTTP-код ошибки или 500, если это не HttpError.
func CodeOf(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}
