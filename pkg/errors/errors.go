package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrAccountLocked      = fmt.Errorf("учётная запись временно заблокирована")
	ErrUnauthorized       = fmt.Errorf("неавторизован")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound                = fmt.Errorf("запись не найдена")
	ErrBadRequest              = fmt.Errorf("неверный запрос")
	ErrConflict                = fmt.Errorf("запись уже существует")
	ErrInvalidStatusTransition = fmt.Errorf("недопустимый переход статуса")
)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError несёт код ответа и сообщение для клиента; Err уходит только в лог.
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

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

// FromServiceError подбирает HTTP-код по ошибке сервиса. fallback используется
// как сообщение для 500.
func FromServiceError(err error, fallback string) *HttpError {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var inputErr *InvalidInputError
	switch {
	case errors.As(err, &inputErr):
		return NewHttpError(http.StatusBadRequest, inputErr.Message, nil, nil)
	case errors.Is(err, ErrNotFound):
		return NewHttpError(http.StatusNotFound, ErrNotFound.Error(), nil, nil)
	case errors.Is(err, ErrBadRequest):
		return NewHttpError(http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrConflict):
		return NewHttpError(http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidStatusTransition):
		return NewHttpError(http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenIsNotRefresh), errors.Is(err, ErrTokenIsNotAccess),
		errors.Is(err, ErrEmptyAuthHeader), errors.Is(err, ErrInvalidAuthHeader):
		return NewHttpError(http.StatusUnauthorized, rootMessage(err), nil, nil)
	case errors.Is(err, ErrAccountLocked):
		return NewHttpError(http.StatusTooManyRequests, ErrAccountLocked.Error(), nil, nil)
	}
	return NewHttpError(http.StatusInternalServerError, fallback, err, nil)
}

func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
