package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromServiceError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("актив: %w", ErrNotFound), http.StatusNotFound},
		{NewInvalidInputError("поле %s", "x"), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", ErrInvalidStatusTransition), http.StatusConflict},
		{ErrConflict, http.StatusConflict},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrAccountLocked, http.StatusTooManyRequests},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		httpErr := FromServiceError(tc.err, "fallback")
		assert.Equal(t, tc.code, httpErr.Code, tc.err.Error())
	}
}

func TestFromServiceError_KeepsHttpError(t *testing.T) {
	orig := NewHttpError(http.StatusTeapot, "чайник", nil, nil)
	assert.Same(t, orig, FromServiceError(fmt.Errorf("wrap: %w", orig), "x"))
}

func TestHttpError_Unwrap(t *testing.T) {
	err := NewHttpError(http.StatusInternalServerError, "ошибка", ErrNotFound, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "ошибка")
}
