package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, ErrCodeUnauthorized},
		{"forbidden", http.StatusForbidden, ErrCodeForbidden},
		{"not found", http.StatusNotFound, ErrCodeNotFound},
		{"conflict", http.StatusConflict, ErrCodeConflict},
		{"bad request", http.StatusBadRequest, ErrCodeValidation},
		{"unprocessable", http.StatusUnprocessableEntity, ErrCodeValidation},
		{"server error", http.StatusInternalServerError, ErrCodeInternal},
		{"bad gateway", http.StatusBadGateway, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus(tt.status, "detail")
			assert.Equal(t, tt.want, err.Code)
			assert.Equal(t, tt.status, err.Status)
			assert.Equal(t, "detail", err.Message)
		})
	}
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("missing")))
	assert.True(t, IsValidation(Validation("bad input")))
	assert.True(t, IsConflict(Conflict("taken")))
	assert.True(t, IsUnauthorized(Unauthorized("no token")))
	assert.True(t, IsForbidden(Forbidden("admins only")))
	assert.True(t, IsTransport(Transport(stderrors.New("refused"))))

	assert.False(t, IsNotFound(Validation("bad input")))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestIsHelpers_Wrapped(t *testing.T) {
	inner := NotFound("student not found")
	wrapped := fmt.Errorf("lookup: %w", inner)

	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, ErrCodeNotFound, GetCode(wrapped))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Wrap(cause, ErrCodeTransport, "request failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWrap_NilCause(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Transport(nil))
}

func TestUserMessage(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := Wrap(cause, ErrCodeTransport, "request failed")

	// The cause stays out of the user-facing message.
	assert.Equal(t, "request failed", UserMessage(err))
	assert.Equal(t, "plain", UserMessage(stderrors.New("plain")))
	assert.Equal(t, "", UserMessage(nil))
}
