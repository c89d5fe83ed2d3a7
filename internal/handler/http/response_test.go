package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domainErrors.ErrNotFound, http.StatusNotFound},
		{domainErrors.ErrAccountNotFound, http.StatusNotFound},
		{domainErrors.ErrDuplicateSubmission, http.StatusConflict},
		{domainErrors.ErrPendingRegistration, http.StatusConflict},
		{domainErrors.ErrInvalidCredential, http.StatusUnauthorized},
		{domainErrors.ErrEmailUnconfirmed, http.StatusUnauthorized},
		{domainErrors.ErrInvalidToken, http.StatusUnauthorized},
		{domainErrors.ErrExpiredToken, http.StatusUnauthorized},
		{domainErrors.ErrInvalidOtp, http.StatusBadRequest},
		{domainErrors.ErrReusedPassword, http.StatusBadRequest},
		{domainErrors.ErrInvalidRequest, http.StatusBadRequest},
		{domainErrors.ErrDependencyFailure, http.StatusServiceUnavailable},
		{errors.New("something unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForError(tc.err), "statusForError(%v)", tc.err)
	}
}

func TestStatusForError_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: connection refused", domainErrors.ErrDependencyFailure)
	assert.Equal(t, http.StatusServiceUnavailable, statusForError(wrapped))

	doubleWrapped := fmt.Errorf("login: %w", fmt.Errorf("%w", domainErrors.ErrInvalidCredential))
	assert.Equal(t, http.StatusUnauthorized, statusForError(doubleWrapped))
}
