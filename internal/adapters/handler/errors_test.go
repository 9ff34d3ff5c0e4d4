package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{fmt.Errorf("find complaint 7: %w", domain.ErrNotFound), http.StatusNotFound, "not found"},
		{domain.ErrEmailTaken, http.StatusBadRequest, "email already exists"},
		{domain.ErrAlreadyApplied, http.StatusBadRequest, "already applied to this job"},
		{fmt.Errorf("create complaint: %w", domain.ErrInvalidReference), http.StatusBadRequest, "invalid reference"},
		{domain.ErrExpiredOtp, http.StatusBadRequest, "otp expired"},
		{domain.ErrSelfDelete, http.StatusBadRequest, "cannot delete yourself"},
		{domain.Invalid("status", "must be one of PENDING, IN_PROGRESS, RESOLVED"), http.StatusBadRequest, "status: must be one of PENDING, IN_PROGRESS, RESOLVED"},
		{domain.ErrConflict, http.StatusConflict, "conflict"},
		{domain.ErrRateLimited, http.StatusTooManyRequests, "rate limit exceeded"},
		{fmt.Errorf("%w: gateway timeout", domain.ErrDelivery), http.StatusBadGateway, "delivery failed"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}
