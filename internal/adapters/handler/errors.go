package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrInvalidToken, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrEmailTaken, http.StatusBadRequest},
	{domain.ErrAlreadyApplied, http.StatusBadRequest},
	{domain.ErrInvalidReference, http.StatusBadRequest},
	{domain.ErrInvalidOtp, http.StatusBadRequest},
	{domain.ErrExpiredOtp, http.StatusBadRequest},
	{domain.ErrSelfDelete, http.StatusBadRequest},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrRateLimited, http.StatusTooManyRequests},
	{domain.ErrDelivery, http.StatusBadGateway},
}

// statusFor maps a service error to its HTTP status and the message shown to
// the client. Unknown errors are 500 and their text is not exposed.
func statusFor(err error) (int, string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error()
	}
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	} else {
		logger.Debug("request rejected",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
