package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	otpService  ports.OtpService
	logger      *zap.Logger
}

func NewAuthHandler(auth ports.AuthService, otp ports.OtpService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: auth, otpService: otp, logger: logger}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SendEmailOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SendMobileOtpRequest struct {
	Mobile string `json:"mobile" validate:"required,max=20"`
}

type VerifyOtpRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Code       string `json:"code" validate:"required,len=6,numeric"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req ports.RegisterInput
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.CurrentUser(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) SendEmailOtp(w http.ResponseWriter, r *http.Request) {
	var req SendEmailOtpRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.issue(w, r, domain.ChannelEmail, req.Email)
}

func (h *AuthHandler) SendMobileOtp(w http.ResponseWriter, r *http.Request) {
	var req SendMobileOtpRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.issue(w, r, domain.ChannelMobile, req.Mobile)
}

func (h *AuthHandler) VerifyEmailOtp(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, domain.ChannelEmail)
}

func (h *AuthHandler) VerifyMobileOtp(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, domain.ChannelMobile)
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, channel domain.Channel, identifier string) {
	if err := h.otpService.Issue(r.Context(), channel, identifier); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK)
}

func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request, channel domain.Channel) {
	var req VerifyOtpRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.otpService.Verify(r.Context(), channel, req.Identifier, req.Code); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK)
}
