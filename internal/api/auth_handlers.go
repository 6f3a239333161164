package api

import (
	"net/http"

	"donatello/backend/internal/common"
	"donatello/backend/internal/models/dtos"
	"donatello/backend/internal/services"
)

// RegisterUser handles POST /auth/register
func RegisterUser(authSvc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RegisterUserRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		user, err := authSvc.Register(r.Context(), &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusCreated, user)
	}
}

// Login handles POST /auth/login
func Login(authSvc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.LoginRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		resp, err := authSvc.Login(r.Context(), &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, resp)
	}
}

// ConfirmEmail handles GET /auth/confirm-email?token=
// The confirmation letter links here.
func ConfirmEmail(authSvc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			common.RespondError(w, common.NewServiceError(
				common.ErrInvalidInput, "Missing token query parameter"))
			return
		}
		resp, err := authSvc.ConfirmEmail(r.Context(), token)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, resp)
	}
}

// ResendConfirmation handles POST /auth/resend-confirmation
func ResendConfirmation(authSvc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ResendConfirmationRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		resp, err := authSvc.ResendConfirmation(r.Context(), req.Email)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, resp)
	}
}

// ForgotPassword handles POST /auth/forgot-password
func ForgotPassword(authSvc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ForgotPasswordRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		resp, err := authSvc.ForgotPassword(r.Context(), req.Email)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, resp)
	}
}

// ChangePassword handles POST /auth/change-password
func ChangePassword(authSvc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ChangePasswordRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		resp, err := authSvc.ChangePassword(r.Context(), &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, resp)
	}
}
