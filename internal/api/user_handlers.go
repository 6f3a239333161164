package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"donatello/backend/internal/common"
	"donatello/backend/internal/models/dtos"
	"donatello/backend/internal/services"
)

// GetMe handles GET /users/me
func GetMe(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		user, err := userSvc.GetByID(r.Context(), userID)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, user)
	}
}

// UpdateMe handles PATCH /users/me
func UpdateMe(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req dtos.UpdateUserRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		user, err := userSvc.Update(r.Context(), userID, &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, user)
	}
}

// DeleteMe handles DELETE /users/me
func DeleteMe(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		if err := userSvc.Delete(r.Context(), userID); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, dtos.MessageResponse{Message: "User deleted"})
	}
}

// GetUser handles GET /users/{user_id}
func GetUser(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userSvc.GetByID(r.Context(), chi.URLParam(r, "user_id"))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, user)
	}
}

// ListUsers handles GET /users
func ListUsers(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := pagination(r)
		users, err := userSvc.List(r.Context(), page, pageSize)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, users)
	}
}
