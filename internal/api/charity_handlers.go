package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"donatello/backend/internal/common"
	"donatello/backend/internal/models/dtos"
	"donatello/backend/internal/services"
)

// CreateCharity handles POST /charities
func CreateCharity(charitySvc *services.CharityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req dtos.CharityCreateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		charity, err := charitySvc.Create(r.Context(), userID, &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusCreated, charity)
	}
}

// GetCharity handles GET /charities/{charity_id}
func GetCharity(charitySvc *services.CharityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		charity, err := charitySvc.GetByID(r.Context(), chi.URLParam(r, "charity_id"))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, charity)
	}
}

// ListCharities handles GET /charities?title=&page=&page_size=
func ListCharities(charitySvc *services.CharityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := pagination(r)
		charities, err := charitySvc.List(r.Context(), r.URL.Query().Get("title"), page, pageSize)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, charities)
	}
}

// UpdateCharity handles PATCH /charities/{charity_id}
func UpdateCharity(charitySvc *services.CharityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req dtos.CharityUpdateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		charity, err := charitySvc.Update(r.Context(), chi.URLParam(r, "charity_id"), userID, &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, charity)
	}
}

// DeleteCharity handles DELETE /charities/{charity_id}
func DeleteCharity(charitySvc *services.CharityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		if err := charitySvc.Delete(r.Context(), chi.URLParam(r, "charity_id"), userID); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, dtos.MessageResponse{Message: "Charity deleted"})
	}
}
