package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"donatello/backend/internal/common"
	"donatello/backend/internal/models/dtos"
	"donatello/backend/internal/services"
)

// CreateFundraise handles POST /fundraisers
func CreateFundraise(fundraiseSvc *services.FundraiseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req dtos.FundraiseCreateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		fundraise, err := fundraiseSvc.Create(r.Context(), userID, &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusCreated, fundraise)
	}
}

// GetFundraise handles GET /fundraisers/{fundraise_id}
func GetFundraise(fundraiseSvc *services.FundraiseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fundraise, err := fundraiseSvc.GetByID(r.Context(), chi.URLParam(r, "fundraise_id"))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, fundraise)
	}
}

// ListCharityFundraisers handles GET /charities/{charity_id}/fundraisers
func ListCharityFundraisers(fundraiseSvc *services.FundraiseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := pagination(r)
		fundraisers, err := fundraiseSvc.ListByCharity(r.Context(), chi.URLParam(r, "charity_id"), page, pageSize)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, fundraisers)
	}
}

// UpdateFundraise handles PATCH /fundraisers/{fundraise_id}
func UpdateFundraise(fundraiseSvc *services.FundraiseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req dtos.FundraiseUpdateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		fundraise, err := fundraiseSvc.Update(r.Context(), chi.URLParam(r, "fundraise_id"), userID, &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, fundraise)
	}
}

// DeleteFundraise handles DELETE /fundraisers/{fundraise_id}
func DeleteFundraise(fundraiseSvc *services.FundraiseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		if err := fundraiseSvc.Delete(r.Context(), chi.URLParam(r, "fundraise_id"), userID); err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, dtos.MessageResponse{Message: "Fundraise deleted"})
	}
}

// AdvanceFundraiseStatus handles POST /fundraisers/{fundraise_id}/status
func AdvanceFundraiseStatus(fundraiseSvc *services.FundraiseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req dtos.AdvanceStatusRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		fundraise, err := fundraiseSvc.AdvanceStatus(r.Context(), chi.URLParam(r, "fundraise_id"), userID, req.Status)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, fundraise)
	}
}

// GetFundraiseStatusHistory handles GET /fundraisers/{fundraise_id}/status/history
func GetFundraiseStatusHistory(fundraiseSvc *services.FundraiseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := fundraiseSvc.StatusHistory(r.Context(), chi.URLParam(r, "fundraise_id"))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, history)
	}
}
