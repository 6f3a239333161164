package api

import (
	"net/http"

	"donatello/backend/internal/common"
	"donatello/backend/internal/models/dtos"
	"donatello/backend/internal/services"
)

// GetBalance handles GET /balance
func GetBalance(donationSvc *services.DonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		balance, err := donationSvc.GetBalance(r.Context(), userID)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, balance)
	}
}

// RefillBalance handles POST /balance/refill
func RefillBalance(donationSvc *services.DonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req dtos.RefillRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		refill, err := donationSvc.Refill(r.Context(), userID, &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusCreated, refill)
	}
}

// ListRefills handles GET /balance/refills
func ListRefills(donationSvc *services.DonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		page, pageSize := pagination(r)
		refills, err := donationSvc.ListRefills(r.Context(), userID, page, pageSize)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, refills)
	}
}

// Donate handles POST /donations
func Donate(donationSvc *services.DonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req dtos.DonationRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		donation, err := donationSvc.Donate(r.Context(), userID, &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusCreated, donation)
	}
}

// ListDonations handles GET /donations
func ListDonations(donationSvc *services.DonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		page, pageSize := pagination(r)
		donations, err := donationSvc.ListDonations(r.Context(), userID, page, pageSize)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, donations)
	}
}

// BalanceIntegrityReport handles GET /ops/balance-integrity
func BalanceIntegrityReport(donationSvc *services.DonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := donationSvc.BalanceIntegrityReport(r.Context())
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, report)
	}
}
