package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"donatello/backend/internal/common"
	"donatello/backend/internal/models/dtos"
	"donatello/backend/internal/services"
)

// AddEmployee handles POST /charities/{charity_id}/employees
func AddEmployee(employeeSvc *services.CharityEmployeeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req dtos.AddEmployeeRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		employee, err := employeeSvc.AddEmployee(r.Context(), chi.URLParam(r, "charity_id"), userID, &req)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusCreated, employee)
	}
}

// RemoveEmployee handles DELETE /charities/{charity_id}/employees/{user_id}
func RemoveEmployee(employeeSvc *services.CharityEmployeeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		err := employeeSvc.RemoveEmployee(r.Context(),
			chi.URLParam(r, "charity_id"), userID, chi.URLParam(r, "user_id"))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, dtos.MessageResponse{Message: "Employee removed"})
	}
}

// ListEmployees handles GET /charities/{charity_id}/employees
func ListEmployees(employeeSvc *services.CharityEmployeeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		employees, err := employeeSvc.ListMembers(r.Context(), chi.URLParam(r, "charity_id"), userID)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, employees)
	}
}

// AssignRole handles POST /charities/{charity_id}/employees/{user_id}/roles
func AssignRole(employeeSvc *services.CharityEmployeeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req dtos.AssignRoleRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		employee, err := employeeSvc.AssignRole(r.Context(),
			chi.URLParam(r, "charity_id"), userID, chi.URLParam(r, "user_id"), req.Role)
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, employee)
	}
}

// RevokeRole handles DELETE /charities/{charity_id}/employees/{user_id}/roles/{role}
func RevokeRole(employeeSvc *services.CharityEmployeeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		employee, err := employeeSvc.RevokeRole(r.Context(),
			chi.URLParam(r, "charity_id"), userID, chi.URLParam(r, "user_id"), chi.URLParam(r, "role"))
		if err != nil {
			common.RespondError(w, err)
			return
		}
		common.RespondSuccess(w, http.StatusOK, employee)
	}
}
