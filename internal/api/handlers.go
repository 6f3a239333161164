package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"donatello/backend/internal/auth"
	"donatello/backend/internal/common"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate binds the JSON body into dst and runs struct validation.
// A false return means the response has already been written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondError(w, common.WrapServiceError(
			common.ErrInvalidInput, "Invalid JSON body", err))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		common.RespondError(w, common.WrapServiceError(
			common.ErrInvalidInput, err.Error(), err))
		return false
	}
	return true
}

// callerID pulls the authenticated user id out of the request context. The
// auth middleware guarantees it is present on protected routes.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil || claims.UserID() == "" {
		common.RespondError(w, common.NewServiceError(
			common.ErrUnauthorized, "Missing session"))
		return "", false
	}
	return claims.UserID(), true
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination reads ?page= and ?page_size= with sane bounds.
func pagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 {
		pageSize = v
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}
