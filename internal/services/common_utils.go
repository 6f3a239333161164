package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
	"donatello/backend/internal/logging"
)

// translateDBError maps raw persistence failures onto service error kinds.
// Context cancellation surfaces as its own kind so the HTTP layer can answer
// with the client-closed-request status.
func translateDBError(err error, notFoundDetail string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return common.WrapServiceError(common.ErrCancelled, "Request cancelled", err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.WrapServiceError(common.ErrNotFound, notFoundDetail, err)
	default:
		var se *common.ServiceError
		if errors.As(err, &se) {
			return err
		}
		return common.WrapServiceError(common.ErrInternal, "Internal server error", err)
	}
}

// isUniqueViolation detects unique index violations from both postgres and
// the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// isSerializationFailure detects postgres serialization and deadlock aborts
// (SQLSTATE 40001 / 40P01) by message, which also covers the wrapped form
// GORM returns them in.
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "could not serialize access")
}

// txWithRetry runs fn in a transaction and retries exactly once on a
// serialization failure. A second failure surfaces as a conflict the client
// is expected to retry.
func txWithRetry(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		lastErr = db.WithContext(ctx).Transaction(fn)
		if lastErr == nil {
			return nil
		}
		if !isSerializationFailure(lastErr) {
			return lastErr
		}
		logging.Warn("Transaction hit serialization failure, retrying",
			"attempt", attempt+1, "error", lastErr)
	}
	return common.WrapServiceError(common.ErrConflict, constants.MsgSerializationRetry, lastErr)
}
