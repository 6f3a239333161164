package constants

import (
	"database/sql/driver"
	"fmt"
)

// TokenKind distinguishes the two persisted token families sharing the
// auth_tokens table.
type TokenKind string

const (
	TokenKindEmailConfirmation TokenKind = "email_confirmation"
	TokenKindChangePassword    TokenKind = "change_password"
)

func (k TokenKind) String() string { return string(k) }

// Scan implements the sql.Scanner interface
func (k *TokenKind) Scan(src interface{}) error {
	if src == nil {
		*k = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*k = TokenKind(v)
	case []byte:
		*k = TokenKind(v)
	default:
		return fmt.Errorf("TokenKind: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (k TokenKind) Value() (driver.Value, error) { return string(k), nil }
