package dtos

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserResponse struct {
	ID          string     `json:"id"`
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	ActivatedAt *time.Time `json:"activated_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CharityResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}

type EmployeeResponse struct {
	ID       string   `json:"id"`
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type FundraiseResponse struct {
	ID          string          `json:"id"`
	CharityID   string          `json:"charity_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Goal        decimal.Decimal `json:"goal"`
	EndingAt    *time.Time      `json:"ending_at"`
	BalanceID   *string         `json:"balance_id"`
	Status      string          `json:"status"`
	IsDonatable bool            `json:"is_donatable"`
	CreatedAt   time.Time       `json:"created_at"`
}

type StatusHistoryResponse struct {
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}

type BalanceResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

type RefillResponse struct {
	ID        string          `json:"id"`
	BalanceID string          `json:"balance_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type DonationResponse struct {
	ID          string          `json:"id"`
	SenderID    string          `json:"sender_id"`
	RecipientID string          `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Page wraps paginated collection results.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}
