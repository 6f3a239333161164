package dtos

import "github.com/shopspring/decimal"

type RegisterUserRequest struct {
	FirstName   string `json:"first_name" validate:"max=64"`
	LastName    string `json:"last_name" validate:"max=64"`
	Username    string `json:"username" validate:"required,min=2,max=64"`
	Email       string `json:"email" validate:"required,email,max=256"`
	PhoneNumber string `json:"phone_number" validate:"required,min=3,max=64"`
	Password    string `json:"password" validate:"required,min=6,max=256"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ResendConfirmationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest carries the reset token in the body next to the new
// password; the email template embeds the token in the posted form.
type ChangePasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=256"`
}

type UpdateUserRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=64"`
	LastName    *string `json:"last_name" validate:"omitempty,max=64"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,min=3,max=64"`
}

type CharityCreateRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=256"`
	Description string `json:"description" validate:"required,min=2,max=8192"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=3,max=64"`
}

type CharityUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2,max=256"`
	Description *string `json:"description" validate:"omitempty,min=2,max=8192"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,min=3,max=64"`
}

type AddEmployeeRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=supervisor manager"`
}

type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=supervisor manager"`
}

type FundraiseCreateRequest struct {
	CharityID   string          `json:"charity_id" validate:"required,uuid"`
	Title       string          `json:"title" validate:"required,min=2,max=256"`
	Description string          `json:"description" validate:"required,min=2,max=8192"`
	Goal        decimal.Decimal `json:"goal" validate:"required"`
	EndingAt    *string         `json:"ending_at" validate:"omitempty"`
}

type FundraiseUpdateRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=2,max=256"`
	Description *string          `json:"description" validate:"omitempty,min=2,max=8192"`
	Goal        *decimal.Decimal `json:"goal" validate:"omitempty"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof='New' 'In progress' 'On hold' 'Completed'"`
}

type DonationRequest struct {
	RecipientBalanceID string          `json:"recipient_balance_id" validate:"required,uuid"`
	Amount             decimal.Decimal `json:"amount" validate:"required"`
}

type RefillRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}
