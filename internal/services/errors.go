package services

import "errors"

// Every outcome the top-up workflow can reject with is a named error. The API
// layer maps these to client-facing statuses with errors.Is.
var (
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrTopUpOptionNotFound      = errors.New("top up option not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrBeneficiaryNotFound      = errors.New("beneficiary not found")
	ErrBeneficiaryAlreadyExists = errors.New("a beneficiary with the same phone number already exists")
	ErrBeneficiaryLimitExceeded = errors.New("already added the maximum number of beneficiaries")
	ErrMonthlyLimitExceeded     = errors.New("monthly limit exceeded")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrUserBalanceNotFound      = errors.New("user balance not found")
	ErrGatewayUnavailable       = errors.New("balance service unavailable")
)
