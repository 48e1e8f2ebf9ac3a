package repository

import (
	"context"
	"errors"
	"time"

	"github.com/NourWarrag/topup-service/internal/models"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by lookups when no row matches. Implementations
// translate their driver's no-rows error into it.
var ErrNotFound = errors.New("not found")

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

type Beneficiaries interface {
	Create(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error)
	GetByID(ctx context.Context, id string) (models.Beneficiary, error)
	// GetForUser resolves id only within the given user's beneficiaries.
	GetForUser(ctx context.Context, id, userID string) (models.Beneficiary, error)
	ListByUser(ctx context.Context, userID string) ([]models.Beneficiary, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	PhoneExists(ctx context.Context, userID, phoneNumber string) (bool, error)
	Update(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error)
	Delete(ctx context.Context, id string) error
}

type Transactions interface {
	// CreatePair appends the principal and charge rows in one database
	// transaction: either both become visible or neither does.
	CreatePair(ctx context.Context, principal, charge models.Transaction) error
	GetByID(ctx context.Context, id string) (models.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
	// Monthly-limit sums. Charge rows are excluded: caps apply to principal
	// amounts only.
	SumForBeneficiarySince(ctx context.Context, userID, beneficiaryID string, since time.Time) (decimal.Decimal, error)
	SumForUserSince(ctx context.Context, userID string, since time.Time) (decimal.Decimal, error)
}

type TopUpOptions interface {
	List(ctx context.Context) ([]models.TopUpOption, error)
	AmountExists(ctx context.Context, amount decimal.Decimal) (bool, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
