package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one ledger row. Rows are append-only: a successful top-up
// writes a principal row and a charge row, never updated afterwards.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	BeneficiaryID string          `json:"beneficiary_id"`
	Amount        decimal.Decimal `json:"amount"`
	IsCharge      bool            `json:"is_charge"`
	CreatedAt     time.Time       `json:"created_at"`
}
