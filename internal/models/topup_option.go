package models

import "github.com/shopspring/decimal"

// TopUpOption is an allow-listed amount. A top-up request must match one
// exactly. Seeded at migration time.
type TopUpOption struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}
