package models

import "time"

// User is provisioned by an external process; the verification flag decides
// which per-beneficiary monthly cap applies.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}
