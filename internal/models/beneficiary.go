package models

import "time"

const NicknameMaxLength = 20

type Beneficiary struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Nickname    string    `json:"nickname"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}
