package models

import "github.com/google/uuid"

// User is an account row. Balance is held in integer credits, the unit entry
// fees and prize pools are denominated in.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Username string    `json:"username"`

	Balance uint64 `json:"balance"`
}
