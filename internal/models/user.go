package models

import "time"

// User represents an InvestSync account. Identity is password-less: the phone
// number is the unique login key and the record is upserted on every login.
type User struct {
	ID       string    `json:"id"`
	Phone    string    `json:"phone"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}
