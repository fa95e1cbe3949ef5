package models

import "time"

// ResetToken defines the reset_tokens table. Iss and Exp are unix seconds.
type ResetToken struct {
	ID           int64     `db:"id"`
	EmployeeID   string    `db:"employee_id"`
	Token        string    `db:"token"`
	Iss          int64     `db:"iss"`
	Exp          int64     `db:"exp"`
	EntryCreated time.Time `db:"entry_created"`
}

// Expired reports whether the token is past its expiry at now.
func (t *ResetToken) Expired(now time.Time) bool {
	return now.Unix() >= t.Exp
}

// BlacklistedToken defines the token_blacklist table. Iss and Exp are unix seconds.
type BlacklistedToken struct {
	ID           int64     `db:"id"`
	AccessToken  string    `db:"access_token"`
	Iss          int64     `db:"iss"`
	Exp          int64     `db:"exp"`
	EntryCreated time.Time `db:"entry_created"`
}
