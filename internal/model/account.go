package model

import "time"

// Account is a row in the local account directory. It overrides
// metadata-based classification for the principal it names.
type Account struct {
	ID            string     `json:"id"`
	PrincipalID   string     `json:"principal_id" validate:"required"`
	Email         string     `json:"email" validate:"omitempty,email"`
	FullName      string     `json:"full_name,omitempty"`
	AccountType   Tier       `json:"account_type" validate:"required,oneof=demo educator admin"`
	Role          string     `json:"role"`
	School        string     `json:"school,omitempty"`
	District      string     `json:"district,omitempty"`
	Permissions   []string   `json:"permissions"`
	AdminLevel    string     `json:"admin_level,omitempty"`
	IsActive      bool       `json:"is_active"`
	DemoExpiresAt *time.Time `json:"demo_expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CreatedBy     string     `json:"created_by,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// Expired reports whether a demo account is past its expiry at now.
func (a *Account) Expired(now time.Time) bool {
	return a.AccountType == TierDemo && a.DemoExpiresAt != nil && a.DemoExpiresAt.Before(now)
}
