// Package store provides the account directory interface and SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/educator-insights/internal/model"
)

// ErrNotFound is returned when no account matches a principal id.
var ErrNotFound = errors.New("account not found")

// PutParams holds parameters for creating or updating an account.
type PutParams struct {
	PrincipalID   string
	Email         string
	FullName      string
	AccountType   model.Tier
	Role          string
	School        string
	District      string
	Permissions   []string
	AdminLevel    string
	Inactive      bool
	DemoExpiresAt *time.Time
	CreatedBy     string
	Notes         string
}

// ListParams holds parameters for listing accounts.
type ListParams struct {
	AccountType     model.Tier
	IncludeInactive bool
	Limit           int
}

// RmParams holds parameters for removing an account.
type RmParams struct {
	PrincipalID string
	// Hard deletes the row; otherwise the account is deactivated.
	Hard bool
}

// Store defines the account directory interface.
type Store interface {
	// Put creates or updates the account for p.PrincipalID.
	Put(ctx context.Context, p PutParams) (*model.Account, error)

	// GetAccount retrieves an account by principal id.
	GetAccount(ctx context.Context, principalID string) (*model.Account, error)

	// List lists accounts matching the given filters.
	List(ctx context.Context, p ListParams) ([]model.Account, error)

	// Rm deactivates (or hard-deletes) an account.
	Rm(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}
