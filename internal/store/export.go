package store

import (
	"context"
	"strings"

	"github.com/rcliao/educator-insights/internal/model"
)

// ExportAll returns every account, optionally filtered by account type.
func (s *SQLiteStore) ExportAll(ctx context.Context, accountType model.Tier) ([]model.Account, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if accountType != "" {
		where = append(where, "account_type = ?")
		args = append(args, accountType)
	}

	query := `SELECT ` + accountColumns + `
	          FROM accounts WHERE ` + strings.Join(where, " AND ") + ` ORDER BY account_type, principal_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Import upserts accounts from an export, keyed on principal id.
func (s *SQLiteStore) Import(ctx context.Context, accounts []model.Account) (int, error) {
	imported := 0
	for _, a := range accounts {
		_, err := s.Put(ctx, PutParams{
			PrincipalID:   a.PrincipalID,
			Email:         a.Email,
			FullName:      a.FullName,
			AccountType:   a.AccountType,
			Role:          a.Role,
			School:        a.School,
			District:      a.District,
			Permissions:   a.Permissions,
			AdminLevel:    a.AdminLevel,
			Inactive:      !a.IsActive,
			DemoExpiresAt: a.DemoExpiresAt,
			CreatedBy:     a.CreatedBy,
			Notes:         a.Notes,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
