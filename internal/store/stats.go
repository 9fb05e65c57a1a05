package store

import (
	"context"
	"os"
	"time"
)

// Stats holds database statistics.
type Stats struct {
	DBPath         string      `json:"db_path"`
	DBSizeBytes    int64       `json:"db_size_bytes"`
	TotalAccounts  int         `json:"total_accounts"`
	ActiveAccounts int         `json:"active_accounts"`
	ExpiredDemos   int         `json:"expired_demos"`
	Types          []TypeStats `json:"types"`
}

// TypeStats holds per-account-type counts.
type TypeStats struct {
	AccountType string `json:"account_type"`
	Count       int    `json:"count"`
	Active      int    `json:"active"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	now := s.now().UTC().Format(time.RFC3339)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&st.TotalAccounts)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE is_active = 1`).Scan(&st.ActiveAccounts)
	s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE account_type = 'demo' AND demo_expires_at IS NOT NULL AND demo_expires_at < ?`,
		now).Scan(&st.ExpiredDemos)

	rows, err := s.db.QueryContext(ctx, `
		SELECT account_type, COUNT(*) AS cnt, SUM(is_active) AS active
		FROM accounts
		GROUP BY account_type ORDER BY cnt DESC, account_type`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ts TypeStats
		rows.Scan(&ts.AccountType, &ts.Count, &ts.Active)
		st.Types = append(st.Types, ts)
	}

	return st, rows.Err()
}
