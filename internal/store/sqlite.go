package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/educator-insights/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
	now     func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id              TEXT PRIMARY KEY,
		principal_id    TEXT NOT NULL UNIQUE,
		email           TEXT NOT NULL DEFAULT '',
		full_name       TEXT NOT NULL DEFAULT '',
		account_type    TEXT NOT NULL CHECK (account_type IN ('demo', 'educator', 'admin')),
		role            TEXT NOT NULL DEFAULT '',
		school          TEXT NOT NULL DEFAULT '',
		district        TEXT NOT NULL DEFAULT '',
		permissions     TEXT,
		admin_level     TEXT NOT NULL DEFAULT '',
		is_active       INTEGER NOT NULL DEFAULT 1,
		demo_expires_at TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		created_by      TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email);
	CREATE INDEX IF NOT EXISTS idx_accounts_type ON accounts(account_type, is_active);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, p PutParams) (*model.Account, error) {
	now := s.now().UTC()

	acct := model.Account{
		PrincipalID:   p.PrincipalID,
		Email:         strings.TrimSpace(p.Email),
		FullName:      p.FullName,
		AccountType:   p.AccountType,
		Role:          p.Role,
		School:        p.School,
		District:      p.District,
		Permissions:   p.Permissions,
		AdminLevel:    p.AdminLevel,
		IsActive:      !p.Inactive,
		DemoExpiresAt: p.DemoExpiresAt,
		CreatedBy:     p.CreatedBy,
		Notes:         p.Notes,
		UpdatedAt:     now,
	}
	if acct.Role == "" {
		acct.Role = string(acct.AccountType)
	}
	if err := model.ValidateStruct(acct); err != nil {
		return nil, err
	}

	var permsJSON *string
	if len(p.Permissions) > 0 {
		b, _ := json.Marshal(p.Permissions)
		s := string(b)
		permsJSON = &s
	}

	var expiresAt *string
	if p.DemoExpiresAt != nil {
		exp := p.DemoExpiresAt.UTC().Format(time.RFC3339)
		expiresAt = &exp
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var prevID, prevCreated string
	err = tx.QueryRowContext(ctx,
		`SELECT id, created_at FROM accounts WHERE principal_id = ?`, p.PrincipalID).Scan(&prevID, &prevCreated)
	switch {
	case err == nil:
		acct.ID = prevID
		acct.CreatedAt, _ = time.Parse(time.RFC3339, prevCreated)
		_, err = tx.ExecContext(ctx,
			`UPDATE accounts SET email = ?, full_name = ?, account_type = ?, role = ?, school = ?, district = ?,
			        permissions = ?, admin_level = ?, is_active = ?, demo_expires_at = ?, updated_at = ?, notes = ?
			 WHERE id = ?`,
			acct.Email, acct.FullName, acct.AccountType, acct.Role, acct.School, acct.District,
			permsJSON, acct.AdminLevel, acct.IsActive, expiresAt, now.Format(time.RFC3339), acct.Notes, prevID)
		if err != nil {
			return nil, fmt.Errorf("update account: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		acct.ID = s.newID()
		acct.CreatedAt = now
		_, err = tx.ExecContext(ctx,
			`INSERT INTO accounts (id, principal_id, email, full_name, account_type, role, school, district,
			                       permissions, admin_level, is_active, demo_expires_at, created_at, updated_at, created_by, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			acct.ID, acct.PrincipalID, acct.Email, acct.FullName, acct.AccountType, acct.Role, acct.School, acct.District,
			permsJSON, acct.AdminLevel, acct.IsActive, expiresAt, now.Format(time.RFC3339), now.Format(time.RFC3339),
			acct.CreatedBy, acct.Notes)
		if err != nil {
			return nil, fmt.Errorf("insert account: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, p.PrincipalID)
}

const accountColumns = `id, principal_id, email, full_name, account_type, role, school, district,
	permissions, admin_level, is_active, demo_expires_at, created_at, updated_at, created_by, notes`

func (s *SQLiteStore) GetAccount(ctx context.Context, principalID string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE principal_id = ?`, principalID)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, principalID)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Account, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}

	where := []string{"1 = 1"}
	var args []interface{}
	if !p.IncludeInactive {
		where = append(where, "is_active = 1")
	}
	if p.AccountType != "" {
		where = append(where, "account_type = ?")
		args = append(args, p.AccountType)
	}

	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE %s ORDER BY created_at DESC, id DESC LIMIT ?`,
		accountColumns, strings.Join(where, " AND "))
	args = append(args, limit)

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

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	var res sql.Result
	var err error
	if p.Hard {
		res, err = s.db.ExecContext(ctx, `DELETE FROM accounts WHERE principal_id = ?`, p.PrincipalID)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE accounts SET is_active = 0, updated_at = ? WHERE principal_id = ?`,
			s.now().UTC().Format(time.RFC3339), p.PrincipalID)
	}
	if err != nil {
		return fmt.Errorf("remove account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, p.PrincipalID)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row scanner) (model.Account, error) {
	var a model.Account
	var perms, expiresAt sql.NullString
	var accountType, createdAt, updatedAt string

	err := row.Scan(
		&a.ID, &a.PrincipalID, &a.Email, &a.FullName, &accountType, &a.Role, &a.School, &a.District,
		&perms, &a.AdminLevel, &a.IsActive, &expiresAt, &createdAt, &updatedAt, &a.CreatedBy, &a.Notes,
	)
	if err != nil {
		return a, err
	}

	a.AccountType = model.Tier(accountType)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if perms.Valid {
		json.Unmarshal([]byte(perms.String), &a.Permissions)
	}
	if expiresAt.Valid {
		t, _ := time.Parse(time.RFC3339, expiresAt.String)
		a.DemoExpiresAt = &t
	}
	return a, nil
}
