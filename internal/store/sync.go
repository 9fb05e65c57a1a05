package store

import (
	"context"
	"fmt"

	"github.com/rcliao/educator-insights/internal/model"
	"github.com/rcliao/educator-insights/internal/tier"
)

// SyncFromPrincipal records the metadata-derived tier of p in the directory,
// copying profile attributes across. Existing rows are overwritten.
func (s *SQLiteStore) SyncFromPrincipal(ctx context.Context, p *model.Principal, c *tier.Classifier, createdBy string) (*model.Account, error) {
	if p == nil || p.ID == "" {
		return nil, fmt.Errorf("sync principal: principal id is required")
	}
	if c == nil {
		c = tier.NewClassifier(tier.DefaultRules())
	}
	d := c.Explain(p)

	return s.Put(ctx, PutParams{
		PrincipalID: p.ID,
		Email:       p.Email,
		FullName:    p.StringAttr("full_name"),
		AccountType: d.Tier,
		Role:        p.StringAttr("role"),
		School:      p.StringAttr("school"),
		District:    p.StringAttr("district"),
		Permissions: p.Permissions(),
		AdminLevel:  p.StringAttr("admin_level"),
		CreatedBy:   createdBy,
		Notes:       "synced from principal attributes (" + d.Rule + ")",
	})
}
