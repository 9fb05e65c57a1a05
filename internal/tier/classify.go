// Package tier classifies principals into authority tiers.
//
// Admin signals are always evaluated before demo signals, so an account that
// carries both (for example a sales demo account with admin rights) is
// classified as admin.
package tier

import (
	"strings"

	"github.com/rcliao/educator-insights/internal/model"
)

// Permissions that grant the admin tier on their own.
const (
	PermCreateEducatorAccounts = "create_educator_accounts"
	PermManageEducatorAccounts = "manage_educator_accounts"
)

// Rules holds the address lists the classifier consults.
type Rules struct {
	// SuperAdminEmails are always admin.
	SuperAdminEmails []string `yaml:"super_admin_emails"`
	// DemoEmails are demo even without "demo" in the address.
	DemoEmails []string `yaml:"demo_emails"`
}

// DefaultRules returns the built-in demo addresses and no super admins.
func DefaultRules() Rules {
	return Rules{
		DemoEmails: []string{"teacher@example.com", "educator@demo.com"},
	}
}

// Decision is a classification together with the rule that produced it.
type Decision struct {
	Tier model.Tier `json:"tier"`
	Rule string     `json:"rule"`
}

// Classifier maps principals to tiers. The zero value uses no address lists.
type Classifier struct {
	superAdmins map[string]bool
	demoEmails  map[string]bool
}

// NewClassifier builds a Classifier from rules. Addresses compare case-insensitively.
func NewClassifier(r Rules) *Classifier {
	return &Classifier{
		superAdmins: emailSet(r.SuperAdminEmails),
		demoEmails:  emailSet(r.DemoEmails),
	}
}

var defaultClassifier = NewClassifier(DefaultRules())

// Classify classifies p with the default rules.
func Classify(p *model.Principal) model.Tier {
	return defaultClassifier.Classify(p)
}

// Classify returns the tier for p. It never fails; a nil principal is demo.
func (c *Classifier) Classify(p *model.Principal) model.Tier {
	return c.Explain(p).Tier
}

// Explain returns the tier for p and the name of the first matching rule.
func (c *Classifier) Explain(p *model.Principal) Decision {
	if p == nil {
		return Decision{model.TierDemo, "no principal"}
	}
	email := p.NormalizedEmail()
	role := p.StringAttr("role")
	accountType := p.StringAttr("account_type")

	switch {
	case role == "admin":
		return Decision{model.TierAdmin, "role=admin"}
	case p.StringAttr("admin_level") == "super_admin":
		return Decision{model.TierAdmin, "admin_level=super_admin"}
	case p.HasPermission(PermCreateEducatorAccounts):
		return Decision{model.TierAdmin, "permission " + PermCreateEducatorAccounts}
	case p.HasPermission(PermManageEducatorAccounts):
		return Decision{model.TierAdmin, "permission " + PermManageEducatorAccounts}
	case email != "" && c.superAdmins[email]:
		return Decision{model.TierAdmin, "super admin email"}
	case accountType == "admin":
		return Decision{model.TierAdmin, "account_type=admin"}
	}

	switch {
	case strings.Contains(email, "demo"):
		return Decision{model.TierDemo, "email contains demo"}
	case email != "" && c.demoEmails[email]:
		return Decision{model.TierDemo, "known demo email"}
	case accountType == "demo":
		return Decision{model.TierDemo, "account_type=demo"}
	case role == "demo":
		return Decision{model.TierDemo, "role=demo"}
	case p.BoolAttr("demo"):
		return Decision{model.TierDemo, "demo=true"}
	}

	return Decision{model.TierEducator, "default"}
}

func emailSet(emails []string) map[string]bool {
	set := make(map[string]bool, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			set[e] = true
		}
	}
	return set
}
