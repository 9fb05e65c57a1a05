package tier

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/educator-insights/internal/model"
)

// AccountLookup finds a directory account by principal id.
type AccountLookup interface {
	GetAccount(ctx context.Context, principalID string) (*model.Account, error)
}

// Resolver consults the account directory first and falls back to
// attribute-based classification when no usable account exists.
type Resolver struct {
	accounts   AccountLookup
	classifier *Classifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewResolver returns a Resolver. accounts may be nil to skip the directory.
func NewResolver(accounts AccountLookup, classifier *Classifier, logger *zap.Logger) *Resolver {
	if classifier == nil {
		classifier = defaultClassifier
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{accounts: accounts, classifier: classifier, logger: logger, now: time.Now}
}

// Resolve returns the tier for p. Inactive accounts and expired demo
// accounts resolve to demo.
func (r *Resolver) Resolve(ctx context.Context, p *model.Principal) model.Tier {
	if p == nil {
		return model.TierDemo
	}
	if r.accounts != nil && p.ID != "" {
		acct, err := r.accounts.GetAccount(ctx, p.ID)
		if err == nil && acct != nil {
			return r.fromAccount(acct)
		}
		if err != nil {
			r.logger.Debug("account lookup missed, using attributes",
				zap.String("principal_id", p.ID), zap.Error(err))
		}
	}
	return r.classifier.Classify(p)
}

func (r *Resolver) fromAccount(acct *model.Account) model.Tier {
	if !acct.IsActive {
		r.logger.Warn("account disabled", zap.String("principal_id", acct.PrincipalID))
		return model.TierDemo
	}
	if acct.Expired(r.now()) {
		r.logger.Warn("demo account expired",
			zap.String("principal_id", acct.PrincipalID),
			zap.Timep("demo_expires_at", acct.DemoExpiresAt))
		return model.TierDemo
	}
	if !model.ValidTiers[acct.AccountType] {
		return model.TierDemo
	}
	return acct.AccountType
}
