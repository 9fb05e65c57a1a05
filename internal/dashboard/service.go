// Package dashboard routes dashboard queries to the synthetic or the backend
// provider according to the caller's tier.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rcliao/educator-insights/internal/backend"
	"github.com/rcliao/educator-insights/internal/model"
	"github.com/rcliao/educator-insights/internal/result"
)

// DemoUnavailable is the failure message for operations demo sessions may not use.
const DemoUnavailable = "Not available in demo mode"

// SyntheticSource serves the fixed demo data set.
type SyntheticSource interface {
	ConversationsWithAnalytics(ctx context.Context, params model.ListParams) (model.ConversationPage, error)
	CharacterStats(ctx context.Context) ([]model.CharacterStat, error)
	DashboardStats(ctx context.Context) (model.DashboardStats, error)
	Children(ctx context.Context) (model.ChildrenPage, error)
}

// BackendSource serves real data from the conversation service.
type BackendSource interface {
	ConversationsWithAnalytics(ctx context.Context, params model.ListParams) result.Result[model.ConversationPage]
	CharacterStats(ctx context.Context) result.Result[[]model.CharacterStat]
	DashboardStats(ctx context.Context) result.Result[model.DashboardStats]
	ChildrenOfParent(ctx context.Context, parentID int) result.Result[model.ChildrenPage]
	Conversations(ctx context.Context, q backend.ConversationQuery) result.Result[backend.List[model.Conversation]]
	ConversationDetails(ctx context.Context, id int) result.Result[model.ConversationDetails]
	ChildAnalytics(ctx context.Context, kind backend.Analytics, childID int) result.Result[json.RawMessage]
	StudentRoster(ctx context.Context, mock bool) result.Result[model.StudentRoster]
	Health(ctx context.Context) result.Result[map[string]any]
}

// TierResolver decides a principal's tier.
type TierResolver interface {
	Resolve(ctx context.Context, p *model.Principal) model.Tier
}

// Session carries the caller's tier into every operation. The zero Session
// is a demo session.
type Session struct {
	Tier      model.Tier
	Principal *model.Principal
}

// EffectiveTier returns the session tier, treating anything unknown as demo.
func (s Session) EffectiveTier() model.Tier {
	if model.ValidTiers[s.Tier] {
		return s.Tier
	}
	return model.TierDemo
}

// Demo reports whether the session is served synthetic data.
func (s Session) Demo() bool { return s.EffectiveTier() == model.TierDemo }

// Service is the routing facade. It is safe for concurrent use; all
// per-caller state travels in the Session.
type Service struct {
	synthetic SyntheticSource
	backend   BackendSource
	resolver  TierResolver
	logger    *zap.Logger
}

// New returns a Service. resolver and logger may be nil.
func New(synthetic SyntheticSource, backend BackendSource, resolver TierResolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{synthetic: synthetic, backend: backend, resolver: resolver, logger: logger}
}

// Session resolves p into a Session. Without a resolver every caller is demo.
func (s *Service) Session(ctx context.Context, p *model.Principal) Session {
	t := model.TierDemo
	if s.resolver != nil {
		t = s.resolver.Resolve(ctx, p)
	}
	s.logger.Debug("session resolved", zap.String("tier", string(t)), zap.Bool("has_principal", p != nil))
	return Session{Tier: t, Principal: p}
}

func (s *Service) route(op string, sess Session) model.Tier {
	t := sess.EffectiveTier()
	source := "backend"
	if t == model.TierDemo {
		source = "synthetic"
	}
	dispatchTotal.WithLabelValues(op, string(t), source).Inc()
	s.logger.Debug("dispatch", zap.String("operation", op), zap.String("tier", string(t)), zap.String("source", source))
	return t
}

// fromSynthetic wraps a synthetic call. Validation errors become 400,
// anything else 500 with failMsg.
func fromSynthetic[T any](s *Service, data T, err error, failMsg string) result.Result[T] {
	if err == nil {
		return result.OK(data)
	}
	var verr model.ValidationError
	if errors.As(err, &verr) {
		return result.Fail[T](http.StatusBadRequest, verr.Error())
	}
	s.logger.Warn("synthetic provider failed", zap.Error(err))
	return result.Fail[T](http.StatusInternalServerError, failMsg)
}

func denied[T any](s *Service, op string) result.Result[T] {
	deniedTotal.WithLabelValues(op).Inc()
	return result.Fail[T](result.StatusForbidden, DemoUnavailable)
}

// ConversationsWithAnalytics lists enriched conversations.
func (s *Service) ConversationsWithAnalytics(ctx context.Context, sess Session, params model.ListParams) result.Result[model.ConversationPage] {
	if s.route("conversations_with_analytics", sess) == model.TierDemo {
		page, err := s.synthetic.ConversationsWithAnalytics(ctx, params)
		return fromSynthetic(s, page, err, "Failed to fetch demo conversations")
	}
	return s.backend.ConversationsWithAnalytics(ctx, params)
}

// CharacterStats returns per-character statistics.
func (s *Service) CharacterStats(ctx context.Context, sess Session) result.Result[[]model.CharacterStat] {
	if s.route("character_stats", sess) == model.TierDemo {
		stats, err := s.synthetic.CharacterStats(ctx)
		return fromSynthetic(s, stats, err, "Failed to fetch demo character stats")
	}
	return s.backend.CharacterStats(ctx)
}

// DashboardStats returns the overview snapshot.
func (s *Service) DashboardStats(ctx context.Context, sess Session) result.Result[model.DashboardStats] {
	if s.route("dashboard_stats", sess) == model.TierDemo {
		stats, err := s.synthetic.DashboardStats(ctx)
		return fromSynthetic(s, stats, err, "Failed to fetch demo dashboard stats")
	}
	return s.backend.DashboardStats(ctx)
}

// Children lists children. Real data needs a positive parentID.
func (s *Service) Children(ctx context.Context, sess Session, parentID int) result.Result[model.ChildrenPage] {
	if s.route("children", sess) == model.TierDemo {
		page, err := s.synthetic.Children(ctx)
		return fromSynthetic(s, page, err, "Failed to fetch demo children")
	}
	return s.backend.ChildrenOfParent(ctx, parentID)
}

// Conversations returns one raw backend page. Not available to demo sessions.
func (s *Service) Conversations(ctx context.Context, sess Session, q backend.ConversationQuery) result.Result[backend.List[model.Conversation]] {
	if s.route("conversations", sess) == model.TierDemo {
		return denied[backend.List[model.Conversation]](s, "conversations")
	}
	return s.backend.Conversations(ctx, q)
}

// ConversationDetails returns a conversation with its messages. Not available to demo sessions.
func (s *Service) ConversationDetails(ctx context.Context, sess Session, id int) result.Result[model.ConversationDetails] {
	if s.route("conversation_details", sess) == model.TierDemo {
		return denied[model.ConversationDetails](s, "conversation_details")
	}
	return s.backend.ConversationDetails(ctx, id)
}

// ChildAnalytics returns one per-child analytics document. Not available to demo sessions.
func (s *Service) ChildAnalytics(ctx context.Context, sess Session, kind backend.Analytics, childID int) result.Result[json.RawMessage] {
	if s.route("child_analytics", sess) == model.TierDemo {
		return denied[json.RawMessage](s, "child_analytics")
	}
	return s.backend.ChildAnalytics(ctx, kind, childID)
}

// StudentRoster lists students. Only admins see real rows; everyone else
// gets the service's placeholder roster.
func (s *Service) StudentRoster(ctx context.Context, sess Session) result.Result[model.StudentRoster] {
	t := sess.EffectiveTier()
	dispatchTotal.WithLabelValues("student_roster", string(t), "backend").Inc()
	return s.backend.StudentRoster(ctx, t != model.TierAdmin)
}

// Health checks the conversation service regardless of tier.
func (s *Service) Health(ctx context.Context) result.Result[map[string]any] {
	return s.backend.Health(ctx)
}
