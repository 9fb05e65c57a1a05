// Package synthetic serves a fixed in-memory data set to demo principals,
// with the same query surface as the backend provider.
package synthetic

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rcliao/educator-insights/internal/model"
)

// DefaultDelay approximates a network round trip.
const DefaultDelay = 300 * time.Millisecond

// Provider answers dashboard queries from a Dataset.
type Provider struct {
	data  Dataset
	delay time.Duration
}

// Option configures a Provider.
type Option func(*Provider)

// WithDelay sets the simulated latency. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(p *Provider) { p.delay = d }
}

// WithDataset replaces the built-in data.
func WithDataset(d Dataset) Option {
	return func(p *Provider) { p.data = d }
}

// NewProvider returns a Provider over DefaultDataset.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{data: DefaultDataset(), delay: DefaultDelay}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ConversationsWithAnalytics returns one page of conversations, newest first
// unless the ordering asks for something else.
func (p *Provider) ConversationsWithAnalytics(ctx context.Context, params model.ListParams) (model.ConversationPage, error) {
	if err := params.Validate(); err != nil {
		return model.ConversationPage{}, err
	}
	if err := p.wait(ctx); err != nil {
		return model.ConversationPage{}, fmt.Errorf("list conversations: %w", err)
	}

	sorted := make([]model.EnrichedConversation, len(p.data.Conversations))
	copy(sorted, p.data.Conversations)
	if params.Ordering == "" || strings.Contains(params.Ordering, "-start_date_time") {
		sort.SliceStable(sorted, func(i, j int) bool {
			a, _ := sorted[i].Start()
			b, _ := sorted[j].Start()
			return a.After(b)
		})
	}

	n := len(sorted)
	start := min((params.Page-1)*params.PageSize, n)
	end := min(start+params.PageSize, n)
	totalPages := (n + params.PageSize - 1) / params.PageSize

	pg := model.Pagination{
		Count:      n,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}
	if params.Page < totalPages {
		pg.Next = fmt.Sprintf("page=%d", params.Page+1)
	}
	if params.Page > 1 {
		pg.Previous = fmt.Sprintf("page=%d", params.Page-1)
	}
	return model.ConversationPage{Conversations: sorted[start:end], Pagination: pg}, nil
}

// CharacterStats returns the fixed per-character statistics.
func (p *Provider) CharacterStats(ctx context.Context) ([]model.CharacterStat, error) {
	if err := p.wait(ctx); err != nil {
		return nil, fmt.Errorf("character stats: %w", err)
	}
	out := make([]model.CharacterStat, len(p.data.CharacterStats))
	copy(out, p.data.CharacterStats)
	return out, nil
}

// DashboardStats returns the fixed dashboard snapshot.
func (p *Provider) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	if err := p.wait(ctx); err != nil {
		return model.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return p.data.Dashboard, nil
}

// Children returns every synthetic child.
func (p *Provider) Children(ctx context.Context) (model.ChildrenPage, error) {
	if err := p.wait(ctx); err != nil {
		return model.ChildrenPage{}, fmt.Errorf("list children: %w", err)
	}
	out := make([]model.Child, len(p.data.Children))
	copy(out, p.data.Children)
	return model.ChildrenPage{Children: out, Count: len(out)}, nil
}
