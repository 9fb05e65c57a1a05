package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/educator-insights/internal/heuristics"
	"github.com/rcliao/educator-insights/internal/model"
	"github.com/rcliao/educator-insights/internal/result"
)

const (
	// DefaultConcurrency bounds concurrent per-record lookups.
	DefaultConcurrency = 8

	// Fallbacks used by DashboardStats when no sample is available.
	fallbackAvgDuration = 5.2
	fallbackAvgMood     = 7.9

	// moodSampleConversations and moodSampleQuestions bound the dashboard mood sample.
	moodSampleConversations = 10
	moodSampleQuestions     = 3

	// statsPageSize is the physical page size used when walking every conversation.
	statsPageSize = 100
)

// Provider serves enriched dashboard views from the conversation service.
// Every method returns a result and never a Go error.
type Provider struct {
	client      *Client
	extractor   heuristics.Extractor
	logger      *zap.Logger
	concurrency int
	now         func() time.Time
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithExtractor replaces the keyword character/topic extractor.
func WithExtractor(e heuristics.Extractor) ProviderOption {
	return func(p *Provider) { p.extractor = e }
}

// WithConcurrency bounds concurrent per-record lookups. Values below 1 are ignored.
func WithConcurrency(n int) ProviderOption {
	return func(p *Provider) {
		if n >= 1 {
			p.concurrency = n
		}
	}
}

// WithClock overrides the clock used to decide what "today" is.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) { p.now = now }
}

// WithProviderLogger sets the provider's logger.
func WithProviderLogger(l *zap.Logger) ProviderOption {
	return func(p *Provider) { p.logger = l }
}

// NewProvider returns a Provider backed by client.
func NewProvider(client *Client, opts ...ProviderOption) *Provider {
	p := &Provider{
		client:      client,
		extractor:   heuristics.Default,
		logger:      client.logger,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

func failure[T any](err error) result.Result[T] {
	status, msg := Classify(err)
	return result.Fail[T](status, msg)
}

// ConversationsWithAnalytics returns one requested page of enriched
// conversations. Newest-first pages are assembled from the service's
// oldest-first physical pages; the pagination reported back always
// describes the requested page.
func (p *Provider) ConversationsWithAnalytics(ctx context.Context, params model.ListParams) result.Result[model.ConversationPage] {
	if err := params.Validate(); err != nil {
		return result.Fail[model.ConversationPage](http.StatusBadRequest, err.Error())
	}

	head, err := p.client.Conversations(ctx, ConversationQuery{Page: 1, PageSize: 1})
	if err != nil {
		return failure[model.ConversationPage](err)
	}

	w := PlanWindow(head.Count, params.Page, params.PageSize, params.Descending())
	physicalPagesFetched.Observe(float64(len(w.Pages)))

	var raw []model.Conversation
	for _, page := range w.Pages {
		paged, err := p.client.Conversations(ctx, ConversationQuery{Page: page, PageSize: params.PageSize})
		if err != nil {
			return failure[model.ConversationPage](err)
		}
		raw = append(raw, paged.Results...)
	}
	p.logger.Debug("conversation window",
		zap.Int("count", w.Count), zap.Int("requested", w.Requested), zap.Ints("physical_pages", w.Pages))

	enriched, err := p.enrichAll(ctx, Cut(w, raw))
	if err != nil {
		p.logger.Warn("enrich conversations", zap.Error(err))
		return result.Fail[model.ConversationPage](http.StatusInternalServerError, "Failed to fetch enhanced conversations")
	}

	return result.OK(model.ConversationPage{
		Conversations: enriched,
		Pagination: model.Pagination{
			Count:      w.Count,
			Next:       Next(params.Page, w.TotalPages),
			Previous:   Previous(params.Page),
			Page:       params.Page,
			PageSize:   params.PageSize,
			TotalPages: w.TotalPages,
		},
	})
}

// enrichAll enriches records concurrently, keeping input order.
// Lookup failures fall back to defaults; only cancellation fails the batch.
func (p *Provider) enrichAll(ctx context.Context, convs []model.Conversation) ([]model.EnrichedConversation, error) {
	out := make([]model.EnrichedConversation, len(convs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, conv := range convs {
		g.Go(func() error {
			out[i] = p.enrich(gctx, conv)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enrich conversations: %w", err)
	}
	return out, nil
}

func (p *Provider) enrich(ctx context.Context, conv model.Conversation) model.EnrichedConversation {
	e := model.EnrichedConversation{
		Conversation: conv,
		ChildName:    fmt.Sprintf("Child %d", conv.Child),
		MoodScore:    heuristics.DefaultMood,
	}

	if child, err := p.client.Child(ctx, conv.Child); err == nil && child.Name != "" {
		e.ChildName = child.Name
	} else if err != nil {
		p.logger.Debug("child lookup failed", zap.Int("child", conv.Child), zap.Error(err))
	}

	if qs, err := p.client.Questions(ctx, MessageQuery{Conversation: conv.ID, Ordering: "-timestamp", Limit: 1}); err == nil && len(qs.Results) > 0 {
		q := qs.Results[0]
		e.LatestQuestion = &q
	} else if err != nil {
		p.logger.Debug("latest question lookup failed", zap.Int("conversation", conv.ID), zap.Error(err))
	}

	if as, err := p.client.Answers(ctx, MessageQuery{Conversation: conv.ID, Ordering: "-timestamp", Limit: 1}); err == nil && len(as.Results) > 0 {
		a := as.Results[0]
		e.LatestAnswer = &a
	} else if err != nil {
		p.logger.Debug("latest answer lookup failed", zap.Int("conversation", conv.ID), zap.Error(err))
	}

	id := p.extractor.Character(conv.Context)
	e.Character = string(id)
	e.CharacterName = heuristics.DisplayName(id)
	e.DurationMinutes = durationMinutes(conv)

	if e.LatestQuestion != nil {
		e.MoodScore = heuristics.MoodOrDefault(e.LatestQuestion.MoodEvaluation)
		e.TopicsDiscussed = p.extractor.Topics(e.LatestQuestion.Text)
	} else {
		e.TopicsDiscussed = []string{heuristics.GeneralTopic}
	}
	return e
}

// minutesBetween returns the span of conv in minutes, and false when either
// timestamp is missing or unparsable.
func minutesBetween(conv model.Conversation) (float64, bool) {
	start, ok := conv.Start()
	if !ok {
		return 0, false
	}
	last, ok := conv.Last()
	if !ok {
		return 0, false
	}
	return last.Sub(start).Minutes(), true
}

func durationMinutes(conv model.Conversation) int {
	m, ok := minutesBetween(conv)
	if !ok {
		return 0
	}
	return int(math.Floor(m + 0.5))
}

// CharacterStats groups every conversation by character and averages the
// mood of all questions in each group. Favourite topics come from the
// character catalogue, not from data.
func (p *Provider) CharacterStats(ctx context.Context) result.Result[[]model.CharacterStat] {
	convs, err := p.client.AllConversations(ctx, statsPageSize)
	if err != nil {
		return failure[[]model.CharacterStat](err)
	}

	moods, err := p.questionMoods(ctx, convs, 0)
	if err != nil {
		p.logger.Warn("character stats", zap.Error(err))
		return result.Fail[[]model.CharacterStat](http.StatusInternalServerError, "Failed to calculate character statistics")
	}

	type group struct {
		id    heuristics.CharacterID
		count int
		moods []float64
	}
	var order []*group
	byID := make(map[heuristics.CharacterID]*group)
	for i, conv := range convs {
		id := p.extractor.Character(conv.Context)
		g, ok := byID[id]
		if !ok {
			g = &group{id: id}
			byID[id] = g
			order = append(order, g)
		}
		g.count++
		g.moods = append(g.moods, moods[i]...)
	}

	stats := make([]model.CharacterStat, 0, len(order))
	for _, g := range order {
		stats = append(stats, model.CharacterStat{
			Character:     heuristics.DisplayName(g.id),
			CharacterID:   string(g.id),
			Conversations: g.count,
			AvgMood:       heuristics.Round1(mean(g.moods, heuristics.DefaultMood)),
			FavoriteTopic: heuristics.FavoriteTopic(g.id),
		})
	}
	return result.OK(stats)
}

// questionMoods fetches the questions of each conversation concurrently and
// returns the parsable mood scores per conversation, by index. A limit of 0
// fetches every question.
func (p *Provider) questionMoods(ctx context.Context, convs []model.Conversation, limit int) ([][]float64, error) {
	out := make([][]float64, len(convs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, conv := range convs {
		g.Go(func() error {
			qs, err := p.client.Questions(gctx, MessageQuery{Conversation: conv.ID, Limit: limit})
			if err != nil {
				p.logger.Debug("question lookup failed", zap.Int("conversation", conv.ID), zap.Error(err))
				return gctx.Err()
			}
			for _, q := range qs.Results {
				if v, ok := heuristics.ParseMood(q.MoodEvaluation); ok {
					out[i] = append(out[i], v)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch question moods: %w", err)
	}
	return out, nil
}

func mean(vs []float64, fallback float64) float64 {
	if len(vs) == 0 {
		return fallback
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// DashboardStats aggregates the overview numbers from the first page of
// conversations and the children listing.
func (p *Provider) DashboardStats(ctx context.Context) result.Result[model.DashboardStats] {
	var (
		convs    *List[model.Conversation]
		children *List[model.Child]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		convs, err = p.client.Conversations(gctx, ConversationQuery{})
		return err
	})
	g.Go(func() error {
		var err error
		children, err = p.client.Children(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return failure[model.DashboardStats](err)
	}

	var durations []float64
	for _, c := range convs.Results {
		if m, ok := minutesBetween(c); ok {
			durations = append(durations, m)
		}
	}

	sample := convs.Results[:min(moodSampleConversations, len(convs.Results))]
	moods, err := p.questionMoods(ctx, sample, moodSampleQuestions)
	if err != nil {
		p.logger.Warn("dashboard stats", zap.Error(err))
		return result.Fail[model.DashboardStats](http.StatusInternalServerError, "Failed to fetch dashboard statistics")
	}
	var allMoods []float64
	for _, m := range moods {
		allMoods = append(allMoods, m...)
	}

	today := p.now().UTC().Format(time.DateOnly)
	active := make(map[int]bool)
	for _, c := range convs.Results {
		if start, ok := c.Start(); ok && start.UTC().Format(time.DateOnly) == today {
			active[c.Child] = true
		}
	}

	return result.OK(model.DashboardStats{
		TotalConversations: convs.Count,
		AvgDuration:        heuristics.Round1(mean(durations, fallbackAvgDuration)),
		AvgMoodScore:       heuristics.Round1(mean(allMoods, fallbackAvgMood)),
		ActiveStudents:     len(active),
		TotalChildren:      max(children.Count, len(children.Results)),
	})
}

// Conversations returns one raw physical page, unenriched and in service order.
func (p *Provider) Conversations(ctx context.Context, q ConversationQuery) result.Result[List[model.Conversation]] {
	paged, err := p.client.Conversations(ctx, q)
	if err != nil {
		return failure[List[model.Conversation]](err)
	}
	return result.OK(*paged)
}

// ConversationDetails fetches a conversation with its questions and answers
// concurrently. Only a failure to load the conversation itself fails the call.
func (p *Provider) ConversationDetails(ctx context.Context, id int) result.Result[model.ConversationDetails] {
	var (
		conv      *model.Conversation
		convErr   error
		questions []model.Question
		answers   []model.Answer
	)
	var g errgroup.Group
	g.Go(func() error {
		conv, convErr = p.client.Conversation(ctx, id)
		return nil
	})
	g.Go(func() error {
		if qs, err := p.client.Questions(ctx, MessageQuery{Conversation: id}); err == nil {
			questions = qs.Results
		}
		return nil
	})
	g.Go(func() error {
		if as, err := p.client.Answers(ctx, MessageQuery{Conversation: id}); err == nil {
			answers = as.Results
		}
		return nil
	})
	_ = g.Wait()

	if convErr != nil {
		return failure[model.ConversationDetails](convErr)
	}
	if questions == nil {
		questions = []model.Question{}
	}
	if answers == nil {
		answers = []model.Answer{}
	}
	return result.OK(model.ConversationDetails{Conversation: *conv, Questions: questions, Answers: answers})
}

// ChildrenOfParent lists the children of a parent. parentID must be positive.
func (p *Provider) ChildrenOfParent(ctx context.Context, parentID int) result.Result[model.ChildrenPage] {
	if parentID <= 0 {
		return result.Fail[model.ChildrenPage](http.StatusBadRequest, "Parent ID required for real data")
	}
	page, err := p.client.ChildrenOfParent(ctx, parentID)
	if err != nil {
		return failure[model.ChildrenPage](err)
	}
	return result.OK(*page)
}

// StudentRoster returns the admin student listing.
func (p *Provider) StudentRoster(ctx context.Context, mock bool) result.Result[model.StudentRoster] {
	roster, err := p.client.StudentRoster(ctx, mock)
	if err != nil {
		return failure[model.StudentRoster](err)
	}
	return result.OK(*roster)
}

// Analytics names a per-child analytics endpoint.
type Analytics string

const (
	AnalyticsMoodMeter   Analytics = "mood-meter"
	AnalyticsChatHistory Analytics = "chat-history"
	AnalyticsEmotions    Analytics = "emotions"
	AnalyticsUsage       Analytics = "usage"
)

// ValidAnalytics lists the supported per-child analytics.
var ValidAnalytics = map[Analytics]bool{
	AnalyticsMoodMeter:   true,
	AnalyticsChatHistory: true,
	AnalyticsEmotions:    true,
	AnalyticsUsage:       true,
}

// ChildAnalytics returns one per-child analytics document as the service sent it.
func (p *Provider) ChildAnalytics(ctx context.Context, kind Analytics, childID int) result.Result[json.RawMessage] {
	var (
		raw json.RawMessage
		err error
	)
	switch kind {
	case AnalyticsMoodMeter:
		raw, err = p.client.MoodMeterCoordinates(ctx, childID)
	case AnalyticsChatHistory:
		raw, err = p.client.TodaysChatHistory(ctx, childID)
	case AnalyticsEmotions:
		raw, err = p.client.TodaysEmotions(ctx, childID)
	case AnalyticsUsage:
		raw, err = p.client.UsageStatistics(ctx, childID)
	default:
		return result.Failf[json.RawMessage](http.StatusBadRequest, "unknown analytics %q", kind)
	}
	if err != nil {
		return failure[json.RawMessage](err)
	}
	return result.OK(raw)
}

// Health reports the service health document.
func (p *Provider) Health(ctx context.Context) result.Result[map[string]any] {
	body, err := p.client.Health(ctx)
	if err != nil {
		return failure[map[string]any](err)
	}
	return result.OK(body)
}
