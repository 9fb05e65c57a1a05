package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rcliao/educator-insights/internal/backend"
	"github.com/rcliao/educator-insights/internal/model"
	"github.com/rcliao/educator-insights/internal/result"
	"github.com/rcliao/educator-insights/internal/synthetic"
	"github.com/rcliao/educator-insights/internal/tier"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// recordingBackend is a BackendSource test double that records every call.
type recordingBackend struct {
	calls      []string
	rosterMock *bool
}

func (b *recordingBackend) record(op string) { b.calls = append(b.calls, op) }

func (b *recordingBackend) ConversationsWithAnalytics(ctx context.Context, params model.ListParams) result.Result[model.ConversationPage] {
	b.record("conversations_with_analytics")
	return result.OK(model.ConversationPage{})
}

func (b *recordingBackend) CharacterStats(ctx context.Context) result.Result[[]model.CharacterStat] {
	b.record("character_stats")
	return result.OK([]model.CharacterStat{{CharacterID: "from-backend"}})
}

func (b *recordingBackend) DashboardStats(ctx context.Context) result.Result[model.DashboardStats] {
	b.record("dashboard_stats")
	return result.OK(model.DashboardStats{TotalConversations: 1})
}

func (b *recordingBackend) ChildrenOfParent(ctx context.Context, parentID int) result.Result[model.ChildrenPage] {
	b.record("children_of_parent")
	if parentID <= 0 {
		return result.Fail[model.ChildrenPage](http.StatusBadRequest, "Parent ID required for real data")
	}
	return result.OK(model.ChildrenPage{Count: parentID})
}

func (b *recordingBackend) Conversations(ctx context.Context, q backend.ConversationQuery) result.Result[backend.List[model.Conversation]] {
	b.record("conversations")
	return result.OK(backend.List[model.Conversation]{})
}

func (b *recordingBackend) ConversationDetails(ctx context.Context, id int) result.Result[model.ConversationDetails] {
	b.record("conversation_details")
	return result.OK(model.ConversationDetails{})
}

func (b *recordingBackend) ChildAnalytics(ctx context.Context, kind backend.Analytics, childID int) result.Result[json.RawMessage] {
	b.record("child_analytics")
	return result.OK(json.RawMessage(`{}`))
}

func (b *recordingBackend) StudentRoster(ctx context.Context, mock bool) result.Result[model.StudentRoster] {
	b.record("student_roster")
	b.rosterMock = &mock
	return result.OK(model.StudentRoster{IsMockData: mock})
}

func (b *recordingBackend) Health(ctx context.Context) result.Result[map[string]any] {
	b.record("health")
	return result.OK(map[string]any{"status": "ok"})
}

type failingSynthetic struct{ err error }

func (f failingSynthetic) ConversationsWithAnalytics(context.Context, model.ListParams) (model.ConversationPage, error) {
	return model.ConversationPage{}, f.err
}
func (f failingSynthetic) CharacterStats(context.Context) ([]model.CharacterStat, error) {
	return nil, f.err
}
func (f failingSynthetic) DashboardStats(context.Context) (model.DashboardStats, error) {
	return model.DashboardStats{}, f.err
}
func (f failingSynthetic) Children(context.Context) (model.ChildrenPage, error) {
	return model.ChildrenPage{}, f.err
}

func newTestService(back BackendSource) *Service {
	return New(
		synthetic.NewProvider(synthetic.WithDelay(0)),
		back,
		tier.NewResolver(nil, nil, nil),
		nil,
	)
}

func TestDemoPrincipalGetsSyntheticSnapshot(t *testing.T) {
	back := &recordingBackend{}
	svc := newTestService(back)
	ctx := context.Background()

	sess := svc.Session(ctx, &model.Principal{Email: "demo@teacher.com"})
	require.Equal(t, model.TierDemo, sess.Tier)

	r := svc.DashboardStats(ctx, sess)
	stats, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, 650, stats.TotalConversations)
	assert.Equal(t, 8.3, stats.AvgMoodScore)
	assert.Equal(t, 18, stats.ActiveStudents)
	assert.Equal(t, 28, stats.TotalChildren)
	assert.Empty(t, back.calls)
}

func TestAdminCharacterStatsRouteToBackend(t *testing.T) {
	back := &recordingBackend{}
	svc := newTestService(back)
	ctx := context.Background()

	sess := svc.Session(ctx, &model.Principal{Attributes: map[string]any{"role": "admin"}})
	require.Equal(t, model.TierAdmin, sess.Tier)

	r := svc.CharacterStats(ctx, sess)
	stats, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, []string{"character_stats"}, back.calls)
	assert.Equal(t, "from-backend", stats[0].CharacterID)
}

func TestEducatorRoutesToBackend(t *testing.T) {
	back := &recordingBackend{}
	svc := newTestService(back)
	ctx := context.Background()

	sess := svc.Session(ctx, &model.Principal{ID: "u1", Email: "teacher@school.edu"})
	require.Equal(t, model.TierEducator, sess.Tier)

	svc.ConversationsWithAnalytics(ctx, sess, model.DefaultListParams())
	svc.DashboardStats(ctx, sess)
	svc.Children(ctx, sess, 4)
	assert.Equal(t, []string{"conversations_with_analytics", "dashboard_stats", "children_of_parent"}, back.calls)
}

func TestZeroSessionIsDemo(t *testing.T) {
	back := &recordingBackend{}
	svc := newTestService(back)
	ctx := context.Background()

	for _, sess := range []Session{{}, {Tier: "root"}} {
		assert.True(t, sess.Demo())
		r := svc.CharacterStats(ctx, sess)
		stats, ok := r.Data()
		require.True(t, ok)
		assert.Len(t, stats, 7)
	}
	assert.Empty(t, back.calls)

	nilSession := svc.Session(ctx, nil)
	assert.Equal(t, model.TierDemo, nilSession.Tier)
}

func TestServiceWithoutResolverIsDemo(t *testing.T) {
	svc := New(synthetic.NewProvider(synthetic.WithDelay(0)), &recordingBackend{}, nil, nil)
	sess := svc.Session(context.Background(), &model.Principal{Attributes: map[string]any{"role": "admin"}})
	assert.Equal(t, model.TierDemo, sess.Tier)
}

func TestDemoDeniedBackendOnlyOperations(t *testing.T) {
	back := &recordingBackend{}
	svc := newTestService(back)
	ctx := context.Background()
	demo := Session{Tier: model.TierDemo}

	raw := svc.Conversations(ctx, demo, backend.ConversationQuery{})
	assert.Equal(t, http.StatusForbidden, raw.Status())
	details := svc.ConversationDetails(ctx, demo, 1)
	assert.Equal(t, http.StatusForbidden, details.Status())
	analytics := svc.ChildAnalytics(ctx, demo, backend.AnalyticsEmotions, 1)
	assert.Equal(t, http.StatusForbidden, analytics.Status())

	fail, ok := analytics.Failure()
	require.True(t, ok)
	assert.Equal(t, DemoUnavailable, fail.Message)
	assert.Empty(t, back.calls)

	educator := Session{Tier: model.TierEducator}
	assert.True(t, svc.ConversationDetails(ctx, educator, 1).OK())
	assert.Equal(t, []string{"conversation_details"}, back.calls)
}

func TestDemoChildrenIgnoreParent(t *testing.T) {
	back := &recordingBackend{}
	svc := newTestService(back)

	r := svc.Children(context.Background(), Session{}, 0)
	page, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, 5, page.Count)
	assert.Empty(t, back.calls)
}

func TestRealChildrenNeedParent(t *testing.T) {
	svc := newTestService(&recordingBackend{})
	r := svc.Children(context.Background(), Session{Tier: model.TierEducator}, 0)
	assert.Equal(t, http.StatusBadRequest, r.Status())
}

func TestStudentRosterMockUnlessAdmin(t *testing.T) {
	ctx := context.Background()
	for tr, wantMock := range map[model.Tier]bool{
		model.TierDemo:     true,
		model.TierEducator: true,
		model.TierAdmin:    false,
	} {
		back := &recordingBackend{}
		svc := newTestService(back)
		svc.StudentRoster(ctx, Session{Tier: tr})
		require.NotNil(t, back.rosterMock, "tier %s", tr)
		assert.Equal(t, wantMock, *back.rosterMock, "tier %s", tr)
	}
}

func TestSyntheticValidationIsBadRequest(t *testing.T) {
	svc := newTestService(&recordingBackend{})
	r := svc.ConversationsWithAnalytics(context.Background(), Session{}, model.ListParams{Page: 1, PageSize: 0})
	assert.Equal(t, http.StatusBadRequest, r.Status())
}

func TestSyntheticFailureIsInternalError(t *testing.T) {
	svc := New(failingSynthetic{err: errors.New("boom")}, &recordingBackend{}, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		r    interface {
			Status() int
			Err() error
		}
		want string
	}{
		{"conversations", svc.ConversationsWithAnalytics(ctx, Session{}, model.DefaultListParams()), "Failed to fetch demo conversations"},
		{"characters", svc.CharacterStats(ctx, Session{}), "Failed to fetch demo character stats"},
		{"dashboard", svc.DashboardStats(ctx, Session{}), "Failed to fetch demo dashboard stats"},
		{"children", svc.Children(ctx, Session{}, 0), "Failed to fetch demo children"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusInternalServerError, tt.r.Status())
			var f result.Failure
			require.ErrorAs(t, tt.r.Err(), &f)
			assert.Equal(t, tt.want, f.Message)
		})
	}
}

func TestHealthIgnoresTier(t *testing.T) {
	back := &recordingBackend{}
	svc := newTestService(back)
	assert.True(t, svc.Health(context.Background()).OK())
	assert.Equal(t, []string{"health"}, back.calls)
}

// orderedService serves conversations 1..n oldest first, the way the
// conversation service does, with no child, question or answer data.
func orderedService(n int) http.Handler {
	convs := make([]model.Conversation, n)
	for i := range convs {
		convs[i] = model.Conversation{
			ID:            i + 1,
			Child:         1,
			Context:       "koko-panda",
			StartDateTime: fmt.Sprintf("2025-08-14T%02d:00:00Z", i+1),
			LastDateTime:  fmt.Sprintf("2025-08-14T%02d:05:00Z", i+1),
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/conversations/" {
			json.NewEncoder(w).Encode(backend.List[struct{}]{})
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		start := min((page-1)*size, n)
		end := min(start+size, n)
		json.NewEncoder(w).Encode(backend.List[model.Conversation]{Count: n, Results: convs[start:end]})
	})
}

func TestBackendAndSyntheticAgreeOnNewestFirst(t *testing.T) {
	server := httptest.NewServer(orderedService(8))
	defer server.Close()

	client, err := backend.New(server.URL, backend.WithHTTPClient(server.Client()))
	require.NoError(t, err)
	back := backend.NewProvider(client)

	var ds synthetic.Dataset
	for i := 1; i <= 8; i++ {
		ds.Conversations = append(ds.Conversations, model.EnrichedConversation{
			Conversation: model.Conversation{ID: i, StartDateTime: fmt.Sprintf("2025-08-14T%02d:00:00Z", i)},
		})
	}
	svc := New(synthetic.NewProvider(synthetic.WithDelay(0), synthetic.WithDataset(ds)), back, nil, nil)

	ctx := context.Background()
	params := model.ListParams{Page: 1, PageSize: 3}

	realPage, ok := svc.ConversationsWithAnalytics(ctx, Session{Tier: model.TierEducator}, params).Data()
	require.True(t, ok)
	demoPage, ok := svc.ConversationsWithAnalytics(ctx, Session{Tier: model.TierDemo}, params).Data()
	require.True(t, ok)

	ids := func(cs []model.EnrichedConversation) []int {
		out := make([]int, len(cs))
		for i, c := range cs {
			out[i] = c.ID
		}
		return out
	}
	assert.Equal(t, []int{8, 7, 6}, ids(realPage.Conversations))
	assert.Equal(t, ids(demoPage.Conversations), ids(realPage.Conversations))
	assert.Equal(t, demoPage.Pagination, realPage.Pagination)
}
