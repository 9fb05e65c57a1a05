package backend

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/educator-insights/internal/heuristics"
	"github.com/rcliao/educator-insights/internal/model"
)

func newTestProvider(t *testing.T, f *fakeService, opts ...ProviderOption) *Provider {
	t.Helper()
	_, client := newTestServer(t, f)
	return NewProvider(client, opts...)
}

func conversationIDs(convs []model.EnrichedConversation) []int {
	out := make([]int, len(convs))
	for i, c := range convs {
		out[i] = c.ID
	}
	return out
}

func TestConversationsNewestFirst(t *testing.T) {
	f := newFakeService()
	f.seedConversations(8)
	p := newTestProvider(t, f)

	r := p.ConversationsWithAnalytics(context.Background(), model.ListParams{Page: 1, PageSize: 3})
	page, ok := r.Data()
	require.True(t, ok, "unexpected failure: %v", r.Err())

	assert.Equal(t, []int{8, 7, 6}, conversationIDs(page.Conversations))
	assert.Equal(t, model.Pagination{
		Count:      8,
		Next:       "page=2",
		Page:       1,
		PageSize:   3,
		TotalPages: 3,
	}, page.Pagination)
}

func TestConversationsEveryPageNewestFirst(t *testing.T) {
	f := newFakeService()
	f.seedConversations(8)
	p := newTestProvider(t, f)
	ctx := context.Background()

	var seen []int
	for page := 1; page <= 3; page++ {
		r := p.ConversationsWithAnalytics(ctx, model.ListParams{Page: page, PageSize: 3, Ordering: "-start_date_time"})
		data, ok := r.Data()
		require.True(t, ok)
		seen = append(seen, conversationIDs(data.Conversations)...)
	}
	assert.Equal(t, []int{8, 7, 6, 5, 4, 3, 2, 1}, seen)
}

func TestConversationsAscendingUsesRequestedPage(t *testing.T) {
	f := newFakeService()
	f.seedConversations(8)
	p := newTestProvider(t, f)

	r := p.ConversationsWithAnalytics(context.Background(), model.ListParams{Page: 1, PageSize: 3, NoDefaultSort: true})
	data, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, conversationIDs(data.Conversations))
}

func TestConversationsEmptyService(t *testing.T) {
	f := newFakeService()
	p := newTestProvider(t, f)

	r := p.ConversationsWithAnalytics(context.Background(), model.DefaultListParams())
	data, ok := r.Data()
	require.True(t, ok)
	assert.Empty(t, data.Conversations)
	assert.Equal(t, 0, data.Pagination.TotalPages)
	assert.Equal(t, 0, data.Pagination.Count)
	assert.Equal(t, 1, f.seen("/api/conversations/"), "only the count query should be issued")
}

func TestConversationsPageBeyondTotal(t *testing.T) {
	f := newFakeService()
	f.seedConversations(8)
	p := newTestProvider(t, f)

	r := p.ConversationsWithAnalytics(context.Background(), model.ListParams{Page: 10, PageSize: 3})
	data, ok := r.Data()
	require.True(t, ok)
	assert.Empty(t, data.Conversations)
	assert.Equal(t, 10, data.Pagination.Page)
	assert.Equal(t, 3, data.Pagination.TotalPages)
	assert.Equal(t, "page=9", data.Pagination.Previous)
	assert.Empty(t, data.Pagination.Next)
	assert.Equal(t, 1, f.seen("/api/conversations/"), "only the count query")
}

func TestConversationsRejectsBadPageSize(t *testing.T) {
	f := newFakeService()
	p := newTestProvider(t, f)

	for _, size := range []int{0, -3} {
		r := p.ConversationsWithAnalytics(context.Background(), model.ListParams{Page: 1, PageSize: size})
		require.False(t, r.OK())
		assert.Equal(t, http.StatusBadRequest, r.Status())
		fail, _ := r.Failure()
		assert.Contains(t, fail.Message, "page_size must be >= 1")
	}
	assert.Equal(t, 0, f.seen("/api/conversations/"))
}

func TestConversationsForwardsServiceError(t *testing.T) {
	f := newFakeService()
	f.fail["/api/conversations/"] = http.StatusServiceUnavailable
	p := newTestProvider(t, f)

	r := p.ConversationsWithAnalytics(context.Background(), model.DefaultListParams())
	require.False(t, r.OK())
	assert.Equal(t, http.StatusServiceUnavailable, r.Status())
	fail, _ := r.Failure()
	assert.Equal(t, "forced failure", fail.Message)
}

func TestServiceErrorMessageIsVerbatim(t *testing.T) {
	f := newFakeService()
	f.fail["/api/conversations/"] = http.StatusTooManyRequests
	f.failMessage = "quota at 100% for %s"
	p := newTestProvider(t, f)

	r := p.ConversationsWithAnalytics(context.Background(), model.DefaultListParams())
	require.False(t, r.OK())
	assert.Equal(t, http.StatusTooManyRequests, r.Status())
	fail, _ := r.Failure()
	assert.Equal(t, "quota at 100% for %s", fail.Message)
}

func TestEnrichment(t *testing.T) {
	f := newFakeService()
	f.conversations = []model.Conversation{
		{ID: 1, Child: 1, Context: "chat with Mochi", StartDateTime: "2025-08-14T10:00:00Z", LastDateTime: "2025-08-14T10:12:40Z"},
		{ID: 2, Child: 9, Context: "", StartDateTime: "2025-08-14T11:00:00Z"},
	}
	f.children[1] = model.Child{ID: 1, Name: "Emma Wilson"}
	f.questions[1] = []model.Question{
		{ID: 10, Conversation: 1, Text: "hello", MoodEvaluation: "3"},
		{ID: 11, Conversation: 1, Text: "I want to share with my friend", MoodEvaluation: "(8.5, 'happy')"},
	}
	f.answers[1] = []model.Answer{{ID: 20, Question: 11, Text: "That is kind", Character: "mochi-cat"}}
	p := newTestProvider(t, f)

	r := p.ConversationsWithAnalytics(context.Background(), model.DefaultListParams())
	data, ok := r.Data()
	require.True(t, ok)
	require.Len(t, data.Conversations, 2)

	second, first := data.Conversations[0], data.Conversations[1]
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "Child 9", second.ChildName)
	assert.Equal(t, heuristics.DefaultMood, second.MoodScore)
	assert.Equal(t, []string{heuristics.GeneralTopic}, second.TopicsDiscussed)
	assert.Equal(t, 0, second.DurationMinutes)
	assert.Nil(t, second.LatestQuestion)

	assert.Equal(t, "Emma Wilson", first.ChildName)
	assert.Equal(t, "mochi-cat", first.Character)
	assert.Equal(t, "Mochi the Cat", first.CharacterName)
	assert.Equal(t, 13, first.DurationMinutes)
	assert.Equal(t, 8.5, first.MoodScore)
	assert.Equal(t, []string{"friendship", "sharing"}, first.TopicsDiscussed)
	require.NotNil(t, first.LatestQuestion)
	assert.Equal(t, 11, first.LatestQuestion.ID)
	require.NotNil(t, first.LatestAnswer)
	assert.Equal(t, 20, first.LatestAnswer.ID)
}

func TestCharacterStats(t *testing.T) {
	f := newFakeService()
	f.conversations = []model.Conversation{
		{ID: 1, Context: "koko-panda friendship"},
		{ID: 2, Context: "mochi-cat adventure"},
		{ID: 3, Context: "Koko again"},
	}
	f.questions[1] = []model.Question{{MoodEvaluation: "8"}, {MoodEvaluation: "unknown"}}
	f.questions[3] = []model.Question{{MoodEvaluation: "9.25"}}
	p := newTestProvider(t, f)

	r := p.CharacterStats(context.Background())
	stats, ok := r.Data()
	require.True(t, ok, "unexpected failure: %v", r.Err())

	assert.Equal(t, []model.CharacterStat{
		{Character: "Koko the Panda", CharacterID: "koko-panda", Conversations: 2, AvgMood: 8.6, FavoriteTopic: "Emotional Support"},
		{Character: "Mochi the Cat", CharacterID: "mochi-cat", Conversations: 1, AvgMood: 7.5, FavoriteTopic: "Adventure Learning"},
	}, stats)
}

func TestCharacterStatsForwardsListingError(t *testing.T) {
	f := newFakeService()
	f.fail["/api/conversations/"] = http.StatusBadGateway
	p := newTestProvider(t, f)

	r := p.CharacterStats(context.Background())
	assert.False(t, r.OK())
	assert.Equal(t, http.StatusBadGateway, r.Status())
}

func TestDashboardStats(t *testing.T) {
	f := newFakeService()
	f.seedConversations(8)
	f.conversations[7].StartDateTime = "2025-08-13T23:30:00Z"
	f.conversations[7].LastDateTime = "2025-08-13T23:50:00Z"
	for i := 1; i <= 30; i++ {
		f.children[i] = model.Child{ID: i, Name: "child"}
	}
	f.questions[1] = []model.Question{{MoodEvaluation: "6"}, {MoodEvaluation: "9"}}
	clock := func() time.Time { return time.Date(2025, 8, 14, 22, 0, 0, 0, time.UTC) }
	p := newTestProvider(t, f, WithClock(clock))

	r := p.DashboardStats(context.Background())
	stats, ok := r.Data()
	require.True(t, ok, "unexpected failure: %v", r.Err())

	assert.Equal(t, model.DashboardStats{
		TotalConversations: 8,
		AvgDuration:        11.3,
		AvgMoodScore:       7.5,
		ActiveStudents:     3,
		TotalChildren:      30,
	}, stats)
}

func TestDashboardStatsFallbacks(t *testing.T) {
	f := newFakeService()
	f.conversations = []model.Conversation{{ID: 1, Child: 1, StartDateTime: "2025-08-14T10:00:00Z"}}
	p := newTestProvider(t, f, WithClock(func() time.Time { return time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC) }))

	r := p.DashboardStats(context.Background())
	stats, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, 5.2, stats.AvgDuration)
	assert.Equal(t, 7.9, stats.AvgMoodScore)
	assert.Equal(t, 0, stats.ActiveStudents)
	assert.Equal(t, 0, stats.TotalChildren)
}

func TestDashboardStatsSurfacesChildrenFailure(t *testing.T) {
	f := newFakeService()
	f.fail["/api/child/"] = http.StatusInternalServerError
	p := newTestProvider(t, f)

	r := p.DashboardStats(context.Background())
	assert.False(t, r.OK())
	assert.Equal(t, http.StatusInternalServerError, r.Status())
}

func TestConversationDetails(t *testing.T) {
	f := newFakeService()
	f.seedConversations(2)
	f.questions[2] = []model.Question{{ID: 5, Conversation: 2, Text: "hi"}}
	p := newTestProvider(t, f)

	r := p.ConversationDetails(context.Background(), 2)
	d, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, 2, d.Conversation.ID)
	assert.Len(t, d.Questions, 1)
	assert.NotNil(t, d.Answers)
	assert.Empty(t, d.Answers)

	missing := p.ConversationDetails(context.Background(), 99)
	assert.False(t, missing.OK())
	assert.Equal(t, http.StatusNotFound, missing.Status())
}

func TestChildrenOfParent(t *testing.T) {
	f := newFakeService()
	f.children[1] = model.Child{ID: 1, Name: "A", Parent: 7}
	f.children[2] = model.Child{ID: 2, Name: "B", Parent: 8}
	p := newTestProvider(t, f)

	r := p.ChildrenOfParent(context.Background(), 7)
	page, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "A", page.Children[0].Name)

	bad := p.ChildrenOfParent(context.Background(), 0)
	assert.Equal(t, http.StatusBadRequest, bad.Status())
	fail, _ := bad.Failure()
	assert.Equal(t, "Parent ID required for real data", fail.Message)
}

func TestChildAnalytics(t *testing.T) {
	f := newFakeService()
	p := newTestProvider(t, f)
	ctx := context.Background()

	for kind := range ValidAnalytics {
		r := p.ChildAnalytics(ctx, kind, 3)
		assert.True(t, r.OK(), "kind %s", kind)
	}
	bad := p.ChildAnalytics(ctx, Analytics("horoscope"), 3)
	assert.Equal(t, http.StatusBadRequest, bad.Status())
}

func TestHealth(t *testing.T) {
	f := newFakeService()
	p := newTestProvider(t, f)

	r := p.Health(context.Background())
	body, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, "ok", body["status"])
}
