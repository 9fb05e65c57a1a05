package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rcliao/educator-insights/internal/model"
)

// fakeService mimics the conversation service: listings come back oldest
// first whatever ordering the caller asks for.
type fakeService struct {
	mu            sync.Mutex
	conversations []model.Conversation
	children      map[int]model.Child
	questions     map[int][]model.Question
	answers       map[int][]model.Answer
	requests      []string
	fail          map[string]int
	failMessage   string
}

func newFakeService() *fakeService {
	return &fakeService{
		children:  map[int]model.Child{},
		questions: map[int][]model.Question{},
		answers:   map[int][]model.Answer{},
		fail:      map[string]int{},
	}
}

// seedConversations adds n conversations with ids 1..n whose start times
// increase with id, one per hour on 2025-08-14.
func (f *fakeService) seedConversations(n int) {
	for i := 1; i <= n; i++ {
		f.conversations = append(f.conversations, model.Conversation{
			ID:            i,
			Child:         1 + i%3,
			Context:       "koko-panda friendship",
			StartDateTime: fmt.Sprintf("2025-08-14T%02d:00:00Z", i%24),
			LastDateTime:  fmt.Sprintf("2025-08-14T%02d:10:00Z", i%24),
		})
	}
}

func (f *fakeService) seen(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r == path {
			n++
		}
	}
	return n
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	status, failing := f.fail[r.URL.Path]
	msg := f.failMessage
	f.mu.Unlock()

	if failing {
		if msg == "" {
			msg = "forced failure"
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": msg})
		return
	}

	q := r.URL.Query()
	path := r.URL.Path
	switch {
	case path == "/api/health/":
		writeJSON(w, map[string]any{"status": "ok"})
	case path == "/api/conversations/":
		f.listConversations(w, q.Get("page"), q.Get("page_size"))
	case strings.HasPrefix(path, "/api/conversations/"):
		id := idFromPath(path, "/api/conversations/")
		for _, c := range f.conversations {
			if c.ID == id {
				writeJSON(w, c)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"detail": "Not found."})
	case path == "/api/child/":
		var out []model.Child
		for i := 1; i <= len(f.children)+10; i++ {
			if c, ok := f.children[i]; ok {
				out = append(out, c)
			}
		}
		writeJSON(w, List[model.Child]{Count: len(out), Results: out})
	case strings.HasPrefix(path, "/api/child/"):
		c, ok := f.children[idFromPath(path, "/api/child/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, c)
	case path == "/api/questions/":
		id, _ := strconv.Atoi(q.Get("conversation"))
		qs := f.questions[id]
		if q.Get("ordering") == "-timestamp" {
			rev := make([]model.Question, len(qs))
			for i := range qs {
				rev[len(qs)-1-i] = qs[i]
			}
			qs = rev
		}
		if limit, _ := strconv.Atoi(q.Get("limit")); limit > 0 && limit < len(qs) {
			qs = qs[:limit]
		}
		writeJSON(w, List[model.Question]{Count: len(qs), Results: qs})
	case path == "/api/answers/":
		id, _ := strconv.Atoi(q.Get("question__conversation"))
		as := f.answers[id]
		if limit, _ := strconv.Atoi(q.Get("limit")); limit > 0 && limit < len(as) {
			as = as[len(as)-limit:]
		}
		writeJSON(w, List[model.Answer]{Count: len(as), Results: as})
	case path == "/api/get_children/":
		parent, _ := strconv.Atoi(q.Get("parent_id"))
		var out []model.Child
		for i := 1; i <= len(f.children)+10; i++ {
			if c, ok := f.children[i]; ok && c.Parent == parent {
				out = append(out, c)
			}
		}
		writeJSON(w, model.ChildrenPage{Children: out, Count: len(out)})
	case path == "/api/get_all_children_admin/":
		writeJSON(w, model.StudentRoster{
			Children:   []model.Student{{ID: "s1", Name: "Student"}},
			Count:      1,
			IsMockData: q.Get("mock_data") == "true",
		})
	case strings.HasPrefix(path, "/api/get_mood_meter_coordinates/"):
		writeJSON(w, map[string]any{"child": idFromPath(path, "/api/get_mood_meter_coordinates/"), "x": 1, "y": 2})
	case path == "/api/get_todays_chat_history/", path == "/api/get_todays_emotions/", path == "/api/usage_statistics/":
		writeJSON(w, map[string]any{"endpoint": path, "child_id": q.Get("child_id")})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeService) listConversations(w http.ResponseWriter, pageParam, sizeParam string) {
	page, _ := strconv.Atoi(pageParam)
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(sizeParam)
	if size < 1 {
		size = 20
	}
	n := len(f.conversations)
	start := (page - 1) * size
	if start > 0 && start >= n {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"detail": "Invalid page."})
		return
	}
	end := min(start+size, n)
	out := List[model.Conversation]{Count: n, Results: f.conversations[start:end]}
	if end < n {
		next := fmt.Sprintf("/api/conversations/?page=%d&page_size=%d", page+1, size)
		out.Next = &next
	}
	writeJSON(w, out)
}

func idFromPath(path, prefix string) int {
	id, _ := strconv.Atoi(strings.Trim(strings.TrimPrefix(path, prefix), "/"))
	return id
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newTestServer(t *testing.T, f *fakeService) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	client, err := New(server.URL, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatal(err)
	}
	return server, client
}
