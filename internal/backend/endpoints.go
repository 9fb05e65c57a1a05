package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rcliao/educator-insights/internal/model"
)

// List is the service's paginated list envelope.
type List[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ConversationQuery filters the raw conversation listing. Zero fields are omitted.
// The service accepts ordering but returns pages oldest first regardless.
type ConversationQuery struct {
	Page     int
	PageSize int
	Ordering string
}

func (q ConversationQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	return v
}

// MessageQuery filters question and answer listings for one conversation.
type MessageQuery struct {
	Conversation int
	Ordering     string
	Limit        int
}

func (q MessageQuery) values(conversationKey string) url.Values {
	v := url.Values{}
	v.Set(conversationKey, strconv.Itoa(q.Conversation))
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// Health calls the service health endpoint and returns its body.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.getJSON(ctx, "/api/health/", nil, "health check", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Conversations returns one physical page of raw conversations.
func (c *Client) Conversations(ctx context.Context, q ConversationQuery) (*List[model.Conversation], error) {
	var out List[model.Conversation]
	if err := c.getJSON(ctx, "/api/conversations/", q.values(), "list conversations", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllConversations walks every physical page of the conversation listing.
func (c *Client) AllConversations(ctx context.Context, pageSize int) ([]model.Conversation, error) {
	var all []model.Conversation
	for page := 1; ; page++ {
		paged, err := c.Conversations(ctx, ConversationQuery{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, paged.Results...)
		if paged.Next == nil || *paged.Next == "" || len(paged.Results) == 0 {
			break
		}
	}
	return all, nil
}

// Conversation returns a single raw conversation.
func (c *Client) Conversation(ctx context.Context, id int) (*model.Conversation, error) {
	var out model.Conversation
	path := fmt.Sprintf("/api/conversations/%d/", id)
	if err := c.getJSON(ctx, path, nil, "get conversation", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Child returns a single child profile.
func (c *Client) Child(ctx context.Context, id int) (*model.Child, error) {
	var out model.Child
	path := fmt.Sprintf("/api/child/%d/", id)
	if err := c.getJSON(ctx, path, nil, "get child", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Children returns the registered children listing.
func (c *Client) Children(ctx context.Context) (*List[model.Child], error) {
	var out List[model.Child]
	if err := c.getJSON(ctx, "/api/child/", nil, "list children", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChildrenOfParent returns the children registered to one parent.
func (c *Client) ChildrenOfParent(ctx context.Context, parentID int) (*model.ChildrenPage, error) {
	var out model.ChildrenPage
	q := url.Values{"parent_id": {strconv.Itoa(parentID)}}
	if err := c.getJSON(ctx, "/api/get_children/", q, "list children of parent", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Questions returns the questions asked in a conversation.
func (c *Client) Questions(ctx context.Context, q MessageQuery) (*List[model.Question], error) {
	var out List[model.Question]
	if err := c.getJSON(ctx, "/api/questions/", q.values("conversation"), "list questions", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Answers returns the answers given in a conversation.
func (c *Client) Answers(ctx context.Context, q MessageQuery) (*List[model.Answer], error) {
	var out List[model.Answer]
	if err := c.getJSON(ctx, "/api/answers/", q.values("question__conversation"), "list answers", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentRoster returns the admin children listing. mock asks the service
// for its own placeholder rows instead of real students.
func (c *Client) StudentRoster(ctx context.Context, mock bool) (*model.StudentRoster, error) {
	var q url.Values
	if mock {
		q = url.Values{"mock_data": {"true"}}
	}
	var out model.StudentRoster
	if err := c.getJSON(ctx, "/api/get_all_children_admin/", q, "list student roster", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MoodMeterCoordinates returns a child's mood meter plot as sent by the service.
func (c *Client) MoodMeterCoordinates(ctx context.Context, childID int) (json.RawMessage, error) {
	path := fmt.Sprintf("/api/get_mood_meter_coordinates/%d/", childID)
	return c.raw(ctx, path, nil, "get mood meter coordinates")
}

// TodaysChatHistory returns a child's chat history for today.
func (c *Client) TodaysChatHistory(ctx context.Context, childID int) (json.RawMessage, error) {
	return c.raw(ctx, "/api/get_todays_chat_history/", childQuery(childID), "get todays chat history")
}

// TodaysEmotions returns the emotions recorded for a child today.
func (c *Client) TodaysEmotions(ctx context.Context, childID int) (json.RawMessage, error) {
	return c.raw(ctx, "/api/get_todays_emotions/", childQuery(childID), "get todays emotions")
}

// UsageStatistics returns a child's usage statistics.
func (c *Client) UsageStatistics(ctx context.Context, childID int) (json.RawMessage, error) {
	return c.raw(ctx, "/api/usage_statistics/", childQuery(childID), "get usage statistics")
}

func childQuery(childID int) url.Values {
	return url.Values{"child_id": {strconv.Itoa(childID)}}
}

func (c *Client) raw(ctx context.Context, path string, q url.Values, operation string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.getJSON(ctx, path, q, operation, &out); err != nil {
		return nil, err
	}
	return out, nil
}
