package model

import (
	"strings"
	"time"
)

// Child is a registered child profile.
type Child struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Age                int    `json:"age"`
	ProfileIcon        int    `json:"profile_icon"`
	Parent             int    `json:"parent"`
	LanguagePreference string `json:"language_preference,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// Conversation is a raw conversation record as served by the backend.
// Timestamps are kept as the ISO-8601 strings the backend sends; they may be empty.
type Conversation struct {
	ID              int     `json:"id"`
	Child           int     `json:"child"`
	Context         string  `json:"context"`
	Length          int     `json:"length"`
	ScriptMode      bool    `json:"script_mode"`
	VideoDiscussion bool    `json:"video_discussion"`
	VideoID         *string `json:"video_id,omitempty"`
	VideoTitle      *string `json:"video_title,omitempty"`
	StartDateTime   string  `json:"start_date_time"`
	LastDateTime    string  `json:"last_date_time"`
	TotalUserTokens int     `json:"total_user_tokens"`
	TotalAITokens   int     `json:"total_ai_tokens"`
}

// Start returns the parsed start time.
func (c Conversation) Start() (time.Time, bool) { return ParseTimestamp(c.StartDateTime) }

// Last returns the parsed last-activity time.
func (c Conversation) Last() (time.Time, bool) { return ParseTimestamp(c.LastDateTime) }

// Question is a child utterance inside a conversation.
type Question struct {
	ID             int    `json:"id"`
	Conversation   int    `json:"conversation"`
	Text           string `json:"text"`
	Timestamp      string `json:"timestamp"`
	MoodEvaluation string `json:"mood_evaluation,omitempty"`
	AudioFileURL   string `json:"audio_file_url,omitempty"`
}

// Answer is a character reply to a question.
type Answer struct {
	ID           int    `json:"id"`
	Question     int    `json:"question"`
	Text         string `json:"text"`
	Timestamp    string `json:"timestamp"`
	Character    string `json:"character"`
	AudioFileURL string `json:"audio_file_url,omitempty"`
}

// EnrichedConversation is a conversation plus fields derived at read time.
type EnrichedConversation struct {
	Conversation
	ChildName       string    `json:"child_name"`
	Character       string    `json:"character"`
	CharacterName   string    `json:"character_name"`
	LatestQuestion  *Question `json:"latest_question,omitempty"`
	LatestAnswer    *Answer   `json:"latest_answer,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	MoodScore       float64   `json:"mood_score"`
	TopicsDiscussed []string  `json:"topics_discussed"`
}

// CharacterStat summarizes conversations held with one character.
type CharacterStat struct {
	Character     string  `json:"character"`
	CharacterID   string  `json:"character_id"`
	Conversations int     `json:"conversations"`
	AvgMood       float64 `json:"avgMood"`
	FavoriteTopic string  `json:"favoriteTopic"`
}

// DashboardStats is the overview snapshot shown on the dashboard landing page.
type DashboardStats struct {
	TotalConversations int     `json:"totalConversations"`
	AvgDuration        float64 `json:"avgDuration"`
	AvgMoodScore       float64 `json:"avgMoodScore"`
	ActiveStudents     int     `json:"activeStudents"`
	TotalChildren      int     `json:"totalChildren"`
}

// Pagination describes the page window reported to callers.
type Pagination struct {
	Count      int    `json:"count"`
	Next       string `json:"next,omitempty"`
	Previous   string `json:"previous,omitempty"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

// ConversationPage is one page of enriched conversations.
type ConversationPage struct {
	Conversations []EnrichedConversation `json:"conversations"`
	Pagination    Pagination             `json:"pagination"`
}

// ChildrenPage is a children listing.
type ChildrenPage struct {
	Children []Child `json:"children"`
	Count    int     `json:"count"`
}

// ConversationDetails bundles a conversation with its questions and answers.
type ConversationDetails struct {
	Conversation Conversation `json:"conversation"`
	Questions    []Question   `json:"questions"`
	Answers      []Answer     `json:"answers"`
}

// Student is a roster row as served by the admin children endpoint.
type Student struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Age                int     `json:"age"`
	Grade              string  `json:"grade"`
	LastActive         string  `json:"last_active"`
	MoodScore          float64 `json:"mood_score"`
	Status             string  `json:"status"`
	ConversationsToday int     `json:"conversations_today"`
	ParentEmail        string  `json:"parent_email"`
	CreatedAt          string  `json:"created_at"`
}

// StudentRoster is the admin children listing.
type StudentRoster struct {
	Children   []Student `json:"children"`
	Count      int       `json:"count"`
	IsMockData bool      `json:"is_mock_data"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
