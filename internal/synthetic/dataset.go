package synthetic

import "github.com/rcliao/educator-insights/internal/model"

// Dataset is the full synthetic data set served to demo principals.
type Dataset struct {
	Children       []model.Child
	Conversations  []model.EnrichedConversation
	CharacterStats []model.CharacterStat
	Dashboard      model.DashboardStats
}

// DefaultDataset returns a fresh copy of the built-in sample data.
// None of it identifies a real child.
func DefaultDataset() Dataset {
	return Dataset{
		Children: []model.Child{
			{ID: 1, Name: "Emma Wilson", Age: 7, ProfileIcon: 1, Parent: 1, LanguagePreference: "en", CreatedAt: "2024-01-15T10:00:00Z"},
			{ID: 2, Name: "Liam Johnson", Age: 8, ProfileIcon: 2, Parent: 1, LanguagePreference: "en", CreatedAt: "2024-02-20T14:30:00Z"},
			{ID: 3, Name: "Sofia Garcia", Age: 6, ProfileIcon: 3, Parent: 2, LanguagePreference: "es", CreatedAt: "2024-03-10T09:15:00Z"},
			{ID: 4, Name: "Noah Brown", Age: 9, ProfileIcon: 4, Parent: 2, LanguagePreference: "en", CreatedAt: "2024-04-05T16:45:00Z"},
			{ID: 5, Name: "Ava Martinez", Age: 7, ProfileIcon: 5, Parent: 3, LanguagePreference: "es", CreatedAt: "2024-05-12T11:20:00Z"},
		},
		Conversations: []model.EnrichedConversation{
			conv(1, 1, "Emma Wilson", "koko-panda", "Koko the Panda", "koko-panda friendship emotional support",
				15, "2025-08-15T10:30:00Z", "2025-08-15T10:45:00Z", 150, 200, 8.5,
				"friendship", "sharing", "emotions"),
			conv(2, 2, "Liam Johnson", "mochi-cat", "Mochi the Cat", "mochi-cat adventure curiosity exploration",
				12, "2025-08-15T09:15:00Z", "2025-08-15T09:27:00Z", 120, 180, 7.8,
				"adventure", "curiosity", "exploration"),
			conv(3, 3, "Sofia Garcia", "charlie-dog", "Charlie the Dog", "charlie-dog friendship loyalty playing",
				18, "2025-08-15T11:45:00Z", "2025-08-15T12:03:00Z", 180, 220, 9.1,
				"friendship", "loyalty", "playing"),
			conv(4, 4, "Noah Brown", "ravi-fox", "Ravi the Fox", "ravi-fox critical thinking problem solving",
				8, "2025-08-15T14:20:00Z", "2025-08-15T14:28:00Z", 90, 140, 7.2,
				"critical thinking", "problem solving", "different perspectives"),
			conv(5, 5, "Ava Martinez", "nova-owl", "Nova the Owl", "nova-owl academic learning science",
				14, "2025-08-15T13:15:00Z", "2025-08-15T13:29:00Z", 140, 190, 8.7,
				"academic learning", "science", "discovery"),
			conv(6, 1, "Emma Wilson", "dr-clover-goat", "Dr. Clover the Goat", "dr-clover-goat emotional guidance validation",
				16, "2025-08-14T15:30:00Z", "2025-08-14T15:46:00Z", 160, 210, 8.9,
				"emotional guidance", "validation", "feelings"),
			conv(7, 2, "Liam Johnson", "zenzo-sloth", "Zenzo the Sloth", "zenzo-sloth mindfulness patience breathing",
				10, "2025-08-14T16:45:00Z", "2025-08-14T16:55:00Z", 100, 150, 9.2,
				"mindfulness", "patience", "breathing"),
			conv(8, 3, "Sofia Garcia", "koko-panda", "Koko the Panda", "koko-panda emotional support feelings",
				13, "2025-08-14T08:20:00Z", "2025-08-14T08:33:00Z", 130, 170, 8.3,
				"emotional support", "feelings", "comfort"),
		},
		CharacterStats: []model.CharacterStat{
			{Character: "Koko the Panda", CharacterID: "koko-panda", Conversations: 145, AvgMood: 8.2, FavoriteTopic: "Emotional Support"},
			{Character: "Mochi the Cat", CharacterID: "mochi-cat", Conversations: 98, AvgMood: 7.8, FavoriteTopic: "Adventure Learning"},
			{Character: "Charlie the Dog", CharacterID: "charlie-dog", Conversations: 132, AvgMood: 8.5, FavoriteTopic: "Social Skills"},
			{Character: "Ravi the Fox", CharacterID: "ravi-fox", Conversations: 89, AvgMood: 8.0, FavoriteTopic: "Critical Thinking"},
			{Character: "Nova the Owl", CharacterID: "nova-owl", Conversations: 76, AvgMood: 8.3, FavoriteTopic: "Academic Learning"},
			{Character: "Dr. Clover the Goat", CharacterID: "dr-clover-goat", Conversations: 67, AvgMood: 8.6, FavoriteTopic: "Emotional Counseling"},
			{Character: "Zenzo the Sloth", CharacterID: "zenzo-sloth", Conversations: 43, AvgMood: 9.1, FavoriteTopic: "Mindfulness"},
		},
		Dashboard: model.DashboardStats{
			TotalConversations: 650,
			AvgDuration:        12.4,
			AvgMoodScore:       8.3,
			ActiveStudents:     18,
			TotalChildren:      28,
		},
	}
}

func conv(id, child int, childName, character, characterName, context string, minutes int,
	start, last string, userTokens, aiTokens int, mood float64, topics ...string) model.EnrichedConversation {
	return model.EnrichedConversation{
		Conversation: model.Conversation{
			ID:              id,
			Child:           child,
			Context:         context,
			Length:          minutes,
			StartDateTime:   start,
			LastDateTime:    last,
			TotalUserTokens: userTokens,
			TotalAITokens:   aiTokens,
		},
		ChildName:       childName,
		Character:       character,
		CharacterName:   characterName,
		DurationMinutes: minutes,
		MoodScore:       mood,
		TopicsDiscussed: topics,
	}
}
