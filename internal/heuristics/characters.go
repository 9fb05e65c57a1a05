// Package heuristics derives characters, topics and mood scores from the
// free text attached to conversations.
package heuristics

import "strings"

// CharacterID identifies one of the AI characters children talk to.
type CharacterID string

const (
	KokoPanda    CharacterID = "koko-panda"
	MochiCat     CharacterID = "mochi-cat"
	CharlieDog   CharacterID = "charlie-dog"
	RaviFox      CharacterID = "ravi-fox"
	NovaOwl      CharacterID = "nova-owl"
	DrCloverGoat CharacterID = "dr-clover-goat"
	ZenzoSloth   CharacterID = "zenzo-sloth"
)

// Character describes one entry of the closed character set.
type Character struct {
	ID                CharacterID `json:"id"`
	Name              string      `json:"name"`
	FullName          string      `json:"full_name"`
	Species           string      `json:"species"`
	Description       string      `json:"description"`
	ConversationStyle string      `json:"conversation_style"`
	Specialization    string      `json:"specialization"`
	// FavoriteTopic is a static label reported in character stats.
	FavoriteTopic string `json:"favorite_topic"`
}

// DefaultFavoriteTopic is reported for ids outside the catalogue.
const DefaultFavoriteTopic = "General Learning"

var catalogue = []Character{
	{
		ID: KokoPanda, Name: "Koko", FullName: "Koko the Panda", Species: "panda",
		Description:       "A warm, gentle panda who loves making friends and sharing stories",
		ConversationStyle: "calm",
		Specialization:    "Emotional Support & Friendship",
		FavoriteTopic:     "Emotional Support",
	},
	{
		ID: MochiCat, Name: "Mochi", FullName: "Mochi the Cat", Species: "cat",
		Description:       "A playful and curious cat who loves adventures and cozy spaces",
		ConversationStyle: "playful",
		Specialization:    "Play & Adventure Learning",
		FavoriteTopic:     "Adventure Learning",
	},
	{
		ID: CharlieDog, Name: "Charlie", FullName: "Charlie the Dog", Species: "dog",
		Description:       "An enthusiastic and loyal dog who loves playing and making friends",
		ConversationStyle: "energetic",
		Specialization:    "Social Skills & Friendship",
		FavoriteTopic:     "Social Skills",
	},
	{
		ID: RaviFox, Name: "Ravi", FullName: "Ravi the Fox", Species: "fox",
		Description:       "A clever and witty fox who loves playful challenges and thought-provoking conversations",
		ConversationStyle: "playful_challenger",
		Specialization:    "Critical Thinking & Debates",
		FavoriteTopic:     "Critical Thinking",
	},
	{
		ID: NovaOwl, Name: "Nova", FullName: "Nova the Owl", Species: "owl",
		Description:       "An encouraging and wise owl mentor who provides academic support and emotional check-ins",
		ConversationStyle: "wise_mentor",
		Specialization:    "Academic Learning & Mentorship",
		FavoriteTopic:     "Academic Learning",
	},
	{
		ID: DrCloverGoat, Name: "Dr. Clover", FullName: "Dr. Clover the Goat", Species: "goat",
		Description:       "A compassionate and validating goat who provides emotional guidance and school counseling",
		ConversationStyle: "emotional_counselor",
		Specialization:    "Emotional Counseling & Validation",
		FavoriteTopic:     "Emotional Counseling",
	},
	{
		ID: ZenzoSloth, Name: "Zenzo", FullName: "Zenzo the Sloth", Species: "sloth",
		Description:       "A calm and mindful sloth who teaches patience and mindfulness",
		ConversationStyle: "calm",
		Specialization:    "Mindfulness & Patience",
		FavoriteTopic:     "Mindfulness",
	},
}

// Characters returns the catalogue in its canonical order.
func Characters() []Character {
	out := make([]Character, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup returns the character with the given id.
func Lookup(id CharacterID) (Character, bool) {
	for _, c := range catalogue {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// LookupSpecies resolves a legacy species name ("panda", "owl", ...) to a character.
func LookupSpecies(species string) (Character, bool) {
	species = strings.ToLower(strings.TrimSpace(species))
	for _, c := range catalogue {
		if c.Species == species {
			return c, true
		}
	}
	return Character{}, false
}

// DisplayName returns the full display name, or the id itself when unknown.
func DisplayName(id CharacterID) string {
	if c, ok := Lookup(id); ok {
		return c.FullName
	}
	return string(id)
}

// FavoriteTopic returns the static specialty label for a character.
// It is not computed from conversation data.
func FavoriteTopic(id CharacterID) string {
	if c, ok := Lookup(id); ok {
		return c.FavoriteTopic
	}
	return DefaultFavoriteTopic
}
