package heuristics

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// GeneralTopic is returned when no topic keyword matches.
const GeneralTopic = "general conversation"

// Extractor maps conversation text to a character and a topic list.
// Implementations must be pure: equal input gives equal output.
type Extractor interface {
	Character(context string) CharacterID
	Topics(text string) []string
}

type keyword struct {
	word string
	id   CharacterID
}

// Matched in order; the first hit wins.
var characterKeywords = []keyword{
	{"koko", KokoPanda},
	{"panda", KokoPanda},
	{"mochi", MochiCat},
	{"cat", MochiCat},
	{"charlie", CharlieDog},
	{"dog", CharlieDog},
	{"ravi", RaviFox},
	{"fox", RaviFox},
	{"nova", NovaOwl},
	{"owl", NovaOwl},
	{"clover", DrCloverGoat},
	{"goat", DrCloverGoat},
	{"zenzo", ZenzoSloth},
	{"sloth", ZenzoSloth},
}

type topicGroup struct {
	topic    string
	keywords []string
}

var topicGroups = []topicGroup{
	{"friendship", []string{"friend", "friendship"}},
	{"sharing", []string{"share", "sharing"}},
	{"emotions", []string{"emotion", "feel"}},
	{"adventure", []string{"adventure", "explore"}},
	{"learning", []string{"learn", "school"}},
	{"playing", []string{"play", "game"}},
	{"critical thinking", []string{"think", "problem"}},
	{"mindfulness", []string{"calm", "breathe"}},
}

// KeywordExtractor is the substring-matching Extractor.
type KeywordExtractor struct{}

var _ Extractor = KeywordExtractor{}

// Default is the extractor used when none is configured.
var Default Extractor = KeywordExtractor{}

// Character returns the first character whose name or species occurs in
// context (case-insensitive). Without a match it picks a character by a
// stable hash of the context.
func (KeywordExtractor) Character(context string) CharacterID {
	lower := strings.ToLower(context)
	for _, kw := range characterKeywords {
		if strings.Contains(lower, kw.word) {
			return kw.id
		}
	}
	return catalogue[xxhash.Sum64String(context)%uint64(len(catalogue))].ID
}

// Topics returns one label per matching keyword group, in group order.
// The result is never empty.
func (KeywordExtractor) Topics(text string) []string {
	lower := strings.ToLower(text)
	var topics []string
	for _, g := range topicGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				topics = append(topics, g.topic)
				break
			}
		}
	}
	if len(topics) == 0 {
		return []string{GeneralTopic}
	}
	return topics
}
