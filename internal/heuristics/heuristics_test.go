package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharacterFromContext(t *testing.T) {
	tests := []struct {
		context string
		want    CharacterID
	}{
		{"koko-panda friendship emotional support", KokoPanda},
		{"mochi-cat adventure curiosity exploration", MochiCat},
		{"charlie-dog friendship loyalty playing", CharlieDog},
		{"ravi-fox critical thinking problem solving", RaviFox},
		{"nova-owl academic learning science", NovaOwl},
		{"dr-clover-goat emotional guidance validation", DrCloverGoat},
		{"zenzo-sloth mindfulness patience breathing", ZenzoSloth},
		{"Talking with the OWL about stars", NovaOwl},
		// first match in table order wins
		{"a sloth and a panda", KokoPanda},
	}
	x := KeywordExtractor{}
	for _, tt := range tests {
		t.Run(tt.context, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Character(tt.context))
		})
	}
}

func TestCharacterFallbackIsStable(t *testing.T) {
	x := KeywordExtractor{}
	for _, ctx := range []string{"", "42", "hello there", "story time"} {
		first := x.Character(ctx)
		_, known := Lookup(first)
		assert.True(t, known, "fallback for %q must be a known character", ctx)
		assert.Equal(t, first, x.Character(ctx))
	}
}

func TestTopics(t *testing.T) {
	x := KeywordExtractor{}
	assert.Equal(t, []string{"friendship", "sharing"}, x.Topics("I want to share with my friend"))
	assert.Equal(t, []string{"emotions", "mindfulness"}, x.Topics("I FEEL calm now"))
	assert.Equal(t, []string{"learning", "playing", "critical thinking"},
		x.Topics("at school we play a game and think hard"))
	assert.Equal(t, []string{GeneralTopic}, x.Topics("hello"))
	assert.Equal(t, []string{GeneralTopic}, x.Topics(""))
	assert.Equal(t, x.Topics("explore the adventure"), x.Topics("explore the adventure"))
}

func TestParseMood(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"8.5", 8.5, true},
		{"(7, 'happy')", 7, true},
		{"score: 6.25 of 10", 6.25, true},
		{"7.", 7, true},
		{"42", 10, true},
		{"happy", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseMood(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
	assert.Equal(t, DefaultMood, MoodOrDefault("n/a"))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 8.3, Round1(8.25))
	assert.Equal(t, 7.9, Round1(7.86))
	assert.Equal(t, 5.0, Round1(4.96))
}

func TestCatalogue(t *testing.T) {
	chars := Characters()
	assert.Len(t, chars, 7)
	assert.Equal(t, "Dr. Clover the Goat", DisplayName(DrCloverGoat))
	assert.Equal(t, "unknown-bear", DisplayName("unknown-bear"))
	assert.Equal(t, "Mindfulness", FavoriteTopic(ZenzoSloth))
	assert.Equal(t, DefaultFavoriteTopic, FavoriteTopic("unknown-bear"))

	c, ok := LookupSpecies("Fox")
	assert.True(t, ok)
	assert.Equal(t, RaviFox, c.ID)

	chars[0].FullName = "mutated"
	assert.Equal(t, "Koko the Panda", DisplayName(KokoPanda))
}
