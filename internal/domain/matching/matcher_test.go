package matching

import (
	"testing"

	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillsOverlap(t *testing.T) {
	cases := []struct {
		desired, taught string
		want            bool
	}{
		{"JavaScript", "JavaScript Programming", true},
		{"javascript programming", "JAVASCRIPT", true},
		{"Java", "JavaScript", true},
		{"Guitar", "guitar", true},
		{"ÉCOLE de cuisine", "école", true},
		{"Piano", "Guitar Lessons", false},
		{"", "Guitar", false},
		{"Guitar", "   ", false},
		{" ", "Guitar Lessons", false},
		{"Java ", "JavaScript", false},
		{"Guitar", " Guitar", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SkillsOverlap(tc.desired, tc.taught), "%q vs %q", tc.desired, tc.taught)
	}
}

func TestFirstMatch_FollowsInterestOrderThenSkillOrder(t *testing.T) {
	got, ok := FirstMatch([]string{"Cooking", "Piano", "Guitar"}, []string{"Guitar Lessons", "Piano Fundamentals"})
	require.True(t, ok)
	assert.Equal(t, "Piano", got)

	_, ok = FirstMatch([]string{"Yoga"}, []string{"Baking"})
	assert.False(t, ok)
}

func profile(name string, teaches, learns []string) user.Profile {
	return user.Profile{ID: uuid.New(), Name: name, TeachingSkills: teaches, LearningInterests: learns}
}

func TestFindMatches(t *testing.T) {
	requester := profile("Req", []string{"Guitar"}, []string{"JavaScript", "Spanish"})
	js := profile("Js", []string{"JavaScript Programming", "Spanish Conversation"}, nil)
	js.Rating = 4.5
	js.CompletedExchanges = 7
	spanish := profile("Es", []string{"spanish"}, nil)
	nobody := profile("No", []string{"Yoga"}, nil)

	got := FindMatches(requester, []user.Profile{requester, js, nobody, spanish})
	require.Len(t, got, 2)

	assert.Equal(t, js.ID, got[0].UserID)
	assert.Equal(t, "JavaScript", got[0].MatchingSkill, "one representative skill per candidate")
	assert.Equal(t, 4.5, got[0].Rating)
	assert.Equal(t, 7, got[0].CompletedExchanges)

	assert.Equal(t, spanish.ID, got[1].UserID)
	assert.Equal(t, "Spanish", got[1].MatchingSkill)
}

func TestFindMatches_EmptyInterestsIsEmptyNotNil(t *testing.T) {
	requester := profile("Req", []string{"Guitar"}, nil)
	got := FindMatches(requester, []user.Profile{profile("Other", []string{"Guitar"}, nil)})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindMatches_NeverIncludesRequester(t *testing.T) {
	requester := profile("Self", []string{"Guitar"}, []string{"Guitar"})
	got := FindMatches(requester, []user.Profile{requester})
	assert.Empty(t, got)
}

func TestFindMatches_EveryResultHasOverlappingPair(t *testing.T) {
	requester := profile("Req", nil, []string{"Java", "Cook", "Design"})
	pop := []user.Profile{
		requester,
		profile("A", []string{"JavaScript"}, nil),
		profile("B", []string{"Italian Cooking"}, nil),
		profile("C", []string{"Piano"}, nil),
		profile("D", []string{"UI/UX Design", "Python"}, nil),
		profile("E", nil, nil),
	}

	got := FindMatches(requester, pop)
	require.Len(t, got, 3)

	byID := map[uuid.UUID]user.Profile{}
	for _, p := range pop {
		byID[p.ID] = p
	}
	for _, r := range got {
		c := byID[r.UserID]
		found := false
		for _, d := range requester.LearningInterests {
			for _, s := range c.TeachingSkills {
				if SkillsOverlap(d, s) {
					found = true
				}
			}
		}
		assert.True(t, found, "candidate %s matched without an overlapping pair", c.Name)
	}

	again := FindMatches(requester, pop)
	assert.ElementsMatch(t, got, again)
}
