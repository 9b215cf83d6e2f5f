package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile_CreatesThenMerges(t *testing.T) {
	s := newMemoryStore(t)
	uc := NewProfileUsecase(s)
	ctx := context.Background()
	id := uuid.New()

	p, err := uc.UpdateProfile(ctx, id, UpdateProfileInput{
		Name:           ptr("Ana"),
		TeachingSkills: ptr([]string{"Guitar"}),
		Settings:       json.RawMessage(`{"theme":"dark"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, 0, p.TimeBalance)

	p, err = uc.UpdateProfile(ctx, id, UpdateProfileInput{LearningInterests: ptr([]string{"Spanish"})})
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, []string{"Guitar"}, p.TeachingSkills)
	assert.Equal(t, []string{"Spanish"}, p.LearningInterests)
	assert.JSONEq(t, `{"theme":"dark"}`, string(p.Settings))

	got, err := uc.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, p.LearningInterests, got.LearningInterests)
}

func TestUpdateProfile_Validation(t *testing.T) {
	uc := NewProfileUsecase(newMemoryStore(t))
	ctx := context.Background()
	id := uuid.New()

	cases := map[string]UpdateProfileInput{
		"empty":        {},
		"blank skill":  {TeachingSkills: ptr([]string{"Go", " "})},
		"blank wish":   {LearningInterests: ptr([]string{""})},
		"array blob":   {Settings: json.RawMessage(`[1,2]`)},
		"invalid blob": {Settings: json.RawMessage(`{`)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.UpdateProfile(ctx, id, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := uc.GetProfile(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound, "rejected updates must not create a profile")
}

func TestUpdateProfile_ClearsSkillsWithEmptyList(t *testing.T) {
	s := newMemoryStore(t)
	p := profile("Ana", []string{"Guitar"}, []string{"Go"})
	s.SeedProfiles(p)

	got, err := NewProfileUsecase(s).UpdateProfile(context.Background(), p.ID, UpdateProfileInput{TeachingSkills: ptr([]string{})})
	require.NoError(t, err)
	assert.Empty(t, got.TeachingSkills)
	assert.Equal(t, []string{"Go"}, got.LearningInterests)
}

func TestProgress(t *testing.T) {
	s := newMemoryStore(t)
	p := profile("Ana", []string{"Guitar"}, nil)
	p.TimeBalance = 4
	p.CompletedExchanges = 2
	s.SeedProfiles(p)
	uc := NewProfileUsecase(s)
	ctx := context.Background()

	got, err := uc.GetUserProgress(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TimeBalance)
	assert.Equal(t, 2, got.CompletedExchanges)
	assert.Equal(t, []string{"Guitar"}, got.TeachingSkills)
	assert.NotNil(t, got.SkillProgress)
	assert.NotNil(t, got.Achievements)

	_, err = uc.UpdateSkillProgress(ctx, p.ID, "Guitar", 101)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = uc.UpdateSkillProgress(ctx, p.ID, "Guitar", -1)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = uc.UpdateSkillProgress(ctx, p.ID, " ", 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.UpdateSkillProgress(ctx, p.ID, "Guitar", 30)
	require.NoError(t, err)
	got, err = uc.UpdateSkillProgress(ctx, p.ID, "Piano", 100)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Guitar": 30, "Piano": 100}, got.SkillProgress)

	_, err = uc.AddAchievement(ctx, p.ID, "First Exchange")
	require.NoError(t, err)
	got, err = uc.AddAchievement(ctx, p.ID, "First Exchange")
	require.NoError(t, err)
	assert.Equal(t, []string{"First Exchange"}, got.Achievements)

	_, err = uc.AddAchievement(ctx, p.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProgress_UnknownUserIsNotFound(t *testing.T) {
	uc := NewProfileUsecase(newMemoryStore(t))
	ctx := context.Background()
	id := uuid.New()

	_, err := uc.GetUserProgress(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = uc.UpdateSkillProgress(ctx, id, "Go", 10)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = uc.AddAchievement(ctx, id, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}
