package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMe_FieldCaps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "dahlia")

	long := strings.Repeat("가", 16)
	_, err := env.profile.UpdateMe(ctx, user.ID, UpdateProfileInput{DisplayName: &long})
	requireAppError(t, err, "VALIDATION_ERROR")

	longIntro := strings.Repeat("나", 101)
	_, err = env.profile.UpdateMe(ctx, user.ID, UpdateProfileInput{Intro: &longIntro})
	requireAppError(t, err, "VALIDATION_ERROR")

	name := "달리아"
	blogName := "달리아의 정원"
	profile, err := env.profile.UpdateMe(ctx, user.ID, UpdateProfileInput{
		DisplayName: &name, BlogName: &blogName,
	})
	require.NoError(t, err)
	assert.Equal(t, "달리아", profile.DisplayName)
	assert.Equal(t, "달리아의 정원", profile.BlogName)
}

func TestChangeUrlname_ValidatedAndOneShot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "dahlia")

	_, err := env.profile.ChangeUrlname(ctx, user.ID, "Invalid Name")
	requireAppError(t, err, "VALIDATION_ERROR")

	_, err = env.profile.ChangeUrlname(ctx, user.ID, "admin")
	requireAppError(t, err, "VALIDATION_ERROR")

	profile, err := env.profile.ChangeUrlname(ctx, user.ID, "dahlia-garden")
	require.NoError(t, err)
	assert.Equal(t, "dahlia-garden", profile.Urlname)

	_, err = env.profile.ChangeUrlname(ctx, user.ID, "dahlia-second")
	requireAppError(t, err, "VALIDATION_ERROR")
}

func TestProfileByUrlname(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "dahlia")

	profile, err := env.profile.ByUrlname(context.Background(), "dahlia")
	require.NoError(t, err)
	assert.Equal(t, "dahlia", profile.DisplayName)

	_, err = env.profile.ByUrlname(context.Background(), "nobody")
	requireAppError(t, err, "NOT_FOUND")
}
