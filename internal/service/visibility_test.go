package service

import (
	"context"
	"testing"

	"maeul/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanViewPost_AuthorSeesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")

	draft, err := env.post.CreatePost(ctx, author.ID, CreatePostInput{
		Title: "초안", Status: models.PostStatusDraft, Visibility: models.VisibilityMe,
	})
	require.NoError(t, err)

	ok, err := env.visibility.CanViewPost(ctx, author.ID, draft)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanViewPost_MeAdmitsNobodyElse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")
	neighbor := env.createUser(t, "minsu")
	env.acceptNeighbors(t, author, neighbor)

	post := env.publishPost(t, author, "나만 보기", models.VisibilityMe)

	// Even an accepted neighbor is shut out of "me".
	ok, err := env.visibility.CanViewPost(ctx, neighbor.ID, post)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanViewPost_MutualRequiresAcceptedRelation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")
	neighbor := env.createUser(t, "minsu")
	stranger := env.createUser(t, "jiyoung")
	env.acceptNeighbors(t, neighbor, author)

	post := env.publishPost(t, author, "이웃 글", models.VisibilityMutual)

	ok, err := env.visibility.CanViewPost(ctx, neighbor.ID, post)
	require.NoError(t, err)
	assert.True(t, ok, "relation initiated by the other side still counts")

	ok, err = env.visibility.CanViewPost(ctx, stranger.ID, post)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.visibility.CanViewPost(ctx, 0, post)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanViewPost_DraftHiddenFromOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")
	other := env.createUser(t, "minsu")

	draft, err := env.post.CreatePost(ctx, author.ID, CreatePostInput{
		Title: "초안", Status: models.PostStatusDraft, Visibility: models.VisibilityEveryone,
	})
	require.NoError(t, err)

	ok, err := env.visibility.CanViewPost(ctx, other.ID, draft)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetPost_HiddenLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")
	stranger := env.createUser(t, "minsu")

	post := env.publishPost(t, author, "나만 보기", models.VisibilityMe)

	_, err := env.post.GetPost(ctx, stranger.ID, post.ID)
	requireAppError(t, err, "NOT_FOUND")

	_, err = env.post.GetPost(ctx, stranger.ID, post.ID+1000)
	requireAppError(t, err, "NOT_FOUND")
}
