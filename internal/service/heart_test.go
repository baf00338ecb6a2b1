package service

import (
	"context"
	"testing"

	"maeul/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTogglePostHeart_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")
	viewer := env.createUser(t, "minsu")
	post := env.publishPost(t, author, "봄 나들이", models.VisibilityEveryone)

	liked, count, err := env.heart.TogglePostHeart(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	liked, count, err = env.heart.TogglePostHeart(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)
}

func TestTogglePostHeart_HiddenPostLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")
	stranger := env.createUser(t, "minsu")
	post := env.publishPost(t, author, "이웃 글", models.VisibilityMutual)

	_, _, err := env.heart.TogglePostHeart(ctx, stranger.ID, post.ID)
	requireAppError(t, err, "NOT_FOUND")
}

func TestTogglePostHeart_DraftRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")

	draft, err := env.post.CreatePost(ctx, author.ID, CreatePostInput{Title: "초안"})
	require.NoError(t, err)

	_, _, err = env.heart.TogglePostHeart(ctx, author.ID, draft.ID)
	requireAppError(t, err, "STATE_ERROR")
}

func TestToggleCommentHeart_PrivateCommentHiddenFromStranger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "dahlia")
	stranger := env.createUser(t, "minsu")
	post := env.publishPost(t, owner, "봄 나들이", models.VisibilityEveryone)

	comment, err := env.comment.CreateComment(ctx, owner.ID, post.ID, CommentInput{
		Content: "비밀 이야기", IsPrivate: true,
	})
	require.NoError(t, err)

	_, _, err = env.heart.ToggleCommentHeart(ctx, stranger.ID, post.ID, comment.ID)
	requireAppError(t, err, "NOT_FOUND")

	// The post owner reads it and may heart it.
	liked, count, err := env.heart.ToggleCommentHeart(ctx, owner.ID, post.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)
}

func TestCommentHeartCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "dahlia")
	viewer := env.createUser(t, "minsu")
	post := env.publishPost(t, owner, "봄 나들이", models.VisibilityEveryone)

	comment, err := env.comment.CreateComment(ctx, owner.ID, post.ID, CommentInput{Content: "댓글"})
	require.NoError(t, err)

	_, _, err = env.heart.ToggleCommentHeart(ctx, viewer.ID, post.ID, comment.ID)
	require.NoError(t, err)

	count, liked, err := env.heart.CommentHeartCount(ctx, viewer.ID, post.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.True(t, liked)

	count, liked, err = env.heart.CommentHeartCount(ctx, owner.ID, post.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.False(t, liked)
}
