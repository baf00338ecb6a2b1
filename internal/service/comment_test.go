package service

import (
	"context"
	"testing"

	"maeul/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment_ReplyDepthLimitedToOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")
	post := env.publishPost(t, author, "봄 나들이", models.VisibilityEveryone)

	parent, err := env.comment.CreateComment(ctx, author.ID, post.ID, CommentInput{Content: "댓글"})
	require.NoError(t, err)

	reply, err := env.comment.CreateComment(ctx, author.ID, post.ID, CommentInput{
		Content: "답글", ParentID: &parent.ID,
	})
	require.NoError(t, err)

	_, err = env.comment.CreateComment(ctx, author.ID, post.ID, CommentInput{
		Content: "대대댓글", ParentID: &reply.ID,
	})
	requireAppError(t, err, "VALIDATION_ERROR")
}

func TestCreateComment_ParentFromOtherPostRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")
	postA := env.publishPost(t, author, "첫 글", models.VisibilityEveryone)
	postB := env.publishPost(t, author, "둘째 글", models.VisibilityEveryone)

	parent, err := env.comment.CreateComment(ctx, author.ID, postA.ID, CommentInput{Content: "댓글"})
	require.NoError(t, err)

	_, err = env.comment.CreateComment(ctx, author.ID, postB.ID, CommentInput{
		Content: "엉뚱한 답글", ParentID: &parent.ID,
	})
	requireAppError(t, err, "VALIDATION_ERROR")
}

func TestCreateComment_HiddenPostLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "dahlia")
	stranger := env.createUser(t, "minsu")
	post := env.publishPost(t, author, "나만 보기", models.VisibilityMe)

	_, err := env.comment.CreateComment(ctx, stranger.ID, post.ID, CommentInput{Content: "댓글"})
	requireAppError(t, err, "NOT_FOUND")
}

func TestListComments_PrivateRedaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "dahlia")
	commenter := env.createUser(t, "minsu")
	stranger := env.createUser(t, "jiyoung")
	post := env.publishPost(t, owner, "봄 나들이", models.VisibilityEveryone)

	_, err := env.comment.CreateComment(ctx, commenter.ID, post.ID, CommentInput{
		Content: "비밀 이야기", IsPrivate: true,
	})
	require.NoError(t, err)

	// The comment author and the post owner read the real content.
	for _, viewerID := range []uint{commenter.ID, owner.ID} {
		comments, err := env.comment.ListComments(ctx, viewerID, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "비밀 이야기", comments[0].Content)
	}

	// Everyone else sees the placeholder, but the row stays visible.
	for _, viewerID := range []uint{stranger.ID, 0} {
		comments, err := env.comment.ListComments(ctx, viewerID, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, models.PrivateCommentPlaceholder, comments[0].Content)
	}
}

func TestListComments_PrivateReplyReadableByParentAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "dahlia")
	parentAuthor := env.createUser(t, "minsu")
	replier := env.createUser(t, "jiyoung")
	stranger := env.createUser(t, "hyun")
	post := env.publishPost(t, owner, "봄 나들이", models.VisibilityEveryone)

	parent, err := env.comment.CreateComment(ctx, parentAuthor.ID, post.ID, CommentInput{Content: "댓글"})
	require.NoError(t, err)
	_, err = env.comment.CreateComment(ctx, replier.ID, post.ID, CommentInput{
		Content: "비밀 답글", IsPrivate: true, ParentID: &parent.ID,
	})
	require.NoError(t, err)

	comments, err := env.comment.ListComments(ctx, parentAuthor.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "비밀 답글", comments[0].Replies[0].Content)

	comments, err = env.comment.ListComments(ctx, stranger.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, models.PrivateCommentPlaceholder, comments[0].Replies[0].Content)
}

func TestDeleteComment_ParentWithRepliesSoftDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "dahlia")
	replier := env.createUser(t, "minsu")
	post := env.publishPost(t, owner, "봄 나들이", models.VisibilityEveryone)

	parent, err := env.comment.CreateComment(ctx, owner.ID, post.ID, CommentInput{
		Content: "비밀 이야기", IsPrivate: true,
	})
	require.NoError(t, err)
	reply, err := env.comment.CreateComment(ctx, replier.ID, post.ID, CommentInput{
		Content: "답글", ParentID: &parent.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.comment.DeleteComment(ctx, owner.ID, post.ID, parent.ID))

	comments, err := env.comment.ListComments(ctx, replier.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, models.DeletedCommentPlaceholder, comments[0].Content)
	assert.False(t, comments[0].IsPrivate)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "답글", comments[0].Replies[0].Content)

	// The reply goes for real.
	require.NoError(t, env.comment.DeleteComment(ctx, replier.ID, post.ID, reply.ID))
	comments, err = env.comment.ListComments(ctx, replier.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Empty(t, comments[0].Replies)
}

func TestDeleteComment_ChildlessParentHardDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "dahlia")
	post := env.publishPost(t, owner, "봄 나들이", models.VisibilityEveryone)

	parent, err := env.comment.CreateComment(ctx, owner.ID, post.ID, CommentInput{Content: "댓글"})
	require.NoError(t, err)

	require.NoError(t, env.comment.DeleteComment(ctx, owner.ID, post.ID, parent.ID))

	comments, err := env.comment.ListComments(ctx, owner.ID, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeleteComment_PostOwnerMayDeleteOthersComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "dahlia")
	commenter := env.createUser(t, "minsu")
	stranger := env.createUser(t, "jiyoung")
	post := env.publishPost(t, owner, "봄 나들이", models.VisibilityEveryone)

	comment, err := env.comment.CreateComment(ctx, commenter.ID, post.ID, CommentInput{Content: "댓글"})
	require.NoError(t, err)

	err = env.comment.DeleteComment(ctx, stranger.ID, post.ID, comment.ID)
	requireAppError(t, err, "NOT_FOUND")

	require.NoError(t, env.comment.DeleteComment(ctx, owner.ID, post.ID, comment.ID))
}

func TestUpdateComment_DeletedPlaceholderNotEditable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "dahlia")
	replier := env.createUser(t, "minsu")
	post := env.publishPost(t, owner, "봄 나들이", models.VisibilityEveryone)

	parent, err := env.comment.CreateComment(ctx, owner.ID, post.ID, CommentInput{Content: "댓글"})
	require.NoError(t, err)
	_, err = env.comment.CreateComment(ctx, replier.ID, post.ID, CommentInput{
		Content: "답글", ParentID: &parent.ID,
	})
	require.NoError(t, err)
	require.NoError(t, env.comment.DeleteComment(ctx, owner.ID, post.ID, parent.ID))

	_, err = env.comment.UpdateComment(ctx, owner.ID, post.ID, parent.ID, "되살리기", false)
	requireAppError(t, err, "STATE_ERROR")
}
