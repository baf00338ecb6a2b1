package repository

import (
	"context"
	"testing"
	"time"

	"maeul/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titlesOf(posts []models.Post) []string {
	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	return titles
}

func TestList_AnonymousSeesOnlyPublishedEveryone(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "dahlia")
	createTestPost(t, db, author, "공개 글", models.PostStatusPublished, models.VisibilityEveryone)
	createTestPost(t, db, author, "이웃 글", models.PostStatusPublished, models.VisibilityMutual)
	createTestPost(t, db, author, "나만 보기", models.PostStatusPublished, models.VisibilityMe)
	createTestPost(t, db, author, "초안", models.PostStatusDraft, models.VisibilityEveryone)

	posts, err := NewPostRepository(db).List(context.Background(), 0, ListScope{}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"공개 글"}, titlesOf(posts))
}

func TestList_MeVisibleOnlyToAuthor(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "dahlia")
	other := createTestUser(t, db, "minsu")
	createTestPost(t, db, author, "나만 보기", models.PostStatusPublished, models.VisibilityMe)

	repo := NewPostRepository(db)

	posts, err := repo.List(context.Background(), author.ID, ListScope{OwnerID: author.ID}, 20, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = repo.List(context.Background(), other.ID, ListScope{OwnerID: author.ID}, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestList_MutualVisibleEitherDirection(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "dahlia")
	receiver := createTestUser(t, db, "minsu")
	stranger := createTestUser(t, db, "jiyoung")
	createTestPost(t, db, author, "이웃 글", models.PostStatusPublished, models.VisibilityMutual)

	// Relation initiated by the receiver. Direction must not matter.
	makeNeighbors(t, db, receiver, author)

	repo := NewPostRepository(db)

	posts, err := repo.List(context.Background(), receiver.ID, ListScope{OwnerID: author.ID}, 20, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = repo.List(context.Background(), stranger.ID, ListScope{OwnerID: author.ID}, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestList_PendingNeighborIsNotMutual(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "dahlia")
	requester := createTestUser(t, db, "minsu")
	createTestPost(t, db, author, "이웃 글", models.PostStatusPublished, models.VisibilityMutual)

	neighbor := &models.Neighbor{FromUserID: requester.ID, ToUserID: author.ID, Status: models.NeighborStatusPending}
	require.NoError(t, db.Create(neighbor).Error)

	posts, err := NewPostRepository(db).List(context.Background(), requester.ID, ListScope{OwnerID: author.ID}, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestList_GeneralFeedExcludesOwnPosts(t *testing.T) {
	db := setupTestDB(t)
	mine := createTestUser(t, db, "dahlia")
	other := createTestUser(t, db, "minsu")
	createTestPost(t, db, mine, "내 글", models.PostStatusPublished, models.VisibilityEveryone)
	createTestPost(t, db, other, "남의 글", models.PostStatusPublished, models.VisibilityEveryone)

	posts, err := NewPostRepository(db).List(context.Background(), mine.ID, ListScope{ExcludeOwn: true}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"남의 글"}, titlesOf(posts))
}

func TestList_KeywordFilter(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "dahlia")

	game := createTestPost(t, db, author, "게임 이야기", models.PostStatusPublished, models.VisibilityEveryone)
	game.Subject = "게임"
	require.NoError(t, db.Save(game).Error)
	createTestPost(t, db, author, "일상 이야기", models.PostStatusPublished, models.VisibilityEveryone)

	posts, err := NewPostRepository(db).List(context.Background(), 0, ListScope{Keyword: models.KeywordForSubject("게임")}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"게임 이야기"}, titlesOf(posts))
}

func TestListDrafts(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "dahlia")
	createTestPost(t, db, author, "초안", models.PostStatusDraft, models.VisibilityEveryone)
	createTestPost(t, db, author, "발행 글", models.PostStatusPublished, models.VisibilityEveryone)

	drafts, err := NewPostRepository(db).ListDrafts(context.Background(), author.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"초안"}, titlesOf(drafts))
}

func TestRecentMine_CapsAtLimit(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "dahlia")
	for _, title := range []string{"하나", "둘", "셋", "넷", "다섯", "여섯"} {
		createTestPost(t, db, author, title, models.PostStatusPublished, models.VisibilityEveryone)
	}
	createTestPost(t, db, author, "초안", models.PostStatusDraft, models.VisibilityEveryone)

	posts, err := NewPostRepository(db).RecentMine(context.Background(), author.ID, 5)
	require.NoError(t, err)
	assert.Len(t, posts, 5)
	for _, p := range posts {
		assert.Equal(t, models.PostStatusPublished, p.Status)
	}
}

func TestNeighborFeed(t *testing.T) {
	db := setupTestDB(t)
	viewer := createTestUser(t, db, "dahlia")
	neighbor := createTestUser(t, db, "minsu")
	stranger := createTestUser(t, db, "jiyoung")
	makeNeighbors(t, db, viewer, neighbor)

	createTestPost(t, db, neighbor, "이웃 새 글", models.PostStatusPublished, models.VisibilityEveryone)
	createTestPost(t, db, stranger, "남의 글", models.PostStatusPublished, models.VisibilityEveryone)

	old := createTestPost(t, db, neighbor, "지난주 글", models.PostStatusPublished, models.VisibilityEveryone)
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(0, 0, -8)).Error)

	since := time.Now().AddDate(0, 0, -7)
	posts, err := NewPostRepository(db).NeighborFeed(context.Background(), viewer.ID, since, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"이웃 새 글"}, titlesOf(posts))
}

func TestReplaceContent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "dahlia")
	post := createTestPost(t, db, author, "사진 글", models.PostStatusDraft, models.VisibilityEveryone)

	repo := NewPostRepository(db)
	require.NoError(t, repo.ReplaceContent(ctx, post.ID,
		[]models.PostText{{Content: "첫 문단"}},
		[]models.PostImage{{URL: "/uploads/a.webp", IsRepresentative: true}},
	))
	require.NoError(t, repo.ReplaceContent(ctx, post.ID,
		[]models.PostText{{Content: "고친 문단"}, {Content: "둘째 문단"}},
		[]models.PostImage{{URL: "/uploads/b.webp", IsRepresentative: true}},
	))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Texts, 2)
	assert.Equal(t, "고친 문단", got.Texts[0].Content)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "/uploads/b.webp", got.Images[0].URL)
}

func TestRecountPost(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "dahlia")
	viewer := createTestUser(t, db, "minsu")
	post := createTestPost(t, db, author, "봄 나들이", models.PostStatusPublished, models.VisibilityEveryone)

	_, _, err := NewHeartRepository(db).TogglePostHeart(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	require.NoError(t, NewCommentRepository(db).Create(ctx, &models.Comment{
		PostID: post.ID, UserID: viewer.ID, Content: "잘 봤어요", IsParent: true,
	}))

	// Skew the counters, then recount from source rows.
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).
		Updates(map[string]interface{}{"like_count": 9, "comment_count": 9}).Error)

	require.NoError(t, NewPostRepository(db).RecountPost(ctx, post.ID))

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 1, got.LikeCount)
	assert.Equal(t, 1, got.CommentCount)
}
