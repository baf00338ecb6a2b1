package service

import (
	"context"
	"fmt"
	"testing"

	"maeul/internal/database"
	"maeul/internal/models"
	"maeul/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires every service against one in-memory database.
type testEnv struct {
	db         *gorm.DB
	users      repository.UserRepository
	categories repository.CategoryRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	hearts     repository.HeartRepository
	neighbors  repository.NeighborRepository

	visibility *VisibilityService
	post       *PostService
	comment    *CommentService
	heart      *HeartService
	neighbor   *NeighborService
	category   *CategoryService
	profile    *ProfileService
	feed       *FeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:         db,
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		posts:      repository.NewPostRepository(db),
		comments:   repository.NewCommentRepository(db),
		hearts:     repository.NewHeartRepository(db),
		neighbors:  repository.NewNeighborRepository(db),
	}
	env.visibility = NewVisibilityService(env.neighbors)
	env.post = NewPostService(env.posts, env.users, env.categories, env.visibility, nil)
	env.comment = NewCommentService(env.comments, env.posts, env.visibility)
	env.heart = NewHeartService(env.hearts, env.posts, env.comments, env.visibility)
	env.neighbor = NewNeighborService(env.neighbors, env.users)
	env.category = NewCategoryService(env.categories, env.users)
	env.profile = NewProfileService(env.users)
	env.feed = NewFeedService(repository.NewFeedRepository(db))
	return env
}

func (env *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed-password",
	}
	profile := &models.Profile{DisplayName: username, Urlname: username}
	require.NoError(t, env.users.CreateWithDefaults(context.Background(), user, profile))
	return user
}

func (env *testEnv) publishPost(t *testing.T, author *models.User, title string, visibility models.PostVisibility) *models.Post {
	t.Helper()
	post, err := env.post.CreatePost(context.Background(), author.ID, CreatePostInput{
		Title:      title,
		Content:    "본문",
		Status:     models.PostStatusPublished,
		Visibility: visibility,
	})
	require.NoError(t, err)
	return post
}

func (env *testEnv) acceptNeighbors(t *testing.T, a, b *models.User) {
	t.Helper()
	ctx := context.Background()
	request, err := env.neighbor.Request(ctx, a.ID, b.ID, "이웃해요")
	require.NoError(t, err)
	require.NoError(t, env.neighbor.Accept(ctx, b.ID, request.ID))
}

func requireAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code)
}
