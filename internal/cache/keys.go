package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix      = "profile:%s"
	PostKeyPrefix         = "post:%d"
	CategoryListKeyPrefix = "categories:%d"
	ActivityKeyPrefix     = "activity:%d"
	NewsKeyPrefix         = "news:%d"
)

const (
	ProfileTTL      = 5 * time.Minute
	PostTTL         = 30 * time.Minute
	CategoryListTTL = 10 * time.Minute
	FeedTTL         = 30 * time.Second
)

func ProfileKey(urlname string) string {
	return fmt.Sprintf(ProfileKeyPrefix, urlname)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CategoryListKey(userID uint) string {
	return fmt.Sprintf(CategoryListKeyPrefix, userID)
}

func ActivityKey(userID uint) string {
	return fmt.Sprintf(ActivityKeyPrefix, userID)
}

func NewsKey(userID uint) string {
	return fmt.Sprintf(NewsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, urlname string) {
	Invalidate(ctx, ProfileKey(urlname))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateCategories(ctx context.Context, userID uint) {
	Invalidate(ctx, CategoryListKey(userID))
}

// InvalidateFeeds drops both feed caches for the user. Called on every
// heart/comment mutation that touches the user's content.
func InvalidateFeeds(ctx context.Context, userID uint) {
	Invalidate(ctx, ActivityKey(userID))
	Invalidate(ctx, NewsKey(userID))
}
