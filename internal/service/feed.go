package service

import (
	"context"
	"fmt"
	"sort"

	"maeul/internal/cache"
	"maeul/internal/models"
	"maeul/internal/observability"
	"maeul/internal/repository"
)

// feedLimit caps both feeds at their five most recent events.
const feedLimit = 5

// FeedService builds the activity feed (what the caller did) and the news
// feed (what others did on the caller's content). Sources are unread rows.
// Serving a feed is a pure read: the read flag lives on the source row and
// only an explicit mutation flips it, so the same event keeps appearing
// until then and a capped-out event is never lost.
type FeedService struct {
	feed repository.FeedRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(feed repository.FeedRepository) *FeedService {
	return &FeedService{feed: feed}
}

func postUrlname(post *models.Post) string {
	if post.User.Profile != nil {
		return post.User.Profile.Urlname
	}
	return ""
}

func displayNameOf(user *models.User) string {
	if user.Profile != nil && user.Profile.DisplayName != "" {
		return user.Profile.DisplayName
	}
	return user.Username
}

// snippet shortens comment content for feed lines.
func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= 20 {
		return content
	}
	return string(runes[:20]) + "..."
}

func sortAndCap(events []models.FeedEvent) []models.FeedEvent {
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if len(events) > feedLimit {
		events = events[:feedLimit]
	}
	return events
}

// LatestActivity merges the caller's unread actions into at most five
// events, newest first.
func (s *FeedService) LatestActivity(ctx context.Context, userID uint) ([]models.FeedEvent, error) {
	defer observability.TrackFeedBuild("activity")()

	var events []models.FeedEvent
	err := cache.CacheAside(ctx, cache.ActivityKey(userID), &events, cache.FeedTTL, func() error {
		built, err := s.buildActivity(ctx, userID)
		if err != nil {
			return err
		}
		events = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.FeedEvent{}
	}
	return events, nil
}

func (s *FeedService) buildActivity(ctx context.Context, userID uint) ([]models.FeedEvent, error) {
	postHearts, err := s.feed.UnreadPostHeartsBy(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	commentHearts, err := s.feed.UnreadCommentHeartsBy(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	writtenComments, err := s.feed.UnreadCommentsBy(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	writtenReplies, err := s.feed.UnreadRepliesBy(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}

	events := make([]models.FeedEvent, 0, len(postHearts)+len(commentHearts)+len(writtenComments)+len(writtenReplies))
	for _, h := range postHearts {
		events = append(events, models.FeedEvent{
			ID:          models.FeedEventID("heart", h.ID),
			Kind:        string(models.ActivityLikedPost),
			Content:     fmt.Sprintf("%s 글을 좋아합니다.", h.Post.Title),
			PostID:      h.PostID,
			PostUrlname: postUrlname(&h.Post),
			IsRead:      h.IsRead,
			CreatedAt:   h.CreatedAt,
		})
	}
	for _, h := range commentHearts {
		events = append(events, models.FeedEvent{
			ID:          models.FeedEventID("comment_heart", h.ID),
			Kind:        string(models.ActivityLikedComment),
			Content:     fmt.Sprintf("%s 댓글을 좋아합니다.", snippet(h.Comment.Content)),
			PostID:      h.Comment.PostID,
			PostUrlname: postUrlname(&h.Comment.Post),
			IsRead:      h.IsRead,
			CreatedAt:   h.CreatedAt,
		})
	}
	for _, c := range writtenComments {
		events = append(events, models.FeedEvent{
			ID:          models.FeedEventID("comment", c.ID),
			Kind:        string(models.ActivityWrittenComment),
			Content:     fmt.Sprintf("%s 글에 댓글을 남겼습니다.", c.Post.Title),
			PostID:      c.PostID,
			PostUrlname: postUrlname(&c.Post),
			IsRead:      c.IsRead,
			CreatedAt:   c.CreatedAt,
		})
	}
	for _, c := range writtenReplies {
		events = append(events, models.FeedEvent{
			ID:          models.FeedEventID("comment", c.ID),
			Kind:        string(models.ActivityWrittenReply),
			Content:     fmt.Sprintf("%s 글에 답글을 남겼습니다.", c.Post.Title),
			PostID:      c.PostID,
			PostUrlname: postUrlname(&c.Post),
			IsRead:      c.IsRead,
			CreatedAt:   c.CreatedAt,
		})
	}
	return sortAndCap(events), nil
}

// LatestNews merges what others did on the caller's content into at most
// five events, newest first. The caller's own actions never appear.
func (s *FeedService) LatestNews(ctx context.Context, userID uint) ([]models.FeedEvent, error) {
	defer observability.TrackFeedBuild("news")()

	var events []models.FeedEvent
	err := cache.CacheAside(ctx, cache.NewsKey(userID), &events, cache.FeedTTL, func() error {
		built, err := s.buildNews(ctx, userID)
		if err != nil {
			return err
		}
		events = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.FeedEvent{}
	}
	return events, nil
}

func (s *FeedService) buildNews(ctx context.Context, userID uint) ([]models.FeedEvent, error) {
	comments, err := s.feed.UnreadCommentsOnPostsOf(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	hearts, err := s.feed.UnreadHeartsOnPostsOf(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	replies, err := s.feed.UnreadRepliesToCommentsOf(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}

	events := make([]models.FeedEvent, 0, len(comments)+len(hearts)+len(replies))
	for _, c := range comments {
		events = append(events, models.FeedEvent{
			ID:          models.FeedEventID("comment", c.ID),
			Kind:        string(models.NewsPostComment),
			Content:     fmt.Sprintf("%s님이 %s 글에 댓글을 남겼습니다.", displayNameOf(&c.User), c.Post.Title),
			PostID:      c.PostID,
			PostUrlname: postUrlname(&c.Post),
			IsRead:      c.IsRead,
			CreatedAt:   c.CreatedAt,
		})
	}
	for _, h := range hearts {
		events = append(events, models.FeedEvent{
			ID:          models.FeedEventID("heart", h.ID),
			Kind:        string(models.NewsPostLike),
			Content:     fmt.Sprintf("%s님이 %s 글을 좋아합니다.", displayNameOf(&h.User), h.Post.Title),
			PostID:      h.PostID,
			PostUrlname: postUrlname(&h.Post),
			IsRead:      h.IsRead,
			CreatedAt:   h.CreatedAt,
		})
	}
	for _, c := range replies {
		events = append(events, models.FeedEvent{
			ID:          models.FeedEventID("comment", c.ID),
			Kind:        string(models.NewsCommentReply),
			Content:     fmt.Sprintf("%s님이 %s 글에 대댓글을 남겼습니다.", displayNameOf(&c.User), c.Post.Title),
			PostID:      c.PostID,
			PostUrlname: postUrlname(&c.Post),
			IsRead:      c.IsRead,
			CreatedAt:   c.CreatedAt,
		})
	}
	return sortAndCap(events), nil
}
