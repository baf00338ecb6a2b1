package models

import (
	"fmt"
	"time"
)

// ActivityKind labels a row in the caller's own activity feed.
type ActivityKind string

const (
	ActivityLikedPost      ActivityKind = "liked_post"
	ActivityLikedComment   ActivityKind = "liked_comment"
	ActivityWrittenComment ActivityKind = "written_comment"
	ActivityWrittenReply   ActivityKind = "written_reply"
)

// NewsKind labels a row in the news feed (things others did on the
// caller's content).
type NewsKind string

const (
	NewsPostComment  NewsKind = "post_comment"
	NewsPostLike     NewsKind = "post_like"
	NewsCommentReply NewsKind = "comment_reply"
)

// FeedEvent is one merged feed entry. The ID is synthetic: the source row's
// primary key prefixed by its table, so entries from different sources never
// collide ("heart_3", "comment_heart_7", "comment_12").
type FeedEvent struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Content     string    `json:"content"`
	PostID      uint      `json:"post_id"`
	PostUrlname string    `json:"post_urlname"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// FeedEventID builds the synthetic feed id for a source row.
func FeedEventID(prefix string, rowID uint) string {
	return fmt.Sprintf("%s_%d", prefix, rowID)
}
