package models

import (
	"time"
)

// PrivateCommentPlaceholder replaces the content of a private comment for
// viewers who are not the comment author, the post author, or the parent
// comment author. The row itself stays visible in listings.
const PrivateCommentPlaceholder = "비밀 댓글입니다."

// DeletedCommentPlaceholder replaces the content of a soft-deleted parent
// comment so its reply thread stays intact.
const DeletedCommentPlaceholder = "삭제된 댓글입니다."

// Comment is a comment or a one-level-deep reply on a post. ParentID is an
// id reference, never an embedded structure; a reply's parent must itself
// be a top-level comment.
type Comment struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	PostID   uint  `gorm:"not null;index" json:"post_id"`
	UserID   uint  `gorm:"not null;index" json:"user_id"`
	ParentID *uint `gorm:"index" json:"parent_id,omitempty"`

	Content   string `gorm:"type:text;not null" json:"content"`
	IsPrivate bool   `gorm:"not null;default:false" json:"is_private"`
	// IsParent denormalizes ParentID == nil for feed queries. No column
	// default: writers set it explicitly, a false value must reach the row.
	IsParent bool `gorm:"not null" json:"is_parent"`
	IsRead   bool `gorm:"not null;default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Post    Post      `gorm:"foreignKey:PostID" json:"-"`
	User    User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Parent  *Comment  `gorm:"foreignKey:ParentID" json:"-"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

// IsDeleted reports whether the comment was soft-deleted in place.
func (c *Comment) IsDeleted() bool {
	return c.Content == DeletedCommentPlaceholder
}
