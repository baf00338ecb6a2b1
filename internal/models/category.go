package models

import (
	"time"
)

// BoardCategoryName is the default category every account owns. It is
// created atomically at signup and can never be deleted.
const BoardCategoryName = "게시판"

// Category groups a user's posts. Names are unique per user.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_category_user_name" json:"user_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_category_user_name;size:50" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsBoard reports whether this is the protected default category.
func (c *Category) IsBoard() bool {
	return c.Name == BoardCategoryName
}
