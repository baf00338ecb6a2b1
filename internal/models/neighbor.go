package models

import (
	"time"
)

// NeighborStatus tracks the lifecycle of a neighbor request.
type NeighborStatus string

const (
	NeighborStatusPending  NeighborStatus = "pending"
	NeighborStatusAccepted NeighborStatus = "accepted"
	NeighborStatusRejected NeighborStatus = "rejected"
)

// Neighbor is a directed neighbor request from one user to another. A single
// accepted row in either direction makes the pair mutual neighbors; mutuality
// is always derived from these rows, never cached.
type Neighbor struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FromUserID uint           `gorm:"not null;uniqueIndex:idx_neighbor_from_to" json:"from_user_id"`
	ToUserID   uint           `gorm:"not null;uniqueIndex:idx_neighbor_from_to" json:"to_user_id"`
	Message    string         `gorm:"size:100" json:"message"`
	Status     NeighborStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	FromUser User `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUser   User `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
}

// IsSettled reports whether the request has already been answered.
func (n *Neighbor) IsSettled() bool {
	return n.Status != NeighborStatusPending
}
