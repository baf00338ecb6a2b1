// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the Maeul application.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Profile    *Profile   `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Posts      []Post     `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	Categories []Category `gorm:"foreignKey:UserID" json:"categories,omitempty"`
}

// Profile holds a user's public blog identity. Created together with the
// user at signup; every user has exactly one.
type Profile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"`

	DisplayName string `gorm:"not null;size:15" json:"display_name"`
	BlogName    string `gorm:"size:20" json:"blog_name"`
	BlogPicURL  string `json:"blog_pic_url"`
	UserPicURL  string `json:"user_pic_url"`
	Intro       string `gorm:"size:100" json:"intro"`

	// Urlname is the public blog handle (/@urlname). It can be changed at
	// most once; UrlnameEditCount only ever moves 0 -> 1.
	Urlname          string `gorm:"uniqueIndex;not null;size:30" json:"urlname"`
	UrlnameEditCount int    `gorm:"not null;default:0" json:"urlname_edit_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}
