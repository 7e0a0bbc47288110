// Package models contains data structures for the application's domain models.
package models

import "time"

// MaxContentLength is the rune limit for post and reply content.
const MaxContentLength = 280

// Post represents a short text update. Posts are immutable once created.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Content string `gorm:"type:text;not null" json:"content"`
	// Username is the author's username; computed at query time via JOIN
	Username string `gorm:"->" json:"username"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// RepliesCount is not persisted; computed at query time
	RepliesCount int       `gorm:"->" json:"replies_count"`
	CreatedAt    time.Time `json:"created_at"`
}
