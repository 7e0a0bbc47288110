// Package models contains data structures for the application's domain models.
package models

import "time"

// Reply represents a one-level-deep reply to a post.
type Reply struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`
	Post    Post   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID  uint   `gorm:"not null" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Content string `gorm:"type:text;not null" json:"content"`
	// Username is the author's username; computed at query time via JOIN
	Username  string    `gorm:"->" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
