// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered account.
//
// Email is omitted from JSON when empty so that public profile reads, which
// select only public columns, never expose it. Password is never serialized.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
