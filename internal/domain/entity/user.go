// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity. LoginID and Nickname are both unique
// across the board; PasswordHash stores the bcrypt hash and must never
// leave the service boundary.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	LoginID      string    // Unique login identifier chosen at registration.
	Nickname     string    // Unique display name shown next to posts and comments.
	PasswordHash string    // bcrypt hash of the password. Never serialized.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// PublicUser is the response-safe projection of a User.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	LoginID   string    `json:"loginId"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToPublic maps a User to its public projection. The mapping is explicit so
// a new sensitive field on User can never leak by accident.
func (u *User) ToPublic() *PublicUser {
	if u == nil {
		return nil
	}

	return &PublicUser{
		ID:        u.ID,
		LoginID:   u.LoginID,
		Nickname:  u.Nickname,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserStats summarizes a user's activity for the profile page.
type UserStats struct {
	PostCount    int        `json:"postCount"`
	CommentCount int        `json:"commentCount"`
	TopTags      []TagUsage `json:"topTags"`
	LastPost     *PostBrief `json:"lastPost"`
}

// TagUsage pairs a tag name with how many of the user's posts carry it.
type TagUsage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PostBrief is the minimal reference to a post used inside UserStats.
type PostBrief struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}
