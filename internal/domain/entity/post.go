package entity

import (
	"time"

	"github.com/google/uuid"
)

// Post is a top-level board entry.
type Post struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	ViewCount int         `json:"viewCount"`
	Author    *PublicUser `json:"author,omitempty"`
	Tags      []string    `json:"tags"`
	Comments  []*Comment  `json:"comments,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        uuid.UUID   `json:"id"`
	PostID    uuid.UUID   `json:"postId"`
	Content   string      `json:"content"`
	Author    *PublicUser `json:"author,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Tag is a board-wide label with its usage count.
type Tag struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Count int       `json:"count"`
}

// PostPage is one page of the post listing.
type PostPage struct {
	Items    []*Post `json:"items"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}
