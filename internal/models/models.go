package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	UserID                 string    `json:"userId" db:"user_id"`
	Name                   string    `json:"name" db:"name"`
	Email                  string    `json:"email" db:"email"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	Avatar                 string    `json:"avatar" db:"avatar"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
	ResetToken             string    `json:"-" db:"reset_token"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
}

// Post statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusScheduled = "scheduled"
)

type Post struct {
	PostID      string         `json:"postId" db:"post_id"`
	AuthorID    string         `json:"authorId" db:"author_id"`
	Title       string         `json:"title" db:"title"`
	Content     string         `json:"content" db:"content"`
	Excerpt     string         `json:"excerpt" db:"excerpt"`
	Slug        string         `json:"slug" db:"slug"`
	Image       string         `json:"image" db:"image"`
	Status      string         `json:"status" db:"status"`
	Tags        pq.StringArray `json:"tags" db:"tags"`
	PublishedAt *time.Time     `json:"publishedAt" db:"published_at"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
	Author      *User          `json:"author,omitempty" db:"-"`
	LikesCount  int            `json:"likesCount" db:"-"`
}

type Comment struct {
	CommentID string    `json:"commentId" db:"comment_id"`
	PostID    string    `json:"postId" db:"post_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UserName  string    `json:"userName" db:"user_name"`
	Avatar    string    `json:"userAvatar" db:"user_avatar"`
}

type Like struct {
	LikeID    string    `json:"likeId" db:"like_id"`
	PostID    string    `json:"postId" db:"post_id"`
	UserID    string    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Activity types
const (
	ActivityComment = "comment"
	ActivityLike    = "like"
	ActivityPost    = "post"
)

type Activity struct {
	ActivityID  string    `json:"activityId" db:"activity_id"`
	UserID      string    `json:"userId" db:"user_id"`
	Type        string    `json:"type" db:"type"`
	Description string    `json:"description" db:"description"`
	Link        string    `json:"link" db:"link"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
