package client

import (
	"context"
	"io"
	"time"

	"pagedraft/internal/models"
)

// PostList - страница выдачи постов.
type PostList struct {
	Items      []models.Post `json:"posts"`
	Page       int           `json:"page"`
	PerPage    int           `json:"perPage"`
	Total      int           `json:"total"`
	TotalPages int           `json:"totalPages"`
}

// FileUpload - файл, прикладываемый к multipart-запросу.
type FileUpload struct {
	Name   string
	Reader io.Reader
	Size   int64
}

// PostForm - данные формы создания/правки поста.
type PostForm struct {
	Title       string
	Content     string
	Excerpt     string
	Slug        string
	Status      string
	Tags        []string
	PublishedAt *time.Time
	Image       *FileUpload
}

// ContentService - контракт удалённого контент-сервиса.
// Ядро потребляет его, не реализуя хранение само.
type ContentService interface {
	ListPosts(ctx context.Context, page, perPage int, search, tag string) (*PostList, error)
	ListByAuthor(ctx context.Context, authorID string, page, perPage int) (*PostList, error)
	GetPost(ctx context.Context, idOrSlug string) (*models.Post, error)
	CreatePost(ctx context.Context, form PostForm) (*models.Post, error)
	UpdatePost(ctx context.Context, postID string, form PostForm) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error

	ToggleLike(ctx context.Context, postID string) (bool, int, error)
	LikeState(ctx context.Context, postID string) (bool, int, error)
	GetComments(ctx context.Context, postID string, page int) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID, content string) (*models.Comment, error)
	GetActivities(ctx context.Context) ([]models.Activity, error)

	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	RequestPasswordReset(ctx context.Context, email string) error
	LoginWithOAuth(ctx context.Context, provider string) error
	UpdateProfile(ctx context.Context, name string, avatar *FileUpload) error
	Logout()

	FileURL(collection, recordID, fileName string) string
}

// StaticPostID помечает витринную архивную запись: она не живёт в сервисе,
// лайки и комментарии для неё закрыты.
const StaticPostID = "static-archive"

var staticPublishedAt = time.Date(2026, time.February, 15, 12, 0, 0, 0, time.UTC)

// staticPosts - ручной фолбэк для одного известного slug.
var staticPosts = map[string]*models.Post{
	"state-of-the-archive": {
		PostID:  StaticPostID,
		Title:   "State of the Archive: A Note from the Editorial Desk",
		Excerpt: "A look back at the first year of the PageDraft archive: what was published, what was read, and where the platform goes from here.",
		Content: `
      <p>The PageDraft archive turned one this winter. What started as a holding
      pen for unfinished drafts has become a working record of how ideas on this
      platform take shape.</p>

      <h3>What was published</h3>
      <p>Over the past year the archive collected several hundred drafts across
      architecture, tooling, and long-form analysis. The most-read pieces were,
      without exception, the ones that shipped unfinished and were revised in
      public.</p>

      <h3>Where it goes from here</h3>
      <p>The editorial desk will keep curating a small set of featured pieces
      like this one. Everything else belongs to the authors: draft it, schedule
      it, let the archive catch it.</p>
    `,
		Status:    models.StatusPublished,
		Tags:      []string{"Editorial", "Archive"},
		CreatedAt: staticPublishedAt,
		Author: &models.User{
			UserID: "staff",
			Name:   "PageDraft Editorial",
			Email:  "editorial@pagedraft.dev",
		},
	},
}

// StaticPost возвращает витринную запись по slug, если она есть.
func StaticPost(slug string) (*models.Post, bool) {
	post, ok := staticPosts[slug]
	return post, ok
}
