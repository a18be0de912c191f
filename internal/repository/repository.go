package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"pagedraft/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, name, avatar string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
	SetResetToken(ctx context.Context, email, resetToken string) error
}

// PostFilter - параметры публичной выборки постов.
// Visible включает фильтр видимости: published или scheduled с наступившим publish_at.
type PostFilter struct {
	Visible  bool
	Search   string
	Tag      string
	AuthorID string
	Page     int
	PerPage  int
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]models.Post, int, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByPostID(ctx context.Context, postID string, page, perPage int) ([]models.Comment, error)
}

type LikeRepository interface {
	Toggle(ctx context.Context, postID, userID string) (bool, error)
	Count(ctx context.Context, postID string) (int, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByUserID(ctx context.Context, userID string, limit int) ([]models.Activity, error)
}

type Repository struct {
	User     UserRepository
	Post     PostRepository
	Comment  CommentRepository
	Like     LikeRepository
	Activity ActivityRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		Post:     NewPostRepository(db),
		Comment:  NewCommentRepository(db),
		Like:     NewLikeRepository(db),
		Activity: NewActivityRepository(db),
	}
}
