package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pagedraft/internal/models"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO comments (comment_id, post_id, user_id, content, created_at)
		VALUES (:comment_id, :post_id, :user_id, :content, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}

	return nil
}

// GetByPostID возвращает комментарии поста от новых к старым вместе с данными автора.
func (r *commentRepository) GetByPostID(ctx context.Context, postID string, page, perPage int) ([]models.Comment, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	query := `
		SELECT c.comment_id, c.post_id, c.user_id, c.content, c.created_at,
		       u.name AS user_name, u.avatar AS user_avatar
		FROM comments c
		JOIN users u ON u.user_id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`

	var comments []models.Comment
	err := r.db.SelectContext(ctx, &comments, query, postID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}

	return comments, nil
}
