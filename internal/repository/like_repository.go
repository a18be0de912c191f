package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle атомарно переключает лайк пары (post, user) и возвращает новое состояние.
// Сначала пробуем удалить существующую запись; если ничего не удалено - вставляем.
// Гонка двойного клика гасится уникальным индексом (post_id, user_id): проигравшая
// вставка получает конфликт и ничего не делает, итоговое состояние "лайкнуто".
func (r *likeRepository) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	deleteQuery := `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, deleteQuery, postID, userID)
	if err != nil {
		return false, fmt.Errorf("ошибка при снятии лайка: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected > 0 {
		return false, nil
	}

	insertQuery := `
		INSERT INTO likes (like_id, post_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`

	_, err = r.db.ExecContext(ctx, insertQuery, uuid.New().String(), postID, userID)
	if err != nil {
		return false, fmt.Errorf("ошибка при создании лайка: %w", err)
	}

	return true, nil
}

func (r *likeRepository) Count(ctx context.Context, postID string) (int, error) {
	query := `SELECT COUNT(*) FROM likes WHERE post_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, postID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте лайков: %w", err)
	}

	return count, nil
}

func (r *likeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	query := `SELECT COUNT(*) FROM likes WHERE post_id = $1 AND user_id = $2`

	var count int
	err := r.db.GetContext(ctx, &count, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке лайка: %w", err)
	}

	return count > 0, nil
}
