package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pagedraft/internal/models"
)

type PostRepositoryImpl struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	query := `
        INSERT INTO posts
        (post_id, author_id, title, content, excerpt, slug, image, status, tags, published_at, created_at, updated_at)
        VALUES
        (:post_id, :author_id, :title, :content, :excerpt, :slug, :image, :status, :tags, :published_at, :created_at, :updated_at)
    `

	_, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `
        SELECT * FROM posts
        WHERE post_id = $1
    `

	var post models.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %s не найден", postID)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	query := `
        SELECT * FROM posts
        WHERE slug = $1
        ORDER BY created_at DESC
        LIMIT 1
    `

	var post models.Post
	err := r.db.GetContext(ctx, &post, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост со slug %s не найден", slug)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

// List возвращает страницу постов и общее число подходящих.
// Фильтр видимости: published либо scheduled с наступившим временем публикации.
// Сортировка: published_at по убыванию, затем created_at по убыванию.
func (r *PostRepositoryImpl) List(ctx context.Context, filter PostFilter) ([]models.Post, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Visible {
		conditions = append(conditions,
			"(status = 'published' OR (status = 'scheduled' AND published_at <= CURRENT_TIMESTAMP))")
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR excerpt ILIKE $%d)", n, n))
	}

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}

	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM posts " + where
	err := r.db.GetContext(ctx, &total, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчёте постов: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 10
	}

	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(`
        SELECT * FROM posts %s
        ORDER BY published_at DESC NULLS LAST, created_at DESC
        LIMIT $%d OFFSET $%d
    `, where, len(args)-1, len(args))

	var posts []models.Post
	err = r.db.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	return posts, total, nil
}

func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	existingPost, err := r.GetByID(ctx, post.PostID)
	if err != nil {
		return err
	}

	if existingPost.AuthorID != post.AuthorID {
		return errors.New("нельзя изменить автора поста")
	}

	query := `
		UPDATE posts SET
			title = :title,
			content = :content,
			excerpt = :excerpt,
			image = :image,
			status = :status,
			tags = :tags,
			published_at = :published_at,
			updated_at = :updated_at
		WHERE post_id = :post_id AND author_id = :author_id
	`

	post.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return errors.New("пост не найден или у вас нет прав на его изменение")
	}

	return nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID string) error {
	query := `DELETE FROM posts WHERE post_id = $1`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return errors.New("пост не найден")
	}

	return nil
}
