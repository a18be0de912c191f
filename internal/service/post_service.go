package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"pagedraft/internal/config"
	"pagedraft/internal/models"
	"pagedraft/internal/repository"
	"pagedraft/internal/storage"
)

type PostService interface {
	CreatePost(ctx context.Context, req SavePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, req SavePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID, authorID string) error
	GetPost(ctx context.Context, idOrSlug string) (*models.Post, error)
}

// SavePostRequest - данные формы поста. Image может отсутствовать.
type SavePostRequest struct {
	PostID      string
	AuthorID    string
	Title       string
	Content     string
	Excerpt     string
	Slug        string
	Status      string
	Tags        []string
	PublishedAt *time.Time
	ImageName   string
	Image       io.Reader
	ImageSize   int64
}

type postService struct {
	postRepo     repository.PostRepository
	activityRepo repository.ActivityRepository
	storage      storage.Storage
	cfg          *config.Config
}

func NewPostService(postRepo repository.PostRepository, activityRepo repository.ActivityRepository, storage storage.Storage, cfg *config.Config) PostService {
	return &postService{
		postRepo:     postRepo,
		activityRepo: activityRepo,
		storage:      storage,
		cfg:          cfg,
	}
}

func (p *postService) CreatePost(ctx context.Context, req SavePostRequest) (*models.Post, error) {
	post := &models.Post{
		PostID:      uuid.New().String(),
		AuthorID:    req.AuthorID,
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Slug:        req.Slug,
		Status:      req.Status,
		Tags:        req.Tags,
		PublishedAt: req.PublishedAt,
	}

	if req.Image != nil {
		objectName, err := p.storage.UploadFile(ctx, "posts", post.PostID, req.ImageName, req.Image, req.ImageSize)
		if err != nil {
			return nil, fmt.Errorf("ошибка загрузки изображения: %w", err)
		}
		post.Image = objectName
	}

	err := p.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	// Запись в ленту активности; её отказ пост не отменяет
	activity := &models.Activity{
		UserID:      req.AuthorID,
		Type:        models.ActivityPost,
		Description: "published a new draft",
		Link:        "#/blog/" + post.PostID,
	}
	if err := p.activityRepo.Create(ctx, activity); err != nil {
		log.Printf("не удалось записать активность: %v", err)
	}

	return post, nil
}

// UpdatePost не трогает slug и не пересчитывает published_at
// для уже опубликованных постов.
func (p *postService) UpdatePost(ctx context.Context, req SavePostRequest) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	post.AuthorID = req.AuthorID
	post.Title = req.Title
	post.Content = req.Content
	post.Excerpt = req.Excerpt
	post.Status = req.Status
	post.Tags = req.Tags

	if req.Status == models.StatusScheduled && req.PublishedAt != nil {
		post.PublishedAt = req.PublishedAt
	}

	if req.Image != nil {
		objectName, err := p.storage.UploadFile(ctx, "posts", post.PostID, req.ImageName, req.Image, req.ImageSize)
		if err != nil {
			return nil, fmt.Errorf("ошибка загрузки изображения: %w", err)
		}
		post.Image = objectName
	}

	err = p.postRepo.Update(ctx, post)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) DeletePost(ctx context.Context, postID, authorID string) error {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != authorID {
		return fmt.Errorf("нельзя удалить чужой пост")
	}

	err = p.postRepo.Delete(ctx, postID)
	if err != nil {
		return err
	}

	if post.Image != "" {
		if err := p.storage.DeleteFile(ctx, post.Image); err != nil {
			log.Printf("не удалось удалить изображение поста: %v", err)
		}
	}

	return nil
}

// GetPost ищет пост по ID, при неудаче - по slug.
func (p *postService) GetPost(ctx context.Context, idOrSlug string) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, idOrSlug)
	if err == nil {
		return post, nil
	}

	post, err = p.postRepo.GetBySlug(ctx, idOrSlug)
	if err != nil {
		return nil, fmt.Errorf("пост не найден")
	}

	return post, nil
}
