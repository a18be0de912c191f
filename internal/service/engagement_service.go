package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pagedraft/internal/config"
	"pagedraft/internal/models"
	"pagedraft/internal/repository"
	"pagedraft/internal/storage"
)

type EngagementService interface {
	ToggleLike(ctx context.Context, postID, userID string) (bool, int, error)
	LikeState(ctx context.Context, postID, userID string) (bool, int, error)
	GetComments(ctx context.Context, postID string, page int) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID, userID, content string) (*models.Comment, error)
}

type engagementService struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository
	activityRepo repository.ActivityRepository
	storage      storage.Storage
	cfg          *config.Config
}

func NewEngagementService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, likeRepo repository.LikeRepository, activityRepo repository.ActivityRepository, storage storage.Storage, cfg *config.Config) EngagementService {
	return &engagementService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		activityRepo: activityRepo,
		storage:      storage,
		cfg:          cfg,
	}
}

// ToggleLike атомарно переключает лайк и возвращает новое состояние и счётчик.
func (s *engagementService) ToggleLike(ctx context.Context, postID, userID string) (bool, int, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return false, 0, err
	}

	liked, err := s.likeRepo.Toggle(ctx, postID, userID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		activity := &models.Activity{
			UserID:      userID,
			Type:        models.ActivityLike,
			Description: "liked a draft",
			Link:        "#/blog/" + postID,
		}
		if err := s.activityRepo.Create(ctx, activity); err != nil {
			log.Printf("не удалось записать активность: %v", err)
		}
	}

	count, err := s.likeRepo.Count(ctx, postID)
	if err != nil {
		return liked, 0, err
	}

	return liked, count, nil
}

func (s *engagementService) LikeState(ctx context.Context, postID, userID string) (bool, int, error) {
	count, err := s.likeRepo.Count(ctx, postID)
	if err != nil {
		return false, 0, err
	}

	liked := false
	if userID != "" {
		liked, err = s.likeRepo.Exists(ctx, postID, userID)
		if err != nil {
			return false, count, err
		}
	}

	return liked, count, nil
}

func (s *engagementService) GetComments(ctx context.Context, postID string, page int) ([]models.Comment, error) {
	comments, err := s.commentRepo.GetByPostID(ctx, postID, page, s.cfg.Client.CommentsPerPage)
	if err != nil {
		return nil, err
	}

	for i := range comments {
		if comments[i].Avatar != "" {
			comments[i].Avatar = s.storage.FileURL("users", comments[i].UserID, comments[i].Avatar)
		}
	}

	return comments, nil
}

func (s *engagementService) CreateComment(ctx context.Context, postID, userID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("текст комментария пуст")
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}

	err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	activity := &models.Activity{
		UserID:      userID,
		Type:        models.ActivityComment,
		Description: "commented on a draft",
		Link:        "#/blog/" + postID,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		log.Printf("не удалось записать активность: %v", err)
	}

	return comment, nil
}
