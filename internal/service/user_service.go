package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"pagedraft/internal/config"
	"pagedraft/internal/models"
	"pagedraft/internal/repository"
	"pagedraft/internal/storage"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*models.User, error)
	GetActivities(ctx context.Context, userID string) ([]models.Activity, error)
	DeleteAccount(ctx context.Context, userID string) error
	AvatarURL(user *models.User) string
}

// UpdateProfileRequest - имя и/или новый аватар; nil Avatar означает "без замены файла".
type UpdateProfileRequest struct {
	UserID     string
	Name       string
	AvatarName string
	Avatar     io.Reader
	AvatarSize int64
}

type userService struct {
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	storage      storage.Storage
	cfg          *config.Config
}

func NewUserService(userRepo repository.UserRepository, activityRepo repository.ActivityRepository, storage storage.Storage, cfg *config.Config) UserService {
	return &userService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		storage:      storage,
		cfg:          cfg,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*models.User, error) {
	avatar := ""

	if req.Avatar != nil {
		objectName, err := s.storage.UploadFile(ctx, "users", req.UserID, req.AvatarName, req.Avatar, req.AvatarSize)
		if err != nil {
			return nil, fmt.Errorf("ошибка загрузки аватара: %w", err)
		}
		avatar = objectName
	}

	user, err := s.userRepo.UpdateProfile(ctx, req.UserID, req.Name, avatar)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) GetActivities(ctx context.Context, userID string) ([]models.Activity, error) {
	return s.activityRepo.GetByUserID(ctx, userID, s.cfg.Client.ActivitiesLimit)
}

// DeleteAccount удаляет пользователя; посты, комментарии и лайки каскадируются в БД.
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return err
	}

	if user.Avatar != "" {
		if err := s.storage.DeleteFile(ctx, user.Avatar); err != nil {
			log.Printf("Не удалось удалить аватар пользователя %s: %v", userID, err)
		}
	}

	return nil
}

func (s *userService) AvatarURL(user *models.User) string {
	if user == nil {
		return ""
	}
	return s.storage.FileURL("users", user.UserID, user.Avatar)
}
