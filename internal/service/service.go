package service

import (
	"pagedraft/internal/config"
	"pagedraft/internal/repository"
	"pagedraft/internal/storage"
)

type Service struct {
	Auth       AuthService
	User       UserService
	Post       PostService
	Feed       FeedService
	Engagement EngagementService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		Auth:       NewAuthService(rep.User, cfg),
		User:       NewUserService(rep.User, rep.Activity, storage, cfg),
		Post:       NewPostService(rep.Post, rep.Activity, storage, cfg),
		Feed:       NewFeedService(rep.Post, rep.User, rep.Like, storage, cfg),
		Engagement: NewEngagementService(rep.Post, rep.Comment, rep.Like, rep.Activity, storage, cfg),
	}
}
