package handlers

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"

	"pagedraft/internal/config"
	"pagedraft/internal/repository"
	"pagedraft/internal/service"
	"pagedraft/internal/storage"
)

type Handlers struct {
	AuthService       service.AuthService
	UserService       service.UserService
	PostService       service.PostService
	FeedService       service.FeedService
	EngagementService service.EngagementService
	StatsRepo         repository.StatsRepository
	Storage           storage.Storage
	Cfg               *config.Config
	Validate          *validator.Validate
}

func NewHandlers(repo *repository.Repository, statsRepo repository.StatsRepository, service *service.Service, storage storage.Storage, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:       service.Auth,
		UserService:       service.User,
		PostService:       service.Post,
		FeedService:       service.Feed,
		EngagementService: service.Engagement,
		StatsRepo:         statsRepo,
		Storage:           storage,
		Cfg:               config,
		Validate:          validator.New(),
	}
}

// checkUploadSize проверяет размер загружаемого файла против лимита.
func checkUploadSize(size, max int64) (string, bool) {
	if size > max {
		return fmt.Sprintf("Файл слишком большой: максимум %s", humanize.Bytes(uint64(max))), false
	}
	return "", true
}
