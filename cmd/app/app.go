package app

import (
	"log"
	"pagedraft/internal/config"
	"pagedraft/internal/database"
	"pagedraft/internal/repository"
	"pagedraft/internal/service"
	"pagedraft/internal/storage"
)

func App(cfg *config.Config) (*database.DB, *repository.Repository, *service.Service, *storage.MinIOClient) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Не удалось инициализировать MinIO: %v", err)
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)

	services := service.NewService(repo, cfg, minioClient)

	return db, repo, services, minioClient
}
