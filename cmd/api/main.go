package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"pagedraft/cmd/app"
	"pagedraft/internal/config"
	handlers "pagedraft/internal/handler"
	"pagedraft/internal/middleware"
	"pagedraft/internal/repository"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, repo, services, minioClient := app.App(cfg)
	defer db.CloseDB()

	if err := db.RunMigrations("migrations/001_create_tables.sql"); err != nil {
		log.Fatalf("Ошибка применения миграций: %v", err)
	}

	statsRepo := repository.NewStatsRepository(db.DB)
	handler := handlers.NewHandlers(repo, statsRepo, services, minioClient, cfg)

	router := mux.NewRouter()

	// setting up routes
	router.HandleFunc("/", handlers.HomeHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/prerender", handler.Prerender).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/register", handler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/refresh-token", handler.RefreshToken).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/password-reset", handler.PasswordReset).Methods(http.MethodPost)

	router.HandleFunc("/api/me", handler.GetCurrentUser).Methods(http.MethodGet)
	router.HandleFunc("/api/profile", handler.UpdateProfile).Methods(http.MethodPut)
	router.HandleFunc("/api/activities", handler.GetActivities).Methods(http.MethodGet)

	router.HandleFunc("/api/users/{id}", handler.GetUser).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}", handler.DeleteUser).Methods(http.MethodDelete)

	router.HandleFunc("/api/posts", handler.GetPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", handler.CreatePost).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id}", handler.GetPost).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id}", handler.UpdatePost).Methods(http.MethodPut)
	router.HandleFunc("/api/posts/{id}", handler.DeletePost).Methods(http.MethodDelete)

	router.HandleFunc("/api/posts/{id}/like", handler.GetLikeState).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id}/like", handler.ToggleLike).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id}/comments", handler.GetComments).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id}/comments", handler.CreateComment).Methods(http.MethodPost)

	router.HandleFunc("/api/files/{collection}/{record}/{file}", handler.FileRedirect).Methods(http.MethodGet)

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
		middleware.AuthMiddleware(cfg),
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	fmt.Printf("Сервер запущен на %s\n", addr)
	fmt.Printf("База данных: %s\n", cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
