package main

import (
	"context"
	"log"
	"os"

	api "postbox-backend/cmd/api"
	authdomain "postbox-backend/internal/auth/domain"
	authRepo "postbox-backend/internal/auth/repository"
	authUsecase "postbox-backend/internal/auth/usecase"
	emaildomain "postbox-backend/internal/email/domain"
	emailRepo "postbox-backend/internal/email/repository"
	emailUsecase "postbox-backend/internal/email/usecase"
	"postbox-backend/pkg/config"
	"postbox-backend/pkg/database"
	"postbox-backend/pkg/gmail"
	"postbox-backend/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.GoogleAccount{}, &emaildomain.Thread{}, &emaildomain.Message{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	threadRepo := emailRepo.NewThreadRepository(db)
	messageRepo := emailRepo.NewMessageRepository(db)

	// Initialize Gmail service
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)

	// Initialize S3-backed body storage
	linkStore, err := storage.NewS3LinkStore(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
	if err != nil {
		log.Fatal("Failed to initialize S3 storage:", err)
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	syncUsecaseInstance := emailUsecase.NewSyncUsecase(userRepo, threadRepo, messageRepo, gmailService, linkStore, cfg)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, syncUsecaseInstance, cfg)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := handler.Start(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
