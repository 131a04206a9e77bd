package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"school-navigator/internal/auth"
	"school-navigator/internal/config"
	"school-navigator/internal/database"
	"school-navigator/internal/handler"
	"school-navigator/internal/repository"
	"school-navigator/internal/service"
	"school-navigator/internal/store"
	"school-navigator/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log.Println("Configuration loaded successfully")

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load time zone: %v", err)
	}

	// 2. Initialize session tokens and the admin password
	utils.InitJWT(cfg.Auth.TokenSecret, cfg.Auth.SessionTTL)

	adminHash := cfg.Auth.AdminPasswordHash
	if adminHash == "" {
		if adminHash, err = utils.HashPassword(cfg.Auth.AdminPassword); err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
	}
	if cfg.UsesDefaultAdminPassword() {
		log.Println("Warning: using the default admin password, set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")
	}

	// 3. Initialize database connection
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 4. Initialize repositories and store
	docRepo := repository.NewDocumentRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	st := store.New(docRepo, cfg.Storage.DatasetKey)

	// 5. Initialize services
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	datasetService := service.NewDatasetService(st, auditRepo, loc)
	datasetService.Init(ctx)

	var verifier service.CredentialVerifier
	if cfg.Auth.GoogleClientID != "" {
		verifier = auth.NewGoogleVerifier(cfg.Auth.GoogleClientID, cfg.Auth.GoogleJWKSURL)
	} else {
		log.Println("GOOGLE_CLIENT_ID not set, Google sign-in disabled")
	}
	sessionService := service.NewSessionService(st, verifier, auditRepo, adminHash, cfg.Auth.AdminEmails)
	importQueue := service.NewImportQueue(datasetService, 16)

	// 6. Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	r := handler.NewRouter(cfg, handler.Services{
		Datasets: datasetService,
		Sessions: sessionService,
		Imports:  importQueue,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 7. Run the server and the import worker until a signal arrives
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		importQueue.Start(gctx)
		return nil
	})
	g.Go(func() error {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if cerr := database.Close(db); cerr != nil {
		log.Printf("Failed to close database: %v", cerr)
	}
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server exited")
}
