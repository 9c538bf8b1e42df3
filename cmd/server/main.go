// @title           Notes API
// @version         1.0
// @description     Personal notes with date-based listing, search and image attachments.
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/dailynotes/notes-api/docs"
	"github.com/dailynotes/notes-api/internal/api"
	"github.com/dailynotes/notes-api/internal/core/ports"
	"github.com/dailynotes/notes-api/internal/core/security"
	"github.com/dailynotes/notes-api/internal/core/service"
	mongodb "github.com/dailynotes/notes-api/internal/infrastructure/db/mongo"
	redisdb "github.com/dailynotes/notes-api/internal/infrastructure/db/redis"
	"github.com/dailynotes/notes-api/internal/infrastructure/http/handlers"
	"github.com/dailynotes/notes-api/internal/infrastructure/queue"
	"github.com/dailynotes/notes-api/internal/infrastructure/storage/s3"
	"github.com/dailynotes/notes-api/internal/pkg/config"
	"github.com/dailynotes/notes-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("configuration error")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "notes-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	notes := mongodb.NewNoteRepository(db)
	authEvents := mongodb.NewAuthEventRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, notes, authEvents); err != nil {
		return err
	}

	var presigner ports.ObjectPresigner
	if cfg.S3.Bucket != "" {
		p, err := s3.NewPresigner(ctx, s3.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return err
		}
		presigner = p
	} else {
		log.Warn().Msg("S3_BUCKET not set, attachment uploads are disabled")
	}

	// --- Audit trail ---
	auditCtx, stopAudit := context.WithCancel(context.Background())
	auditor := queue.NewAuditDispatcher(cfg.Audit.Workers, authEvents, logger.Component("audit"))
	auditor.Start(auditCtx)
	defer func() {
		stopAudit()
		auditor.Wait()
	}()

	// --- Core ---
	tokens, err := security.NewTokenManager(security.TokenConfig{
		Secret:     []byte(cfg.Auth.JWTSecret),
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	})
	if err != nil {
		return err
	}
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginCooldown)

	authService := service.NewAuthService(users, security.NewBcryptHasher(logger.Component("security")), tokens, limiter, auditor, logger.Component("auth"))
	gatekeeper := service.NewGatekeeper(users, tokens, auditor, logger.Component("gatekeeper"))
	noteService := service.NewNoteService(notes, logger.Component("notes"))
	uploadService := service.NewUploadService(presigner, cfg.S3.UploadURLTTL, logger.Component("uploads"))

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:       authService,
		Authorizer: gatekeeper,
		Notes:      noteService,
		Uploads:    uploadService,
		Readiness: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		Logger: logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
