package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathmentor/internal/auth"
	"github.com/abhisek/mathmentor/internal/config"
	"github.com/abhisek/mathmentor/internal/docstore"
	"github.com/abhisek/mathmentor/internal/hints"
	"github.com/abhisek/mathmentor/internal/llm"
	"github.com/abhisek/mathmentor/internal/mailer"
	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/server"
	"github.com/abhisek/mathmentor/internal/session"
	"github.com/abhisek/mathmentor/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(config.ParseLogLevel(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "env", cfg.Env, "db_driver", cfg.DBDriver, "docstore", cfg.Docstore)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn, err := resolveDSN(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(ctx, cfg.DBDriver, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()
	slog.Info("Database connected")

	var docs docstore.Store = st.DocumentRepo()
	if cfg.Docstore == config.DocstoreMongo {
		client, db, err := docstore.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("Failed to disconnect MongoDB", "error", err)
			}
		}()
		ms, err := docstore.NewMongoStore(ctx, db)
		if err != nil {
			return err
		}
		docs = ms
		slog.Info("MongoDB document store connected", "database", cfg.MongoDB)
	}

	var revoked auth.RevocationStore = auth.NewMemoryRevocationStore()
	if cfg.RedisAddr != "" {
		client, err := auth.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		revoked = auth.NewRedisRevocationStore(client)
		slog.Info("Redis token revocation enabled", "addr", cfg.RedisAddr)
	}

	sender, err := mailer.New(ctx, mailer.Config{
		From:       cfg.Email.From,
		FromName:   cfg.Email.FromName,
		Region:     cfg.Email.AWSRegion,
		Production: cfg.IsProduction(),
	})
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}

	eventRepo := st.EventRepo()
	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}
	slog.Info("LLM provider ready", "model", provider.ModelID())

	practices := session.NewManager(session.Config{
		Generator:            problemgen.New(provider, problemgen.DefaultConfig()),
		Fetcher:              hints.NewLLMFetcher(provider, hints.DefaultConfig()),
		Docs:                 docs,
		Events:               eventRepo,
		Mailer:               sender,
		NotifySolutionViewed: cfg.Email.NotifySolutionViewed,
	})

	authSvc := auth.NewService(docs, revoked, auth.Config{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	})

	api := server.New(server.Deps{
		Auth:        authSvc,
		Practices:   practices,
		Docs:        docs,
		CORSOrigins: cfg.CORSOrigin,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second, // LLM calls with retries
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
