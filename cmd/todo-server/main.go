package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	server "github.com/kazz187/taskchat/internal"
	"github.com/kazz187/taskchat/internal/assistant"
	"github.com/kazz187/taskchat/internal/auth"
	"github.com/kazz187/taskchat/internal/config"
	"github.com/kazz187/taskchat/internal/conversation"
	convrepo "github.com/kazz187/taskchat/internal/conversation/repositoryimpl"
	"github.com/kazz187/taskchat/internal/event"
	"github.com/kazz187/taskchat/internal/eventbus"
	"github.com/kazz187/taskchat/internal/sqlitedb"
	"github.com/kazz187/taskchat/internal/task"
	taskrepo "github.com/kazz187/taskchat/internal/task/repositoryimpl"
	"github.com/kazz187/taskchat/internal/tool"
	"github.com/kazz187/taskchat/internal/user"
	userrepo "github.com/kazz187/taskchat/internal/user/repositoryimpl"
	"github.com/kazz187/taskchat/pkg/clog"
	"github.com/kazz187/taskchat/pkg/storage"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Setup database
	db, err := sqlitedb.Open(ctx, env.SQLitePath)
	if err != nil {
		slog.Error("failed to open database", "path", env.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Setup task repository
	var taskRepo task.Repository
	switch env.StoreEnv.Type {
	case "yaml":
		store, err := newStorage(ctx, env)
		if err != nil {
			slog.Error("failed to create storage", "type", env.StorageEnv.Type, "error", err)
			os.Exit(1)
		}
		taskRepo = taskrepo.NewYAMLRepository(store)
	default:
		taskRepo = taskrepo.NewSQLiteRepository(db)
	}

	bus := eventbus.New()
	verifier := auth.NewVerifier(env.Secret)

	// The assistant changes tasks through the service's own REST API with
	// the caller's token.
	tools := tool.NewClient(env.APIBaseURL, env.ToolTimeout, verifier)
	chat := assistant.New(tools)

	srv := server.NewServer(
		env,
		db,
		verifier,
		user.NewServer(userrepo.NewSQLiteRepository(db), auth.NewIssuer(env.Secret, env.TokenTTL, env.RememberMeTTL)),
		task.NewServer(taskRepo, bus),
		conversation.NewServer(convrepo.NewSQLiteRepository(db), chat, env.HistoryLimit),
		event.NewServer(bus, event.DefaultKeepAlive),
	)

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newStorage(ctx context.Context, env *config.Env) (storage.Storage, error) {
	switch env.StorageEnv.Type {
	case "s3":
		return storage.NewS3Storage(ctx, env.S3Bucket, env.S3Prefix, env.S3Region)
	default:
		return storage.NewLocalStorage(env.BaseDir)
	}
}
