package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env         string `envconfig:"ENV" default:"local"`
	HTTPHost    string `envconfig:"HTTP_HOST" default:""`
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8000"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"debug"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
}

type AuthEnv struct {
	Secret        string        `envconfig:"AUTH_SECRET" required:"true"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	RememberMeTTL time.Duration `envconfig:"REMEMBER_ME_TTL" default:"168h"`
}

type StoreEnv struct {
	// Type selects the task repository: "sqlite" or "yaml".
	Type       string `envconfig:"STORE_TYPE" default:"sqlite"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:".taskchat/todo.db"`
}

// StorageEnv configures the document storage behind the yaml task store.
type StorageEnv struct {
	Type     string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir  string `envconfig:"STORAGE_BASE_DIR" default:".taskchat/data"`
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"taskchat/"`
	S3Region string `envconfig:"S3_REGION" default:"ap-northeast-1"`
}

type AssistantEnv struct {
	APIBaseURL   string        `envconfig:"API_BASE_URL" default:"http://localhost:8000"`
	ToolTimeout  time.Duration `envconfig:"TOOL_TIMEOUT" default:"10s"`
	HistoryLimit int           `envconfig:"HISTORY_LIMIT" default:"20"`
}

type Env struct {
	BaseEnv
	AuthEnv
	StoreEnv
	StorageEnv
	AssistantEnv
}

const namespace = "TODO"

// LoadEnv reads an optional .env file and then the TODO_ prefixed
// environment. Variables already set in the process win over the file.
func LoadEnv() (*Env, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

// LoadAssistantEnv loads only the settings the chat clients need, so they run
// without the server's secrets.
func LoadAssistantEnv() (*AssistantEnv, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	var env AssistantEnv
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}
