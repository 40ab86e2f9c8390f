package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "TODO_MCP"

type Config struct {
	APIBaseURL  string        `envconfig:"API_BASE_URL" default:"http://localhost:8000"`
	Token       string        `envconfig:"TOKEN"`
	ToolTimeout time.Duration `envconfig:"TOOL_TIMEOUT" default:"10s"`
}

func NewConfig() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return c, nil
}
