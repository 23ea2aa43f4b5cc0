package upstream

import (
	"fmt"
	"time"

	"github.com/aescanero/transrelay/pkg/adapters/upstream/mymemory"
	"github.com/aescanero/transrelay/pkg/ports"
	"go.uber.org/zap"
)

// Config holds upstream client configuration
type Config struct {
	Provider string
	BaseURL  string
	Email    string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewClient creates a new upstream translator based on provider
func NewClient(cfg *Config) (ports.Translator, error) {
	switch cfg.Provider {
	case "mymemory":
		return mymemory.NewClient(cfg.BaseURL, cfg.Email, cfg.Timeout, cfg.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported upstream provider: %s", cfg.Provider)
	}
}
