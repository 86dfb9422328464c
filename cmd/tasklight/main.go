package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tasklight/tasklight/internal/core/ports"
	"github.com/tasklight/tasklight/internal/core/service"
	"github.com/tasklight/tasklight/internal/infrastructure/api"
	"github.com/tasklight/tasklight/internal/infrastructure/store"
	"github.com/tasklight/tasklight/internal/pkg/config"
	"github.com/tasklight/tasklight/internal/tui"
	"github.com/tasklight/tasklight/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	sessionStore, err := buildStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tasklight: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(api.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.HTTPTimeout})
	controller := service.NewSessionController(sessionStore, client, log)
	client.BindSession(controller.Credential, controller.HandleUnauthorized)

	todoService := service.NewTodoService(client, log)
	userService := service.NewUserService(client, controller, log)

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, log)
	}

	p := tea.NewProgram(
		tui.NewModel(controller, todoService, userService),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tasklight: %v\n", err)
		os.Exit(1)
	}
}

// serveMetrics exposes the prometheus registry on a side listener so the
// client metrics can be scraped or inspected while the TUI runs.
func serveMetrics(addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("metrics listener started")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics listener stopped")
	}
}

// buildStore picks the session store: redis when configured, otherwise the
// session file under the user's home.
func buildStore(cfg *config.Config) (ports.SessionStore, error) {
	if cfg.Redis.Addr != "" {
		client, err := store.Connect(context.Background(), store.RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return store.NewRedisStore(client, cfg.Profile), nil
	}

	path, err := cfg.SessionPath()
	if err != nil {
		return nil, err
	}
	key, err := cfg.SessionKeyBytes()
	if err != nil {
		return nil, err
	}
	return store.NewFileStore(path, key)
}
