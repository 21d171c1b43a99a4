package cmd

import (
	"context"
	"fmt"

	"campusctl/core/config"
	"campusctl/core/controller"
	"campusctl/core/logger"

	"go.uber.org/zap"
)

// session bundles the configuration and logger every command needs.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newSession() (*session, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &session{cfg: cfg, logger: l}, nil
}

// connect returns an authenticated controller client together with a
// cleanup function. When no token is configured one is obtained from the
// credentials and revoked again by the cleanup.
func (s *session) connect(ctx context.Context) (controller.Client, func(), error) {
	cfg := s.cfg.Controller
	cleanup := func() {}

	if cfg.Token == "" {
		if cfg.Username == "" || cfg.Password == "" {
			return nil, nil, fmt.Errorf("no controller token and no credentials configured")
		}

		token, err := controller.ObtainToken(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to obtain token: %w", err)
		}
		s.logger.Debug("Obtained controller token")

		cfg.Token = token
		cleanup = func() {
			if err := controller.RevokeToken(context.Background(), cfg, token); err != nil {
				s.logger.Warn("Failed to revoke token", zap.Error(err))
			}
		}
	}

	client, err := controller.NewClient(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return client, cleanup, nil
}
