package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayursutra/clinic/internal/core/ports"
	"github.com/ayursutra/clinic/internal/infrastructure/clinicapi"
	redisdb "github.com/ayursutra/clinic/internal/infrastructure/db/redis"
	"github.com/ayursutra/clinic/internal/infrastructure/http/handlers"
	"github.com/ayursutra/clinic/internal/infrastructure/render"
	"github.com/ayursutra/clinic/internal/pkg/config"
	"github.com/ayursutra/clinic/internal/portal"
	"github.com/ayursutra/clinic/internal/web"
	"github.com/ayursutra/clinic/pkg/logger"
)

func portalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portal",
		Short: "Serve the clinic portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortal(cmd.Context())
		},
	}
}

func runPortal(ctx context.Context) error {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDev(), Service: "clinic-portal"})

	if err := cfg.ValidatePortal(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	secret := cfg.Portal.SessionSecret
	if secret == "" {
		var err error
		if secret, err = ephemeralSecret(); err != nil {
			return err
		}
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	api := clinicapi.New(cfg.Portal.ClinicAPIURL, cfg.Portal.ClinicAPITimeout, logger.Component("clinicapi"))
	health := handlers.NewHealthHandler().WithCheck("clinic_api", api.Ping)

	var guard ports.SubmitGuard
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to redis")
			return err
		}
		defer func() {
			if err := redisdb.Disconnect(rdb); err != nil {
				log.Warn().Err(err).Msg("redis disconnect failed")
			}
		}()
		guard = redisdb.NewSubmitGuard(rdb, cfg.Portal.SubmitWindow)
		health.WithCheck("redis", handlers.RedisCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("submit guard enabled")
	}

	opts := portal.Options{
		RefreshInterval: cfg.Portal.DashboardRefresh,
		ToastTTL:        cfg.Portal.ToastTTL,
	}
	registry := web.NewRegistry(func(clientID string) *portal.Controller {
		l := logger.Component("portal").With().Str("client_id", clientID).Logger()
		return portal.NewController(api, renderer, portal.SystemClock(), guard, opts, l)
	})
	defer registry.Close()
	go registry.Run(ctx, cfg.Portal.SessionTTL, logger.Component("sessions"))

	e := web.NewRouter(web.Deps{
		Controllers: registry,
		Renderer:    renderer,
		Secret:      secret,
		SessionTTL:  cfg.Portal.SessionTTL,
		Health:      health,
	}, logger.Component("http"))

	return serve(ctx, e, ":"+cfg.Portal.Port, log)
}

func ephemeralSecret() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(key), nil
}
