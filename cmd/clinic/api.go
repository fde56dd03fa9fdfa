package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ayursutra/clinic/internal/api"
	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/service"
	mongodb "github.com/ayursutra/clinic/internal/infrastructure/db/mongo"
	"github.com/ayursutra/clinic/internal/infrastructure/http/handlers"
	"github.com/ayursutra/clinic/internal/infrastructure/mail"
	"github.com/ayursutra/clinic/internal/infrastructure/queue"
	"github.com/ayursutra/clinic/internal/pkg/config"
	"github.com/ayursutra/clinic/pkg/logger"
)

func apiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Serve the reference clinic REST API backed by MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(cmd.Context())
		},
	}
}

func runAPI(ctx context.Context) error {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDev(), Service: "clinic-api"})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "clinic-api",
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to mongo")
		return err
	}
	defer func() {
		if err := mongodb.Disconnect(client); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	if err := mongodb.EnsurePatientIndexes(ctx, db); err != nil {
		log.Error().Err(err).Msg("failed to ensure indexes")
		return err
	}

	patients := service.NewRecordService[domain.Patient](
		mongodb.NewRecordRepository[domain.Patient](db, mongodb.CollectionPatients),
		mongodb.CollectionPatients, service.PreparePatient, logger.Component("records"))
	therapies := service.NewRecordService[domain.Therapy](
		mongodb.NewRecordRepository[domain.Therapy](db, mongodb.CollectionTherapies),
		mongodb.CollectionTherapies, nil, logger.Component("records"))
	notifications := service.NewRecordService[domain.Notification](
		mongodb.NewRecordRepository[domain.Notification](db, mongodb.CollectionNotifications),
		mongodb.CollectionNotifications, service.PrepareNotification, logger.Component("records"))

	mailer := mail.New(mail.SMTPConfig{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		User:     cfg.Mail.SMTPUser,
		Password: cfg.Mail.SMTPPass,
		From:     cfg.Mail.From,
	}, logger.Component("mail"))
	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, mailer, logger.Component("mail"))
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Patients:      patients,
		Therapies:     therapies,
		Notifications: notifications,
		Mail:          service.NewMailService(dispatcher, logger.Component("mail")),
		Health:        handlers.NewHealthHandler().WithCheck("mongo", handlers.MongoCheck(db)),
	}, logger.Component("http"))

	return serve(ctx, e, ":"+cfg.API.Port, log)
}
