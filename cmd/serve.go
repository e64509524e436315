package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "taskflow.com/taskflow/internal/configs"
	"taskflow.com/taskflow/internal/events"
	httpapi "taskflow.com/taskflow/internal/http"
	"taskflow.com/taskflow/internal/mail"
	"taskflow.com/taskflow/internal/realtime"
	repository "taskflow.com/taskflow/internal/repositories"
	"taskflow.com/taskflow/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TaskFlow API server",
	Long:  "Starts the HTTP API, the realtime hub and the maintenance jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := config.NewLogger()

		if err := godotenv.Load(); err != nil {
			logger.Info().Msg(".env file not found, using environment variables")
		}

		cfg := config.Load()
		db := config.NewDatabase(cfg.DatabaseDSN)

		taskRepo := repository.NewTaskRepository(db)
		projectRepo := repository.NewProjectRepository(db)
		activityRepo := repository.NewActivityRepository(db)
		notificationRepo := repository.NewNotificationRepository(db)
		userRepo := repository.NewUserRepository(db)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		hub := realtime.NewHub(logger, func(ctx context.Context, userID, projectID string) (bool, error) {
			return projectRepo.HasAccess(ctx, projectID, userID)
		})
		if cfg.RedisAddr != "" {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()

			bridge := realtime.NewRedisBridge(redisClient, cfg.RedisEventChannel, logger)
			hub.SetBridge(bridge)
			go bridge.Listen(ctx, hub)
			logger.Info().Str("channel", cfg.RedisEventChannel).Msg("redis event bridge enabled")
		}

		bus := events.NewBus()
		bus.Subscribe(services.NewActivityRecorder(activityRepo))
		bus.Subscribe(services.NewNotificationDispatcher(notificationRepo))
		bus.Subscribe(realtime.NewSink(hub))

		authService := services.NewAuthService(
			userRepo,
			[]byte(cfg.JWTSecret),
			time.Duration(cfg.JWTTTLHours)*time.Hour,
		)
		taskService := services.NewTaskService(taskRepo, projectRepo, bus)
		projectService := services.NewProjectService(projectRepo, userRepo, bus)
		activityService := services.NewActivityService(activityRepo, projectRepo)
		notificationService := services.NewNotificationService(notificationRepo)
		reportService := services.NewReportService(taskRepo, projectRepo, activityRepo)

		var mailer mail.Mailer = mail.NoopMailer{}
		if cfg.SMTPHost != "" {
			mailer = mail.NewSMTPMailer(mail.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				From:     cfg.SMTPFrom,
				User:     cfg.SMTPUser,
				Password: cfg.SMTPPassword,
			}, logger)
		}

		maintenance := services.NewMaintenanceService(
			taskRepo, projectRepo, activityRepo, notificationRepo, userRepo, mailer, logger,
		)
		if err := maintenance.Start(); err != nil {
			return err
		}

		e := echo.New()
		e.HideBanner = true

		handler := httpapi.NewHandler(
			authService, taskService, projectService,
			activityService, notificationService, reportService,
		)
		httpapi.Register(e, handler, hub, authService, cfg.RateLimit, cfg.ClientURL)

		go func() {
			logger.Info().Str("addr", cfg.AppURL).Msg("HTTP server listening")
			if err := e.Start(cfg.AppURL); err != nil {
				logger.Info().Err(err).Msg("server stopped")
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(shutdownCtx)
		maintenance.Stop()

		logger.Info().Msg("server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
