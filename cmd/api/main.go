package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medadmin/hospital-api/internal/config"
	"github.com/medadmin/hospital-api/internal/handler"
	appointmentHandler "github.com/medadmin/hospital-api/internal/handler/appointment"
	authHandler "github.com/medadmin/hospital-api/internal/handler/auth"
	datarestoreHandler "github.com/medadmin/hospital-api/internal/handler/datarestore"
	doctorHandler "github.com/medadmin/hospital-api/internal/handler/doctor"
	patientHandler "github.com/medadmin/hospital-api/internal/handler/patient"
	userHandler "github.com/medadmin/hospital-api/internal/handler/user"
	"github.com/medadmin/hospital-api/internal/middleware"
	"github.com/medadmin/hospital-api/internal/repository/mongodb"
	"github.com/medadmin/hospital-api/internal/router"
	appointmentService "github.com/medadmin/hospital-api/internal/service/appointment"
	authService "github.com/medadmin/hospital-api/internal/service/auth"
	"github.com/medadmin/hospital-api/internal/service/callsession"
	datarestoreService "github.com/medadmin/hospital-api/internal/service/datarestore"
	doctorService "github.com/medadmin/hospital-api/internal/service/doctor"
	patientService "github.com/medadmin/hospital-api/internal/service/patient"
	userService "github.com/medadmin/hospital-api/internal/service/user"
	internalWorker "github.com/medadmin/hospital-api/internal/worker"
	jwtauth "github.com/medadmin/hospital-api/pkg/auth"
	"github.com/medadmin/hospital-api/pkg/logger"
	"github.com/medadmin/hospital-api/pkg/messaging/redis"
	"github.com/medadmin/hospital-api/pkg/metrics"
	"github.com/medadmin/hospital-api/pkg/security"
	"github.com/medadmin/hospital-api/pkg/storage"
	"github.com/medadmin/hospital-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := mongodb.NewDB(mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  time.Duration(cfg.Mongo.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to store")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	doctorRepo := mongodb.NewDoctorRepository(db)
	patientRepo := mongodb.NewPatientRepository(db)
	appointmentRepo := mongodb.NewAppointmentRepository(db)
	outboxRepo := mongodb.NewOutboxRepository(db)

	objectStorage, err := storage.NewMinioStorage(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &appLogger.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to broker")
	}
	defer broker.Close()

	jwtSvc := jwtauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	hasher := security.NewBcryptHasher(0)

	var oauthProvider *authService.OAuthProvider
	if cfg.OAuth.ClientID != "" {
		oauthProvider = authService.NewOAuthProvider(authService.OAuthConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			AuthURL:      cfg.OAuth.AuthURL,
			TokenURL:     cfg.OAuth.TokenURL,
			UserInfoURL:  cfg.OAuth.UserInfoURL,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Timeout:      time.Duration(cfg.OAuth.TimeoutSeconds) * time.Second,
		})
	}

	authSvc := authService.NewService(userRepo, outboxRepo, jwtSvc, hasher, oauthProvider)
	doctorSvc := doctorService.NewService(doctorRepo, objectStorage, appLogger)
	patientSvc := patientService.NewService(patientRepo, objectStorage, appLogger)
	callSvc := callsession.NewService(cfg.JWT.CallSessionSecret, cfg.JWT.Expiry())
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorRepo, callSvc)
	userSvc := userService.NewService(userRepo, outboxRepo)
	restoreSvc := datarestoreService.NewService(userRepo, doctorRepo, patientRepo,
		appointmentRepo, outboxRepo, hasher, cfg.Admin.Email, cfg.Admin.Password, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(authMiddleware, router.Handlers{
		Health:      handler.NewHealthHandler(db),
		Auth:        authHandler.NewHandler(authSvc),
		Doctor:      doctorHandler.NewHandler(doctorSvc),
		Patient:     patientHandler.NewHandler(patientSvc),
		Appointment: appointmentHandler.NewHandler(appointmentSvc),
		User:        userHandler.NewHandler(userSvc),
		DataRestore: datarestoreHandler.NewHandler(restoreSvc),
	}, router.Config{
		RateLimit:      rate.Limit(cfg.Server.RateLimit),
		RateBurst:      cfg.Server.RateBurst,
		RequestTimeout: cfg.Server.Timeout(),
		AllowOrigins:   cfg.Server.AllowOrigins,
	})
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The API runs the outbox processor and the profile consumer in-process;
	// cmd/worker exists for deployments that want them separate.
	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  time.Duration(cfg.Outbox.PollIntervalSeconds) * time.Second,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    time.Duration(cfg.Outbox.RetryDelaySeconds) * time.Second,
		Channel:       cfg.Outbox.Channel,
	}, appLogger, metrics.NewMetrics("hospital", "outbox"))
	go processor.Start(ctx)

	consumer := internalWorker.NewProfileConsumer(broker, cfg.Outbox.Channel, appLogger, doctorSvc, patientSvc)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("profile consumer stopped")
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
