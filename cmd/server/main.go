// @title                      SweetConnect Messaging API
// @version                    1.0
// @description                Two-party messaging with live push delivery and mail notifications.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/api"
	"github.com/sweetconnect/messaging-system/internal/api/handler"
	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
	"github.com/sweetconnect/messaging-system/internal/core/service"
	mongostore "github.com/sweetconnect/messaging-system/internal/infrastructure/db/mongo"
	redisstore "github.com/sweetconnect/messaging-system/internal/infrastructure/db/redis"
	sqlitestore "github.com/sweetconnect/messaging-system/internal/infrastructure/db/sqlite"
	"github.com/sweetconnect/messaging-system/internal/infrastructure/mail"
	"github.com/sweetconnect/messaging-system/internal/infrastructure/notify"
	"github.com/sweetconnect/messaging-system/internal/infrastructure/queue"
	"github.com/sweetconnect/messaging-system/internal/infrastructure/realtime"
	"github.com/sweetconnect/messaging-system/internal/pkg/config"
	"github.com/sweetconnect/messaging-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// stores groups the repositories of whichever backend is configured.
type stores struct {
	users      ports.UserRepository
	messages   ports.MessageRepository
	activities ports.ActivityRepository
	ping       handler.Pinger
	close      func(context.Context) error
}

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction(), Service: "sweetconnect"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}

	readiness := map[string]handler.Pinger{"store": st.ping}
	var recency service.RecencyTracker
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer rdb.Close()
		tracker := redisstore.NewRecencyTracker(rdb)
		recency = tracker
		readiness["redis"] = tracker
	} else {
		log.Info().Msg("REDIS_ADDR not set, shared-role tie-break falls back to the oldest account")
	}

	// Notification pipeline: templates render, the dispatcher makes one
	// attempt per mail on its own workers.
	var sender ports.MailSender
	if cfg.Mail.Host != "" {
		smtp, err := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("configure smtp")
		}
		sender = smtp
	} else {
		log.Info().Msg("SMTP_HOST not set, notifications are written to the log")
		sender = mail.NewLogSender(logger.Component("mail"))
	}
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, cfg.Notify.Buffer, sender, logger.Component("dispatcher"))
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher.Start(dispatchCtx)

	templates, err := notify.NewTemplates(cfg.Mail.FromName, cfg.Mail.AppURL)
	if err != nil {
		log.Fatal().Err(err).Msg("parse notification templates")
	}
	notifier := notify.NewService(templates, dispatcher, logger.Component("notify"))

	hub := realtime.NewHub(nil, realtime.ClientConfig{
		MaxMessageSize: cfg.WS.MaxMessageSize,
		RateBurst:      cfg.WS.RateBurst,
		RateInterval:   cfg.WS.RateInterval,
	}, logger.Component("hub"))

	resolver := service.NewIdentityResolver(st.users, recency, log)
	authSvc := service.NewAuthService(st.users, st.activities, resolver, notifier, service.AuthOptions{
		JWTSecret:         cfg.JWTSecret,
		TokenTTL:          cfg.TokenTTL,
		SharedDisplayName: cfg.SharedDisplayName,
	}, log)
	messageSvc := service.NewMessageService(resolver, st.users, st.messages, notifier, hub, log)
	activitySvc := service.NewActivityService(resolver, st.activities, notifier, log)
	hub.SetSubmitter(messageSvc)

	if err := authSvc.EnsureSeedUsers(ctx, seedUsers(cfg)); err != nil {
		log.Fatal().Err(err).Msg("seed default accounts")
	}

	origins := realtime.NewOriginChecker(cfg.WS.AllowedOrigins, log)
	e := api.NewRouter(api.Deps{
		Auth:           authSvc,
		Messages:       messageSvc,
		Activities:     activitySvc,
		Hub:            hub,
		Readiness:      readiness,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.WS.AllowedOrigins,
		CheckOrigin:    origins.Check,
		EnableSwagger:  !cfg.IsProduction(),
		Log:            log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdown(e.Shutdown, hub, dispatcher, stopDispatch, st, log)
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if strings.EqualFold(cfg.StoreDriver, "mongo") {
		s, err := mongostore.Open(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		return &stores{users: s.Users, messages: s.Messages, activities: s.Activities, ping: s, close: s.Close}, nil
	}
	s, err := sqlitestore.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return &stores{
		users:      s,
		messages:   s,
		activities: s,
		ping:       s,
		close:      func(context.Context) error { return s.Close() },
	}, nil
}

func seedUsers(cfg *config.Config) []ports.SeedUser {
	return []ports.SeedUser{
		{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword, Name: "Admin", Role: domain.RoleAdmin},
		{Email: cfg.Seed.CorrespondentEmail, Password: cfg.Seed.CorrespondentPassword, Name: cfg.Seed.CorrespondentName, Role: domain.RoleCorrespondent},
	}
}

// shutdown stops intake first, then live connections, then drains the
// notification queue before releasing the store.
func shutdown(
	stopHTTP func(context.Context) error,
	hub *realtime.Hub,
	dispatcher *queue.Dispatcher,
	stopDispatch context.CancelFunc,
	st *stores,
	log zerolog.Logger,
) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := stopHTTP(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := hub.Shutdown(5 * time.Second); err != nil {
		log.Warn().Err(err).Msg("hub shutdown timed out")
	}

	drained := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		log.Warn().Msg("notification queue not drained before deadline")
	}
	stopDispatch()

	if err := st.close(ctx); err != nil {
		log.Error().Err(err).Msg("close store")
	}
	log.Info().Msg("shutdown complete")
}
