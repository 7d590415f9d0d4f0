package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/config"
	"github.com/wasabi52ngg/restaurant-chain/hub"
	"github.com/wasabi52ngg/restaurant-chain/router"
	"github.com/wasabi52ngg/restaurant-chain/services"
	"github.com/wasabi52ngg/restaurant-chain/utils"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.SetLevel(cfg.LogLevel)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if err := config.SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed admin: %v", err)
	}

	queue, err := newQueue(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open notification queue: %v", err)
	}
	defer queue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy := services.RetryPolicy{MaxRetries: cfg.NotifyMaxRetries, Backoff: cfg.NotifyRetryBackoff}
	dispatcher := services.NewNotificationDispatcher(db, queue, newMailer(cfg), policy, cfg.NotifyWorkers)
	// the dispatcher outlives the signal so the HTTP drain can still enqueue
	if err := dispatcher.Start(context.Background()); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start notification dispatcher: %v", err)
	}

	statusHub := hub.NewHub()
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer)
	tokens.Blacklist().StartCleanup(time.Hour, ctx.Done())

	r := router.SetupRouter(router.Dependencies{
		DB:       db,
		Config:   cfg,
		Tokens:   tokens,
		Status:   services.NewStatusService(db, dispatcher, statusHub),
		Notifier: dispatcher,
		Hub:      statusHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down...")
	shutdown(srv, dispatcher, 10*time.Second)
}

// shutdown stops accepting requests, waits for the in-flight ones, then lets
// the dispatcher finish what they queued before stopping it.
func shutdown(srv *http.Server, dispatcher *services.NotificationDispatcher, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
	if err := dispatcher.Drain(ctx); err != nil {
		utils.ErrorLogger.Printf("Notification drain: %v", err)
	}
	dispatcher.Stop()
}

func newQueue(cfg *config.Config) (services.NotificationQueue, error) {
	if cfg.NotifyQueue == config.QueueAMQP {
		q, err := services.NewAMQPQueue(cfg.AMQPURL, cfg.AMQPQueue, cfg.NotifyWorkers)
		if err != nil {
			return nil, err
		}
		return q, nil
	}
	return services.NewChannelQueue(cfg.NotifyBuffer), nil
}

func newMailer(cfg *config.Config) services.Mailer {
	if cfg.SMTPHost == "" {
		utils.InfoLogger.Println("SMTP_HOST not set, notification mail goes to the log")
		return &services.LogMailer{Logger: utils.InfoLogger}
	}
	return services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.DefaultFromEmail, cfg.SMTPTimeout)
}
