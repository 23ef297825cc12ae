package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"courtbook/internal/server/api"
	"courtbook/internal/server/config"
	"courtbook/internal/server/services"
	"courtbook/internal/server/storage"
	"courtbook/pkg/mq"
	"courtbook/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "courtbook-server",
	Short: "Courtbook - court booking with two-factor login",
	Long:  "HTTP API for court and time-slot booking with username/password plus email OTP authentication",
	// Default to serve command if no subcommand provided
	Run: func(cmd *cobra.Command, args []string) {
		runServe(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the booking server",
	Run:   runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.GetVersion("courtbook-server"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, adminCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env file not found, using environment variables")
	}

	slog.Info("starting", "version", version.GetVersion("courtbook-server"))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := storage.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("schema setup failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	userRepo := storage.NewUserRepository(db)
	courtRepo := storage.NewCourtRepository(db)
	bookingRepo := storage.NewBookingRepository(db)
	otpRepo := storage.NewOTPRepository(db)
	auditRepo := storage.NewAuditRepository(db)

	seclog, err := services.NewSecurityLog(cfg.SecurityLogPath)
	if err != nil {
		slog.Error("security log setup failed", "error", err)
		os.Exit(1)
	}
	defer seclog.Close()

	emailService, err := services.NewEmailService(cfg.ResendAPIKey, cfg.FromEmail, cfg.SkipEmailSend)
	if err != nil {
		slog.Error("email service setup failed", "error", err)
		os.Exit(1)
	}

	// Event publishing is optional; without RABBIT_URL the publisher is
	// nil and every publish is a no-op.
	var events *mq.Publisher
	if cfg.RabbitURL != "" {
		events, err = mq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			slog.Warn("event publisher unavailable", "error", err)
		} else {
			defer events.Close()
			slog.Info("event publisher connected", "exchange", cfg.RabbitExchange)
		}
	}

	auditService := services.NewAuditService(auditRepo)
	authService := services.NewAuthService(userRepo, otpRepo, emailService, auditService, seclog, cfg.OTPTTL())
	bookingService := services.NewBookingService(bookingRepo, courtRepo, auditService, emailService, seclog, events)

	server := api.NewServer(cfg, authService, bookingService, auditService, courtRepo)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupExpiredOTPs(otpRepo, cfg.OTPTTL())

	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// Expiry is enforced at verification time; this job just keeps stale
// rows from piling up.
func cleanupExpiredOTPs(otps *storage.OTPRepository, ttl time.Duration) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if err := otps.DeleteExpired(context.Background(), ttl, time.Now().UTC()); err != nil {
			slog.Error("otp cleanup failed", "error", err)
		}
	}
}
