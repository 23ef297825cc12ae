package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	// DB
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	// Auth
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`
	SessionTTLMin int    `envconfig:"SESSION_TTL_MIN" default:"60"`
	OTPTTLMin     int    `envconfig:"OTP_TTL_MIN" default:"5"`
	// Email
	ResendAPIKey  string `envconfig:"RESEND_API_KEY"`
	FromEmail     string `envconfig:"FROM_EMAIL" default:"noreply@courtbook.app"`
	SkipEmailSend bool   `envconfig:"SKIP_EMAIL_SEND"`
	// Security log
	SecurityLogPath string `envconfig:"SECURITY_LOG_PATH" default:"logs/security.log"`
	// Events (optional)
	RabbitURL      string `envconfig:"RABBIT_URL"`
	RabbitExchange string `envconfig:"RABBIT_EXCHANGE" default:"courtbook.events"`
	// Brute-force protection on the login and OTP endpoints
	AuthRatePerMin int `envconfig:"AUTH_RATE_PER_MIN" default:"5"`
	AuthRateBurst  int `envconfig:"AUTH_RATE_BURST" default:"5"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

func (c App) SessionTTL() time.Duration { return time.Duration(c.SessionTTLMin) * time.Minute }
func (c App) OTPTTL() time.Duration     { return time.Duration(c.OTPTTLMin) * time.Minute }
