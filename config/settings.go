package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings holds every runtime knob of the API and its CLIs.
type Settings struct {
	ServerPort  string
	GinMode     string
	Environment string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBDatabase string
	DBUsername string
	DBPassword string
	DBDSN      string
	DebugSQL   bool

	SessionSecret     string
	SessionTTL        time.Duration
	SessionCookieName string

	RedisAddr      string
	RedisPassword  string
	LoginRateLimit int

	JobTriggerToken   string
	ExpiryDigestEmail bool

	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string
	SMTPSkipTLSVerify bool

	AppBaseURL         string
	UploadPath         string
	LogFile            string
	CORSAllowedOrigins []string
}

// Current is the settings snapshot taken by the last Load call.
var Current = &Settings{}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_DATABASE", "agency")
	v.SetDefault("DEBUG_SQL", false)
	v.SetDefault("SESSION_EXPIRE_MINUTES", 10)
	v.SetDefault("SESSION_COOKIE_NAME", "session_token")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("EXPIRY_DIGEST_EMAIL", false)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_SKIP_TLS_VERIFY", false)
	v.SetDefault("APP_BASE_URL", "http://localhost:3000/")
	v.SetDefault("UPLOAD_PATH", "./uploads")
	v.SetDefault("LOG_FILE", "logs/agency-api.log")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	return v
}

// Load reads .env (when present), an optional CONFIG_FILE and the process
// environment, and stores the result in Current.
func Load() *Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := newViper()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				log.Printf("Warning: failed to read config file %s: %v", path, err)
			}
		}
	}

	s := fromViper(v)
	Current = s
	return s
}

func fromViper(v *viper.Viper) *Settings {
	ttl := v.GetInt("SESSION_EXPIRE_MINUTES")
	if ttl <= 0 {
		ttl = 10
	}

	origins := make([]string, 0)
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Settings{
		ServerPort:  v.GetString("SERVER_PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		Environment: strings.ToLower(v.GetString("ENVIRONMENT")),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBDatabase: v.GetString("DB_DATABASE"),
		DBUsername: v.GetString("DB_USERNAME"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBDSN:      v.GetString("DB_DSN"),
		DebugSQL:   v.GetBool("DEBUG_SQL"),

		SessionSecret:     v.GetString("SESSION_SECRET"),
		SessionTTL:        time.Duration(ttl) * time.Minute,
		SessionCookieName: v.GetString("SESSION_COOKIE_NAME"),

		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		LoginRateLimit: v.GetInt("LOGIN_RATE_LIMIT"),

		JobTriggerToken:   v.GetString("JOB_TRIGGER_TOKEN"),
		ExpiryDigestEmail: v.GetBool("EXPIRY_DIGEST_EMAIL"),

		SMTPHost:          v.GetString("SMTP_HOST"),
		SMTPPort:          v.GetInt("SMTP_PORT"),
		SMTPUser:          v.GetString("SMTP_USER"),
		SMTPPass:          v.GetString("SMTP_PASS"),
		SMTPFrom:          v.GetString("SMTP_FROM"),
		SMTPSkipTLSVerify: v.GetBool("SMTP_SKIP_TLS_VERIFY"),

		AppBaseURL:         v.GetString("APP_BASE_URL"),
		UploadPath:         v.GetString("UPLOAD_PATH"),
		LogFile:            v.GetString("LOG_FILE"),
		CORSAllowedOrigins: origins,
	}
}

// IsRelease reports whether gin runs in release mode.
func (s *Settings) IsRelease() bool {
	return s != nil && s.GinMode == "release"
}
