package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Widget   WidgetConfig
	Salla    SallaConfig
	Mailjet  MailjetConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name              string
	Version           string
	Environment       string
	AppDeploymentUrl  string
	AppEmbedSecretKey string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type WidgetConfig struct {
	WidgetSecret       string
	SnapshotTTLMinutes int
	AllowedOrigins     []string
}

type SallaConfig struct {
	SallaApiBaseUrl string
}

type MailjetConfig struct {
	MailjetBaseUrl           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	snapshotTTL, err := strconv.Atoi(getEnv("WIDGET_SNAPSHOT_TTL_MINUTES", "30"))
	if err != nil {
		return nil, errors.New("invalid widget snapshot ttl")
	}

	cfg := &Config{
		App: AppConfig{
			Name:              getEnv("APP_NAME", "Darb Filters API"),
			Version:           getEnv("APP_VERSION", "1.0.0"),
			Environment:       getEnv("APP_ENV", "development"),
			AppDeploymentUrl:  getEnv("APP_DEPLOYMENT_URL", ""),
			AppEmbedSecretKey: getEnv("APP_EMBED_SECRET_KEY", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "darb_filters"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Widget: WidgetConfig{
			WidgetSecret:       getEnv("WIDGET_SECRET", ""),
			SnapshotTTLMinutes: snapshotTTL,
			AllowedOrigins:     []string{getEnv("WIDGET_ALLOWED_ORIGIN", "*")},
		},
		Salla: SallaConfig{
			SallaApiBaseUrl: getEnv("SALLA_API_BASE_URL", "https://api.salla.dev/admin/v2"),
		},
		Mailjet: MailjetConfig{
			MailjetBaseUrl:           getEnv("MAILJET_BASE_URL", ""),
			MailjetBasicAuthUsername: getEnv("MAILJET_BASIC_AUTH_USERNAME", ""),
			MailjetBasicAuthPassword: getEnv("MAILJET_BASIC_AUTH_PASSWORD", ""),
			MailjetSenderEmail:       getEnv("MAILJET_SENDER_EMAIL", ""),
			MailjetSenderName:        getEnv("MAILJET_SENDER_NAME", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Widget.WidgetSecret == "" {
		return nil, errors.New("missing widget secret")
	}

	if cfg.App.AppEmbedSecretKey == "" {
		return nil, errors.New("missing app embed secret key")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
