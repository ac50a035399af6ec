package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config содержит все настройки приложения
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Invite   InviteConfig   `mapstructure:"invite"`
}

// AppConfig содержит общие настройки сервиса
type AppConfig struct {
	Env          string `mapstructure:"env"`
	SeedDataPath string `mapstructure:"seed_data_path"`
}

// PostgresConfig содержит настройки для PostgreSQL
type PostgresConfig struct {
	// DSN, если задан, используется как есть и имеет приоритет над остальными полями
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnectionString возвращает строку подключения к PostgreSQL
func (c PostgresConfig) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig содержит настройки для Redis
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HTTPConfig содержит настройки HTTP сервера
type HTTPConfig struct {
	Port               int      `mapstructure:"port"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// InviteConfig содержит настройки ссылок-приглашений
type InviteConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// LoadConfig загружает настройки из файла или переменных окружения
func LoadConfig() (*Config, error) {
	// .env необязателен, в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Значения по умолчанию
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Если файл конфигурации не найден, используем переменные окружения
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Переменные окружения переопределяют значения из файла
	loadFromEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "production")
	v.SetDefault("app.seed_data_path", "data/destinations.json")

	// PostgreSQL defaults
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.username", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.dbname", "globetrotter")
	v.SetDefault("postgres.sslmode", "disable")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// HTTP defaults
	v.SetDefault("http.port", 8000)
	v.SetDefault("http.cors_allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	v.SetDefault("invite.base_url", "http://localhost:5173")
}

func loadFromEnv(v *viper.Viper) {
	if env := os.Getenv("APP_ENV"); env != "" {
		v.Set("app.env", env)
	}

	// PostgreSQL from env
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		v.Set("postgres.dsn", dsn)
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		v.Set("postgres.host", dbHost)
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			v.Set("postgres.port", port)
		}
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		v.Set("postgres.username", dbUser)
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		v.Set("postgres.password", dbPassword)
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		v.Set("postgres.dbname", dbName)
	}

	// Redis from env
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		redisPort := "6379"
		if port := os.Getenv("REDIS_PORT"); port != "" {
			redisPort = port
		}
		v.Set("redis.addr", redisHost+":"+redisPort)
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		v.Set("redis.password", redisPassword)
	}

	// HTTP from env
	if httpPort := os.Getenv("HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			v.Set("http.port", port)
		}
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		v.Set("http.cors_allowed_origins", splitOrigins(origins))
	}

	if inviteURL := os.Getenv("INVITE_BASE_URL"); inviteURL != "" {
		v.Set("invite.base_url", inviteURL)
	}
}

// splitOrigins разбирает список origin через запятую
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
