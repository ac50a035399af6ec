package config

import (
	"time"
)

// ResilienceConfig содержит настройки для механизмов отказоустойчивости
type ResilienceConfig struct {
	// CircuitBreaker содержит настройки для circuit breaker
	CircuitBreaker struct {
		// FailureThreshold количество ошибок, после которого circuit breaker откроется
		FailureThreshold int
		// ResetTimeout время, через которое circuit breaker перейдет в полуоткрытое состояние
		ResetTimeout time.Duration
	}

	// StartupRetry настройки повторного подключения к PostgreSQL при старте.
	// Запросы пользователей никогда не повторяются.
	StartupRetry struct {
		MaxRetries     int
		InitialBackoff time.Duration
		MaxBackoff     time.Duration
		BackoffFactor  float64
		Jitter         float64
	}

	// Database содержит таймауты операций с базой данных
	Database struct {
		QueryTimeout time.Duration
		WriteTimeout time.Duration
	}

	// Redis содержит таймауты операций с Redis
	Redis struct {
		CommandTimeout time.Duration
	}
}

// DefaultResilienceConfig возвращает конфигурацию отказоустойчивости по умолчанию
func DefaultResilienceConfig() ResilienceConfig {
	config := ResilienceConfig{}

	config.CircuitBreaker.FailureThreshold = 5
	config.CircuitBreaker.ResetTimeout = 30 * time.Second

	config.StartupRetry.MaxRetries = 5
	config.StartupRetry.InitialBackoff = 500 * time.Millisecond
	config.StartupRetry.MaxBackoff = 5 * time.Second
	config.StartupRetry.BackoffFactor = 2.0
	config.StartupRetry.Jitter = 0.2

	config.Database.QueryTimeout = 3 * time.Second
	config.Database.WriteTimeout = 5 * time.Second

	config.Redis.CommandTimeout = 1 * time.Second

	return config
}
