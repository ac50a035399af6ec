package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	statusUp       = "up"
	statusDown     = "down"
	statusDegraded = "degraded"
	statusUnknown  = "unknown"
)

// HealthCheckerInterface проверяет доступность зависимостей сервиса
type HealthCheckerInterface interface {
	// IsDatabaseHealthy проверяет здоровье PostgreSQL
	IsDatabaseHealthy(ctx context.Context) bool

	// IsRedisHealthy проверяет здоровье Redis
	IsRedisHealthy(ctx context.Context) bool
}

// HealthCheck представляет сервис проверки здоровья
type HealthCheck struct {
	checker       HealthCheckerInterface
	logger        *zap.Logger
	server        *http.Server
	interval      time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
	statusMutex   sync.RWMutex
	serviceStatus map[string]string
	version       string
}

// HealthResponse представляет ответ эндпоинта проверки здоровья
type HealthResponse struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
}

// NewHealthCheck создает новый сервис проверки здоровья
func NewHealthCheck(checker HealthCheckerInterface, logger *zap.Logger, version string) *HealthCheck {
	return &HealthCheck{
		checker:  checker,
		logger:   logger,
		interval: 10 * time.Second,
		stop:     make(chan struct{}),
		version:  version,
		serviceStatus: map[string]string{
			"service":  statusUp,
			"postgres": statusUnknown,
			"redis":    statusUnknown,
		},
	}
}

// Handler возвращает маршруты проверки здоровья
func (h *HealthCheck) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", h.livenessHandler)
	mux.HandleFunc("/health/ready", h.readinessHandler)
	mux.HandleFunc("/health", h.healthHandler)
	return mux
}

// StartServer запускает HTTP сервер для проверки здоровья и фоновый мониторинг
func (h *HealthCheck) StartServer(port int) {
	h.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		h.logger.Info("Starting health check server", zap.Int("port", port))
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("Health check server failed", zap.Error(err))
		}
	}()

	// Первая проверка сразу, чтобы readiness не ждал первого тика
	h.CheckNow()
	go h.monitorHealth()
}

// Stop останавливает мониторинг и HTTP сервер
func (h *HealthCheck) Stop(ctx context.Context) error {
	h.stopOnce.Do(func() { close(h.stop) })
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}

func (h *HealthCheck) livenessHandler(w http.ResponseWriter, r *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": statusUp})
}

func (h *HealthCheck) readinessHandler(w http.ResponseWriter, r *http.Request) {
	h.statusMutex.RLock()
	pgStatus := h.serviceStatus["postgres"]
	h.statusMutex.RUnlock()

	// Без PostgreSQL сервис не может отвечать; Redis только ускоряет чтение
	if pgStatus != statusUp {
		writeHealthJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  statusDown,
			"message": "PostgreSQL is not available",
		})
		return
	}

	writeHealthJSON(w, http.StatusOK, map[string]string{"status": statusUp})
}

func (h *HealthCheck) healthHandler(w http.ResponseWriter, r *http.Request) {
	h.statusMutex.RLock()
	services := make(map[string]string, len(h.serviceStatus))
	for k, v := range h.serviceStatus {
		services[k] = v
	}
	h.statusMutex.RUnlock()

	status := statusUp
	code := http.StatusOK
	if services["postgres"] != statusUp {
		status = statusDown
		code = http.StatusServiceUnavailable
	}

	writeHealthJSON(w, code, HealthResponse{
		Status:    status,
		Services:  services,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	})
}

func (h *HealthCheck) monitorHealth() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.CheckNow()
		case <-h.stop:
			return
		}
	}
}

// CheckNow синхронно обновляет статусы зависимостей
func (h *HealthCheck) CheckNow() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pgStatus := statusUp
	if !h.checker.IsDatabaseHealthy(ctx) {
		pgStatus = statusDown
		h.logger.Warn("PostgreSQL health check failed")
	}

	redisStatus := statusUp
	if !h.checker.IsRedisHealthy(ctx) {
		redisStatus = statusDegraded
		h.logger.Warn("Redis health check failed")
	}

	h.statusMutex.Lock()
	h.serviceStatus["postgres"] = pgStatus
	h.serviceStatus["redis"] = redisStatus
	h.statusMutex.Unlock()
}

func writeHealthJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
