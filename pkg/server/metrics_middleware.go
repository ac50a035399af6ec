package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// httpRequestDuration измеряет длительность HTTP запросов
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// httpRequestsTotal подсчитывает общее количество HTTP запросов
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// dbOperationDuration измеряет длительность операций с базой данных
	dbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	// dbOperationsTotal подсчитывает общее количество операций с базой данных
	dbOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "status"},
	)

	// cacheOperationsTotal подсчитывает операции с кэшем по результату (hit, miss, error, success)
	cacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// circuitBreakerState отслеживает состояние circuit breaker
	circuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "State of circuit breaker (0: closed, 1: half-open, 2: open)",
		},
		[]string{"name"},
	)

	// questionsGenerated подсчитывает выданные игровые вопросы
	questionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_questions_generated_total",
		Help: "Total number of generated game questions",
	})

	// answersVerified подсчитывает проверенные ответы по результату
	answersVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_answers_verified_total",
			Help: "Total number of verified answers",
		},
		[]string{"correct"},
	)
)

// MetricsServer запускает HTTP сервер для Prometheus
func MetricsServer(port string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		// Недоступность метрик не должна останавливать основной сервис
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	return server
}

// MetricsMiddleware собирает метрики HTTP запросов с шаблоном маршрута chi в качестве метки
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		ww := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := strconv.Itoa(ww.statusCode)

		httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(startTime).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

// RecordDBOperation записывает метрики операции с базой данных
func RecordDBOperation(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	dbOperationDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
	dbOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordCacheOperation записывает результат операции с кэшем
func RecordCacheOperation(operation, result string) {
	cacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordCircuitBreakerStateChange записывает изменение состояния circuit breaker
func RecordCircuitBreakerStateChange(name string, state int) {
	circuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordQuestionGenerated учитывает выданный вопрос
func RecordQuestionGenerated() {
	questionsGenerated.Inc()
}

// RecordAnswerVerified учитывает проверенный ответ
func RecordAnswerVerified(correct bool) {
	answersVerified.WithLabelValues(strconv.FormatBool(correct)).Inc()
}
