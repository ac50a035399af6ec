package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCircuitOpen возвращается, когда circuit breaker не пропускает операцию
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState представляет состояние circuit breaker
type CircuitState int

const (
	// CircuitClosed означает, что circuit breaker закрыт (нормальное состояние)
	CircuitClosed CircuitState = iota
	// CircuitHalfOpen означает, что circuit breaker полуоткрыт (пробное состояние)
	CircuitHalfOpen
	// CircuitOpen означает, что circuit breaker открыт (состояние ошибки)
	CircuitOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "CLOSED"
	case CircuitHalfOpen:
		return "HALF_OPEN"
	case CircuitOpen:
		return "OPEN"
	default:
		return "UNKNOWN"
	}
}

// StateListener вызывается при каждом изменении состояния
type StateListener func(name string, state CircuitState)

// CircuitBreaker реализует паттерн circuit breaker для зависимостей сервиса
type CircuitBreaker struct {
	name             string
	state            CircuitState
	failureCount     int
	failureThreshold int
	resetTimeout     time.Duration
	lastStateChange  time.Time
	halfOpenInFlight bool
	mutex            sync.Mutex
	logger           *zap.Logger
	ignoredErrors    []error
	listener         StateListener
}

// NewCircuitBreaker создает новый экземпляр CircuitBreaker
func NewCircuitBreaker(name string, failureThreshold int, resetTimeout time.Duration, logger *zap.Logger, ignoredErrors ...error) *CircuitBreaker {
	return &CircuitBreaker{
		name:             name,
		state:            CircuitClosed,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		lastStateChange:  time.Now(),
		logger:           logger,
		ignoredErrors:    ignoredErrors,
	}
}

// OnStateChange регистрирует слушателя изменений состояния
func (cb *CircuitBreaker) OnStateChange(listener StateListener) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.listener = listener
}

// Execute выполняет функцию с учетом состояния circuit breaker
func (cb *CircuitBreaker) Execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if !cb.allowRequest(operation) {
		cb.logger.Warn("Circuit breaker preventing operation execution",
			zap.String("breaker", cb.name),
			zap.String("operation", operation))
		return ErrCircuitOpen
	}

	err := fn(ctx)
	cb.handleResult(operation, err)

	return err
}

// allowRequest решает, пропускать ли запрос, и переводит OPEN в HALF_OPEN по таймауту
func (cb *CircuitBreaker) allowRequest(operation string) bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if time.Since(cb.lastStateChange) < cb.resetTimeout {
			return false
		}
		cb.transition(CircuitHalfOpen, operation)
		cb.halfOpenInFlight = true
		return true
	case CircuitHalfOpen:
		// В полуоткрытом состоянии пропускаем только один пробный запрос
		if cb.halfOpenInFlight {
			return false
		}
		cb.halfOpenInFlight = true
		return true
	default:
		return false
	}
}

// handleResult обрабатывает результат выполнения функции
func (cb *CircuitBreaker) handleResult(operation string, err error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.state == CircuitHalfOpen {
		cb.halfOpenInFlight = false
	}

	if err != nil && cb.isIgnoredError(err) {
		cb.logger.Debug("Игнорируем ошибку для circuit breaker",
			zap.String("breaker", cb.name),
			zap.String("operation", operation),
			zap.Error(err))
		err = nil
	}

	if err != nil {
		switch cb.state {
		case CircuitClosed:
			cb.failureCount++
			if cb.failureCount >= cb.failureThreshold {
				cb.transition(CircuitOpen, operation)
			}
		case CircuitHalfOpen:
			cb.transition(CircuitOpen, operation)
		}
		return
	}

	switch cb.state {
	case CircuitClosed:
		cb.failureCount = 0
	case CircuitHalfOpen:
		cb.transition(CircuitClosed, operation)
	}
}

// isIgnoredError проверяет, является ли ошибка игнорируемой
func (cb *CircuitBreaker) isIgnoredError(err error) bool {
	// Отмена запроса клиентом не говорит о здоровье зависимости
	if errors.Is(err, context.Canceled) {
		return true
	}
	for _, ignoredErr := range cb.ignoredErrors {
		if errors.Is(err, ignoredErr) {
			return true
		}
	}
	return false
}

// transition меняет состояние; вызывается под мьютексом
func (cb *CircuitBreaker) transition(state CircuitState, operation string) {
	cb.state = state
	cb.lastStateChange = time.Now()
	if state == CircuitClosed {
		cb.failureCount = 0
	}

	fields := []zap.Field{
		zap.String("breaker", cb.name),
		zap.String("operation", operation),
		zap.Stringer("state", state),
	}
	if state == CircuitOpen {
		cb.logger.Warn("Circuit breaker opened",
			append(fields, zap.Int("failures", cb.failureCount), zap.Duration("reset_timeout", cb.resetTimeout))...)
	} else {
		cb.logger.Info("Circuit breaker state changed", fields...)
	}

	if cb.listener != nil {
		cb.listener(cb.name, state)
	}
}

// GetState возвращает текущее состояние circuit breaker
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Name возвращает имя circuit breaker
func (cb *CircuitBreaker) Name() string {
	return cb.name
}
