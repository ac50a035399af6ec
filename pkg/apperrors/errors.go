package apperrors

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Виды ошибок, видимые клиенту
var (
	// ErrNotFound возвращается, когда запись не найдена (обобщенная ошибка)
	ErrNotFound = errors.New("record not found")

	// ErrConflict возвращается при нарушении уникальности
	ErrConflict = errors.New("record already exists")

	// ErrInvalid возвращается, когда входные данные не прошли валидацию
	ErrInvalid = errors.New("invalid input")

	// ErrInternal скрывает ошибки хранилища от клиента
	ErrInternal = errors.New("internal error")
)

// Список игнорируемых ошибок для механизмов отказоустойчивости
var (
	// ErrCacheMiss возвращается, когда запись не найдена в кэше
	ErrCacheMiss = redis.Nil

	// ErrRecordNotFound возвращается, когда запись не найдена в базе данных
	ErrRecordNotFound = gorm.ErrRecordNotFound

	// ErrDuplicatedKey возвращается GORM при нарушении уникального индекса
	ErrDuplicatedKey = gorm.ErrDuplicatedKey

	// IgnoredErrors содержит ошибки, которые не должны открывать circuit breaker
	IgnoredErrors = []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalid,
		ErrCacheMiss,
		ErrRecordNotFound,
		ErrDuplicatedKey,
	}
)

// Error несет вид ошибки, сообщение для клиента и скрытую причину
type Error struct {
	Kind   error
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Detail + ": " + e.Cause.Error()
	}
	return e.Detail
}

// Unwrap позволяет errors.Is находить как вид ошибки, так и причину
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// NotFound создает ошибку "не найдено"
func NotFound(detail string) error {
	return &Error{Kind: ErrNotFound, Detail: detail}
}

// Conflict создает ошибку нарушения уникальности
func Conflict(detail string, cause error) error {
	return &Error{Kind: ErrConflict, Detail: detail, Cause: cause}
}

// Invalid создает ошибку валидации
func Invalid(detail string, cause error) error {
	return &Error{Kind: ErrInvalid, Detail: detail, Cause: cause}
}

// Internal создает внутреннюю ошибку; cause не показывается клиенту
func Internal(detail string, cause error) error {
	return &Error{Kind: ErrInternal, Detail: detail, Cause: cause}
}

// Detail возвращает сообщение для клиента
func Detail(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Detail
	}
	return "Internal server error"
}

// KindOf возвращает вид внешней ошибки приложения. Вид вложенной причины не учитывается.
func KindOf(err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

// IsNotFound проверяет, является ли ошибка ошибкой "запись не найдена"
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCacheMiss) ||
		errors.Is(err, ErrRecordNotFound)
}

// IsConflict проверяет, является ли ошибка нарушением уникальности
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrDuplicatedKey)
}
