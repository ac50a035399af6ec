package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"GlobetrotterService/internal/service"
	"GlobetrotterService/pkg/apperrors"
	"GlobetrotterService/pkg/server"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes ограничивает размер тела запроса, включая пакетную вставку
const maxBodyBytes = 4 << 20

// Handler обрабатывает HTTP запросы к игровому сервису
type Handler struct {
	destinations service.DestinationServiceInterface
	users        service.UserServiceInterface
	logger       *zap.Logger
}

// NewHandler создает новый экземпляр Handler
func NewHandler(destinations service.DestinationServiceInterface, users service.UserServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{
		destinations: destinations,
		users:        users,
		logger:       logger,
	}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError переводит ошибку сервиса в HTTP статус; причина внутренних ошибок только логируется
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrConflict:
		status = http.StatusBadRequest
	case apperrors.ErrInvalid:
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		server.WithRequestID(r.Context(), h.logger).Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	writeJSON(w, status, errorResponse{Detail: apperrors.Detail(err)})
}

// pathParam возвращает декодированный параметр пути. chi уже декодирует значение,
// если маршрут сопоставлен по r.URL.Path; по RawPath приходит экранированная строка.
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value
	}
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}

// decodeJSON читает тело запроса; некорректный JSON дает 400
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		detail := "Invalid JSON body"
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			detail = "Request body is empty"
		case errors.As(err, &maxErr):
			detail = "Request body too large"
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: detail})
		return false
	}

	return true
}
