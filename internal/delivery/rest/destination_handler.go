package rest

import (
	"net/http"

	"GlobetrotterService/internal/models"
)

// RandomDestination GET /destinations/random
func (h *Handler) RandomDestination(w http.ResponseWriter, r *http.Request) {
	destination, err := h.destinations.GetRandom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, destination)
}

// DestinationByCity GET /destinations/{city}
func (h *Handler) DestinationByCity(w http.ResponseWriter, r *http.Request) {
	city := pathParam(r, "city")

	destination, err := h.destinations.GetByCity(r.Context(), city)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, destination)
}

// GameQuestion GET /destinations/game-question
func (h *Handler) GameQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.destinations.GenerateQuestion(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// VerifyAnswer POST /destinations/verify-answer
func (h *Handler) VerifyAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.destinations.VerifyAnswer(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateDestination POST /destinations/
func (h *Handler) CreateDestination(w http.ResponseWriter, r *http.Request) {
	var req models.DestinationCreate
	if !decodeJSON(w, r, &req) {
		return
	}

	destination, err := h.destinations.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, destination)
}

// BulkInsert POST /destinations/bulk-insert
func (h *Handler) BulkInsert(w http.ResponseWriter, r *http.Request) {
	var reqs []models.DestinationCreate
	if !decodeJSON(w, r, &reqs) {
		return
	}

	result, err := h.destinations.BulkInsert(r.Context(), reqs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
