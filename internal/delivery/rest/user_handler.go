package rest

import (
	"net/http"

	"GlobetrotterService/internal/models"
)

// Register POST /users/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreate
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.users.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Invite GET /users/invite/{username}
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	username := pathParam(r, "username")

	result, err := h.users.Invite(r.Context(), username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Score GET /users/score?username=
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	result, err := h.users.GetScore(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
