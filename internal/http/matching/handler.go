package matching

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/http/auth"
	"github.com/spendsmart/spendsmart/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription       string            `json:"raw_description"`
	PreferredDescription string            `json:"preferred_description"`
	Category             category.Category `json:"category,omitempty"`
	Matched              bool              `json:"matched"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		http.Error(w, "raw_description query parameter is required", http.StatusBadRequest)
		return
	}

	m, err := h.svc.Suggest(r.Context(), auth.UserID(r.Context()), rawDesc)
	if err != nil {
		slog.Error("failed to suggest description", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := suggestResponse{RawDescription: rawDesc}
	if m != nil {
		resp.PreferredDescription = m.Description
		resp.Category = m.Category
		resp.Matched = true
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	RawPattern           string            `json:"raw_pattern"`
	PreferredDescription string            `json:"preferred_description"`
	Category             category.Category `json:"category,omitempty"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), auth.UserID(r.Context()), req.RawPattern, req.PreferredDescription, req.Category); err != nil {
		if errors.Is(err, matching.ErrInvalidMapping) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to learn mapping", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
}
