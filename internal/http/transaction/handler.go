package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/http/auth"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/bulk", h.bulk)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	Amount      int64             `json:"amount"`
	Type        transaction.Type  `json:"type"`
	Category    category.Category `json:"category"`
	Description string            `json:"description"`
	Date        time.Time         `json:"date"`
}

func (req createTransactionRequest) validate() error {
	switch {
	case req.Amount <= 0:
		return errors.New("amount must be positive")
	case !req.Type.Valid():
		return errors.New("type must be income or expense")
	case req.Category != "" && !req.Category.Valid():
		return errors.New("unknown category")
	case req.Description == "":
		return errors.New("description is required")
	case req.Date.IsZero():
		return errors.New("date is required")
	}

	return nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		UserID:         auth.UserID(r.Context()),
		Amount:         req.Amount,
		Type:           req.Type,
		Category:       req.Category,
		Description:    req.Description,
		RawDescription: req.Description,
		Date:           req.Date,
	})
	if err != nil {
		slog.Error("failed to create transaction", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

// bulk persists reviewed drafts as they are, without duplicate checks.
func (h *Handler) bulk(w http.ResponseWriter, r *http.Request) {
	var drafts []transaction.Draft
	if err := json.NewDecoder(r.Body).Decode(&drafts); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.SaveDrafts(r.Context(), auth.UserID(r.Context()), drafts)
	if err != nil {
		if errors.Is(err, transaction.ErrInvalidDraft) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to save drafts", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toResponseList(txs))
}

// parseFilter reads type, category, start_date and end_date query params.
func parseFilter(r *http.Request) (transaction.ListFilter, error) {
	filter := transaction.ListFilter{UserID: auth.UserID(r.Context())}
	q := r.URL.Query()

	if s := q.Get("type"); s != "" {
		t := transaction.Type(s)
		if !t.Valid() {
			return filter, errors.New("invalid type")
		}

		filter.Type = new(t)
	}

	if s := q.Get("category"); s != "" {
		c, ok := category.Parse(s)
		if !ok {
			return filter, errors.New("invalid category")
		}

		filter.Category = new(c)
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, errors.New("invalid start_date")
		}

		filter.StartDate = new(t)
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, errors.New("invalid end_date")
		}

		filter.EndDate = new(t)
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, err := h.svc.Summarize(r.Context(), filter)
	if err != nil {
		slog.Error("failed to summarize transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(s))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), id); err != nil {
		writeLookupError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Description *string            `json:"description,omitempty"`
	Amount      *int64             `json:"amount,omitempty"`
	Type        *transaction.Type  `json:"type,omitempty"`
	Category    *category.Category `json:"category,omitempty"`
	Date        *time.Time         `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	if req.Description != nil {
		tx.Description = *req.Description
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}

		tx.Amount = *req.Amount
	}

	if req.Type != nil {
		if !req.Type.Valid() {
			http.Error(w, "type must be income or expense", http.StatusBadRequest)
			return
		}

		tx.Type = *req.Type
	}

	if req.Category != nil {
		if !req.Category.Valid() {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}

		tx.Category = *req.Category
	}

	if req.Date != nil {
		tx.Date = *req.Date
	}

	if err := h.svc.Update(r.Context(), tx); err != nil {
		writeLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, transaction.ErrNotFound) {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	slog.Error("transaction lookup failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
