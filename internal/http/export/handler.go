package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spendsmart/spendsmart/internal/export"
	"github.com/spendsmart/spendsmart/internal/http/auth"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

type Handler struct {
	svc   *export.Service
	txSvc *transaction.Service
}

func NewHandler(svc *export.Service, txSvc *transaction.Service) *Handler {
	return &Handler{svc: svc, txSvc: txSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.csv)
	r.Get("/download", h.download)
}

func parseFilter(r *http.Request) (transaction.ListFilter, error) {
	filter := transaction.ListFilter{UserID: auth.UserID(r.Context())}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date: %w", err)
		}

		filter.StartDate = new(t)
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date: %w", err)
		}

		filter.EndDate = new(t)
	}

	return filter, nil
}

// csv streams the statement CSV for the requested range.
func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if _, err := h.svc.Export(r.Context(), filter, &buf); err != nil {
		slog.Error("failed to export transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"statement_%s.csv\"", time.Now().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

// download returns a zip with the statement CSV and a text summary.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var statement bytes.Buffer
	if _, err := h.svc.Export(r.Context(), filter, &statement); err != nil {
		slog.Error("failed to export transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	summary, err := h.txSvc.Summarize(r.Context(), filter)
	if err != nil {
		slog.Error("failed to summarize transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	files := []struct {
		name string
		body []byte
	}{
		{name: "statement.csv", body: statement.Bytes()},
		{name: "summary.txt", body: []byte(h.svc.Summary(summary))},
	}

	for _, f := range files {
		zf, err := zipWriter.Create(f.name)
		if err != nil {
			slog.Error("failed to create zip entry", "name", f.name, "error", err)
			return
		}

		if _, err := zf.Write(f.body); err != nil {
			slog.Error("failed to write zip entry", "name", f.name, "error", err)
			return
		}
	}
}
