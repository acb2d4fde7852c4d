package imports

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/http/auth"
	"github.com/spendsmart/spendsmart/internal/importer"
	"github.com/spendsmart/spendsmart/internal/importer/statement"
	"github.com/spendsmart/spendsmart/internal/scan"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

const defaultMaxUpload = 10 << 20

type Handler struct {
	scanSvc   *scan.Service
	importSvc *importer.Service
	txSvc     *transaction.Service
	maxUpload int64
}

func NewHandler(scanSvc *scan.Service, importSvc *importer.Service, txSvc *transaction.Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}

	return &Handler{
		scanSvc:   scanSvc,
		importSvc: importSvc,
		txSvc:     txSvc,
		maxUpload: maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/text", h.importText)
	r.Post("/statement", h.importStatement)
	r.Post("/confirm", h.confirmImport)
}

type textRequest struct {
	Text string `json:"text"`
}

type draftsResponse struct {
	Source scan.Source         `json:"source,omitempty"`
	Drafts []transaction.Draft `json:"drafts"`
}

type transactionResponse struct {
	ID             uuid.UUID         `json:"id"`
	Amount         int64             `json:"amount"`
	Type           transaction.Type  `json:"type"`
	Category       category.Category `json:"category"`
	Description    string            `json:"description"`
	RawDescription string            `json:"raw_description,omitempty"`
	Date           time.Time         `json:"date"`
	CreatedAt      time.Time         `json:"created_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	Amount         int64             `json:"amount"`
	Type           transaction.Type  `json:"type"`
	Category       category.Category `json:"category"`
	Description    string            `json:"description"`
	RawDescription string            `json:"raw_description"`
	Date           time.Time         `json:"date"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Drafts []transaction.Draft `json:"drafts"`
	// Force stores every draft even when duplicates exist.
	Force bool `json:"force"`
}

// importText extracts drafts from pasted SMS text and applies the caller's
// learned mappings. Nothing is stored.
func (h *Handler) importText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	res := h.scanSvc.Scan(r.Context(), req.Text)

	drafts, err := h.importSvc.Apply(r.Context(), auth.UserID(r.Context()), res.Drafts)
	if err != nil {
		slog.Error("failed to apply mappings", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, draftsResponse{Source: res.Source, Drafts: nonNil(drafts)})
}

// importStatement parses an uploaded CSV statement into drafts. Nothing is
// stored.
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	drafts, err := h.importSvc.ImportStatement(r.Context(), auth.UserID(r.Context()), file)
	if err != nil {
		var fe *statement.FormatError
		if errors.As(err, &fe) {
			http.Error(w, fe.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to import statement", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, draftsResponse{Drafts: nonNil(drafts)})
}

// confirmImport stores reviewed drafts. Unless forced, drafts matching
// existing transactions are reported back with 409 and nothing is stored.
func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := transaction.ValidateDrafts(req.Drafts); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID := auth.UserID(r.Context())
	params := transaction.DraftParams(req.Drafts)

	if req.Force {
		txs, err := h.txSvc.CreateBatch(r.Context(), userID, params)
		if err != nil {
			slog.Error("failed to create batch", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		writeJSON(w, http.StatusCreated, toSuccessResponse(txs))

		return
	}

	result, err := h.txSvc.ImportBatch(r.Context(), userID, params)
	if err != nil {
		slog.Error("failed to import batch", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		writeJSON(w, http.StatusConflict, resp)

		return
	}

	writeJSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func nonNil(drafts []transaction.Draft) []transaction.Draft {
	if drafts == nil {
		return []transaction.Draft{}
	}

	return drafts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Category:       tx.Category,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date,
		CreatedAt:      tx.CreatedAt,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Amount:         p.Amount,
		Type:           p.Type,
		Category:       p.Category,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Date:           p.Date,
	}
}
