package importcsv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/scrooge/internal/importer"
	"github.com/MrJamesThe3rd/scrooge/internal/statement"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc     *importer.Service
	timeout time.Duration
}

// NewHandler serves imports. Each import gets at most timeout; zero means no limit.
func NewHandler(svc *importer.Service, timeout time.Duration) *Handler {
	return &Handler{svc: svc, timeout: timeout}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type errorResponse struct {
	Error        string   `json:"error"`
	Line         int      `json:"line,omitempty"`
	KnownFormats []string `json:"known_formats,omitempty"`
	Imported     int      `json:"imported"`
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if format == "" {
		http.Error(w, "format field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ctx := r.Context()

	if h.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.svc.Ingest(ctx, format, file)
	if err != nil {
		h.writeError(w, err, res)
		return
	}

	writeJSON(w, http.StatusCreated, importResponse{Imported: res.Imported, Skipped: res.Skipped})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, res *importer.Result) {
	resp := errorResponse{Error: err.Error()}
	if res != nil {
		resp.Imported = res.Imported
	}

	var (
		unknown *importer.UnknownFormatError
		rowErr  *statement.RowError
	)

	switch {
	case errors.As(err, &unknown):
		resp.KnownFormats = unknown.Known
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.As(err, &rowErr):
		resp.Line = rowErr.Line
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		slog.Error("import failed", "error", err)

		resp.Error = "internal error"
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

// Formats lists the names accepted in the format field.
func (h *Handler) Formats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Formats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
