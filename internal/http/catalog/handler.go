// Package catalog serves the reference data transactions point to: accounts and tags.
package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/account"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
)

type Handler struct {
	accounts *account.Service
	tags     *tag.Service
}

func NewHandler(accounts *account.Service, tags *tag.Service) *Handler {
	return &Handler{accounts: accounts, tags: tags}
}

type accountResponse struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

type tagResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	accs, err := h.accounts.List(r.Context())
	if err != nil {
		slog.Error("failed to list accounts", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]accountResponse, 0, len(accs))
	for _, a := range accs {
		resp = append(resp, accountResponse{ID: a.ID, Number: a.Number, Label: a.Label, CreatedAt: a.CreatedAt})
	}

	writeJSON(w, resp)
}

func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		slog.Error("failed to list tags", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, tagResponse{ID: t.ID, Name: t.Name, Label: t.Label, CreatedAt: t.CreatedAt})
	}

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
