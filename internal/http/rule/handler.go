package rule

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/rule"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
)

type Handler struct {
	svc *rule.Service
}

func NewHandler(svc *rule.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.learn)
	r.Get("/suggest", h.suggest)
}

type ruleResponse struct {
	ID        uuid.UUID `json:"id"`
	Pattern   string    `json:"pattern"`
	TagName   string    `json:"tag_name"`
	TagLabel  string    `json:"tag_label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(r *rule.Rule) ruleResponse {
	return ruleResponse{
		ID:        r.ID,
		Pattern:   r.Pattern,
		TagName:   r.TagName,
		TagLabel:  r.TagLabel,
		CreatedAt: r.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("failed to list rules", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]ruleResponse, 0, len(rules))
	for _, rl := range rules {
		resp = append(resp, toResponse(rl))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	Pattern  string `json:"pattern"`
	TagName  string `json:"tag_name"`
	TagLabel string `json:"tag_label"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Pattern == "" || req.TagName == "" {
		http.Error(w, "pattern and tag_name are required", http.StatusBadRequest)
		return
	}

	created, err := h.svc.Learn(r.Context(), req.Pattern, tag.Spec{Name: req.TagName, Label: req.TagLabel})
	if err != nil {
		slog.Error("failed to learn rule", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(created)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		http.Error(w, "description query parameter is required", http.StatusBadRequest)
		return
	}

	match, err := h.svc.Suggest(r.Context(), desc)
	if err != nil {
		if errors.Is(err, rule.ErrNotFound) {
			http.Error(w, "no matching rule", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(match)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
