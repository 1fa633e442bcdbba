package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kajianhub/backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

type kajianListResponse struct {
	Items []models.Kajian `json:"items"`
	Total int             `json:"total"`
}

type kajianRequest struct {
	Region    string `json:"region"`
	City      string `json:"city" validate:"required"`
	Venue     string `json:"venue" validate:"required"`
	Address   string `json:"address"`
	MapURL    string `json:"mapUrl" validate:"omitempty,url"`
	Speaker   string `json:"speaker"`
	Topic     string `json:"topic"`
	TimeLabel string `json:"time"`
	DateLabel string `json:"date"`
	Contact   string `json:"contact"`
	Source    string `json:"source"`
}

// ListKajian serves the public schedule listing.
func (h *Handler) ListKajian(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	limit := 50
	offset := 0
	if val := strings.TrimSpace(r.URL.Query().Get("limit")); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	if val := strings.TrimSpace(r.URL.Query().Get("offset")); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	items, total, err := h.repo.ListKajian(ctx, city, query, limit, offset)
	if err != nil {
		logger.Error("action", "action", "kajian_list", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, kajianListResponse{Items: items, Total: total})
}

// GetKajian serves one record.
func (h *Handler) GetKajian(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid kajian id")
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	item, err := h.repo.GetKajian(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "kajian not found")
			return
		}
		logger.Error("action", "action", "kajian_get", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateKajian stores a manually entered record.
func (h *Handler) CreateKajian(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req kajianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	item, err := h.repo.CreateKajian(ctx, kajianFromRequest(req))
	if err != nil {
		logger.Error("action", "action", "kajian_create", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// UpdateKajian overwrites an existing record.
func (h *Handler) UpdateKajian(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid kajian id")
		return
	}
	var req kajianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	item := kajianFromRequest(req)
	item.ID = id
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	updated, err := h.repo.UpdateKajian(ctx, item)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "kajian not found")
			return
		}
		logger.Error("action", "action", "kajian_update", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteKajian removes a record.
func (h *Handler) DeleteKajian(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid kajian id")
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	if err := h.repo.DeleteKajian(ctx, id); err != nil {
		logger.Warn("action", "action", "kajian_delete", "status", "not_found", "error", err)
		writeError(w, http.StatusNotFound, "kajian not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func kajianFromRequest(req kajianRequest) models.Kajian {
	return models.Kajian{
		Region:    strings.TrimSpace(req.Region),
		City:      strings.TrimSpace(req.City),
		Venue:     strings.TrimSpace(req.Venue),
		Address:   strings.TrimSpace(req.Address),
		MapURL:    strings.TrimSpace(req.MapURL),
		Speaker:   strings.TrimSpace(req.Speaker),
		Topic:     strings.TrimSpace(req.Topic),
		TimeLabel: strings.TrimSpace(req.TimeLabel),
		DateLabel: strings.TrimSpace(req.DateLabel),
		Contact:   strings.TrimSpace(req.Contact),
		Source:    strings.TrimSpace(req.Source),
	}
}
