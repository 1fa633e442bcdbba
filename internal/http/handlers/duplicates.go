package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"kajianhub/backend/internal/dedup"
)

type duplicatesResponse struct {
	EntityType dedup.EntityType `json:"entityType"`
	Groups     []dedup.Group    `json:"groups"`
}

type mergeRequest struct {
	EntityType string   `json:"entityType" validate:"required"`
	Canonical  string   `json:"canonicalName" validate:"required"`
	Variants   []string `json:"variants" validate:"required,min=1"`
}

// ListDuplicates reports suspected duplicate venue or speaker spellings. The
// result is advisory; nothing is changed until a merge is requested.
func (h *Handler) ListDuplicates(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	entityType := dedup.EntityType(strings.TrimSpace(r.URL.Query().Get("type")))
	if !entityType.Valid() {
		writeError(w, http.StatusBadRequest, "type must be venue or speaker")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var records []dedup.NameRecord
	var err error
	if entityType == dedup.EntityVenue {
		records, err = h.repo.VenueNameAggregates(ctx)
	} else {
		records, err = h.repo.SpeakerNameAggregates(ctx)
	}
	if err != nil {
		logger.Error("action", "action", "list_duplicates", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	groups := dedup.FindDuplicates(records, entityType)
	if groups == nil {
		groups = []dedup.Group{}
	}
	logger.Info("action", "action", "list_duplicates", "status", "ok",
		"type", string(entityType), "names", len(records), "groups", len(groups))
	writeJSON(w, http.StatusOK, duplicatesResponse{EntityType: entityType, Groups: groups})
}

// MergeDuplicates rewrites every record carrying a variant spelling to the
// canonical one.
func (h *Handler) MergeDuplicates(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "entityType, canonicalName and variants are required")
		return
	}
	entityType := dedup.EntityType(strings.TrimSpace(req.EntityType))
	if !entityType.Valid() {
		writeError(w, http.StatusBadRequest, "type must be venue or speaker")
		return
	}
	canonical := strings.TrimSpace(req.Canonical)
	variants := make([]string, 0, len(req.Variants))
	for _, variant := range req.Variants {
		variant = strings.TrimSpace(variant)
		if variant == "" || variant == canonical {
			continue
		}
		variants = append(variants, variant)
	}
	if canonical == "" || len(variants) == 0 {
		writeError(w, http.StatusBadRequest, "nothing to merge")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var updated int64
	var err error
	if entityType == dedup.EntityVenue {
		updated, err = h.repo.MergeVenueNames(ctx, canonical, variants)
	} else {
		updated, err = h.repo.MergeSpeakerNames(ctx, canonical, variants)
	}
	if err != nil {
		logger.Error("action", "action", "merge_duplicates", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	logger.Info("action", "action", "merge_duplicates", "status", "ok",
		"type", string(entityType), "canonical", canonical, "variants", len(variants), "updated", updated)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"updated":   updated,
		"canonical": canonical,
	})
}
