package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"kajianhub/backend/internal/broadcast"
	"kajianhub/backend/internal/broadcast/core"
	"kajianhub/backend/internal/models"
)

type parseRequest struct {
	Text string `json:"text" validate:"required"`
}

type parseResponse struct {
	Format  core.Format   `json:"format"`
	Entries []*core.Entry `json:"entries"`
	Via     string        `json:"via"`
}

type importRequest struct {
	Source  string        `json:"source"`
	Entries []*core.Entry `json:"entries" validate:"required,min=1"`
}

type importResponse struct {
	Imported int             `json:"imported"`
	Items    []models.Kajian `json:"items"`
}

type channelParseRequest struct {
	Channel string `json:"channel" validate:"required"`
	Limit   int    `json:"limit"`
}

type channelParseResponse struct {
	Channel  string        `json:"channel"`
	Messages int           `json:"messages"`
	Entries  []*core.Entry `json:"entries"`
}

type geocodeRequest struct {
	Query string `json:"query" validate:"required"`
}

// ParseBroadcast runs the extraction pipeline over raw broadcast text and
// returns the entries without persisting them. When the symbolic pass finds
// nothing and a language model is configured, the text is retried through it.
func (h *Handler) ParseBroadcast(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	if !h.allowParse(r) {
		writeError(w, http.StatusTooManyRequests, "too many parse requests")
		return
	}
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	entries, format, err := broadcast.Parse(req.Text)
	if err != nil {
		var unsupported *core.UnsupportedInputError
		if errors.As(err, &unsupported) {
			writeError(w, http.StatusUnprocessableEntity, unsupported.Error())
			return
		}
		logger.Error("action", "action", "parse_broadcast", "status", "parse_error", "error", err)
		writeError(w, http.StatusInternalServerError, "parse error")
		return
	}

	via := "parser"
	if len(entries) == 0 && h.llm != nil {
		llmEntries, llmErr := h.llm.ExtractEntries(r.Context(), req.Text)
		if llmErr != nil {
			logger.Warn("action", "action", "parse_broadcast", "status", "llm_error", "error", llmErr)
		} else if len(llmEntries) > 0 {
			entries = llmEntries
			via = "llm"
		}
	}

	logger.Info("action", "action", "parse_broadcast", "status", "ok",
		"format", string(format), "entries", len(entries), "via", via)
	writeJSON(w, http.StatusOK, parseResponse{Format: format, Entries: entries, Via: via})
}

// ImportEntries persists reviewed entries from a prior parse call.
func (h *Handler) ImportEntries(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "entries are required")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	source := strings.TrimSpace(req.Source)
	items := make([]models.Kajian, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if entry == nil || !entry.HasIdentity() {
			continue
		}
		created, err := h.repo.CreateKajian(ctx, kajianFromEntry(entry, source))
		if err != nil {
			logger.Error("action", "action", "import_entries", "status", "db_error", "error", err)
			writeError(w, http.StatusInternalServerError, "db error")
			return
		}
		items = append(items, created)
	}

	logger.Info("action", "action", "import_entries", "status", "ok", "imported", len(items))
	writeJSON(w, http.StatusOK, importResponse{Imported: len(items), Items: items})
}

// ParsePoster accepts a poster image upload, stores it, runs OCR over it, and
// parses the recognized text.
func (h *Handler) ParsePoster(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	if !h.allowParse(r) {
		writeError(w, http.StatusTooManyRequests, "too many parse requests")
		return
	}
	if h.s3 == nil || h.ocr == nil {
		writeError(w, http.StatusServiceUnavailable, "poster parsing is not configured")
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("poster")
	if err != nil {
		writeError(w, http.StatusBadRequest, "poster file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key, publicURL, err := h.s3.UploadPoster(r.Context(), header.Filename, contentType, file)
	if err != nil {
		logger.Error("action", "action", "parse_poster", "status", "upload_error", "error", err)
		writeError(w, http.StatusInternalServerError, "upload error")
		return
	}
	presigned, err := h.s3.PresignGetPoster(r.Context(), key)
	if err != nil {
		logger.Error("action", "action", "parse_poster", "status", "presign_error", "error", err)
		writeError(w, http.StatusInternalServerError, "upload error")
		return
	}
	text, err := h.ocr.ExtractText(r.Context(), presigned)
	if err != nil {
		logger.Error("action", "action", "parse_poster", "status", "ocr_error", "error", err)
		writeError(w, http.StatusBadGateway, "ocr error")
		return
	}

	entries, format, err := broadcast.Parse(text)
	if err != nil {
		var unsupported *core.UnsupportedInputError
		if errors.As(err, &unsupported) {
			writeError(w, http.StatusUnprocessableEntity, "poster text is empty")
			return
		}
		logger.Error("action", "action", "parse_poster", "status", "parse_error", "error", err)
		writeError(w, http.StatusInternalServerError, "parse error")
		return
	}
	via := "parser"
	if len(entries) == 0 && h.llm != nil {
		llmEntries, llmErr := h.llm.ExtractEntries(r.Context(), text)
		if llmErr != nil {
			logger.Warn("action", "action", "parse_poster", "status", "llm_error", "error", llmErr)
		} else if len(llmEntries) > 0 {
			entries = llmEntries
			via = "llm"
		}
	}

	logger.Info("action", "action", "parse_poster", "status", "ok",
		"format", string(format), "entries", len(entries), "via", via)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"posterUrl": publicURL,
		"text":      text,
		"format":    format,
		"entries":   entries,
		"via":       via,
	})
}

// ParseChannel pulls recent messages from a public channel and parses each
// one, returning the combined entries.
func (h *Handler) ParseChannel(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	if !h.allowParse(r) {
		writeError(w, http.StatusTooManyRequests, "too many parse requests")
		return
	}
	var req channelParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "channel is required")
		return
	}

	messages, err := h.channels.Messages(r.Context(), req.Channel, req.Limit)
	if err != nil {
		logger.Warn("action", "action", "parse_channel", "status", "fetch_error", "error", err)
		writeError(w, http.StatusBadGateway, "channel fetch error")
		return
	}

	var entries []*core.Entry
	for _, message := range messages {
		parsed, _, parseErr := broadcast.Parse(message)
		if parseErr != nil {
			continue
		}
		entries = append(entries, parsed...)
	}

	logger.Info("action", "action", "parse_channel", "status", "ok",
		"messages", len(messages), "entries", len(entries))
	writeJSON(w, http.StatusOK, channelParseResponse{
		Channel:  strings.TrimSpace(req.Channel),
		Messages: len(messages),
		Entries:  entries,
	})
}

// Geocode resolves a free-form venue query to coordinates.
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req geocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	results, err := h.geocoder.Search(r.Context(), req.Query, 5)
	if err != nil {
		logger.Warn("action", "action", "geocode", "status", "error", "error", err)
		writeError(w, http.StatusBadGateway, "geocode error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func kajianFromEntry(entry *core.Entry, source string) models.Kajian {
	return models.Kajian{
		Region:    entry.Region,
		City:      entry.City,
		Venue:     entry.Venue,
		Address:   entry.Address,
		MapURL:    entry.MapURL,
		Speaker:   entry.Speaker,
		Topic:     entry.Topic,
		TimeLabel: entry.Time,
		DateLabel: entry.Date,
		Contact:   entry.Contact,
		Source:    source,
	}
}
