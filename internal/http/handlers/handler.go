package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"kajianhub/backend/internal/broadcast/channel"
	"kajianhub/backend/internal/config"
	"kajianhub/backend/internal/geocode"
	authmw "kajianhub/backend/internal/http/middleware"
	"kajianhub/backend/internal/integrations"
	"kajianhub/backend/internal/rate"
	"kajianhub/backend/internal/repository"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	repo         *repository.Repository
	s3           *integrations.S3Client
	ocr          *integrations.OCRClient
	llm          *integrations.LLMClient
	channels     *channel.Reader
	geocoder     *geocode.Client
	cfg          *config.Config
	logger       *slog.Logger
	validator    *validator.Validate
	parseLimiter *rate.WindowLimiter
}

func New(repo *repository.Repository, s3 *integrations.S3Client, ocr *integrations.OCRClient, llm *integrations.LLMClient, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:         repo,
		s3:           s3,
		ocr:          ocr,
		llm:          llm,
		channels:     channel.NewReader(nil, logger),
		geocoder:     geocode.NewClient(geocode.Config{}),
		cfg:          cfg,
		logger:       logger,
		validator:    validator.New(),
		parseLimiter: rate.NewWindowLimiter(30, time.Minute),
	}
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}

func (h *Handler) loggerForRequest(r *http.Request) *slog.Logger {
	logger := h.logger
	if logger == nil {
		return slog.Default()
	}
	if reqID := chimw.GetReqID(r.Context()); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if login, ok := authmw.AdminLoginFromContext(r.Context()); ok {
		logger = logger.With("admin", login)
	}
	return logger
}

// allowParse applies the per-admin window limit shared by the parse
// endpoints, which fan out to external services.
func (h *Handler) allowParse(r *http.Request) bool {
	login, ok := authmw.AdminLoginFromContext(r.Context())
	if !ok {
		login = r.RemoteAddr
	}
	return h.parseLimiter.Allow(login)
}
