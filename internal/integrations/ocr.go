package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kajianhub/backend/internal/config"
)

// OCRClient calls the external image-to-text service. The service owns all
// recognition quality concerns; this client only moves bytes and surfaces
// errors.
type OCRClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type ocrRequest struct {
	ImageURL string `json:"imageUrl"`
	Language string `json:"language"`
}

type ocrResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// NewOCRClient creates the client; returns nil when no endpoint is
// configured.
func NewOCRClient(cfg config.OCRConfig) *OCRClient {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil
	}
	return &OCRClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// ExtractText runs OCR over the image behind imageURL and returns the raw
// recognized text.
func (c *OCRClient) ExtractText(ctx context.Context, imageURL string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("ocr client is not configured")
	}
	payload, err := json.Marshal(ocrRequest{ImageURL: imageURL, Language: "ind"})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr service: status %d", resp.StatusCode)
	}
	var parsed ocrResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ocr service: invalid response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ocr service: %s", parsed.Error)
	}
	return parsed.Text, nil
}
