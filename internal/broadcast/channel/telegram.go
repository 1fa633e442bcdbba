// Package channel pulls raw broadcast bodies from public Telegram channel
// preview pages (t.me/s/...). It returns message text only; extraction is the
// broadcast package's job.
package channel

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"kajianhub/backend/internal/broadcast/fetch"

	"github.com/PuerkitoBio/goquery"
)

const maxPages = 4

// Reader fetches message bodies from a public channel.
type Reader struct {
	fetcher *fetch.Client
	logger  *slog.Logger
}

func NewReader(fetcher *fetch.Client, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if fetcher == nil {
		fetcher = fetch.New(logger, fetch.Config{})
	}
	return &Reader{fetcher: fetcher, logger: logger}
}

// Messages returns up to limit recent message bodies from the channel, newest
// page first. Input may be a channel name, @name, or a t.me URL.
func (r *Reader) Messages(ctx context.Context, input string, limit int) ([]string, error) {
	pageURL, err := NormalizeChannelInput(input)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	var messages []string
	seen := make(map[int64]struct{})
	currentURL := pageURL
	for page := 0; page < maxPages && len(messages) < limit; page++ {
		body, status, err := r.fetcher.Get(ctx, currentURL)
		if err != nil {
			return nil, err
		}
		if status >= http.StatusBadRequest {
			return nil, fmt.Errorf("channel fetch failed: status %d", status)
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		var minPostID int64
		doc.Find("div.tgme_widget_message").Each(func(_ int, message *goquery.Selection) {
			postID := parsePostID(message.AttrOr("data-post", ""))
			if postID > 0 {
				if _, dup := seen[postID]; dup {
					return
				}
				seen[postID] = struct{}{}
				if minPostID == 0 || postID < minPostID {
					minPostID = postID
				}
			}
			text := messageText(message.Find("div.tgme_widget_message_text").First())
			if text == "" {
				return
			}
			messages = append(messages, text)
		})

		if minPostID <= 1 {
			break
		}
		nextURL := beforeURL(pageURL, minPostID)
		if nextURL == currentURL {
			break
		}
		currentURL = nextURL
	}
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

// messageText extracts the body preserving line structure: the preview page
// renders author line breaks as <br>.
func messageText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	html, err := sel.Html()
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	html = strings.ReplaceAll(html, "<br>", "\n")
	html = strings.ReplaceAll(html, "<br/>", "\n")
	html = strings.ReplaceAll(html, "<br />", "\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(doc.Text())
}

// NormalizeChannelInput turns a channel name, @name, or t.me link into the
// preview page URL.
func NormalizeChannelInput(input string) (string, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "@"))
	if trimmed == "" {
		return "", fmt.Errorf("channel is empty")
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		u, err := url.Parse(trimmed)
		if err != nil || u.Hostname() == "" {
			return "", fmt.Errorf("invalid channel URL")
		}
		if u.Hostname() != "t.me" {
			return "", fmt.Errorf("expected t.me URL")
		}
		name := strings.TrimPrefix(strings.TrimPrefix(u.Path, "/s/"), "/")
		name = strings.TrimSuffix(name, "/")
		if name == "" || strings.Contains(name, "/") {
			return "", fmt.Errorf("invalid channel URL")
		}
		return "https://t.me/s/" + name, nil
	}
	if strings.ContainsAny(trimmed, "/ ") {
		return "", fmt.Errorf("invalid channel name")
	}
	return "https://t.me/s/" + trimmed, nil
}

func parsePostID(dataPost string) int64 {
	parts := strings.Split(strings.TrimSpace(dataPost), "/")
	if len(parts) != 2 {
		return 0
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func beforeURL(baseURL string, before int64) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	q.Set("before", strconv.FormatInt(before, 10))
	u.RawQuery = q.Encode()
	return u.String()
}
