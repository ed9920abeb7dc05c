// Package shortener turns long frontend links into short ones for chat messages.
package shortener

import (
	"ProgJulia/internal/lib/sl"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const tinyURLEndpoint = "http://tinyurl.com/api-create.php"

// TinyURL shortens links through the TinyURL create API.
// Shorten never fails: on any error the original link is returned.
type TinyURL struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

func NewTinyURL(log *slog.Logger) *TinyURL {
	return &TinyURL{
		endpoint:   tinyURLEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.With(sl.Module("tinyurl")),
	}
}

func (t *TinyURL) Shorten(ctx context.Context, link string) string {
	short, err := t.doRequest(ctx, link)
	if err != nil {
		t.log.With(
			slog.String("url", link),
			sl.Err(err),
		).Warn("shorten link")
		return link
	}
	return short
}

func (t *TinyURL) doRequest(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?url="+url.QueryEscape(link), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tinyurl returned %d: %s", resp.StatusCode, string(body))
	}

	short := strings.TrimSpace(string(body))
	if !strings.HasPrefix(short, "http") {
		return "", fmt.Errorf("unexpected tinyurl response: %q", short)
	}
	return short, nil
}
