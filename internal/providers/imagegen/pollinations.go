package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomdesign/internal/domain"
)

type PollinationsOptions struct {
	BaseURL    string
	Width      int
	Height     int
	HTTPClient *http.Client
}

// PollinationsGenerator drives the free Pollinations image API: the whole
// request is a GET with the prompt in the path.
type PollinationsGenerator struct {
	baseURL string
	width   int
	height  int
	client  *http.Client
}

const (
	pollinationsDefaultTimeout = 90 * time.Second
	defaultImageSize           = 512
	maxImageBytes              = 20 << 20
)

func NewPollinationsGenerator(opts PollinationsOptions) *PollinationsGenerator {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://image.pollinations.ai"
	}
	width := opts.Width
	if width <= 0 {
		width = defaultImageSize
	}
	height := opts.Height
	if height <= 0 {
		height = defaultImageSize
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: pollinationsDefaultTimeout}
	}
	return &PollinationsGenerator{
		baseURL: baseURL,
		width:   width,
		height:  height,
		client:  client,
	}
}

func (p *PollinationsGenerator) Generate(ctx context.Context, cfg domain.GenerationConfig) (string, error) {
	cfg.NumOutputs = 1

	prompt := strings.TrimSpace(cfg.Prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: empty prompt", domain.ErrInvalidInput)
	}
	if negative := strings.TrimSpace(cfg.NegativePrompt); negative != "" {
		prompt = prompt + ". Avoid: " + negative
	}

	endpoint := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true&enhance=true",
		p.baseURL, encodeComponent(prompt), p.width, p.height)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build generation request: %w", err)
	}
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: generation request: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: generation status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read generated image: %v", domain.ErrProviderFailure, err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("%w: empty image body", domain.ErrEmptyResponse)
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(body)), nil
}

// encodeComponent percent-encodes for a path segment with %20 for spaces.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
