package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"roomdesign/internal/domain"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiAnalyzer calls the Gemini generateContent endpoint with an inline
// image and scrapes the JSON reply.
type GeminiAnalyzer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

const geminiDefaultTimeout = 30 * time.Second

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiAnalyzer(opts GeminiOptions) (*GeminiAnalyzer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	// Accept both "gemini-1.5-flash" and the fully qualified
	// "models/gemini-1.5-flash" form; the endpoint adds the prefix itself.
	model := strings.TrimPrefix(strings.TrimSpace(opts.Model), "models/")
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiAnalyzer{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

func (g *GeminiAnalyzer) AnalyzeRoom(ctx context.Context, imageBase64 string) (domain.RoomContext, error) {
	text, err := g.invoke(ctx, analyzePromptText, imageBase64)
	if err != nil {
		return domain.RoomContext{}, err
	}
	parsed, err := parseVisionPayload[roomContextPayload](text)
	if err != nil {
		return domain.RoomContext{}, fmt.Errorf("%w: parse room context: %v", domain.ErrProviderFailure, err)
	}
	return parsed.toDomain()
}

func (g *GeminiAnalyzer) DetectFurniture(ctx context.Context, imageBase64 string) ([]string, error) {
	text, err := g.invoke(ctx, detectPromptText, imageBase64)
	if err != nil {
		return nil, err
	}
	parsed, err := parseVisionPayload[categoriesPayload](text)
	if err != nil {
		return nil, fmt.Errorf("%w: parse categories: %v", domain.ErrProviderFailure, err)
	}
	if len(parsed.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", domain.ErrEmptyResponse)
	}
	return parsed.Categories, nil
}

func (g *GeminiAnalyzer) invoke(ctx context.Context, promptText, imageBase64 string) (string, error) {
	data, mimeType := stripDataURLPrefix(imageBase64)
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: promptText},
				{InlineData: &geminiInlineData{MimeType: mimeType, Data: data}},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.1,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode gemini request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: gemini request: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: gemini status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode gemini response: %v", domain.ErrProviderFailure, err)
	}
	text := extractGeminiText(out)
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned no text", domain.ErrEmptyResponse)
	}
	return text, nil
}

func extractGeminiText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}
