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

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
}

// OpenAIAnalyzer calls the chat-completions endpoint with an image content
// part and a JSON response format.
type OpenAIAnalyzer struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
}

const openAIDefaultTimeout = 30 * time.Second

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string              `json:"role"`
	Content []openAIContentPart `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIAnalyzer(opts OpenAIOptions) (*OpenAIAnalyzer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	return &OpenAIAnalyzer{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
	}, nil
}

func (o *OpenAIAnalyzer) AnalyzeRoom(ctx context.Context, imageBase64 string) (domain.RoomContext, error) {
	text, err := o.invoke(ctx, analyzePromptText, imageBase64)
	if err != nil {
		return domain.RoomContext{}, err
	}
	parsed, err := parseVisionPayload[roomContextPayload](text)
	if err != nil {
		return domain.RoomContext{}, fmt.Errorf("%w: parse room context: %v", domain.ErrProviderFailure, err)
	}
	return parsed.toDomain()
}

func (o *OpenAIAnalyzer) DetectFurniture(ctx context.Context, imageBase64 string) ([]string, error) {
	text, err := o.invoke(ctx, detectPromptText, imageBase64)
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

func (o *OpenAIAnalyzer) invoke(ctx context.Context, promptText, imageBase64 string) (string, error) {
	payload := openAIChatRequest{
		Model:          o.model,
		Temperature:    0.1,
		ResponseFormat: &openAIFormat{Type: "json_object"},
		Messages: []openAIMessage{{
			Role: "user",
			Content: []openAIContentPart{
				{Type: "text", Text: promptText},
				{Type: "image_url", ImageURL: &openAIImageURL{URL: asDataURL(imageBase64)}},
			},
		}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode openai request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", o.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build openai request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: openai request: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: openai status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode openai response: %v", domain.ErrProviderFailure, err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: openai returned no text", domain.ErrEmptyResponse)
	}
	return out.Choices[0].Message.Content, nil
}

func asDataURL(image string) string {
	trimmed := strings.TrimSpace(image)
	if strings.HasPrefix(trimmed, "data:") {
		return trimmed
	}
	data, mimeType := stripDataURLPrefix(trimmed)
	return fmt.Sprintf("data:%s;base64,%s", mimeType, data)
}
