package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"roomdesign/internal/domain"
	"roomdesign/internal/infra"
	"roomdesign/internal/pipeline"
)

type stubAnalyzer struct {
	analyze func(ctx context.Context, image string) (domain.RoomContext, error)
	detect  func(ctx context.Context, image string) ([]string, error)
}

func (s stubAnalyzer) AnalyzeRoom(ctx context.Context, image string) (domain.RoomContext, error) {
	if s.analyze != nil {
		return s.analyze(ctx, image)
	}
	return domain.RoomContext{
		RoomType:       "living room",
		VisibleObjects: []string{"sofa"},
		WallColor:      "white",
		LightingType:   "natural",
	}, nil
}

func (s stubAnalyzer) DetectFurniture(ctx context.Context, image string) ([]string, error) {
	if s.detect != nil {
		return s.detect(ctx, image)
	}
	return []string{"Sofa", "Coffee Table", "Floor Lamp"}, nil
}

type stubGenerator struct {
	generate func(ctx context.Context, cfg domain.GenerationConfig) (string, error)
}

func (s stubGenerator) Generate(ctx context.Context, cfg domain.GenerationConfig) (string, error) {
	if s.generate != nil {
		return s.generate(ctx, cfg)
	}
	return "data:image/png;base64,Zg==", nil
}

func newTestApp(analyzer stubAnalyzer, generator stubGenerator) *App {
	policy := pipeline.StagePolicy{Attempts: 2, Delay: time.Millisecond, Timeout: time.Second}
	p := pipeline.New(pipeline.Options{
		Vision:         analyzer,
		Generator:      generator,
		Logger:         zerolog.Nop(),
		AnalyzePolicy:  policy,
		GeneratePolicy: policy,
		DetectPolicy:   policy,
		MaxConcurrent:  2,
	})
	cfg := &infra.Config{AppEnv: "test", MaxUploadMB: 10}
	return NewApp(zerolog.Nop(), cfg, p)
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func multipartPhoto(t *testing.T, fieldContentType string, payload []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="room.jpg"`)
	header.Set("Content-Type", fieldContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestHealth(t *testing.T) {
	app := newTestApp(stubAnalyzer{}, stubGenerator{})
	rec := httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestRedesignHappyPath(t *testing.T) {
	app := newTestApp(stubAnalyzer{}, stubGenerator{})
	body, contentType := multipartPhoto(t, "image/jpeg", []byte("jpegdata"), map[string]string{
		"intent": "warm and cozy",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/redesign", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	app.Redesign(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec.Body)
	if !env.Success {
		t.Fatalf("success = false: %s", env.Error)
	}
	raw, _ := json.Marshal(env.Data)
	var result pipeline.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.State != pipeline.StateComplete {
		t.Fatalf("state = %q", result.State)
	}
	if result.RoomContext.RoomType != "living room" {
		t.Fatalf("room_type = %q", result.RoomContext.RoomType)
	}
	if len(result.Furniture) < 3 {
		t.Fatalf("furniture count = %d", len(result.Furniture))
	}
	if result.Furniture[0].SearchURLs.Amazon == "" {
		t.Fatal("missing search urls")
	}
}

func TestRedesignRejectsBadType(t *testing.T) {
	app := newTestApp(stubAnalyzer{}, stubGenerator{})
	body, contentType := multipartPhoto(t, "image/gif", []byte("gifdata"), nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/redesign", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	app.Redesign(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	if env.Success {
		t.Fatal("success = true for invalid type")
	}
	if !strings.Contains(env.Error, "Invalid file type") {
		t.Fatalf("error = %q", env.Error)
	}
}

func TestRedesignMissingPhoto(t *testing.T) {
	app := newTestApp(stubAnalyzer{}, stubGenerator{})
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("intent", "modern")
	_ = writer.Close()
	req := httptest.NewRequest(http.MethodPost, "/v1/redesign", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	app.Redesign(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAnalyzeRoomHappyPath(t *testing.T) {
	app := newTestApp(stubAnalyzer{}, stubGenerator{})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze-room", strings.NewReader(`{"image_base64":"aGVsbG8="}`))
	rec := httptest.NewRecorder()

	app.AnalyzeRoom(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	if !env.Success {
		t.Fatalf("success = false: %s", env.Error)
	}
	data, _ := json.Marshal(env.Data)
	if !strings.Contains(string(data), "living room") {
		t.Fatalf("data = %s", data)
	}
}

func TestAnalyzeRoomRequiresImage(t *testing.T) {
	app := newTestApp(stubAnalyzer{}, stubGenerator{})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze-room", strings.NewReader(`{"image_base64":"  "}`))
	rec := httptest.NewRecorder()

	app.AnalyzeRoom(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGenerateImageHappyPath(t *testing.T) {
	var gotPrompt string
	generator := stubGenerator{
		generate: func(ctx context.Context, cfg domain.GenerationConfig) (string, error) {
			gotPrompt = cfg.Prompt
			return "data:image/png;base64,Zg==", nil
		},
	}
	app := newTestApp(stubAnalyzer{}, generator)
	payload := `{"user_intent":{"text":"warm and cozy"},"room_context":{"room_type":"bedroom","visible_objects":[],"wall_color":"beige","lighting_type":"warm artificial"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/generate-image", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	app.GenerateImage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(strings.ToLower(gotPrompt), "exact room geometry preserved") {
		t.Fatalf("prompt %q missing geometry lock", gotPrompt)
	}
	env := decodeEnvelope(t, rec.Body)
	if !env.Success {
		t.Fatalf("success = false: %s", env.Error)
	}
}

func TestGenerateImageRequiresRoomContext(t *testing.T) {
	app := newTestApp(stubAnalyzer{}, stubGenerator{})
	req := httptest.NewRequest(http.MethodPost, "/v1/generate-image", strings.NewReader(`{"user_intent":{"text":"x"}}`))
	rec := httptest.NewRecorder()

	app.GenerateImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDetectFurnitureClampsAndLinks(t *testing.T) {
	analyzer := stubAnalyzer{
		detect: func(ctx context.Context, image string) ([]string, error) {
			return []string{"Sofa", "Table", "Lamp", "Rug", "Art", "Plant", "Clock"}, nil
		},
	}
	app := newTestApp(analyzer, stubGenerator{})
	req := httptest.NewRequest(http.MethodPost, "/v1/detect-furniture", strings.NewReader(`{"image_base64":"aGVsbG8="}`))
	rec := httptest.NewRecorder()

	app.DetectFurniture(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	raw, _ := json.Marshal(env.Data)
	var categories []domain.FurnitureCategory
	if err := json.Unmarshal(raw, &categories); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(categories) != 6 {
		t.Fatalf("count = %d, want clamp to 6", len(categories))
	}
	for _, c := range categories {
		if c.SearchURLs.Amazon == "" || c.SearchURLs.Flipkart == "" || c.SearchURLs.Pepperfry == "" {
			t.Fatalf("category %q missing urls", c.Category)
		}
	}
}
