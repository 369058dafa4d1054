// Package pipeline sequences one redesign run: analyze the room, build
// prompts, generate the redesigned image, detect furniture in the result.
// Stages run strictly in order; each stage's output is the next stage's
// input. Stage retry and fallback policies differ on purpose: vision stages
// self-heal with fixed fallbacks, generation degrades to the placeholder
// marker.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/semaphore"

	"roomdesign/internal/domain"
	"roomdesign/internal/furniture"
	"roomdesign/internal/infra"
	"roomdesign/internal/prompt"
	"roomdesign/internal/providers/imagegen"
	"roomdesign/internal/providers/vision"
)

type Stage string

const (
	StageAnalyze  Stage = "analyze"
	StageGenerate Stage = "generate"
	StageDetect   Stage = "detect_furniture"
)

type State string

const (
	StateIdle       State = "idle"
	StateAnalyzing  State = "analyzing"
	StateGenerating State = "generating"
	StateDetecting  State = "detecting_furniture"
	StateComplete   State = "complete"
	StateFailed     State = "failed"
)

// StagePolicy bounds one external call: total attempts, fixed delay between
// them, and a per-attempt timeout.
type StagePolicy struct {
	Attempts uint
	Delay    time.Duration
	Timeout  time.Duration
}

func DefaultAnalyzePolicy() StagePolicy {
	return StagePolicy{Attempts: 2, Delay: 2 * time.Second, Timeout: 30 * time.Second}
}

func DefaultGeneratePolicy() StagePolicy {
	return StagePolicy{Attempts: 2, Delay: 3 * time.Second, Timeout: 90 * time.Second}
}

func DefaultDetectPolicy() StagePolicy {
	return StagePolicy{Attempts: 2, Delay: 2 * time.Second, Timeout: 30 * time.Second}
}

type Options struct {
	Vision         vision.Analyzer
	Generator      imagegen.Generator
	Logger         infra.Logger
	AnalyzePolicy  StagePolicy
	GeneratePolicy StagePolicy
	DetectPolicy   StagePolicy
	MaxConcurrent  int64
}

// Pipeline owns the adapters and bounds how many runs execute at once.
// Construct once at startup and share; each Run operates on its own input
// snapshot, no state is carried between runs.
type Pipeline struct {
	vision         vision.Analyzer
	generator      imagegen.Generator
	logger         infra.Logger
	analyzePolicy  StagePolicy
	generatePolicy StagePolicy
	detectPolicy   StagePolicy
	sem            *semaphore.Weighted
}

func New(opts Options) *Pipeline {
	if opts.AnalyzePolicy.Attempts == 0 {
		opts.AnalyzePolicy = DefaultAnalyzePolicy()
	}
	if opts.GeneratePolicy.Attempts == 0 {
		opts.GeneratePolicy = DefaultGeneratePolicy()
	}
	if opts.DetectPolicy.Attempts == 0 {
		opts.DetectPolicy = DefaultDetectPolicy()
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Pipeline{
		vision:         opts.Vision,
		generator:      opts.Generator,
		logger:         opts.Logger,
		analyzePolicy:  opts.AnalyzePolicy,
		generatePolicy: opts.GeneratePolicy,
		detectPolicy:   opts.DetectPolicy,
		sem:            semaphore.NewWeighted(maxConcurrent),
	}
}

type RunInput struct {
	ImageBase64 string
	Intent      domain.UserIntent
}

// Result carries everything a completed run produced. Fallbacks records
// which stages degraded to their fixed defaults; a placeholder ImageURL
// shows up there as a generate entry.
type Result struct {
	State       State                      `json:"state"`
	FailedStage Stage                      `json:"failed_stage,omitempty"`
	RoomContext domain.RoomContext         `json:"room_context"`
	Prompt      domain.OptimizedPrompt     `json:"prompt"`
	ImageURL    string                     `json:"image_url"`
	Furniture   []domain.FurnitureCategory `json:"furniture"`
	Fallbacks   []Stage                    `json:"fallbacks,omitempty"`
}

// Run executes the full pipeline. Vision failures self-heal via fixed
// fallbacks; generation exhaustion degrades to the placeholder marker. Only
// context cancellation fails the run outright, reporting the stage that was
// in flight. Retrying means calling Run again with the same input; nothing
// is resumed or cached.
func (p *Pipeline) Run(ctx context.Context, input RunInput) (*Result, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire pipeline slot: %w", err)
	}
	defer p.sem.Release(1)

	result := &Result{State: StateAnalyzing}

	roomContext, err := p.analyzeRoom(ctx, input.ImageBase64)
	if err != nil {
		if ctx.Err() != nil {
			return p.fail(result, StageAnalyze, err)
		}
		p.logger.Warn().Err(err).Str("stage", string(StageAnalyze)).Msg("analysis failed, using fallback room context")
		roomContext = vision.FallbackRoomContext()
		result.Fallbacks = append(result.Fallbacks, StageAnalyze)
	}
	result.RoomContext = roomContext

	result.Prompt = prompt.Optimize(input.Intent, roomContext)

	result.State = StateGenerating
	imageURL, err := p.generateImage(ctx, result.Prompt, input.ImageBase64)
	if err != nil {
		if ctx.Err() != nil {
			return p.fail(result, StageGenerate, err)
		}
		p.logger.Error().Err(err).Str("stage", string(StageGenerate)).Msg("generation failed, returning placeholder")
		imageURL = imagegen.PlaceholderURL
		result.Fallbacks = append(result.Fallbacks, StageGenerate)
	}
	result.ImageURL = imageURL

	result.State = StateDetecting
	categories, err := p.detectFurniture(ctx, imageURL, input.ImageBase64)
	if err != nil {
		if ctx.Err() != nil {
			return p.fail(result, StageDetect, err)
		}
		p.logger.Warn().Err(err).Str("stage", string(StageDetect)).Msg("detection failed, using generic categories")
		categories = vision.GenericCategories()
		result.Fallbacks = append(result.Fallbacks, StageDetect)
	}
	result.Furniture = furniture.Categories(vision.ClampCategories(categories))

	result.State = StateComplete
	return result, nil
}

// Analyze runs only the analysis stage with its retry policy. The boolean
// reports whether the fixed fallback context was used.
func (p *Pipeline) Analyze(ctx context.Context, imageBase64 string) (domain.RoomContext, bool, error) {
	roomContext, err := p.analyzeRoom(ctx, imageBase64)
	if err != nil {
		if ctx.Err() != nil {
			return domain.RoomContext{}, false, fmt.Errorf("%w: %s: %v", domain.ErrStageFailed, StageAnalyze, err)
		}
		p.logger.Warn().Err(err).Str("stage", string(StageAnalyze)).Msg("analysis failed, using fallback room context")
		return vision.FallbackRoomContext(), true, nil
	}
	return roomContext, false, nil
}

// Detect runs only the furniture-detection stage, clamps the outcome, and
// attaches search URLs. The boolean reports fallback use.
func (p *Pipeline) Detect(ctx context.Context, imageBase64 string) ([]domain.FurnitureCategory, bool, error) {
	categories, err := p.detectFurniture(ctx, imageBase64, imageBase64)
	fallback := false
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("%w: %s: %v", domain.ErrStageFailed, StageDetect, err)
		}
		p.logger.Warn().Err(err).Str("stage", string(StageDetect)).Msg("detection failed, using generic categories")
		categories = vision.GenericCategories()
		fallback = true
	}
	return furniture.Categories(vision.ClampCategories(categories)), fallback, nil
}

// Generate builds the prompts and runs only the generation stage. On
// exhaustion the placeholder marker is returned and the boolean is set.
func (p *Pipeline) Generate(ctx context.Context, intent domain.UserIntent, roomContext domain.RoomContext, controlImage string) (domain.OptimizedPrompt, string, bool, error) {
	optimized := prompt.Optimize(intent, roomContext)
	imageURL, err := p.generateImage(ctx, optimized, controlImage)
	if err != nil {
		if ctx.Err() != nil {
			return optimized, "", false, fmt.Errorf("%w: %s: %v", domain.ErrStageFailed, StageGenerate, err)
		}
		p.logger.Error().Err(err).Str("stage", string(StageGenerate)).Msg("generation failed, returning placeholder")
		return optimized, imagegen.PlaceholderURL, true, nil
	}
	return optimized, imageURL, false, nil
}

func (p *Pipeline) analyzeRoom(ctx context.Context, imageBase64 string) (domain.RoomContext, error) {
	var roomContext domain.RoomContext
	err := p.withPolicy(ctx, StageAnalyze, p.analyzePolicy, func(attemptCtx context.Context) error {
		var err error
		roomContext, err = p.vision.AnalyzeRoom(attemptCtx, imageBase64)
		return err
	})
	return roomContext, err
}

func (p *Pipeline) generateImage(ctx context.Context, optimized domain.OptimizedPrompt, controlImage string) (string, error) {
	cfg := domain.GenerationConfig{
		Prompt:         optimized.Positive,
		NegativePrompt: optimized.Negative,
		ControlImage:   controlImage,
		NumOutputs:     1,
	}
	var imageURL string
	err := p.withPolicy(ctx, StageGenerate, p.generatePolicy, func(attemptCtx context.Context) error {
		var err error
		imageURL, err = p.generator.Generate(attemptCtx, cfg)
		return err
	})
	return imageURL, err
}

func (p *Pipeline) detectFurniture(ctx context.Context, generatedImage, sourceImage string) ([]string, error) {
	// Detect on the generated result so the shopping list matches what the
	// user sees; the placeholder marker carries no furniture, fall back to
	// the source photo there.
	image := generatedImage
	if image == imagegen.PlaceholderURL {
		image = sourceImage
	}
	var categories []string
	err := p.withPolicy(ctx, StageDetect, p.detectPolicy, func(attemptCtx context.Context) error {
		var err error
		categories, err = p.vision.DetectFurniture(attemptCtx, image)
		return err
	})
	return categories, err
}

func (p *Pipeline) withPolicy(ctx context.Context, stage Stage, policy StagePolicy, fn func(context.Context) error) error {
	return retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
			defer cancel()
			return fn(attemptCtx)
		},
		retry.Context(ctx),
		retry.Attempts(policy.Attempts),
		retry.Delay(policy.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			p.logger.Warn().Err(err).Str("stage", string(stage)).Uint("attempt", attempt+1).Msg("stage attempt failed, retrying")
		}),
	)
}

func (p *Pipeline) fail(result *Result, stage Stage, err error) (*Result, error) {
	result.State = StateFailed
	result.FailedStage = stage
	p.logger.Error().Err(err).Str("stage", string(stage)).Msg("pipeline failed")
	return result, fmt.Errorf("%w: %s: %v", domain.ErrStageFailed, stage, err)
}
