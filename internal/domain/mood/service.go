package mood

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/uuid"

	"github.com/yanqian/mood-engine/internal/domain/biometrics"
)

// Service turns a biometric reading into a mood analysis.
type Service interface {
	Analyze(ctx context.Context, reading biometrics.Reading) (Analysis, error)
}

type service struct {
	cfg       Config
	generator Generator
	cache     ResponseCache
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires up the mood analysis client.
func NewService(cfg Config, generator Generator, cache ResponseCache, logger *slog.Logger) Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &service{
		cfg:       cfg,
		generator: generator,
		cache:     cache,
		logger:    logger.With("component", "mood.service"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *service) Analyze(ctx context.Context, reading biometrics.Reading) (Analysis, error) {
	prompt := BuildPrompt(reading)
	key := cacheKey(s.cfg.Model, prompt)

	if text, ok := s.cache.Get(key); ok {
		analysis, err := s.decode(text)
		if err == nil {
			s.logger.Debug("mood analysis served from cache")
			return s.finish(analysis, reading, GenerateResult{Model: s.cfg.Model}), nil
		}
		s.logger.Warn("cached mood analysis invalid, refetching", "error", err)
	}

	result, err := s.generate(ctx, GenerateRequest{
		Model:       s.cfg.Model,
		Prompt:      prompt,
		Schema:      ResponseSchema(),
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Analysis{}, err
	}
	s.logger.Debug("mood analysis response received", "content", result.Text)

	analysis, err := s.decode(result.Text)
	if err != nil {
		s.logger.Warn("mood analysis response malformed", "error", err, "content", result.Text)
		return Analysis{}, err
	}
	s.cache.Set(key, result.Text)

	out := s.finish(analysis, reading, result)
	s.logger.Info("mood analysis completed", "analysis_id", out.ID, "dominant_mood", out.DominantMood, "model", out.Model)
	return out, nil
}

func (s *service) generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	attempts := s.cfg.Retry.Attempts
	if attempts == 0 {
		attempts = 1
	}

	var result GenerateResult
	err := retry.Do(
		func() error {
			var callErr error
			result, callErr = s.generator.Generate(ctx, req)
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(s.cfg.Retry.Delay),
		retry.MaxDelay(s.cfg.Retry.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return KindOf(err) == KindTransport && IsTemporary(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("retrying mood analysis call", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		if !IsServiceError(err) {
			err = TransportError("inference request failed", err)
		}
		s.logger.Error("mood analysis call failed", "kind", KindOf(err), "error", err)
		return GenerateResult{}, err
	}
	return result, nil
}

func (s *service) decode(text string) (Analysis, error) {
	analysis, err := ParseAnalysis(text)
	if err != nil {
		return Analysis{}, err
	}
	recs, err := normalizeRecommendations(analysis.Recommendations, s.newID)
	if err != nil {
		return Analysis{}, err
	}
	analysis.Recommendations = recs
	return analysis, nil
}

func (s *service) finish(analysis Analysis, reading biometrics.Reading, result GenerateResult) Analysis {
	analysis.ID = s.newID()
	analysis.Reading = reading
	analysis.Model = firstNonEmpty(result.Model, s.cfg.Model)
	analysis.CreatedAt = s.now().UTC()
	if !result.Usage.IsZero() {
		usage := result.Usage.Normalize()
		analysis.Usage = &usage
	}
	return analysis
}

func cacheKey(model, prompt string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return "mood:" + hex.EncodeToString(h.Sum(nil))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
