package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/mood-engine/internal/domain/biometrics"
	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/domain/session"
	"github.com/yanqian/mood-engine/internal/infra/config"
	apperrors "github.com/yanqian/mood-engine/pkg/errors"
)

func TestRouter_GetBiometricsReturnsDefault(t *testing.T) {
	server, _ := newRouterUnderTest(t, &stubSession{})

	recorder := performRequest(server, http.MethodGet, "/api/v1/biometrics", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var got biometricsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, biometrics.Default(), got.Reading)
	require.Len(t, got.Ranges, 7)
}

func TestRouter_UpdateBiometric(t *testing.T) {
	server, holder := newRouterUnderTest(t, &stubSession{})

	recorder := performRequest(server, http.MethodPatch, "/api/v1/biometrics", `{"field":"stressLevel","value":0}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, float64(0), holder.Current().StressLevel)
	require.Equal(t, biometrics.Default().HeartRate, holder.Current().HeartRate)
}

func TestRouter_UpdateBiometricUnknownField(t *testing.T) {
	server, holder := newRouterUnderTest(t, &stubSession{})

	recorder := performRequest(server, http.MethodPatch, "/api/v1/biometrics", `{"field":"mood","value":3}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "invalid_input", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
	require.Equal(t, biometrics.Default(), holder.Current())
}

func TestRouter_UpdateBiometricMissingValue(t *testing.T) {
	server, _ := newRouterUnderTest(t, &stubSession{})

	recorder := performRequest(server, http.MethodPatch, "/api/v1/biometrics", `{"field":"steps"}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_ReplaceBiometrics(t *testing.T) {
	server, holder := newRouterUnderTest(t, &stubSession{})
	body := `{"heartRate":90,"hrv":40,"sleepQuality":60,"sleepDuration":6,"stressLevel":70,"steps":3000,"meetingsDuration":5}`

	recorder := performRequest(server, http.MethodPut, "/api/v1/biometrics", body)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, biometrics.Reading{
		HeartRate:        90,
		HRV:              40,
		SleepQuality:     60,
		SleepDuration:    6,
		StressLevel:      70,
		Steps:            3000,
		MeetingsDuration: 5,
	}, holder.Current())
}

func TestRouter_ReplaceBiometricsAcceptsZeroValues(t *testing.T) {
	server, holder := newRouterUnderTest(t, &stubSession{})
	body := `{"heartRate":50,"hrv":0,"sleepQuality":0,"sleepDuration":0,"stressLevel":0,"steps":0,"meetingsDuration":0}`

	recorder := performRequest(server, http.MethodPut, "/api/v1/biometrics", body)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, biometrics.Reading{HeartRate: 50}, holder.Current())
}

func TestRouter_ReplaceBiometricsRejectsPartialBody(t *testing.T) {
	for _, body := range []string{`{"heartRate":90}`, `{}`} {
		server, holder := newRouterUnderTest(t, &stubSession{})

		recorder := performRequest(server, http.MethodPut, "/api/v1/biometrics", body)
		require.Equal(t, http.StatusBadRequest, recorder.Code, body)
		require.Equal(t, "invalid_request", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
		require.Equal(t, biometrics.Default(), holder.Current())
	}
}

func TestRouter_ApplyPreset(t *testing.T) {
	server, holder := newRouterUnderTest(t, &stubSession{})
	preset, ok := biometrics.LookupPreset("restored-athlete")
	require.True(t, ok)

	recorder := performRequest(server, http.MethodPost, "/api/v1/presets/restored-athlete/apply", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, preset.Reading, holder.Current())

	recorder = performRequest(server, http.MethodPost, "/api/v1/presets/nope/apply", "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, "preset_not_found", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_ResetBiometrics(t *testing.T) {
	server, holder := newRouterUnderTest(t, &stubSession{})
	_, err := holder.Update(biometrics.FieldSteps, 100)
	require.NoError(t, err)

	recorder := performRequest(server, http.MethodPost, "/api/v1/biometrics/reset", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, biometrics.Default(), holder.Current())
}

func TestRouter_AnalyzeSuccess(t *testing.T) {
	analysis := mood.Analysis{ID: "a-1", Summary: "Calm", DominantMood: "Relaxed"}
	svc := &stubSession{
		analyzeFn: func(ctx context.Context) (mood.Analysis, error) { return analysis, nil },
	}
	server, _ := newRouterUnderTest(t, svc)

	recorder := performRequest(server, http.MethodPost, "/api/v1/analyses", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var got mood.Analysis
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "a-1", got.ID)
	require.Equal(t, "Relaxed", got.DominantMood)
}

func TestRouter_AnalyzeFailureHidesCause(t *testing.T) {
	svc := &stubSession{
		analyzeFn: func(ctx context.Context) (mood.Analysis, error) {
			cause := mood.AuthError("gemini rejected credentials", errors.New("API key not valid"))
			return mood.Analysis{}, apperrors.Wrap(session.CodeAnalysisFailed, session.FailureMessage, cause)
		},
	}
	server, _ := newRouterUnderTest(t, svc)

	recorder := performRequest(server, http.MethodPost, "/api/v1/analyses", "")
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "analysis_failed", body["error"]["code"])
	require.Equal(t, session.FailureMessage, body["error"]["message"])
	require.NotContains(t, recorder.Body.String(), "API key")
}

func TestRouter_AnalyzeInFlight(t *testing.T) {
	svc := &stubSession{
		analyzeFn: func(ctx context.Context) (mood.Analysis, error) {
			return mood.Analysis{}, apperrors.Wrap(session.CodeInFlight, "an analysis is already in progress", nil)
		},
	}
	server, _ := newRouterUnderTest(t, svc)

	recorder := performRequest(server, http.MethodPost, "/api/v1/analyses", "")
	require.Equal(t, http.StatusConflict, recorder.Code)
	require.Equal(t, "analysis_in_flight", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_SelectRecommendation(t *testing.T) {
	rec := mood.Recommendation{ID: "r-2", Category: mood.CategoryMedia, Title: "Lo-fi"}
	svc := &stubSession{
		selectFn: func(id string) (mood.Recommendation, error) {
			if id != rec.ID {
				return mood.Recommendation{}, apperrors.Wrap(session.CodeInvalidSelection, "unknown", nil)
			}
			return rec, nil
		},
	}
	server, _ := newRouterUnderTest(t, svc)

	recorder := performRequest(server, http.MethodPut, "/api/v1/session/selection", `{"id":"r-2"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	var got selectResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, rec, got.Recommendation)

	recorder = performRequest(server, http.MethodPut, "/api/v1/session/selection", `{"id":"missing"}`)
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	require.Equal(t, "invalid_selection", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_ClearSelection(t *testing.T) {
	svc := &stubSession{}
	server, _ := newRouterUnderTest(t, svc)

	recorder := performRequest(server, http.MethodDelete, "/api/v1/session/selection", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, svc.cleared)
}

func TestRouter_History(t *testing.T) {
	svc := &stubSession{
		historyFn: func(ctx context.Context, limit int) ([]mood.Analysis, error) {
			require.Equal(t, 2, limit)
			return []mood.Analysis{{ID: "new"}, {ID: "old"}}, nil
		},
	}
	server, _ := newRouterUnderTest(t, svc)

	recorder := performRequest(server, http.MethodGet, "/api/v1/analyses/history?limit=2", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var got historyResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Len(t, got.Items, 2)
	require.Equal(t, "new", got.Items[0].ID)

	recorder = performRequest(server, http.MethodGet, "/api/v1/analyses/history?limit=abc", "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	holder := biometrics.NewHolder(newTestLogger())
	cfg := testConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server := NewRouter(cfg, NewHandler(holder, &stubSession{}, newTestLogger()))

	require.Equal(t, http.StatusOK, performRequest(server, http.MethodGet, "/healthz", "").Code)
	recorder := performRequest(server, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.Equal(t, "60", recorder.Header().Get("Retry-After"))
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	holder := biometrics.NewHolder(newTestLogger())
	cfg := testConfig()
	cfg.HTTP.AllowedOrigins = []string{"https://dash.example"}
	server := NewRouter(cfg, NewHandler(holder, &stubSession{}, newTestLogger()))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/biometrics", nil)
	req.Header.Set("Origin", "https://dash.example")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://dash.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func performRequest(server *http.Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc session.Service) (*http.Server, *biometrics.Holder) {
	t.Helper()
	holder := biometrics.NewHolder(newTestLogger())
	handler := NewHandler(holder, svc, newTestLogger())
	return NewRouter(testConfig(), handler), holder
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubSession struct {
	analyzeFn func(ctx context.Context) (mood.Analysis, error)
	selectFn  func(id string) (mood.Recommendation, error)
	historyFn func(ctx context.Context, limit int) ([]mood.Analysis, error)
	cleared   bool
}

func (s *stubSession) Analyze(ctx context.Context) (mood.Analysis, error) {
	if s.analyzeFn != nil {
		return s.analyzeFn(ctx)
	}
	return mood.Analysis{}, nil
}

func (s *stubSession) Select(id string) (mood.Recommendation, error) {
	if s.selectFn != nil {
		return s.selectFn(id)
	}
	return mood.Recommendation{}, nil
}

func (s *stubSession) ClearSelection() { s.cleared = true }

func (s *stubSession) Snapshot() session.Snapshot {
	return session.Snapshot{State: session.StateIdle}
}

func (s *stubSession) History(ctx context.Context, limit int) ([]mood.Analysis, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, limit)
	}
	return nil, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
