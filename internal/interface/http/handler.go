package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/mood-engine/internal/domain/biometrics"
	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/domain/session"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	holder     *biometrics.Holder
	sessionSvc session.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(holder *biometrics.Holder, sessionSvc session.Service, logger *slog.Logger) *Handler {
	return &Handler{
		holder:     holder,
		sessionSvc: sessionSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

type biometricsResponse struct {
	Reading biometrics.Reading `json:"reading"`
	Ranges  []biometrics.Range `json:"ranges"`
}

type updateFieldRequest struct {
	Field biometrics.Field `json:"field" binding:"required"`
	Value *float64         `json:"value" binding:"required"`
}

// replaceReadingRequest requires every field so a partial body cannot zero
// the rest of the reading.
type replaceReadingRequest struct {
	HeartRate        *float64 `json:"heartRate" binding:"required"`
	HRV              *float64 `json:"hrv" binding:"required"`
	SleepQuality     *float64 `json:"sleepQuality" binding:"required"`
	SleepDuration    *float64 `json:"sleepDuration" binding:"required"`
	StressLevel      *float64 `json:"stressLevel" binding:"required"`
	Steps            *int     `json:"steps" binding:"required"`
	MeetingsDuration *float64 `json:"meetingsDuration" binding:"required"`
}

func (r replaceReadingRequest) reading() biometrics.Reading {
	return biometrics.Reading{
		HeartRate:        *r.HeartRate,
		HRV:              *r.HRV,
		SleepQuality:     *r.SleepQuality,
		SleepDuration:    *r.SleepDuration,
		StressLevel:      *r.StressLevel,
		Steps:            *r.Steps,
		MeetingsDuration: *r.MeetingsDuration,
	}
}

type selectRequest struct {
	ID string `json:"id" binding:"required"`
}

type selectResponse struct {
	Recommendation mood.Recommendation `json:"recommendation"`
	Session        session.Snapshot    `json:"session"`
}

type historyResponse struct {
	Items []mood.Analysis `json:"items"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetBiometrics returns the current reading with the control ranges.
func (h *Handler) GetBiometrics(c *gin.Context) {
	c.JSON(http.StatusOK, biometricsResponse{Reading: h.holder.Current(), Ranges: biometrics.Ranges()})
}

// UpdateBiometric changes a single field of the reading.
func (h *Handler) UpdateBiometric(c *gin.Context) {
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	reading, err := h.holder.Update(req.Field, *req.Value)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, biometricsResponse{Reading: reading, Ranges: biometrics.Ranges()})
}

// ReplaceBiometrics replaces the whole reading at once.
func (h *Handler) ReplaceBiometrics(c *gin.Context) {
	var req replaceReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	reading := h.holder.ApplyPreset(req.reading())
	c.JSON(http.StatusOK, biometricsResponse{Reading: reading, Ranges: biometrics.Ranges()})
}

// ResetBiometrics restores the default reading.
func (h *Handler) ResetBiometrics(c *gin.Context) {
	c.JSON(http.StatusOK, biometricsResponse{Reading: h.holder.Reset(), Ranges: biometrics.Ranges()})
}

// ListPresets returns the built-in scenarios.
func (h *Handler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": biometrics.Presets()})
}

// ApplyPreset replaces the reading with the named preset.
func (h *Handler) ApplyPreset(c *gin.Context) {
	reading, err := h.holder.ApplyPresetByName(c.Param("name"))
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, biometricsResponse{Reading: reading, Ranges: biometrics.Ranges()})
}

// Analyze runs an analysis of the current reading and returns it when it completes.
func (h *Handler) Analyze(c *gin.Context) {
	analysis, err := h.sessionSvc.Analyze(c.Request.Context())
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GetSession returns the view-state snapshot.
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionSvc.Snapshot())
}

// SelectRecommendation marks a recommendation as selected.
func (h *Handler) SelectRecommendation(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	rec, err := h.sessionSvc.Select(req.ID)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, selectResponse{Recommendation: rec, Session: h.sessionSvc.Snapshot()})
}

// ClearSelection deselects the current recommendation.
func (h *Handler) ClearSelection(c *gin.Context) {
	h.sessionSvc.ClearSelection()
	c.JSON(http.StatusOK, h.sessionSvc.Snapshot())
}

// History lists recent analyses, newest first.
func (h *Handler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}
	items, err := h.sessionSvc.History(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	if items == nil {
		items = []mood.Analysis{}
	}
	c.JSON(http.StatusOK, historyResponse{Items: items})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
