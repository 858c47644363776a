package biometrics

import (
	"log/slog"
	"sync"

	apperrors "github.com/yanqian/mood-engine/pkg/errors"
)

// Holder owns the current reading. Reads and writes are synchronous.
type Holder struct {
	mu      sync.RWMutex
	current Reading
	logger  *slog.Logger
}

// NewHolder returns a holder initialised to Default.
func NewHolder(logger *slog.Logger) *Holder {
	return &Holder{
		current: Default(),
		logger:  logger.With("component", "biometrics.holder"),
	}
}

// Current returns a copy of the current reading.
func (h *Holder) Current() Reading {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Update replaces one field and leaves the other six untouched.
func (h *Holder) Update(field Field, value float64) (Reading, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	next, err := h.current.With(field, value)
	if err != nil {
		return h.current, apperrors.Wrap("invalid_input", "unknown biometric field", err)
	}
	h.current = next
	h.logger.Debug("biometric updated", "field", field, "value", value)
	return next, nil
}

// ApplyPreset replaces the whole reading.
func (h *Holder) ApplyPreset(r Reading) Reading {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = r
	return r
}

// ApplyPresetByName replaces the reading with a built-in preset.
func (h *Holder) ApplyPresetByName(name string) (Reading, error) {
	preset, ok := LookupPreset(name)
	if !ok {
		return h.Current(), apperrors.Wrap("preset_not_found", "no preset named "+name, nil)
	}
	h.logger.Info("preset applied", "preset", preset.Name)
	return h.ApplyPreset(preset.Reading), nil
}

// Reset restores Default.
func (h *Holder) Reset() Reading {
	return h.ApplyPreset(Default())
}
