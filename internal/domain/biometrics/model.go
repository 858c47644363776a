package biometrics

import (
	"fmt"
	"math"
)

// Reading is the simulated physiological and activity snapshot.
type Reading struct {
	HeartRate        float64 `json:"heartRate"`
	HRV              float64 `json:"hrv"`
	SleepQuality     float64 `json:"sleepQuality"`
	SleepDuration    float64 `json:"sleepDuration"`
	StressLevel      float64 `json:"stressLevel"`
	Steps            int     `json:"steps"`
	MeetingsDuration float64 `json:"meetingsDuration"`
}

// Field names a single Reading value by its wire key.
type Field string

const (
	FieldHeartRate        Field = "heartRate"
	FieldHRV              Field = "hrv"
	FieldSleepQuality     Field = "sleepQuality"
	FieldSleepDuration    Field = "sleepDuration"
	FieldStressLevel      Field = "stressLevel"
	FieldSteps            Field = "steps"
	FieldMeetingsDuration Field = "meetingsDuration"
)

// Range documents the bounds an input control is expected to respect.
// The holder does not enforce them.
type Range struct {
	Field Field   `json:"field"`
	Label string  `json:"label"`
	Unit  string  `json:"unit"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

var ranges = []Range{
	{Field: FieldHeartRate, Label: "Heart Rate", Unit: "bpm", Min: 40, Max: 180},
	{Field: FieldHRV, Label: "Heart Rate Variability", Unit: "ms", Min: 0, Max: 200},
	{Field: FieldSleepQuality, Label: "Sleep Quality", Unit: "%", Min: 0, Max: 100},
	{Field: FieldSleepDuration, Label: "Sleep Last Night", Unit: "h", Min: 0, Max: 12},
	{Field: FieldStressLevel, Label: "Stress Level", Unit: "%", Min: 0, Max: 100},
	{Field: FieldSteps, Label: "Daily Steps", Unit: "", Min: 0, Max: 20000},
	{Field: FieldMeetingsDuration, Label: "Meetings Today", Unit: "h", Min: 0, Max: 12},
}

// Ranges returns the documented control range for every field.
func Ranges() []Range {
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return out
}

// Default is the reading every process starts from.
func Default() Reading {
	return Reading{
		HeartRate:        72,
		HRV:              55,
		SleepQuality:     82,
		SleepDuration:    7.5,
		StressLevel:      30,
		Steps:            4500,
		MeetingsDuration: 2,
	}
}

// With returns a copy of r with exactly one field replaced.
func (r Reading) With(field Field, value float64) (Reading, error) {
	switch field {
	case FieldHeartRate:
		r.HeartRate = value
	case FieldHRV:
		r.HRV = value
	case FieldSleepQuality:
		r.SleepQuality = value
	case FieldSleepDuration:
		r.SleepDuration = value
	case FieldStressLevel:
		r.StressLevel = value
	case FieldSteps:
		r.Steps = int(math.Round(value))
	case FieldMeetingsDuration:
		r.MeetingsDuration = value
	default:
		return r, fmt.Errorf("unknown biometric field %q", field)
	}
	return r, nil
}
