package biometrics

// Preset is a named reading that replaces the current one wholesale.
type Preset struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Reading Reading `json:"reading"`
}

var presets = []Preset{
	{
		Name:  "burnt-out-executive",
		Label: `The "Burnt Out" Executive`,
		Reading: Reading{
			HeartRate:        88,
			HRV:              32,
			SleepQuality:     45,
			SleepDuration:    4.5,
			StressLevel:      85,
			Steps:            800,
			MeetingsDuration: 7.5,
		},
	},
	{
		Name:  "restored-athlete",
		Label: `The "Restored" Athlete`,
		Reading: Reading{
			HeartRate:        58,
			HRV:              85,
			SleepQuality:     95,
			SleepDuration:    9,
			StressLevel:      10,
			Steps:            12000,
			MeetingsDuration: 1,
		},
	},
	{
		Name:  "stagnant-creator",
		Label: `The "Stagnant" Creator`,
		Reading: Reading{
			HeartRate:        68,
			HRV:              60,
			SleepQuality:     70,
			SleepDuration:    6.5,
			StressLevel:      40,
			Steps:            1200,
			MeetingsDuration: 0,
		},
	},
}

// Presets lists the built-in simulation presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by its slug.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
