package mood

import (
	"strconv"
	"strings"

	"github.com/yanqian/mood-engine/internal/domain/biometrics"
)

// BuildPrompt renders the analysis request for a reading. It is a pure
// function of the seven fields.
func BuildPrompt(r biometrics.Reading) string {
	var b strings.Builder
	b.WriteString("Analyze the following biometric and activity data to determine the user's current physical and mental state.\n")
	b.WriteString("Biometrics:\n")
	b.WriteString("- Heart Rate: " + formatNumber(r.HeartRate) + " bpm\n")
	b.WriteString("- Heart Rate Variability (HRV): " + formatNumber(r.HRV) + " ms\n")
	b.WriteString("- Sleep: " + formatNumber(r.SleepDuration) + "h (Quality: " + formatNumber(r.SleepQuality) + "%)\n")
	b.WriteString("- Stress Level: " + formatNumber(r.StressLevel) + "/100\n")
	b.WriteString("- Activity: " + strconv.Itoa(r.Steps) + " steps today\n")
	b.WriteString("- Work: " + formatNumber(r.MeetingsDuration) + " hours of meetings\n")
	b.WriteString("\n")
	b.WriteString("Based on this, provide:\n")
	b.WriteString("1. A concise summary of their state (e.g., \"You are overstimulated but physically tired\").\n")
	b.WriteString("2. A dominant mood label.\n")
	b.WriteString("3. Three specific, actionable recommendations in categories: Food, Media (Watch/Listen), and Wellness (Physical Action).\n")
	b.WriteString("\n")
	b.WriteString("The recommendations should be highly specific (e.g., \"Spicy Miso Ramen\" instead of \"Japanese Food\").\n")
	return b.String()
}

// formatNumber prints the shortest representation, so 9 renders as "9" and 7.5 as "7.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
