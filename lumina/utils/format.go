package utils

import (
	"fmt"
	"strings"
	"time"
)

// ProgressBar renders a 10-segment bar for current/target ratios.
func ProgressBar(current, target int64) string {
	const barLength = 10

	progress := float64(current) / float64(target)
	if progress > 1.0 {
		progress = 1.0
	}
	filled := int(progress * float64(barLength))

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < barLength; i++ {
		if i < filled {
			bar.WriteString("■")
		} else {
			bar.WriteString("□")
		}
	}
	bar.WriteString(fmt.Sprintf("] %.0f%%", progress*100))

	return bar.String()
}

// FormatDuration renders a duration as "2h 5m" / "5m" / "30s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatVoiceTime renders minutes as "3h 25m".
func FormatVoiceTime(minutes int64) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
