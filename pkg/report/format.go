package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/r3d91ll/scriptpdf/pkg/lesson"
)

// Date layouts used on the title page and in the summary footer.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Seconds formats a duration in seconds with the shortest exact decimal,
// e.g. 8 -> "8s", 2.5 -> "2.5s".
func Seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "s"
}

// OneDecimal formats v with exactly one decimal place.
func OneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// YesNo renders a boolean as "Yes" or "No".
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// SlideDuration is the details-line duration: "5s", or "N/A" when the slide
// carries no explicit duration.
func SlideDuration(s lesson.Slide) string {
	if !s.HasDuration() {
		return lesson.NotAvailable
	}
	return Seconds(s.Duration())
}

// DetailsLine is "Duration: 5s | Complex: No | Speaker: A".
func DetailsLine(s lesson.Slide) string {
	return fmt.Sprintf("Duration: %s | Complex: %s | Speaker: %s",
		SlideDuration(s), YesNo(s.IsComplex), s.SpeakerKey())
}

// SpeakerLine is "• Alice (Voice: nova, Gender: female)".
func SpeakerLine(name string, sp lesson.Speaker) string {
	return fmt.Sprintf("• %s (Voice: %s, Gender: %s)", name, sp.VoiceOrDefault(), sp.GenderOrUnknown())
}

// BreakdownLine is "• Alice: 1 slides (50.0%)".
func BreakdownLine(name string, count int, pct float64) string {
	return fmt.Sprintf("• %s: %d slides (%s%%)", name, count, OneDecimal(pct))
}

// Footer is "Generated by {tool} on {timestamp}".
func Footer(tool string, at time.Time) string {
	return fmt.Sprintf("Generated by %s on %s", tool, at.Format(TimestampLayout))
}
