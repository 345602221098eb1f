package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/costwatch/internal/detect"
)

const dateLayout = "2006-01-02"

var printer = message.NewPrinter(language.English)

// FormatCurrency renders v as US dollars with thousands separators.
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-" + printer.Sprintf("$%.2f", -v)
	}
	return printer.Sprintf("$%.2f", v)
}

// FormatMetric renders a z-score as "+3.25" and a drift as "+87.5%".
func FormatMetric(a detect.Anomaly) string {
	if a.Kind == detect.KindTrend {
		return fmt.Sprintf("%+.1f%%", a.Metric)
	}
	return fmt.Sprintf("%+.2f", a.Metric)
}

// FormatPeriod renders the flagged day, or the window range for trends.
func FormatPeriod(a detect.Anomaly) string {
	if a.Kind == detect.KindTrend && !a.WindowStart.IsZero() {
		return formatDate(a.WindowStart) + ".." + formatDate(a.Date)
	}
	return formatDate(a.Date)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func directionLabel(d detect.Direction) string {
	switch d {
	case detect.DirectionSpike:
		return "^ spike"
	case detect.DirectionDrop:
		return "v drop"
	case detect.DirectionDriftUp:
		return "/ drift up"
	case detect.DirectionDriftDown:
		return "\\ drift down"
	default:
		return d.String()
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
