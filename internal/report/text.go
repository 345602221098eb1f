package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText prints r as an aligned table followed by a settings line.
func WriteText(w io.Writer, r Report) error {
	var b strings.Builder

	if len(r.Anomalies) == 0 {
		b.WriteString("No anomalies detected.\n")
	} else {
		b.WriteString("Cost Anomalies Detected\n\n")

		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SEVERITY\tKIND\tDATE\tGROUP\tCURRENT\tMEDIAN\tMETRIC\tDIRECTION")
		for _, a := range r.Anomalies {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.ToUpper(a.Severity.String()),
				a.Kind,
				FormatPeriod(a),
				a.Key,
				FormatCurrency(a.Baseline.Current),
				FormatCurrency(a.Baseline.Median),
				FormatMetric(a),
				directionLabel(a.Direction),
			)
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("render table: %w", err)
		}

		n := len(r.Anomalies)
		fmt.Fprintf(&b, "\n%d %s found.\n", n, plural(n, "anomaly", "anomalies"))
	}

	b.WriteString("\n")
	b.WriteString(settingsLine(r.Settings))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func settingsLine(s Settings) string {
	parts := []string{
		fmt.Sprintf("%d-day window", s.WindowDays),
		"group by " + s.Grouping.String(),
		fmt.Sprintf("sensitivity=%s (z>=%g)", s.Sensitivity, s.Threshold),
		fmt.Sprintf("drift threshold=%g%%", s.DriftThresholdPct),
		fmt.Sprintf("min cost=%s/day", FormatCurrency(s.MinDailyCost)),
	}
	if s.DataSource != "" {
		parts = append(parts, "source="+s.DataSource)
	}
	if s.IsScan() {
		parts = append(parts, "scanned "+formatDate(s.ScanStart)+".."+formatDate(s.ScanEnd))
	} else if !s.WindowEnd.IsZero() {
		parts = append(parts, "as of "+formatDate(s.WindowEnd))
	}
	return "Settings: " + strings.Join(parts, ", ")
}
