package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"zone_heating/internal/engine"
	"zone_heating/internal/models"
	"zone_heating/internal/service"

	"github.com/fatih/color"
)

// fatih/color disables itself when stdout is not a terminal.
var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)

	sourceColors = map[models.Source]*color.Color{
		models.SourceManual:   color.New(color.FgYellow),
		models.SourceSchedule: color.New(color.FgGreen),
		models.SourceFallback: dimColor,
	}
)

func printSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", msg)
}

func printWarning(w io.Writer, msg string) {
	_, _ = warningColor.Fprintf(w, "⚠ %s\n", msg)
}

func printError(w io.Writer, msg string) {
	_, _ = errorColor.Fprintf(w, "✗ %s\n", msg)
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatSource(s models.Source) string {
	if c, ok := sourceColors[s]; ok {
		return c.Sprint(s)
	}
	return string(s)
}

func formatTemp(c float64) string {
	return fmt.Sprintf("%.1f°C", c)
}

func formatEvent(ev *engine.Event) string {
	if ev == nil {
		return dimColor.Sprint("none")
	}
	s := fmt.Sprintf("%s at %s", ev.Kind, ev.Time.Format("Mon 15:04"))
	if ev.NewTarget != nil {
		s += " → " + formatTemp(*ev.NewTarget)
	}
	return s
}

// printStatuses writes one row per zone.
func printStatuses(w io.Writer, statuses []service.ZoneStatus) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = headerColor.Fprintln(tw, "ID\tZONE\tTARGET\tSOURCE\tMEASURED\tNEXT")
	for _, st := range statuses {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			st.Zone.ID,
			st.Zone.Name,
			formatTemp(st.TargetTempC),
			formatSource(st.Source),
			formatTemp(st.Zone.CurrentTempC),
			formatEvent(st.NextEvent),
		)
	}
	return tw.Flush()
}

// printResolution writes a detailed view of one zone.
func printResolution(w io.Writer, st service.ZoneStatus, upcoming []engine.Event) {
	_, _ = headerColor.Fprintf(w, "%s (zone %d)\n", st.Zone.Name, st.Zone.ID)
	_, _ = fmt.Fprintf(w, "  At:          %s\n", st.ResolvedAt.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "  Target:      %s (%s)\n", formatTemp(st.TargetTempC), formatSource(st.Source))
	if s := st.ActiveSchedule; s != nil {
		_, _ = fmt.Fprintf(w, "  Schedule:    %s %s-%s priority %d\n", s.DayOfWeek, s.Start, s.End, s.Priority)
	}
	if o := st.ActiveOverride; o != nil {
		until := "indefinitely"
		if o.ActiveUntil != nil {
			until = "until " + o.ActiveUntil.In(st.ResolvedAt.Location()).Format(time.RFC3339)
		}
		_, _ = fmt.Fprintf(w, "  Override:    #%d %s\n", o.ID, until)
	}
	_, _ = fmt.Fprintf(w, "  Next event:  %s\n", formatEvent(st.NextEvent))
	_, _ = fmt.Fprintf(w, "  Next target: %s\n", formatTemp(st.NextTargetC))

	if len(upcoming) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	_, _ = headerColor.Fprintln(w, "Upcoming")
	for i := range upcoming {
		_, _ = fmt.Fprintf(w, "  %s\n", formatEvent(&upcoming[i]))
	}
}
