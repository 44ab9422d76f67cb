package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/axiomhq/constellation"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func swatch(c constellation.Color, text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(text)
}

func writeSnapshot(w io.Writer, snap *constellation.Snapshot, format string) error {
	switch format {
	case "json":
		return writeJSON(w, snap)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	var b strings.Builder
	fmt.Fprintln(&b, headerStyle.Render(fmt.Sprintf("snapshot %s  (%d active)", snap.ID, len(snap.Active))))
	fmt.Fprintf(&b, "%-6s %-9s %5s %8s %8s  %-24s %s\n", "bucket", "range", "count", "avg", "median", "position", "color")
	for _, bk := range snap.Buckets {
		lo, hi := bk.Range()
		rng := fmt.Sprintf("[%g,%g)", lo, hi)
		if !bk.Active() {
			fmt.Fprintln(&b, dimStyle.Render(fmt.Sprintf("%-6d %-9s %5d", bk.ID, rng, 0)))
			continue
		}
		pos := fmt.Sprintf("(%5.2f,%5.2f,%5.2f)", bk.Position.X, bk.Position.Y, bk.Position.Z)
		fmt.Fprintf(&b, "%-6d %-9s %5d %8.2f %8.2f  %-24s %s\n",
			bk.ID, rng, bk.Count, bk.AverageValue, bk.Median, pos, swatch(bk.Color, "● "+bk.Color.Hex()))
	}
	for _, c := range snap.Connections {
		fmt.Fprintf(&b, "%s %d ↔ %d  %.2f\n", swatch(c.Color, "──"), c.From, c.To, c.Distance)
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return writeStats(w, snap.Stats, format)
}

func writeStats(w io.Writer, st constellation.Stats, format string) error {
	switch format {
	case "json":
		return writeJSON(w, st)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	mood := swatch(constellation.ColorOf(float64(st.CurrentMood)), fmt.Sprintf("%d %s", st.CurrentMood, st.Mood.Label))
	_, err := fmt.Fprintf(w,
		"samples %d  users %d  mean %.2f  min %.0f  max %.0f  median %.2f  p90 %.2f\nmood %s (%d recent)  %s\n",
		st.Count, st.UniqueUsers, st.Mean, st.Min, st.Max, st.Median, st.P90,
		mood, st.MoodSampleSize, dimStyle.Render(st.Mood.Description))
	return err
}

func writeUsers(w io.Writer, users []constellation.UserSummary, format string) error {
	switch format {
	case "json":
		return writeJSON(w, users)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	var b strings.Builder
	fmt.Fprintln(&b, headerStyle.Render(fmt.Sprintf("%-24s %8s %8s  %s", "user", "sessions", "average", "last active")))
	for _, u := range users {
		avg := swatch(constellation.ColorOf(u.Average), fmt.Sprintf("%8.2f", u.Average))
		fmt.Fprintf(&b, "%-24s %8d %s  %s\n", u.UserID, u.Sessions, avg, u.LastActive.Format(time.RFC3339))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeHistory(w io.Writer, samples []constellation.Sample, format string) error {
	switch format {
	case "json":
		return writeJSON(w, samples)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	var b strings.Builder
	for _, s := range samples {
		ts := "-"
		if !s.Timestamp.IsZero() {
			ts = s.Timestamp.Format(time.RFC3339)
		}
		fmt.Fprintf(&b, "%-25s %s\n", ts, swatch(constellation.ColorOf(s.Value), fmt.Sprintf("%6.2f", s.Value)))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
