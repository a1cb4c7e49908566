package main

import (
	"fmt"
	"strings"

	"voxfolio/internal/screen"
)

// renderScreen turns a screen into markdown for the glamour renderer. The
// focus target, when set, gets a pointer marker so the eye lands where the
// narration is talking about.
func renderScreen(s screen.Screen, focus string) string {
	var b strings.Builder
	for _, w := range s.Widgets {
		switch w := w.(type) {
		case screen.Text:
			b.WriteString(w.Body)
			b.WriteString("\n\n")

		case screen.InfoCard:
			fmt.Fprintf(&b, "> **%s**\n> %s\n\n", w.Title, w.Body)

		case screen.TagList:
			for i, tag := range w.Tags {
				if i > 0 {
					b.WriteString(" ")
				}
				fmt.Fprintf(&b, "`%s`", tag)
			}
			b.WriteString("\n\n")

		case screen.ProjectList:
			if w.Title != "" {
				fmt.Fprintf(&b, "## %s\n\n", w.Title)
			}
			for _, p := range w.Projects {
				marker := "-"
				if p.ID == focus {
					marker = "- ▶"
				}
				fmt.Fprintf(&b, "%s **%s**: %s (%s)\n", marker, p.Name, p.Description, strings.Join(p.Tech, ", "))
			}
			b.WriteString("\n")

		case screen.ButtonRow:
			for i, btn := range w.Buttons {
				if i > 0 {
					b.WriteString("  ")
				}
				fmt.Fprintf(&b, "[ %s ]", btn.Label)
			}
			b.WriteString("\n\n")

		case screen.Timeline:
			for _, e := range w.Entries {
				marker := "-"
				if e.ID == focus {
					marker = "- ▶"
				}
				line := e.Title
				if e.Subtitle != "" {
					line += ", " + e.Subtitle
				}
				fmt.Fprintf(&b, "%s **%s** %s\n", marker, e.Period, line)
				if e.Description != "" {
					fmt.Fprintf(&b, "  %s\n", e.Description)
				}
			}
			b.WriteString("\n")

		case screen.SkillMatrix:
			b.WriteString("| Area | Skills | Level |\n|---|---|---|\n")
			for _, r := range w.Rows {
				fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Area, strings.Join(r.Skills, ", "), r.Level)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
