// Package session holds the cross-visit preference and usage memory. The
// in-memory Context is the single writer during a run; every transform is a
// pure function over the struct followed by a write-through to the blob
// store. A missing or corrupt persisted blob reinitializes to defaults, it
// never fails the caller.
package session

import (
	"sort"
	"time"
)

// SchemaVersion is the current persisted session schema version.
const SchemaVersion = "1.0"

// StorageKey is the fixed key the session blob is stored under.
const StorageKey = "voxfolio.session"

// Language is the interface language preference.
type Language string

const (
	LanguageEN Language = "en"
	LanguageDE Language = "de"
)

// Context is the persisted session state: visit counts, per-screen usage,
// persona hints, and language preference.
type Context struct {
	Version            string         `json:"version"`
	Visits             int            `json:"visits"`
	LastVisit          time.Time      `json:"last_visit"`
	ScreensViewed      map[string]int `json:"screens_viewed"`
	LastFocus          string         `json:"last_focus,omitempty"`
	PersonaHints       []string       `json:"persona_hints,omitempty"`
	UILanguage         Language       `json:"ui_language"`
	ShowLanguagePicker bool           `json:"show_language_picker"`
}

// NewContext returns a fresh context for a first visit.
func NewContext() Context {
	return Context{
		Version:       SchemaVersion,
		ScreensViewed: make(map[string]int),
		UILanguage:    LanguageEN,
	}
}

// withDefaults fills fields a partially decoded blob may be missing.
func (c Context) withDefaults() Context {
	if c.Version == "" {
		c.Version = SchemaVersion
	}
	if c.ScreensViewed == nil {
		c.ScreensViewed = make(map[string]int)
	}
	if c.UILanguage != LanguageEN && c.UILanguage != LanguageDE {
		c.UILanguage = LanguageEN
	}
	return c
}

// clone returns a deep copy so transforms never alias the stored context.
func (c Context) clone() Context {
	viewed := make(map[string]int, len(c.ScreensViewed))
	for k, v := range c.ScreensViewed {
		viewed[k] = v
	}
	c.ScreensViewed = viewed
	c.PersonaHints = append([]string(nil), c.PersonaHints...)
	return c
}

// markScreen increments the per-screen counter and refreshes focus/visit
// bookkeeping.
func (c Context) markScreen(id string, now time.Time) Context {
	out := c.clone()
	out.ScreensViewed[id]++
	out.LastFocus = id
	out.LastVisit = now
	return out
}

// addPersonaHint records a preference tag, keeping the set sorted and free of
// duplicates.
func (c Context) addPersonaHint(hint string) Context {
	for _, h := range c.PersonaHints {
		if h == hint {
			return c
		}
	}
	out := c.clone()
	out.PersonaHints = append(out.PersonaHints, hint)
	sort.Strings(out.PersonaHints)
	return out
}
