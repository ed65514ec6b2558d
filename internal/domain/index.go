package domain

import (
	"strconv"
	"strings"
	"time"
)

// MenuMetadata is the denormalized summary of a menu kept in the index so
// listing and search work without fetching every full document. Numeric
// fields are stored stringified and load levels comma-joined, mirroring the
// wire format of the index document; History re-expands them.
type MenuMetadata struct {
	Title        string   `json:"title"`
	LoadLevels   string   `json:"loadLevels"`
	Duration     string   `json:"duration"`
	TotalTime    string   `json:"totalTime"`
	Intensity    string   `json:"intensity,omitempty"`
	TargetSkills []string `json:"targetSkills"`
	Notes        string   `json:"notes,omitempty"`
	CreatedAt    string   `json:"createdAt"`
	GeneratedBy  string   `json:"generatedBy"`
}

// IndexEntry points at one saved menu: its id, summary metadata, and the
// authoritative object-store URL of the full document.
type IndexEntry struct {
	ID          string       `json:"id"`
	Metadata    MenuMetadata `json:"metadata"`
	MenuDataURL string       `json:"menuDataUrl"`
}

// MenuIndex is the single document enumerating every saved menu. It is
// append-only: entries are never removed or rewritten.
type MenuIndex struct {
	Menus []IndexEntry `json:"menus"`
}

// NewMenuIndex returns an empty index, the shape every failed or cold load
// degrades to.
func NewMenuIndex() *MenuIndex {
	return &MenuIndex{Menus: []IndexEntry{}}
}

// Append adds an entry to the end of the index.
func (idx *MenuIndex) Append(entry IndexEntry) {
	idx.Menus = append(idx.Menus, entry)
}

// BuildMetadata derives the index metadata for a document at save time.
// Missing fields take fixed defaults so the index never carries holes:
// title "Untitled", generating model "Unknown", numeric fields "0", list
// fields empty.
func BuildMetadata(doc *MenuDocument, createdAt time.Time) MenuMetadata {
	meta := MenuMetadata{
		Title:        doc.Title,
		LoadLevels:   strings.Join(doc.LoadLevels, ","),
		Duration:     strconv.Itoa(doc.Duration),
		TotalTime:    strconv.Itoa(doc.TotalTime),
		Intensity:    doc.Intensity,
		TargetSkills: doc.TargetSkills,
		Notes:        doc.Notes,
		CreatedAt:    createdAt.UTC().Format(time.RFC3339),
		GeneratedBy:  doc.GeneratedBy,
	}
	if meta.Title == "" {
		meta.Title = "Untitled"
	}
	if meta.GeneratedBy == "" {
		meta.GeneratedBy = "Unknown"
	}
	if meta.TargetSkills == nil {
		meta.TargetSkills = []string{}
	}
	return meta
}

// MenuHistoryEntry is one row of the saved-menu listing, with the
// metadata's stringified fields decoded back to their semantic types.
type MenuHistoryEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	LoadLevels   []string  `json:"loadLevels"`
	Duration     int       `json:"duration"`
	TotalTime    int       `json:"totalTime"`
	Intensity    string    `json:"intensity,omitempty"`
	TargetSkills []string  `json:"targetSkills"`
	Notes        string    `json:"notes,omitempty"`
	GeneratedBy  string    `json:"generatedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// History re-expands the metadata into a history row for the given id.
// Unparseable numbers decode to 0 and an unparseable timestamp to the zero
// time; a listing never fails on a malformed entry.
func (m MenuMetadata) History(id string) MenuHistoryEntry {
	entry := MenuHistoryEntry{
		ID:           id,
		Title:        m.Title,
		LoadLevels:   SplitLoadLevels(m.LoadLevels),
		Intensity:    m.Intensity,
		TargetSkills: m.TargetSkills,
		Notes:        m.Notes,
		GeneratedBy:  m.GeneratedBy,
	}
	if entry.TargetSkills == nil {
		entry.TargetSkills = []string{}
	}
	entry.Duration, _ = strconv.Atoi(m.Duration)
	entry.TotalTime, _ = strconv.Atoi(m.TotalTime)
	if t, err := time.Parse(time.RFC3339, m.CreatedAt); err == nil {
		entry.CreatedAt = t
	}
	return entry
}

// SplitLoadLevels decodes a comma-joined load-level string, dropping empty
// segments so "" round-trips to an empty list rather than [""].
func SplitLoadLevels(joined string) []string {
	levels := []string{}
	for _, part := range strings.Split(joined, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			levels = append(levels, part)
		}
	}
	return levels
}

// SearchResult pairs a fetched menu document with its similarity score.
type SearchResult struct {
	Menu  *MenuDocument `json:"menu"`
	Score int           `json:"score"`
}
