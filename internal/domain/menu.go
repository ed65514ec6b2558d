package domain

import (
	"encoding/json"
	"strconv"
)

// Load levels a menu can be generated for. Queries and stored metadata use
// the same three-symbol alphabet.
var LoadLevels = []string{"A", "B", "C"}

// MenuDocument is a full generated training menu as persisted to object
// storage. Documents are immutable once saved; there is no update path.
// Alongside the menu body it carries the generation context (requested load
// levels, duration, free-form notes, generating model) that the index
// metadata is derived from at save time.
type MenuDocument struct {
	Title        string        `json:"title"`
	Sections     []MenuSection `json:"sections"`
	TotalTime    int           `json:"totalTime"`
	Intensity    string        `json:"intensity,omitempty"`
	TargetSkills []string      `json:"targetSkills,omitempty"`
	LoadLevels   []string      `json:"loadLevels,omitempty"`
	Duration     int           `json:"duration,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	GeneratedBy  string        `json:"generatedBy,omitempty"`
}

// MenuSection groups ordered items under a named block of the session,
// e.g. "ウォームアップ" or "Main Set".
type MenuSection struct {
	Name      string     `json:"name"`
	Items     []MenuItem `json:"items"`
	TotalTime int        `json:"totalTime"`
}

// MenuItem is a single drill within a section.
type MenuItem struct {
	Description string       `json:"description"`
	Distance    string       `json:"distance"`
	Sets        int          `json:"sets"`
	Circle      string       `json:"circle,omitempty"` // interval / lap label, e.g. "1'30"
	Rest        TextOrNumber `json:"rest,omitempty"`
	Equipment   string       `json:"equipment,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Time        int          `json:"time"`
}

// TextOrNumber holds a value that generators emit either as a JSON number
// (seconds) or as free text ("ゆっくり", "30-60s"). It always marshals back
// out as a string.
type TextOrNumber string

func (t *TextOrNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TextOrNumber(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = TextOrNumber(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

func (t TextOrNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t TextOrNumber) String() string { return string(t) }
