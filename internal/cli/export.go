package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/charsheet/internal/character"
)

type exportedCharacter struct {
	Name       string         `json:"name"                 yaml:"name"`
	Alias      string         `json:"alias,omitempty"      yaml:"alias,omitempty"`
	BirthDate  string         `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	Appearance string         `json:"appearance,omitempty" yaml:"appearance,omitempty"`
	Notes      []exportedNote `json:"notes"                yaml:"notes"`
}

type exportedNote struct {
	ID   int    `json:"id"             yaml:"id"`
	Date string `json:"date,omitempty" yaml:"date,omitempty"`
	Text string `json:"text"           yaml:"text"`
}

// export renders c in the given format. Dates use the file layout and are
// omitted when unknown.
func export(c character.Character, format string) ([]byte, error) {
	doc := exportedCharacter{
		Name:       c.Name,
		Alias:      c.Alias,
		Appearance: c.Appearance,
		Notes:      make([]exportedNote, 0, len(c.Notes)),
	}

	if c.HasBirthDate() {
		doc.BirthDate = character.FormatDate(c.BirthDate)
	}

	for _, n := range c.Notes {
		en := exportedNote{ID: n.ID, Text: n.Text}
		if !n.Date.IsZero() {
			en.Date = character.FormatDate(n.Date)
		}

		doc.Notes = append(doc.Notes, en)
	}

	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}

		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}

		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
