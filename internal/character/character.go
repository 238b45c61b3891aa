package character

import (
	"math"
	"time"
)

// Character is a character sheet.
//
// Name is the storage key: lookups compare it case-insensitively, and the
// file on disk is named after it with the casing used at creation time.
type Character struct {
	Name       string
	Alias      string
	BirthDate  time.Time // zero when unknown
	Appearance string
	Notes      []Note // file order
}

// Note is an entry in a character's notes section.
//
// IDs are assigned by [Repository.AddNote], unique within the owning
// character, and never reused or renumbered.
type Note struct {
	ID   int
	Date time.Time // zero when unknown
	Text string
}

// HasBirthDate reports whether the birth date is known.
func (c *Character) HasBirthDate() bool {
	return !c.BirthDate.IsZero()
}

// noteIndex returns the position of the first note with the given ID, or -1.
func (c *Character) noteIndex(id int) int {
	for i := range c.Notes {
		if c.Notes[i].ID == id {
			return i
		}
	}

	return -1
}

// nextNoteID returns max(existing IDs)+1, or 1 when there are no notes.
// It reports false when the highest ID is already math.MaxInt.
func (c *Character) nextNoteID() (int, bool) {
	maxID := 0

	for _, n := range c.Notes {
		maxID = max(maxID, n.ID)
	}

	if maxID == math.MaxInt {
		return 0, false
	}

	return maxID + 1, true
}
