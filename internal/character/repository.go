package character

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Repository runs character and note operations against a [Store].
//
// Every operation that needs a character reads and decodes its file, and
// every mutation re-encodes and writes the whole file before returning.
// Read-modify-write cycles are not locked.
type Repository struct {
	store *Store
}

// NewRepository returns a Repository backed by store.
func NewRepository(store *Store) *Repository {
	return &Repository{store: store}
}

// Store returns the underlying store.
func (r *Repository) Store() *Store {
	return r.store
}

// Create writes a new character file.
// Fails with [ErrAlreadyExists] if a file for c.Name exists, ignoring case.
func (r *Repository) Create(c Character) error {
	c = normalize(c)

	if err := validateCharacter(c); err != nil {
		return err
	}

	exists, err := r.store.Exists(c.Name)
	if err != nil {
		return err
	}

	if exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, c.Name)
	}

	return r.store.Write(c.Name, Encode(c))
}

// Get reads and decodes the character stored under name.
func (r *Repository) Get(name string) (Character, error) {
	name = strings.TrimSpace(name)

	content, err := r.store.Read(name)
	if err != nil {
		return Character{}, err
	}

	c, err := Decode(content)
	if err != nil {
		return Character{}, fmt.Errorf("decoding %s: %w", name, err)
	}

	return c, nil
}

// Raw returns the file content stored under name without decoding it.
func (r *Repository) Raw(name string) (string, error) {
	return r.store.Read(strings.TrimSpace(name))
}

// Update encodes c and writes it under c.Name, replacing any existing file.
// It does not check that the character exists.
func (r *Repository) Update(c Character) error {
	c = normalize(c)

	if err := validateCharacter(c); err != nil {
		return err
	}

	return r.store.Write(c.Name, Encode(c))
}

// Delete removes the character stored under name, and with it its notes.
func (r *Repository) Delete(name string) error {
	return r.store.Delete(strings.TrimSpace(name))
}

// List returns the names of all stored characters.
func (r *Repository) List() ([]string, error) {
	return r.store.List()
}

// AddNote appends note to the character's notes and returns it with its
// assigned ID. Any ID set on note is ignored: the new ID is one past the
// highest existing ID. The note always goes last, whatever its date.
func (r *Repository) AddNote(name string, note Note) (Note, error) {
	if err := validateText(note.Text); err != nil {
		return Note{}, err
	}

	if err := validateDate(note.Date); err != nil {
		return Note{}, err
	}

	c, err := r.Get(name)
	if err != nil {
		return Note{}, err
	}

	id, ok := c.nextNoteID()
	if !ok {
		return Note{}, fmt.Errorf("%w (character %s)", ErrNoteIDExhausted, name)
	}

	note = Note{
		ID:   id,
		Date: dateOnly(note.Date),
		Text: strings.TrimSpace(note.Text),
	}

	c.Notes = append(c.Notes, note)

	if err := r.save(name, c); err != nil {
		return Note{}, err
	}

	return note, nil
}

// EditNote replaces the text of note id. ID and date are left as they are.
func (r *Repository) EditNote(name string, id int, text string) error {
	if err := validateText(text); err != nil {
		return err
	}

	c, err := r.Get(name)
	if err != nil {
		return err
	}

	idx, err := findNote(&c, name, id)
	if err != nil {
		return err
	}

	c.Notes[idx].Text = strings.TrimSpace(text)

	return r.save(name, c)
}

// DeleteNote removes note id. Remaining notes keep their IDs.
func (r *Repository) DeleteNote(name string, id int) error {
	c, err := r.Get(name)
	if err != nil {
		return err
	}

	idx, err := findNote(&c, name, id)
	if err != nil {
		return err
	}

	c.Notes = slices.Delete(c.Notes, idx, idx+1)

	return r.save(name, c)
}

// Note returns note id of the character stored under name.
func (r *Repository) Note(name string, id int) (Note, error) {
	c, err := r.Get(name)
	if err != nil {
		return Note{}, err
	}

	idx, err := findNote(&c, name, id)
	if err != nil {
		return Note{}, err
	}

	return c.Notes[idx], nil
}

// Notes returns every note of the character stored under name, in file order.
func (r *Repository) Notes(name string) ([]Note, error) {
	c, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	return c.Notes, nil
}

// save writes c back to the file it was read from. The lookup name is used
// rather than c.Name so a heading edited by hand never forks the file.
func (r *Repository) save(name string, c Character) error {
	return r.store.Write(strings.TrimSpace(name), Encode(c))
}

func findNote(c *Character, name string, id int) (int, error) {
	if id <= 0 {
		return -1, fmt.Errorf("%w: %d", ErrInvalidNoteID, id)
	}

	idx := c.noteIndex(id)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %d (character %s)", ErrNoteNotFound, id, name)
	}

	return idx, nil
}

func normalize(c Character) Character {
	c.Name = strings.TrimSpace(c.Name)
	c.Alias = strings.TrimSpace(c.Alias)
	c.Appearance = singleLine(c.Appearance)
	c.BirthDate = dateOnly(c.BirthDate)

	if len(c.Notes) > 0 {
		notes := make([]Note, len(c.Notes))
		for i, n := range c.Notes {
			notes[i] = Note{ID: n.ID, Date: dateOnly(n.Date), Text: strings.TrimSpace(n.Text)}
		}

		c.Notes = notes
	}

	return c
}

func validateCharacter(c Character) error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}

	if strings.ContainsAny(c.Alias, "()\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidAlias, c.Alias)
	}

	// "N/A" is what Encode writes for a missing appearance.
	if c.Appearance == notAvailable {
		return ErrAppearanceNA
	}

	if err := validateDate(c.BirthDate); err != nil {
		return fmt.Errorf("birth date: %w", err)
	}

	seen := make(map[int]bool, len(c.Notes))

	for _, n := range c.Notes {
		if n.ID <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidNoteID, n.ID)
		}

		if seen[n.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateNoteID, n.ID)
		}

		seen[n.ID] = true

		if err := validateText(n.Text); err != nil {
			return fmt.Errorf("note %d: %w", n.ID, err)
		}

		if err := validateDate(n.Date); err != nil {
			return fmt.Errorf("note %d: %w", n.ID, err)
		}
	}

	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrTextRequired
	}

	if containsNoteHeading(text) {
		return ErrTextHasHeading
	}

	return nil
}

// validateDate accepts the zero time and any date whose year fits the four
// digits of the file layout.
func validateDate(t time.Time) error {
	if t.IsZero() {
		return nil
	}

	if y := t.Year(); y < 1 || y > 9999 {
		return fmt.Errorf("%w: %d", ErrDateOutOfRange, y)
	}

	return nil
}

// IsNotFound reports whether err means the character or note does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoteNotFound)
}
