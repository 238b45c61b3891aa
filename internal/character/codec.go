package character

import (
	"regexp"
	"strconv"
	"strings"
)

// Labels written by Encode. Decode also accepts the Italian labels used by
// files from earlier versions.
const (
	labelBirthDate  = "Birth Date"
	labelAppearance = "Appearance"
	labelNotes      = "Notes"
	labelNote       = "Note"
	noNotesLine     = "No records available."
)

var (
	// # <name> (<alias>). The alias group is optional so hand-written
	// headings without one still load; Encode always writes it.
	identityRe = regexp.MustCompile(`(?m)^#[ \t]*([^#\s][^\r\n]*?)(?:[ \t]+\(([^()\r\n]*)\))?[ \t]*\r?$`)

	birthDateRe  = regexp.MustCompile(`(?m)^\*\*(?:Birth Date|Data di Nascita):\*\*[ \t]*([^\r\n]*?)[ \t]*\r?$`)
	appearanceRe = regexp.MustCompile(`(?m)^\*\*(?:Appearance|Aspetto):\*\*[ \t]*([^\r\n]*?)[ \t]*\r?$`)

	// noteBoundaryRe marks where any note block starts, well-formed or not.
	noteBoundaryRe = regexp.MustCompile(`(?m)^###[ \t]*(?:Note|Appunto)(?:[^\p{L}\r\n]|\r?$)`)

	// noteHeadingRe is the strict heading a block must open with to count.
	noteHeadingRe = regexp.MustCompile(`^###[ \t]*(?:Note|Appunto)[ \t]*(\d+)(?:[ \t]*-[ \t]*(N/A|\d{4}/\d{1,2}/\d{1,2}|\d{1,2}/\d{1,2}/\d{4})?)?[ \t]*:`)
)

// Encode renders c in the character file grammar:
//
//	# <name> (<alias>)
//
//	**Birth Date:** <yyyy/MM/dd or N/A>
//	**Appearance:** <appearance or N/A>
//
//	## Notes:
//	### Note <id> - <yyyy/MM/dd or N/A>:
//	<text>
//
// followed by a blank line per note, or "No records available." when c has
// no notes. Line breaks in the name, alias, and appearance are folded into
// spaces since those fields live on a single line.
func Encode(c Character) string {
	var b strings.Builder

	b.WriteString("# " + singleLine(c.Name) + " (" + singleLine(c.Alias) + ")\n")
	b.WriteString("\n")
	b.WriteString("**" + labelBirthDate + ":** " + FormatDate(c.BirthDate) + "\n")
	b.WriteString("**" + labelAppearance + ":** " + orNotAvailable(singleLine(c.Appearance)) + "\n")
	b.WriteString("\n")
	b.WriteString("## " + labelNotes + ":\n")

	if len(c.Notes) == 0 {
		b.WriteString(noNotesLine + "\n")

		return b.String()
	}

	for _, n := range c.Notes {
		b.WriteString("### " + labelNote + " " + strconv.Itoa(n.ID) + " - " + FormatDate(n.Date) + ":\n")
		b.WriteString(n.Text + "\n")
		b.WriteString("\n")
	}

	return b.String()
}

// DisplayText renders c for a human reading it on a console. It uses the
// same grammar as [Encode].
func DisplayText(c Character) string {
	return Encode(c)
}

// Decode parses a character file.
//
// Only the identity heading is mandatory: blank input fails with
// [ErrEmptyInput] and a missing heading with [ErrMissingIdentity], both
// wrapped in a [*ParseError]. Everything else is best-effort. A missing or
// unreadable birth date or appearance leaves the field empty, and malformed
// note blocks are skipped.
func Decode(content string) (Character, error) {
	if strings.TrimSpace(content) == "" {
		return Character{}, newParseError(ErrEmptyInput, content)
	}

	m := identityRe.FindStringSubmatch(content)
	if m == nil {
		return Character{}, newParseError(ErrMissingIdentity, content)
	}

	c := Character{
		Name:  strings.TrimSpace(m[1]),
		Alias: strings.TrimSpace(m[2]),
	}

	if m := birthDateRe.FindStringSubmatch(content); m != nil {
		if t, ok := parseStoredDate(m[1]); ok {
			c.BirthDate = t
		}
	}

	if m := appearanceRe.FindStringSubmatch(content); m != nil {
		if v := strings.TrimSpace(m[1]); v != notAvailable {
			c.Appearance = v
		}
	}

	c.Notes = decodeNotes(content)

	return c, nil
}

// decodeNotes splits content at every note heading and keeps the blocks that
// open with a well-formed heading and carry non-blank text.
func decodeNotes(content string) []Note {
	starts := noteBoundaryRe.FindAllStringIndex(content, -1)
	if len(starts) == 0 {
		return nil
	}

	notes := make([]Note, 0, len(starts))

	for i, loc := range starts {
		end := len(content)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}

		if n, ok := decodeNote(content[loc[0]:end]); ok {
			notes = append(notes, n)
		}
	}

	return notes
}

func decodeNote(block string) (Note, bool) {
	m := noteHeadingRe.FindStringSubmatchIndex(block)
	if m == nil {
		return Note{}, false
	}

	id, err := strconv.Atoi(block[m[2]:m[3]])
	if err != nil || id <= 0 {
		return Note{}, false
	}

	text := strings.TrimSpace(block[m[1]:])
	if text == "" {
		return Note{}, false
	}

	n := Note{ID: id, Text: text}

	if m[4] >= 0 {
		if t, ok := parseStoredDate(block[m[4]:m[5]]); ok {
			n.Date = t
		}
	}

	return n, true
}

// containsNoteHeading reports whether text has a line that would be read
// back as the start of a new note.
func containsNoteHeading(text string) bool {
	return noteBoundaryRe.MatchString(text)
}

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}

	return s
}

// singleLine folds line breaks into single spaces and trims the result.
func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return strings.TrimSpace(s)
	}

	return strings.Join(strings.Fields(s), " ")
}
