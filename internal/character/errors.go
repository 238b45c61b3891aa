package character

import (
	"errors"
	"unicode/utf8"
)

// Error variables for character operations.
var (
	ErrEmptyInput      = errors.New("character file is empty")
	ErrMissingIdentity = errors.New("missing '# <name> (<alias>)' heading")
	ErrNotFound        = errors.New("character not found")
	ErrAlreadyExists   = errors.New("character already exists")
	ErrNoteNotFound    = errors.New("note not found")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidName     = errors.New("invalid character name")
	ErrInvalidAlias    = errors.New("alias cannot contain parentheses or line breaks")
	ErrTextRequired    = errors.New("note text is required")
	ErrTextHasHeading  = errors.New("note text cannot contain a '### Note' heading line")
	ErrInvalidDate     = errors.New("invalid date (use YYYY/MM/DD)")
	ErrInvalidNoteID   = errors.New("note ID must be a positive integer")
	ErrDuplicateNoteID = errors.New("duplicate note ID")
	ErrNoteIDExhausted = errors.New("no note ID left above the highest one in use")
	ErrAppearanceNA    = errors.New(`appearance cannot be "N/A"`)
	ErrDateOutOfRange  = errors.New("date year must be between 1 and 9999")
)

// maxExcerptRunes bounds the content kept on a [ParseError].
const maxExcerptRunes = 1000

// ParseError is returned by [Decode] when a file cannot be turned into a
// [Character]. It unwraps to [ErrEmptyInput] or [ErrMissingIdentity].
//
// Use [errors.As] to get at the offending content:
//
//	var pErr *character.ParseError
//	if errors.As(err, &pErr) {
//	    log.Println(pErr.Excerpt)
//	}
type ParseError struct {
	// Err is the underlying cause.
	Err error

	// Excerpt is the start of the content that failed to decode, cut at
	// 1000 runes with a trailing "..." when longer.
	Excerpt string
}

func newParseError(cause error, content string) *ParseError {
	return &ParseError{Err: cause, Excerpt: excerpt(content)}
}

// Error returns the message of the underlying cause.
func (e *ParseError) Error() string {
	if e == nil || e.Err == nil {
		return "parse character"
	}

	return "parse character: " + e.Err.Error()
}

// Unwrap returns the underlying cause for use with [errors.Is].
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

func excerpt(content string) string {
	if utf8.RuneCountInString(content) <= maxExcerptRunes {
		return content
	}

	runes := []rune(content)

	return string(runes[:maxExcerptRunes]) + "..."
}
