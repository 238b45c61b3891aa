package cli

import "errors"

// Error variables for command-line handling.
var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrUnexpectedArg     = errors.New("unexpected argument")
	ErrIDRequired        = errors.New("--id is required")
	ErrUnknownFormat     = errors.New("unknown export format (use json or yaml)")
	ErrUnterminatedQuote = errors.New("unterminated quote")
	ErrConfigExists      = errors.New("config file already exists")
)
