// Package character persists character sheets as human-editable markdown
// files, one file per character.
//
// The package is layered leaf first:
//   - [Character] and [Note]: the in-memory model
//   - [Encode] / [Decode]: the markdown codec, pure and free of I/O
//   - [Store]: maps a character name to <dir>/<name>.md and moves raw text
//   - [Repository]: read-decode-mutate-encode-write operations on top
//
// The markdown file is the only source of truth. Every repository call
// re-reads the file; nothing is cached between calls, and nothing is locked.
// Two processes editing the same character concurrently can lose an update.
package character
