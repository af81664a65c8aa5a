package jsmin

import "errors"

// Errors returned by the scanner when it cannot keep minifying without
// risking a change in program semantics. Any of these aborts
// minification atomically: the caller must discard whatever partial
// output accompanies the error.
var (
	// ErrUnterminatedComment is returned when a "/*" block comment is
	// never closed by a matching "*/" before the end of input.
	ErrUnterminatedComment = errors.New("jsmin: unterminated block comment")

	// ErrUnterminatedString is returned when a string literal is never
	// closed by a matching quote before the end of input.
	ErrUnterminatedString = errors.New("jsmin: unterminated string literal")

	// ErrUnterminatedRegexp is returned when a regular expression
	// literal is never closed by a matching "/" before the end of
	// input.
	ErrUnterminatedRegexp = errors.New("jsmin: unterminated regular expression literal")

	// ErrRawNewlineInRegexp is returned when a raw newline byte occurs
	// inside a regular expression literal.
	ErrRawNewlineInRegexp = errors.New("jsmin: raw newline inside regular expression literal")
)
