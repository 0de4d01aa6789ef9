package lang

import (
	"errors"
	"fmt"
)

// Errors returned by language lookups and loading.
var (
	// ErrUnknownLanguage indicates no definition is registered under a name.
	ErrUnknownLanguage = errors.New("lang: unknown language")

	// ErrUnknownFormat indicates a definition file has an unsupported extension.
	ErrUnknownFormat = errors.New("lang: unknown definition format")

	// ErrUnknownTokenizer indicates a definition names a tokenizer that does not exist.
	ErrUnknownTokenizer = errors.New("lang: unknown tokenizer")

	// ErrWatcherClosed indicates the watcher was already closed.
	ErrWatcherClosed = errors.New("lang: watcher closed")

	// ErrTokenizerTimeout indicates a tokenizer script ran past its deadline.
	ErrTokenizerTimeout = errors.New("lang: tokenizer timeout")
)

// ParseError represents an error while parsing a language definition.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Message describes the problem.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("lang: parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
