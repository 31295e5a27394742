package parser

import (
	"errors"
	"fmt"
)

// ParseError describes a syntactic fault. Position is a rune offset into the
// step text being tokenized, or -1 when the fault has no position.
type ParseError struct {
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	return e.Message
}

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

func newParseError(position int, format string, args ...any) *ParseError {
	return &ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: position,
	}
}

func errMissingQuantity(position int) *ParseError {
	return newParseError(position, "Ingredient missing quantity delimiters near position %d.", position)
}

func errMissingIngredientName(position int) *ParseError {
	return newParseError(position, "Ingredient missing name at position %d.", position)
}

func errMissingCookwareName(position int) *ParseError {
	return newParseError(position, "Cookware missing name at position %d.", position)
}

func errMissingTimerValue(position int) *ParseError {
	return newParseError(position, "Timer missing value near position %d.", position)
}

func errUnclosedBrace(position int) *ParseError {
	return newParseError(position, "Unclosed brace value starting at position %d.", position)
}

func errUnterminatedFrontMatter() *ParseError {
	return &ParseError{
		Message:  "Front matter starting delimiter found but no closing delimiter detected.",
		Position: -1,
	}
}
