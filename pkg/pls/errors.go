package pls

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVersion indicates a Version key with a value other than 2.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrMissingPlaylistSection indicates the [playlist] section is missing.
	ErrMissingPlaylistSection = errors.New("missing [playlist] section")
	// ErrMissingKey indicates a required key is missing.
	ErrMissingKey = errors.New("required key missing")
	// ErrInvalidInteger indicates a value that is not an unsigned integer.
	ErrInvalidInteger = errors.New("invalid integer")
	// ErrSyntax indicates the input is not a readable INI document.
	ErrSyntax = errors.New("syntax error")
	// ErrInvalidValue indicates a value that cannot be written.
	ErrInvalidValue = errors.New("invalid value")
)

// VersionError is returned when the Version key is not 2.
type VersionError struct {
	Version uint64
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("invalid version %d specified", e.Version)
}

func (e *VersionError) Is(target error) bool {
	return target == ErrInvalidVersion
}

// KeyError is returned when a required key is missing.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key %q missing", e.Key)
}

func (e *KeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// IntegerError is returned when a key holds something other than an unsigned
// integer. It unwraps to the underlying [strconv.NumError].
type IntegerError struct {
	Err   error
	Key   string
	Value string
}

func (e *IntegerError) Error() string {
	return fmt.Sprintf("key %q: %v", e.Key, e.Err)
}

func (e *IntegerError) Is(target error) bool {
	return target == ErrInvalidInteger
}

func (e *IntegerError) Unwrap() error {
	return e.Err
}

// SyntaxError wraps errors from the INI reader.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %v", ErrSyntax, e.Err)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ValueError is returned by [Write] for values containing line breaks.
type ValueError struct {
	Key   string
	Value string
	Index int
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("element %d: %s %q contains a line break", e.Index, e.Key, e.Value)
}

func (e *ValueError) Is(target error) bool {
	return target == ErrInvalidValue
}
