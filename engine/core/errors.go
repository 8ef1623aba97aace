package core

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedFace   = errors.New("malformed face")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrMalformedNumber = errors.New("malformed number")
	ErrEmptyMesh       = errors.New("mesh has no faces")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrUnknown         = errors.New("unknown")
)

/**
 * @brief Returned when a shader stage fails to compile. Log holds the
 * driver's info log verbatim.
 */
type CompileError struct {
	Stage string
	Name  string
	Log   string
}

func (e *CompileError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s shader %s failed to compile:\n%s", e.Stage, e.Name, e.Log)
	}
	return fmt.Sprintf("%s shader failed to compile:\n%s", e.Stage, e.Log)
}

/**
 * @brief Returned when a program fails to link. Log holds the driver's
 * program info log verbatim.
 */
type LinkError struct {
	Name string
	Log  string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("could not link shader program %s:\n%s", e.Name, e.Log)
}

// ParseError reports the first problem found while reading a text asset.
type ParseError struct {
	Name   string
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %v", e.Name, e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Name, e.Reason, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
