package types

import (
	"errors"
	"fmt"
	"strings"
)

// Definition language errors. Parsing stops at the first error; no partial
// result is returned.
var (
	ErrMissingDefinition = errors.New("block field definition input is undefined")
	ErrInvalidDefinition = errors.New("invalid block field definition")
	ErrInvalidFieldType  = errors.New("invalid block field type")
)

// Codec and editing errors.
var (
	ErrMalformedBlock = errors.New("malformed stored block")
	ErrValueMismatch  = errors.New("value does not match field type")
	ErrBlockNotFound  = errors.New("block not found")
	ErrFieldNotFound  = errors.New("field not found")
)

// Store lifecycle errors.
var (
	ErrStoreDetached      = errors.New("store is detached")
	ErrAlreadyAttached    = errors.New("store is already attached")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrInvalidCollection  = errors.New("collection name must not be empty")
)

// DefinitionError reports a fragment that does not match the definition
// grammar. It wraps ErrInvalidDefinition.
type DefinitionError struct {
	Fragment string
}

func (e *DefinitionError) Error() string {
	return "invalid block field definition: " + e.Fragment
}

func (e *DefinitionError) Unwrap() error { return ErrInvalidDefinition }

// FieldTypeError reports a type token outside the recognized set. It wraps
// ErrInvalidFieldType.
type FieldTypeError struct {
	Fragment string
	Received string
	Expected []FieldType
}

func (e *FieldTypeError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, t := range e.Expected {
		expected[i] = "'" + string(t) + "'"
	}
	return fmt.Sprintf("invalid block field type in %q: expected %s, received '%s'",
		e.Fragment, strings.Join(expected, " | "), e.Received)
}

func (e *FieldTypeError) Unwrap() error { return ErrInvalidFieldType }
