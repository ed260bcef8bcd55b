package apkres

import (
	"errors"
	"fmt"
)

var (
	// The attribute bag does not declare the flags format.
	ErrNotFlagsAttr = errors.New("attribute is not a flags attribute")

	// The flags attribute is missing.
	ErrNilAttr = errors.New("nil flags attribute")

	// String values are indexes into the global string pool, which is not available here.
	ErrNeedsStringPool = errors.New("string pool is required")
)

// InvalidFlagsError is returned when no declared flag covers any bit of Value.
type InvalidFlagsError struct {
	Value int32
}

func (e *InvalidFlagsError) Error() string {
	return fmt.Sprintf("invalid flags in value: 0x%08x", uint32(e.Value))
}

// UnknownFlagError is returned by EncodeFlags for a name no declared flag resolves to.
type UnknownFlagError struct {
	Name string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown flag name %q", e.Name)
}

// AmbiguousFlagError is returned by EncodeFlags for a name that resolves to flags
// with different bits.
type AmbiguousFlagError struct {
	Name string
}

func (e *AmbiguousFlagError) Error() string {
	return fmt.Sprintf("flag name %q is ambiguous", e.Name)
}
