package style

import (
	"errors"
	"fmt"
)

// Sentinel errors for style operations.
var (
	// ErrUnknownProperty is returned (or carried by a ContractViolation) when
	// a property name is not declared by the layer's schema.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrInvalidValue is returned when a raw style value does not fit the
	// property's declaration.
	ErrInvalidValue = errors.New("invalid property value")

	// ErrSchemaMismatch is carried by a ContractViolation when a snapshot is
	// used with a layer built from a different schema.
	ErrSchemaMismatch = errors.New("snapshot schema mismatch")

	// ErrTypeMismatch is carried by a ContractViolation when a typed accessor
	// is used on a value of another type.
	ErrTypeMismatch = errors.New("property type mismatch")
)

// ContractViolation is the panic value raised when a caller breaks the
// evaluation contract: reading an undeclared property, using a snapshot with
// the wrong layer, or reading a value as the wrong type. It is not meant to
// be recovered by the caller that caused it.
type ContractViolation struct {
	Op       string
	Property string
	Err      error
}

func (e *ContractViolation) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("style: contract violation in %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("style: contract violation in %s(%q): %v", e.Op, e.Property, e.Err)
}

func (e *ContractViolation) Unwrap() error { return e.Err }

func violate(op, property string, err error) {
	panic(&ContractViolation{Op: op, Property: property, Err: err})
}
