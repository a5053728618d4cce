package column

import (
	"errors"
	"fmt"
)

// ErrPendingSubquery is returned when a subquery is cast to a JSON column.
// A subquery must be embedded in SQL, never serialized as a document.
var ErrPendingSubquery = errors.New("subquery cannot be serialized as JSON")

// WrongTypeError indicates a host value outside a column type's marshaling domain.
type WrongTypeError struct {
	Value  any
	Type   Type
	Column string
	Reason string
}

// Error implements the error interface.
func (e *WrongTypeError) Error() string {
	msg := fmt.Sprintf("cannot cast %T to %s", e.Value, e.Type)
	if e.Column != "" {
		msg += fmt.Sprintf(" for column %q", e.Column)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (d *Descriptor) wrongType(v any, format string, args ...any) error {
	return &WrongTypeError{
		Value:  v,
		Type:   d.typ,
		Column: d.name,
		Reason: fmt.Sprintf(format, args...),
	}
}
