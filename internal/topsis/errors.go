package topsis

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindStructure        Kind = "StructureError"
	KindNumeric          Kind = "NumericError"
	KindParse            Kind = "ParseError"
	KindCountMismatch    Kind = "CountMismatchError"
	KindDegenerateColumn Kind = "DegenerateColumnError"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrStructure        = &Error{Kind: KindStructure}
	ErrNumeric          = &Error{Kind: KindNumeric}
	ErrParse            = &Error{Kind: KindParse}
	ErrCountMismatch    = &Error{Kind: KindCountMismatch}
	ErrDegenerateColumn = &Error{Kind: KindDegenerateColumn}
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of a pipeline failure, or "" when err did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
