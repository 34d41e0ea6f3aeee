package apperr

import "errors"

// Kind classifies an error so the HTTP layer can pick a status code
// without inspecting domain packages.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindPermission   Kind = "permission"
	KindUnauthorized Kind = "unauthorized"
	KindBusinessRule Kind = "business_rule"
	KindInternal     Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]any // field/item detail for the error envelope
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with a kind. errors.Is/As still see the original chain.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func (e *Error) WithFields(fields map[string]any) *Error {
	e.Fields = fields
	return e
}

// KindOf walks the chain for the outermost *Error; anything untagged is
// internal (storage faults, broken pipes, ...).
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func FieldsOf(err error) map[string]any {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
