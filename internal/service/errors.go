package service

import (
	"errors"
)

// Kind classifies a business-rule outcome so the transport layer can
// map it to an HTTP status without inspecting message strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func Invalid(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf reports the classification of err, unwrapping as needed.
// Errors that did not originate from a business rule report KindUnknown.
func KindOf(err error) Kind {
	e := &Error{}
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
