// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is a sentinel error identifying a failure class. Match with errors.Is.
type Kind struct {
	name   string
	status int
}

func (k *Kind) Error() string { return k.name }

// Status returns the HTTP status code used for this kind.
func (k *Kind) Status() int { return k.status }

var (
	ErrUnauthorized       = &Kind{"unauthorized", http.StatusUnauthorized}
	ErrForbidden          = &Kind{"forbidden", http.StatusForbidden}
	ErrInvalidArgument    = &Kind{"invalid argument", http.StatusBadRequest}
	ErrNotFound           = &Kind{"not found", http.StatusNotFound}
	ErrConflict           = &Kind{"conflict", http.StatusConflict}
	ErrPaymentUnavailable = &Kind{"payment service unavailable", http.StatusServiceUnavailable}
	ErrPaymentProcessing  = &Kind{"payment processing error", http.StatusBadGateway}
	ErrInternal           = &Kind{"internal error", http.StatusInternalServerError}
)

type Error struct {
	Kind    *Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.name
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrNotFound) true for errors of that kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(*Kind)
	return ok && k == e.Kind
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an error of the given kind with a client-safe message.
func E(kind *Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap builds an error of the given kind that keeps err as its cause.
func Wrap(kind *Kind, err error, msg string) error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind carried by err, ErrInternal when there is none.
func KindOf(err error) *Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k *Kind
	if errors.As(err, &k) {
		return k
	}
	return ErrInternal
}

// PublicMessage returns the message safe to show a client. Internal errors never
// expose their cause.
func PublicMessage(err error) string {
	kind := KindOf(err)
	if kind == ErrInternal {
		return "internal server error"
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return kind.name
}
