// Package client implements the route proxy and client facade: typed
// method dispatch, the ResponseBox result envelope, and the per-call
// factory (spec.md §3 "ResponseBox", §4.3 "Route proxy", §6 "Factory").
// Grounded on the teacher's contract→service→provider layering (visible
// across cache, depot, pocket, docula: a small typed facade in front of a
// provider, with a singleton service layer in between), adapted to a
// per-call object graph (Factory → Client → RouteProxy) instead of a
// package-level singleton, because spec.md §3 requires clients to be
// short-lived.
package client

import (
	"fmt"

	"github.com/zoobzio/forge/httpmsg"
)

// ResponseBox is the algebraic Ok(TResponse)/Err(error) envelope spec.md §3
// describes. The typed response is decoded when the verb dispatcher builds
// the box, not on first access: a decode failure already yields an Err box.
// JSON exposes the raw payload regardless of ok/err. Go has no generic
// methods, so the cross-
// type combinators (Map, MapOr, AndThen, ...) are free functions alongside
// the type (DESIGN.md: "the one place this module deliberately diverges
// from the teacher's raw (T, error) idiom").
type ResponseBox[T any] struct {
	ok       bool
	response T
	err      error
	raw      *httpmsg.Response
}

// Ok builds a successful ResponseBox.
func Ok[T any](response T, raw *httpmsg.Response) *ResponseBox[T] {
	return &ResponseBox[T]{ok: true, response: response, raw: raw}
}

// Err builds a failed ResponseBox. raw may be nil for a transport-level
// failure that never produced a response.
func Err[T any](err error, raw *httpmsg.Response) *ResponseBox[T] {
	return &ResponseBox[T]{ok: false, err: err, raw: raw}
}

// IsOk reports whether the box holds a successful response.
func (b *ResponseBox[T]) IsOk() bool { return b.ok }

// IsErr reports whether the box holds an error.
func (b *ResponseBox[T]) IsErr() bool { return !b.ok }

// JSON returns the raw parsed JSON payload regardless of ok/err (spec.md
// §3 "a json view of the raw payload regardless of ok/err").
func (b *ResponseBox[T]) JSON() any {
	if b.raw == nil {
		return nil
	}
	return b.raw.JSON
}

// Raw returns the underlying httpmsg.Response, if any.
func (b *ResponseBox[T]) Raw() *httpmsg.Response { return b.raw }

// Unwrap returns the response, panicking with the error if the box is Err.
func (b *ResponseBox[T]) Unwrap() T {
	if !b.ok {
		panic(fmt.Sprintf("client: called Unwrap on an Err ResponseBox: %v", b.err))
	}
	return b.response
}

// UnwrapErr returns the error, panicking if the box is Ok.
func (b *ResponseBox[T]) UnwrapErr() error {
	if b.ok {
		panic("client: called UnwrapErr on an Ok ResponseBox")
	}
	return b.err
}

// UnwrapOr returns the response, or fallback if the box is Err.
func (b *ResponseBox[T]) UnwrapOr(fallback T) T {
	if b.ok {
		return b.response
	}
	return fallback
}

// UnwrapOrElse returns the response, or the result of f(err) if the box is
// Err.
func (b *ResponseBox[T]) UnwrapOrElse(f func(error) T) T {
	if b.ok {
		return b.response
	}
	return f(b.err)
}

// Expect returns the response, panicking with msg prefixed to the error if
// the box is Err.
func (b *ResponseBox[T]) Expect(msg string) T {
	if !b.ok {
		panic(fmt.Sprintf("%s: %v", msg, b.err))
	}
	return b.response
}

// ExpectErr returns the error, panicking with msg if the box is Ok.
func (b *ResponseBox[T]) ExpectErr(msg string) error {
	if b.ok {
		panic(msg)
	}
	return b.err
}

// ErrVal returns the error without panicking; zero value if the box is Ok.
func (b *ResponseBox[T]) ErrVal() error { return b.err }

// Map transforms the Ok value, leaving an Err box untouched (cross-type, so
// a free function rather than a method — Go has no generic methods).
func Map[T, U any](b *ResponseBox[T], f func(T) U) *ResponseBox[U] {
	if b.ok {
		return Ok(f(b.response), b.raw)
	}
	return Err[U](b.err, b.raw)
}

// MapOr applies f to the Ok value, or returns fallback for an Err box.
func MapOr[T, U any](b *ResponseBox[T], fallback U, f func(T) U) U {
	if b.ok {
		return f(b.response)
	}
	return fallback
}

// MapOrElse applies onOk to the Ok value, or onErr(err) for an Err box.
func MapOrElse[T, U any](b *ResponseBox[T], onErr func(error) U, onOk func(T) U) U {
	if b.ok {
		return onOk(b.response)
	}
	return onErr(b.err)
}

// MapErr transforms the Err value, leaving an Ok box untouched.
func MapErr[T any](b *ResponseBox[T], f func(error) error) *ResponseBox[T] {
	if !b.ok {
		return Err[T](f(b.err), b.raw)
	}
	return b
}

// AndThen chains a fallible continuation off an Ok box; an Err box short-
// circuits unchanged.
func AndThen[T, U any](b *ResponseBox[T], f func(T) *ResponseBox[U]) *ResponseBox[U] {
	if b.ok {
		return f(b.response)
	}
	return Err[U](b.err, b.raw)
}

// OrElse recovers from an Err box via f; an Ok box passes through unchanged.
func OrElse[T any](b *ResponseBox[T], f func(error) *ResponseBox[T]) *ResponseBox[T] {
	if !b.ok {
		return f(b.err)
	}
	return b
}
