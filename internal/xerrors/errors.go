package xerrors

import (
	"errors"
	"strings"
)

// Kind classifies a failure by how the caller must react to it.
type Kind uint8

const (
	// KindConfiguration is a missing or malformed credential. Never retried;
	// the source stays halted until it is reconfigured.
	KindConfiguration Kind = iota + 1
	// KindTransient covers timeouts, resets and non-success HTTP statuses.
	KindTransient
	// KindDecode is a provider payload that could not be parsed.
	KindDecode
	// KindAssetDecode is an image file that could not be decoded.
	KindAssetDecode
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransient:
		return "transient"
	case KindDecode:
		return "decode"
	case KindAssetDecode:
		return "asset decode"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(strings.ToLower(e.Source))
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func Configuration(opts ...Option) *Error { return newErr(KindConfiguration, opts) }
func Transient(opts ...Option) *Error     { return newErr(KindTransient, opts) }
func Decode(opts ...Option) *Error        { return newErr(KindDecode, opts) }
func AssetDecode(opts ...Option) *Error   { return newErr(KindAssetDecode, opts) }

func newErr(kind Kind, opts []Option) *Error {
	e := &Error{Kind: kind, Message: kind.String() + " error"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type Option func(*Error)

func WithMessage(msg string) Option   { return func(e *Error) { e.Message = msg } }
func WithCause(err error) Option      { return func(e *Error) { e.Cause = err } }
func WithSource(source string) Option { return func(e *Error) { e.Source = source } }

func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func Is(err error, kind Kind) bool {
	e := As(err)
	return e != nil && e.Kind == kind
}

func IsConfiguration(err error) bool { return Is(err, KindConfiguration) }
func IsTransient(err error) bool     { return Is(err, KindTransient) }
func IsDecode(err error) bool        { return Is(err, KindDecode) }
