package dberrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so callers can branch on it.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindUnexpectedEOF - the buffer is shorter than a segment declares.
	KindUnexpectedEOF
	// KindInvalidEncoding - tag mismatch, malformed UTF-8, bad boolean byte.
	KindInvalidEncoding
	// KindInvalidSelector - prohibited prefix/start/end combination.
	KindInvalidSelector
	// KindPayloadCodec wraps a payload serializer failure.
	KindPayloadCodec
	// KindBackend wraps a backend-specific failure.
	KindBackend
	// KindTypeMismatch - a stored value has another type than requested.
	KindTypeMismatch
	// KindInvalidArgument - malformed caller input (dump documents, display keys).
	KindInvalidArgument
)

var kindNames = [...]string{
	KindUnknown:         "unknown",
	KindUnexpectedEOF:   "unexpected end of key",
	KindInvalidEncoding: "invalid encoding",
	KindInvalidSelector: "invalid selector",
	KindPayloadCodec:    "payload codec",
	KindBackend:         "backend",
	KindTypeMismatch:    "type mismatch",
	KindInvalidArgument: "invalid argument",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

const selectorMsg = "provide any one or two of prefix, start, end, not all three"

// Sentinels for errors.Is. Any *Error of the same kind matches them.
var (
	ErrUnexpectedEOF   = &Error{Kind: KindUnexpectedEOF, Pos: -1}
	ErrInvalidEncoding = &Error{Kind: KindInvalidEncoding, Pos: -1}
	ErrInvalidSelector = &Error{Kind: KindInvalidSelector, Pos: -1, Msg: selectorMsg}
	ErrPayloadCodec    = &Error{Kind: KindPayloadCodec, Pos: -1}
	ErrBackend         = &Error{Kind: KindBackend, Pos: -1}
	ErrTypeMismatch    = &Error{Kind: KindTypeMismatch, Pos: -1}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Pos: -1}

	ErrClosed = errors.New("tuplekv: closed")
)

// Error is the single error type of the storage core.
type Error struct {
	Kind Kind
	// Op names the failed operation ("decode", "range-scan", ...).
	Op string
	// Pos is the 0-based tuple position for key decode failures, -1 otherwise.
	Pos int
	Msg string
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("tuplekv: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Pos >= 0 {
		fmt.Fprintf(&b, " at position %d", e.Pos)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New returns an error of the given kind without a tuple position.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Pos: -1, Msg: msg}
}

// Wrap attaches a kind to an underlying failure. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Pos: -1, Err: err}
}

// AtPosition returns a copy of err annotated with a tuple position when err
// is an *Error; other errors are returned unchanged.
func AtPosition(err error, pos int) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	cp := *e
	cp.Pos = pos
	return &cp
}

// KindOf reports the kind of err, KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Backend wraps a backend failure, keeping errors that already carry a kind.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindBackend, Op: op, Pos: -1, Err: err}
}
