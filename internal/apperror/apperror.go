// Package apperror defines the closed set of error values that can cross the
// HTTP boundary. Every failure funnels into a *Message before it reaches the
// response envelope, so clients always see the same shape.
package apperror

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

// RedactedReason replaces wrapped upstream error text in release mode.
const RedactedReason = "Something went wrong."

var release atomic.Bool

// SetReleaseMode switches the package between development behaviour (full
// detail, call-site capture) and release behaviour (redacted upstream
// reasons, no source locations).
func SetReleaseMode(on bool) { release.Store(on) }

// ReleaseMode reports the current mode.
func ReleaseMode() bool { return release.Load() }

// Showable is implemented by domain errors whose reason is safe to display
// verbatim to an end user. The field value parsers implement it.
type Showable interface {
	error
	Identifier() string
	Reason() string
	UserShowable() bool
}

// Source is the call site captured when a Message is constructed.
// Populated only outside release mode.
type Source struct {
	File     string
	Function string
	Line     int
}

func (s *Source) String() string {
	return fmt.Sprintf("at file: %s, function: %s, line: %d", s.File, s.Function, s.Line)
}

func capture(skip int) *Source {
	if release.Load() {
		return nil
	}
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return nil
	}
	src := &Source{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		src.Function = fn.Name()
	}
	return src
}

type kind int

const (
	kindMessage kind = iota
	kindFields
	kindList
	kindWrapped
)

func (k kind) identifier() string {
	switch k {
	case kindFields:
		return "FieldErrors"
	case kindList:
		return "ErrorList"
	case kindWrapped:
		return "WrappedError"
	default:
		return "Message"
	}
}

// Message is one of four variants: a single string, a field-keyed map, an
// ordered list of strings, or a wrapped upstream error. Construct through
// New, Fields, List or Wrap.
type Message struct {
	kind     kind
	text     string
	fields   map[string]string
	list     []string
	wrapped  error
	sentinel error
	source   *Source

	// redact hides the text behind RedactedReason in release mode; set on
	// messages whose text carries store/driver detail.
	redact bool
}

// New returns a single-string message.
func New(text string) *Message {
	return &Message{kind: kindMessage, text: text, source: capture(2)}
}

// Fields returns a field-keyed message; the reason renders each entry as
// "key value", keys sorted, joined by newlines.
func Fields(fields map[string]string) *Message {
	return &Message{kind: kindFields, fields: fields, source: capture(2)}
}

// List returns a message-list variant; order is preserved.
func List(items []string) *Message {
	return &Message{kind: kindList, list: items, source: capture(2)}
}

// Wrap captures an upstream error. If err is already a *Message it is
// returned unchanged; if a Showable is anywhere in its chain the message
// delegates identifier, reason and visibility to it.
func Wrap(err error) *Message {
	var msg *Message
	if errors.As(err, &msg) {
		return msg
	}
	return &Message{kind: kindWrapped, wrapped: err, source: capture(2)}
}

// WrapSkip is Wrap for helpers that wrap on behalf of their caller: the
// captured call site is skip frames above the WrapSkip caller, so the debug
// description points at the originating handler, not the helper.
func WrapSkip(err error, skip int) *Message {
	var msg *Message
	if errors.As(err, &msg) {
		return msg
	}
	return &Message{kind: kindWrapped, wrapped: err, source: capture(2 + skip)}
}

// Validation builds a client-input error, e.g. a malformed path id or a
// missing required query parameter. It satisfies errors.Is(err, ErrValidation).
func Validation(text string) *Message {
	return &Message{
		kind:     kindMessage,
		text:     text,
		sentinel: ErrValidation,
		source:   capture(2),
	}
}

// NotFound builds the repository-level not-found error for a resource.
// It satisfies errors.Is(err, ErrNotFound).
func NotFound(resource, id string) *Message {
	return &Message{
		kind:     kindMessage,
		text:     fmt.Sprintf("Unable to find the %s for requested id: %s", resource, id),
		sentinel: ErrNotFound,
		source:   capture(2),
	}
}

// Conflict builds a uniqueness-violation error for a resource. It satisfies
// errors.Is(err, ErrConflict). detail is store/driver text, so the rendered
// reason is redacted in release mode.
func Conflict(resource, detail string) *Message {
	return &Message{
		kind:     kindMessage,
		text:     fmt.Sprintf("%s conflict: %s", resource, detail),
		sentinel: ErrConflict,
		source:   capture(2),
		redact:   true,
	}
}

func (m *Message) Error() string { return m.Reason() }

// Unwrap exposes the wrapped upstream error or the sentinel, keeping
// errors.Is and errors.As working across the chain.
func (m *Message) Unwrap() error {
	if m.wrapped != nil {
		return m.wrapped
	}
	return m.sentinel
}

// Reason renders the variant to the string placed in the envelope's "error"
// field. Wrapped upstream errors are redacted in release mode unless a
// Showable supplies a user-safe reason.
func (m *Message) Reason() string {
	switch m.kind {
	case kindFields:
		keys := make([]string, 0, len(m.fields))
		for k := range m.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, k+" "+m.fields[k])
		}
		return strings.Join(lines, "\n")
	case kindList:
		return strings.Join(m.list, "\n")
	case kindWrapped:
		var showable Showable
		if errors.As(m.wrapped, &showable) {
			return showable.Reason()
		}
		if release.Load() {
			return RedactedReason
		}
		if m.wrapped == nil {
			return ""
		}
		return m.wrapped.Error()
	default:
		if m.redact && release.Load() {
			return RedactedReason
		}
		return m.text
	}
}

// Identifier is the variant's type name, unless a wrapped Showable supplies
// its own.
func (m *Message) Identifier() string {
	if m.kind == kindWrapped {
		var showable Showable
		if errors.As(m.wrapped, &showable) {
			return showable.Identifier()
		}
	}
	return m.kind.identifier()
}

// UserShowable reports whether the reason may be displayed verbatim to an
// end user. Only wrapped Showable errors opt in; everything else is an
// internal diagnostic.
func (m *Message) UserShowable() bool {
	if m.kind == kindWrapped {
		var showable Showable
		if errors.As(m.wrapped, &showable) {
			return showable.UserShowable()
		}
	}
	return false
}

// DebugDescription is the captured call site, empty in release mode.
func (m *Message) DebugDescription() string {
	if release.Load() || m.source == nil {
		return ""
	}
	return m.source.String()
}
