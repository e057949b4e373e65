// Package errs implements the error taxonomy from the specification's error
// handling design: distinct kinds that each surface a single message, with
// Kind.IsFatal recording which kinds abort a conversion.
package errs

import "fmt"

// Kind is one of the five fatal/recoverable error categories the
// specification defines.
type Kind int

const (
	Template Kind = iota
	Style
	Image
	Security
	Conversion
)

func (k Kind) String() string {
	switch k {
	case Template:
		return "TemplateError"
	case Style:
		return "StyleError"
	case Image:
		return "ImageError"
	case Security:
		return "SecurityError"
	case Conversion:
		return "ConversionError"
	default:
		return "UnknownError"
	}
}

// Error wraps a message and an optional cause under one of the kinds above.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// TemplateErrorf builds a TemplateError; the other *Errorf helpers below do
// the same for their kinds.
func TemplateErrorf(format string, args ...any) *Error { return New(Template, format, args...) }

func StyleErrorf(format string, args ...any) *Error { return New(Style, format, args...) }

func ImageErrorf(format string, args ...any) *Error { return New(Image, format, args...) }

func SecurityErrorf(format string, args ...any) *Error { return New(Security, format, args...) }

func ConversionErrorf(format string, args ...any) *Error { return New(Conversion, format, args...) }

// IsFatal reports whether errors of this kind must abort the conversion, per
// the specification's propagation policy (§7). Only Image errors are
// locally recovered; everything else is fatal.
func (k Kind) IsFatal() bool { return k != Image }
