package ufokit

import "fmt"

// NotFoundError is returned when a key is absent from a lazy store or an
// entity collection. Kind identifies the store ("data", "image", "glyph",
// "layer").
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func notFound(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

// TypeMismatchError reports a tree value whose runtime shape disagrees with
// the declared type of the field at Path.
type TypeMismatchError struct {
	Path     string
	Expected string
	Value    any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %T (%v)", pathOrRoot(e.Path), e.Expected, e.Value, e.Value)
}

func typeMismatch(path, expected string, value any) error {
	return &TypeMismatchError{Path: path, Expected: expected, Value: value}
}

// MissingRequiredFieldError reports an input tree lacking a field that has
// no declared default.
type MissingRequiredFieldError struct {
	Path  string
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", pathOrRoot(e.Path), e.Field)
}

// UnexpectedFieldError reports an input tree key that matches no field of
// the target type. Only raised in strict mode.
type UnexpectedFieldError struct {
	Path  string
	Field string
}

func (e *UnexpectedFieldError) Error() string {
	return fmt.Sprintf("%s: unexpected field %q", pathOrRoot(e.Path), e.Field)
}

// UnsupportedTypeError reports a value that no codec, field table or
// primitive rule applies to. This is a programming error, not a data error.
type UnsupportedTypeError struct {
	Path string
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: cannot structure/destructure values of type %s", pathOrRoot(e.Path), e.Type)
}

func unsupportedType(path string, v any) error {
	return &UnsupportedTypeError{Path: path, Type: fmt.Sprintf("%T", v)}
}

// ExtrasNotInstalledError is returned when a serialization format has not
// been registered (typically because its package was not imported). Cause
// carries the original registration failure, if any.
type ExtrasNotInstalledError struct {
	Format string
	Cause  error
}

func (e *ExtrasNotInstalledError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("serialization format %q not installed: %v", e.Format, e.Cause)
	}
	return fmt.Sprintf("serialization format %q not installed", e.Format)
}

func (e *ExtrasNotInstalledError) Unwrap() error { return e.Cause }

// prefixPath prepends prefix to the path of a structuring error raised by
// a nested custom codec, which only sees paths relative to its own root.
func prefixPath(prefix string, err error) error {
	if err == nil || prefix == "" {
		return err
	}
	switch e := err.(type) {
	case *TypeMismatchError:
		e.Path = prefix + e.Path
	case *MissingRequiredFieldError:
		e.Path = prefix + e.Path
	case *UnexpectedFieldError:
		e.Path = prefix + e.Path
	case *UnsupportedTypeError:
		e.Path = prefix + e.Path
	}
	return err
}

func pathOrRoot(path string) string {
	if path == "" {
		return "$"
	}
	return path
}
