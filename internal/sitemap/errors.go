package sitemap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDomainMismatch   = errors.New("domain mismatch")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrAlreadyFinalized = errors.New("already finalized")
	ErrEmptyNotAllowed  = errors.New("empty sitemap not allowed")
	ErrConfiguration    = errors.New("invalid configuration")
	ErrIO               = errors.New("sitemap i/o failure")
	ErrValidation       = errors.New("sitemap validation failed")
)

// Error 携带错误类别（Kind，可用 errors.Is 判断）、说明、相关文件与底层原因。
type Error struct {
	Kind error
	Msg  string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Path != "" {
		b.WriteString(" (")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func configErrorf(format string, args ...any) error {
	return errorf(ErrConfiguration, format, args...)
}

func ioError(msg, path string, err error) error {
	return &Error{Kind: ErrIO, Msg: msg, Path: path, Err: err}
}

// ValidationError 为写入后校验失败，Problems 为逐条诊断信息。
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Path)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Path, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
