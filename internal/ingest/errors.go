package ingest

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

// Kind classifies pipeline failures.
type Kind string

const (
	KindUnsupportedType       Kind = "unsupported_type"
	KindFileTooLarge          Kind = "file_too_large"
	KindEncodedResultTooLarge Kind = "encoded_result_too_large"
	KindInvalidImage          Kind = "invalid_image"
)

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrUnsupportedType       = &Error{Kind: KindUnsupportedType}
	ErrFileTooLarge          = &Error{Kind: KindFileTooLarge}
	ErrEncodedResultTooLarge = &Error{Kind: KindEncodedResultTooLarge}
	ErrInvalidImage          = &Error{Kind: KindInvalidImage}
)

// Error is a terminal, user-facing pipeline failure.
type Error struct {
	Kind    Kind
	Message string

	// Size and Limit describe the offending measurement when the failure is
	// size related. Both are zero otherwise.
	Size  int64
	Limit int64

	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind so callers can compare against the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of a pipeline error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func unsupportedType(mediaType string) *Error {
	return &Error{
		Kind:    KindUnsupportedType,
		Message: fmt.Sprintf("file type %q is not supported; upload JPG, PNG, WebP, PDF, Word or Excel", mediaType),
	}
}

func imageTooLarge(size, limit int64) *Error {
	return &Error{
		Kind:    KindFileTooLarge,
		Message: fmt.Sprintf("image is too large (%s); maximum is %s", FormatSize(size), FormatSize(limit)),
		Size:    size,
		Limit:   limit,
	}
}

func documentTooLarge(size, limit int64) *Error {
	return &Error{
		Kind:    KindFileTooLarge,
		Message: fmt.Sprintf("file is too large (%s); maximum is about %s for PDF, Word and Excel", FormatSize(size), FormatSize(limit)),
		Size:    size,
		Limit:   limit,
	}
}

func encodedTooLarge(size, limit int) *Error {
	return &Error{
		Kind:    KindEncodedResultTooLarge,
		Message: fmt.Sprintf("compressed result is still too large (%s, limit %s); use a smaller image or a more compact file", FormatSize(int64(size)), FormatSize(int64(limit))),
		Size:    int64(size),
		Limit:   int64(limit),
	}
}

func invalidImage(cause error) *Error {
	return &Error{
		Kind:    KindInvalidImage,
		Message: "image could not be read",
		Cause:   cause,
	}
}

// FormatSize renders a byte count the way upload forms show it.
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
