// Package utils provides low-level helpers shared by the fdt decoder:
// the stable error-code table, checked offset arithmetic, and
// bounds-checked big-endian reads over a borrowed byte slice.
package utils

import (
	"errors"
	"fmt"
)

// Stable error codes, in the style of the C library's negated-return-value
// convention, exposed here as a typed Go error instead.
const (
	ErrNotFound     = 1
	ErrExists       = 2
	ErrNoSpace      = 3
	ErrBadOffset    = 4
	ErrBadPath      = 5
	ErrBadPhandle   = 6
	ErrBadState     = 7
	ErrTruncated    = 8
	ErrBadMagic     = 9
	ErrBadVersion   = 10
	ErrBadStructure = 11
	ErrBadLayout    = 12
	ErrInternal     = 13
	ErrBadNCells    = 14
	ErrBadValue     = 15
	ErrMax          = 15
)

var errStrings = map[int]string{
	ErrNotFound:     "FDT_ERR_NOTFOUND: node or property not found",
	ErrExists:       "FDT_ERR_EXISTS: node or property already exists",
	ErrNoSpace:      "FDT_ERR_NOSPACE: insufficient buffer space",
	ErrBadOffset:    "FDT_ERR_BADOFFSET: offset out-of-bounds or misaligned",
	ErrBadPath:      "FDT_ERR_BADPATH: malformed path",
	ErrBadPhandle:   "FDT_ERR_BADPHANDLE: invalid phandle value",
	ErrBadState:     "FDT_ERR_BADSTATE: incomplete device tree",
	ErrTruncated:    "FDT_ERR_TRUNCATED: structure block ends without END tag",
	ErrBadMagic:     "FDT_ERR_BADMAGIC: missing device tree magic number",
	ErrBadVersion:   "FDT_ERR_BADVERSION: unsupported device tree version",
	ErrBadStructure: "FDT_ERR_BADSTRUCTURE: corrupt structure block",
	ErrBadLayout:    "FDT_ERR_BADLAYOUT: sub-blocks out of order",
	ErrInternal:     "FDT_ERR_INTERNAL: internal decoder error",
	ErrBadNCells:    "FDT_ERR_BADNCELLS: bad #address-cells or #size-cells",
	ErrBadValue:     "FDT_ERR_BADVALUE: unexpected property value",
}

// Error is a structured decoder error carrying a stable numeric code
// alongside human-readable context.
type Error struct {
	code    int
	Context string
	Cause   error
}

// NewError builds an Error for the given stable code and context, with
// no further cause (the code itself is the explanation).
func NewError(code int, context string) *Error {
	return &Error{code: code, Context: context}
}

// WrapError attaches context to cause. If cause already carries a stable
// code, that code is preserved; otherwise the wrapped error is Internal.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	code := ErrInternal
	var e *Error
	if errors.As(cause, &e) {
		code = e.code
	}
	return &Error{code: code, Context: context, Cause: cause}
}

// Code returns the stable FDT_ERR_* code for this error.
func (e *Error) Code() int {
	return e.code
}

// IsCode reports whether err carries the given stable error code
// anywhere in its chain.
func IsCode(err error, code int) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.code == code
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Context, Strerror(e.code))
}

// Unwrap provides compatibility with errors.Unwrap() / errors.As().
func (e *Error) Unwrap() error {
	return e.Cause
}

// Strerror returns the fixed English string for a stable error code,
// or a placeholder for unknown codes. Mirrors fdt_strerror.
func Strerror(code int) string {
	if s, ok := errStrings[code]; ok {
		return s
	}
	return fmt.Sprintf("FDT_ERR_UNKNOWN: unrecognized error code %d", code)
}
