// Package errs provides the error type returned by http handlers and its
// mapping onto status codes.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode represents an error code in the system.
type ErrCode struct {
	value int
}

// Value returns the integer value of the error code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the string representation of the error code.
func (ec ErrCode) String() string {
	return codeNames[ec]
}

// MarshalText implements the encoding.TextMarshaler interface.
func (ec ErrCode) MarshalText() ([]byte, error) {
	return []byte(ec.String()), nil
}

// The set of error codes handlers may return.
var (
	OK                = ErrCode{value: 0}
	InvalidArgument   = ErrCode{value: 3}
	NotFound          = ErrCode{value: 5}
	Aborted           = ErrCode{value: 10}
	ResourceExhausted = ErrCode{value: 8}
	Internal          = ErrCode{value: 13}
	Unauthenticated   = ErrCode{value: 16}
	InternalOnlyLog   = ErrCode{value: 17}
)

var codeNames = map[ErrCode]string{
	OK:                "ok",
	InvalidArgument:   "invalid_argument",
	NotFound:          "not_found",
	Aborted:           "aborted",
	ResourceExhausted: "resource_exhausted",
	Internal:          "internal",
	Unauthenticated:   "unauthenticated",
	InternalOnlyLog:   "internal_only_log",
}

var httpStatus = map[ErrCode]int{
	OK:                http.StatusOK,
	InvalidArgument:   http.StatusBadRequest,
	NotFound:          http.StatusNotFound,
	Aborted:           http.StatusConflict,
	ResourceExhausted: http.StatusTooManyRequests,
	Internal:          http.StatusInternalServerError,
	Unauthenticated:   http.StatusUnauthorized,
	InternalOnlyLog:   http.StatusInternalServerError,
}

// Error represents an error in the system.
type Error struct {
	Code     ErrCode           `json:"code"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	FuncName string            `json:"-"`
	FileName string            `json:"-"`
}

// New constructs an error based on an app error.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf constructs an error based on a error message.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// NewFieldErrors constructs an InvalidArgument error carrying a message per field.
func NewFieldErrors(fields map[string]string) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     InvalidArgument,
		Message:  "one or more fields are invalid",
		Fields:   fields,
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Encode implements the encoder interface.
func (e *Error) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json", err
}

// HTTPStatus implements the web package httpStatus interface so the
// web package can set the status code.
func (e *Error) HTTPStatus() int {
	if s, ok := httpStatus[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Equal provides support for the go-cmp package and testing.
func (e *Error) Equal(e2 *Error) bool {
	return e.Code == e2.Code && e.Message == e2.Message
}

// IsError tests the concrete error is of the Error type.
func IsError(err error) bool {
	var er *Error
	return errors.As(err, &er)
}

// GetError returns a copy of the Error pointer.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return nil
	}
	return er
}
