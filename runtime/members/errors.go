package members

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"

	"github.com/conduit-lang/hostbridge/internal/messages"
)

// ErrorCode is the unique code of a bridge error
type ErrorCode string

// ErrorCategory groups error codes by the phase that raises them
type ErrorCategory string

const (
	// CategoryConstruction covers failures while building a member table
	CategoryConstruction ErrorCategory = "construction"
	// CategoryAccess covers failures of get/put against a built table
	CategoryAccess ErrorCategory = "access"
	// CategoryConversion covers value coercion failures
	CategoryConversion ErrorCategory = "conversion"
)

const (
	CodeTypeNotVisible       ErrorCode = "HB001"
	CodeMemberNotFound       ErrorCode = "HB002"
	CodeIllegalAccessOnWrite ErrorCode = "HB003"
	CodeTypeMismatch         ErrorCode = "HB004"
	CodeAccessDenied         ErrorCode = "HB005"
	CodeCoercion             ErrorCode = "HB006"
	CodeMethodAssign         ErrorCode = "HB007"
	CodeInvocation           ErrorCode = "HB008"
)

// Sentinels for errors.Is. They match any *Error carrying the same code.
var (
	ErrTypeNotVisible       = &Error{Code: CodeTypeNotVisible}
	ErrMemberNotFound       = &Error{Code: CodeMemberNotFound}
	ErrIllegalAccessOnWrite = &Error{Code: CodeIllegalAccessOnWrite}
	ErrTypeMismatch         = &Error{Code: CodeTypeMismatch}
	ErrAccessDenied         = &Error{Code: CodeAccessDenied}
	ErrCoercion             = &Error{Code: CodeCoercion}
	ErrMethodAssign         = &Error{Code: CodeMethodAssign}
	ErrInvocation           = &Error{Code: CodeInvocation}
)

var categories = map[ErrorCode]ErrorCategory{
	CodeTypeNotVisible:       CategoryConstruction,
	CodeAccessDenied:         CategoryConstruction,
	CodeMemberNotFound:       CategoryAccess,
	CodeIllegalAccessOnWrite: CategoryAccess,
	CodeMethodAssign:         CategoryAccess,
	CodeInvocation:           CategoryAccess,
	CodeTypeMismatch:         CategoryConversion,
	CodeCoercion:             CategoryConversion,
}

var messageKeys = map[ErrorCode]string{
	CodeTypeNotVisible:       messages.TypeNotVisible,
	CodeMemberNotFound:       messages.MemberNotFound,
	CodeIllegalAccessOnWrite: messages.IllegalAccess,
	CodeTypeMismatch:         messages.FieldType,
	CodeAccessDenied:         messages.AccessDenied,
	CodeCoercion:             messages.Coercion,
	CodeMethodAssign:         messages.MethodAssign,
	CodeInvocation:           messages.Invocation,
}

// Error is a script-visible runtime error raised by the bridge
type Error struct {
	// Code is the unique error code (e.g., "HB002")
	Code ErrorCode `json:"code"`
	// Category is the phase that raised the error
	Category ErrorCategory `json:"category"`
	// TypeName is the host type involved
	TypeName string `json:"type,omitempty"`
	// Member is the member name involved (optional)
	Member string `json:"member,omitempty"`
	// Message is the localized message
	Message string `json:"message"`
	// Expected is the native type a value had to conform to (optional)
	Expected string `json:"expected,omitempty"`
	// Actual is the type of the offending value (optional)
	Actual string `json:"actual,omitempty"`
	// Cause is the underlying host error (optional)
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Cause != nil && e.Code != CodeInvocation {
		return fmt.Sprintf("%s: %s (%v)", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying host error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so the package sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// ToJSON returns the error as a JSON string
func (e *Error) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithCause sets the underlying host error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithTypes sets the expected and actual type names
func (e *Error) WithTypes(expected, actual string) *Error {
	e.Expected = expected
	e.Actual = actual
	return e
}

// Reporter formats the localized message of a bridge error.
type Reporter interface {
	Message(code ErrorCode, args ...any) string
}

// catalogReporter formats messages from the internal/messages catalog.
type catalogReporter struct {
	printer *messages.Printer
}

// NewReporter returns a Reporter that localizes messages for tag.
func NewReporter(tag language.Tag) Reporter {
	return &catalogReporter{printer: messages.NewPrinter(tag)}
}

func (r *catalogReporter) Message(code ErrorCode, args ...any) string {
	key, ok := messageKeys[code]
	if !ok {
		return string(code)
	}
	return r.printer.Sprintf(key, args...)
}

// report builds an *Error with a localized message.
func report(r Reporter, code ErrorCode, typeName, member string, args ...any) *Error {
	return &Error{
		Code:     code,
		Category: categories[code],
		TypeName: typeName,
		Member:   member,
		Message:  r.Message(code, args...),
	}
}
