package i18n

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strings"
)

// ErrorCode represents an HTTP status code
type ErrorCode int

const (
	ErrorBadRequest     ErrorCode = http.StatusBadRequest
	ErrorUnauthorized   ErrorCode = http.StatusUnauthorized
	ErrorForbidden      ErrorCode = http.StatusForbidden
	ErrorNotFound       ErrorCode = http.StatusNotFound
	ErrorConflict       ErrorCode = http.StatusConflict
	ErrorInternalServer ErrorCode = http.StatusInternalServerError
)

// I18nError represents an internationalized error
type I18nError struct {
	// MessageID is the key used for translation lookup
	MessageID string
	// DefaultMessage is used when translation is not available
	DefaultMessage string
	// Data holds template parameters for the message
	Data map[string]any
}

// New creates a new I18nError with the given message ID
func New(messageID string) *I18nError {
	return NewWithMessage(messageID, messageID)
}

// NewWithMessage creates a new I18nError with a message ID and default message
func NewWithMessage(messageID, defaultMessage string) *I18nError {
	return &I18nError{
		MessageID:      messageID,
		DefaultMessage: defaultMessage,
		Data:           make(map[string]any),
	}
}

// WithParam returns a copy of the error carrying an extra template parameter
func (e *I18nError) WithParam(key string, value any) *I18nError {
	cp := e.clone()
	cp.Data[key] = value
	return cp
}

func (e *I18nError) clone() *I18nError {
	data := make(map[string]any, len(e.Data)+1)
	maps.Copy(data, e.Data)
	return &I18nError{
		MessageID:      e.MessageID,
		DefaultMessage: e.DefaultMessage,
		Data:           data,
	}
}

// Error renders the message in the default language
func (e *I18nError) Error() string {
	return e.Translate(currentDefaultLang())
}

// Translate renders the message in lang, falling back to the default message
func (e *I18nError) Translate(lang string) string {
	if t := GetTranslator(); t != nil {
		if translated := t.Translate(e.MessageID, lang, e.Data); translated != e.MessageID {
			return translated
		}
	}

	msg := e.DefaultMessage
	for k, v := range e.Data {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{{.%s}}", k), fmt.Sprintf("%v", v))
	}
	return msg
}

// ErrorWithCode is an error with a status code and a machine-stable kind
type ErrorWithCode struct {
	*I18nError
	Code ErrorCode
	kind string
}

// NewErrorWithCode creates a new error whose kind is the message ID without its "Error" prefix
func NewErrorWithCode(messageID string, code ErrorCode) *ErrorWithCode {
	return &ErrorWithCode{
		I18nError: New(messageID),
		Code:      code,
	}
}

// newKindError creates an error of an explicit kind with an English fallback message
func newKindError(kind, messageID, defaultMessage string, code ErrorCode) *ErrorWithCode {
	return &ErrorWithCode{
		I18nError: NewWithMessage(messageID, defaultMessage),
		Code:      code,
		kind:      kind,
	}
}

// WithParam returns a copy of the error carrying an extra template parameter.
// Shared error values are never mutated.
func (e *ErrorWithCode) WithParam(key string, value any) *ErrorWithCode {
	return &ErrorWithCode{
		I18nError: e.I18nError.WithParam(key, value),
		Code:      e.Code,
		kind:      e.kind,
	}
}

// GetCode returns the HTTP status code
func (e *ErrorWithCode) GetCode() ErrorCode {
	return e.Code
}

// Kind returns the machine-stable error kind
func (e *ErrorWithCode) Kind() string {
	if e.kind != "" {
		return e.kind
	}
	return strings.TrimPrefix(e.MessageID, "Error")
}

// Is matches errors carrying the same message ID, so parameterized copies
// still compare equal to the shared value they were derived from.
func (e *ErrorWithCode) Is(target error) bool {
	t, ok := target.(*ErrorWithCode)
	return ok && t.MessageID == e.MessageID
}

// KindOf returns the kind of err, or "Internal" for errors that carry none
func KindOf(err error) string {
	var ec *ErrorWithCode
	if errors.As(err, &ec) {
		return ec.Kind()
	}
	return KindInternal
}

// IsI18nError checks if an error carries an ErrorWithCode
func IsI18nError(err error) bool {
	var ec *ErrorWithCode
	return errors.As(err, &ec)
}
