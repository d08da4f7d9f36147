package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Kind string

const KindUnauthorized Kind = "UNAUTHORIZED"
const KindHTTP Kind = "HTTP_ERROR"
const KindMalformed Kind = "MALFORMED_RESPONSE"
const KindNetwork Kind = "NETWORK_ERROR"

// Error - единственный тип ошибки, который выходит за границу клиента.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

// сентинелы для errors.Is: сравнение идёт только по Kind
var (
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrHTTP              = &Error{Kind: KindHTTP}
	ErrMalformedResponse = &Error{Kind: KindMalformed}
	ErrNetwork           = &Error{Kind: KindNetwork}
)

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("[%s] status %d", e.Kind, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

const unauthorizedMessage = "Unauthorized. Please log in again."

func newUnauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Status: 401, Message: unauthorizedMessage}
}

func newHTTPError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("HTTP error! Status: %d", status)
	}
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

func newMalformed(status int, err error) *Error {
	return &Error{
		Kind:    KindMalformed,
		Status:  status,
		Message: fmt.Sprintf("Invalid JSON response from server: %v", err),
		Err:     err,
	}
}

// errorBody - тело ошибки сервера; detail бывает строкой или списком ошибок валидации.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message json.RawMessage `json:"message"`
}

func messageFromBody(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if msg := renderMessage(body.Detail); msg != "" {
		return msg
	}
	return renderMessage(body.Message)
}

func renderMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 && items[0].Msg != "" {
		return items[0].Msg
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
