package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

var ErrInternal = fmt.Errorf("internal error")
var ErrNotFound = fmt.Errorf("not found")
var ErrBadRequest = fmt.Errorf("bad request")
var ErrUnknownTenant = fmt.Errorf("unknown tenant")
var ErrRequest = fmt.Errorf("request error")
var ErrBadResponse = fmt.Errorf("bad response")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewBadRequestDataError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrBadRequest,
	}
}

func NewInternalError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInternal,
	}
}

func NewNotFoundError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrNotFound,
	}
}

func NewUnknownTenantError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrUnknownTenant,
	}
}

// NewErrorFromProblemReport converts a problem report received from a remote
// broker back into one of the errors above
func NewErrorFromProblemReport(code int, contentType string, body []byte) error {
	report := &struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}{}

	err := json.Unmarshal(body, report)
	if err != nil {
		return fmt.Errorf("failed to process problem report (%s, status %d): %s (%w)", contentType, code, err.Error(), ErrBadResponse)
	}

	switch report.Type {
	case "https://uri.etsi.org/ngsi-ld/errors/NonexistentTenant":
		return NewUnknownTenantError(report.Detail)
	case "https://uri.etsi.org/ngsi-ld/errors/ResourceNotFound":
		return NewNotFoundError(report.Detail)
	case "https://uri.etsi.org/ngsi-ld/errors/BadRequestData":
		return NewBadRequestDataError(report.Detail)
	case "https://uri.etsi.org/ngsi-ld/errors/InternalError":
		return NewInternalError(report.Detail)
	}

	if code == http.StatusNotFound {
		return NewNotFoundError(report.Detail)
	}

	return fmt.Errorf("[error: %d] unknown problem report of type \"%s\" with detail \"%s\" received (%w)", code, report.Type, report.Detail, ErrInternal)
}
