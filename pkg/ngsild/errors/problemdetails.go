package errors

import (
	"encoding/json"
	"net/http"
)

const (
	//ProblemReportContentType as required by https://tools.ietf.org/html/rfc7807
	ProblemReportContentType string = "application/problem+json"
)

// ProblemDetails stores details about a certain problem according to RFC7807
// See https://tools.ietf.org/html/rfc7807
type ProblemDetails struct {
	typ     string
	title   string
	detail  string
	code    int
	traceID string
}

// NewBadRequestData reports that the request includes input data which does not meet the requirements of the operation
func NewBadRequestData(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{
		typ:     "https://uri.etsi.org/ngsi-ld/errors/BadRequestData",
		title:   "Bad Request Data",
		detail:  detail,
		code:    http.StatusBadRequest,
		traceID: traceID,
	}
}

// NewInternalErrorProblem reports that there has been an error during the operation execution
func NewInternalErrorProblem(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{
		typ:     "https://uri.etsi.org/ngsi-ld/errors/InternalError",
		title:   "Internal Error",
		detail:  detail,
		code:    http.StatusInternalServerError,
		traceID: traceID,
	}
}

// NewNotFound reports that the request failed with a not found error of some kind
func NewNotFound(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{
		typ:     "https://uri.etsi.org/ngsi-ld/errors/ResourceNotFound",
		title:   "Not Found",
		detail:  detail,
		code:    http.StatusNotFound,
		traceID: traceID,
	}
}

// NewUnknownTenant reports that the request tries to interact with an unknown tenant
func NewUnknownTenant(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{
		typ:     "https://uri.etsi.org/ngsi-ld/errors/NonexistentTenant",
		title:   "Non Existent Tenant",
		detail:  detail,
		code:    http.StatusNotFound,
		traceID: traceID,
	}
}

func ReportNewBadRequestData(w http.ResponseWriter, detail, traceID string) {
	NewBadRequestData(detail, traceID).WriteResponse(w)
}

func ReportNewInternalError(w http.ResponseWriter, detail, traceID string) {
	NewInternalErrorProblem(detail, traceID).WriteResponse(w)
}

func ReportNotFoundError(w http.ResponseWriter, detail, traceID string) {
	NewNotFound(detail, traceID).WriteResponse(w)
}

func ReportUnknownTenantError(w http.ResponseWriter, detail, traceID string) {
	NewUnknownTenant(detail, traceID).WriteResponse(w)
}

func (p *ProblemDetails) Type() string   { return p.typ }
func (p *ProblemDetails) Detail() string { return p.detail }

// ContentType returns the ContentType to be used when returning this problem
func (p *ProblemDetails) ContentType() string {
	return ProblemReportContentType
}

// MarshalJSON is called when a ProblemDetails instance should be serialized to JSON
func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	var traceID *string

	if p.traceID != "" {
		traceID = &p.traceID
	}

	return json.Marshal(struct {
		Type    string  `json:"type"`
		Title   string  `json:"title"`
		Detail  string  `json:"detail"`
		TraceID *string `json:"traceID,omitempty"`
	}{
		Type:    p.typ,
		Title:   p.title,
		Detail:  p.detail,
		TraceID: traceID,
	})
}

// ResponseCode returns the HTTP response code to be used when returning a specific problem
func (p *ProblemDetails) ResponseCode() int {
	if p.code != 0 {
		return p.code
	}

	return http.StatusBadRequest
}

// WriteResponse writes the contents of this instance to a http.ResponseWriter
func (p *ProblemDetails) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", p.ContentType())
	w.Header().Add("Content-Language", "en")
	w.WriteHeader(p.ResponseCode())

	pdbytes, err := json.MarshalIndent(p, "", "  ")
	if err == nil {
		w.Write(pdbytes)
	}
}
