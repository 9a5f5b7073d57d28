package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// StatusCode collects the outcome of a lower level operation so that it can
// be turned into an error further up. The zero value means success.
type StatusCode struct {
	Code    int
	Details string
}

// Fill records code and details. Several details are kept apart by "; ".
func (sc *StatusCode) Fill(code int, details ...string) {
	sc.Code = code
	sc.Details = strings.Join(details, "; ")
}

func (sc StatusCode) Ok() bool {
	return sc.Code == 0 || sc.Code == http.StatusOK
}

// Err converts a filled status into one of the sentinel backed errors of
// this package, or nil if nothing went wrong.
func (sc StatusCode) Err() error {
	switch {
	case sc.Ok():
		return nil
	case sc.Code == http.StatusNotFound:
		return NewNotFoundError(sc.Details)
	case sc.Code == http.StatusBadRequest:
		return NewBadRequestDataError(sc.Details)
	}

	if sc.Details == "" {
		return NewInternalError(fmt.Sprintf("status %d", sc.Code))
	}

	return NewInternalError(sc.Details)
}
