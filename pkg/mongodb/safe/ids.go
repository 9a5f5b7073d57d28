package safe

import (
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/diwise/context-broker-mongo/pkg/ngsild/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusFiller records the outcome of an operation for the caller to report
// upwards. Codes are HTTP status codes.
type StatusFiller interface {
	Fill(code int, details ...string)
}

var objectIDFromHex = primitive.ObjectIDFromHex

// SafeGetSubID parses a subscription identifier. A malformed identifier can
// not refer to a stored subscription and is reported as not found.
func SafeGetSubID(subID types.SubscriptionID, sc StatusFiller) (primitive.ObjectID, bool) {
	return safeGetID(subID, sc)
}

// SafeGetRegID parses a registration identifier with the same rules as SafeGetSubID.
func SafeGetRegID(regID types.RegistrationID, sc StatusFiller) (primitive.ObjectID, bool) {
	return safeGetID(regID, sc)
}

func safeGetID[ID ~string](raw ID, sc StatusFiller) (id primitive.ObjectID, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			sc.Fill(http.StatusInternalServerError, describeFault(faultError(r)))
			id, ok = primitive.NilObjectID, false
		}
	}()

	id, err := objectIDFromHex(string(raw))
	if err != nil {
		if isMalformedID(err) {
			sc.Fill(http.StatusNotFound)
		} else {
			sc.Fill(http.StatusInternalServerError, err.Error())
		}
		return primitive.NilObjectID, false
	}

	return id, true
}

func isMalformedID(err error) bool {
	var invalidByte hex.InvalidByteError

	return errors.Is(err, primitive.ErrInvalidHex) ||
		errors.Is(err, hex.ErrLength) ||
		errors.As(err, &invalidByte)
}
