package safe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"go.mongodb.org/mongo-driver/bson"
)

// LevelFatal marks failures that point at broken infrastructure rather than
// at a bad document.
const LevelFatal = slog.Level(12)

const genericFault string = "generic exception"

// ErrCursor is matched by every error returned from NextSafeOrError
var ErrCursor = errors.New("cursor error")

// Cursor is a server backed iterator over documents. More reports whether a
// document is available without consuming it and NextSafe consumes it.
type Cursor interface {
	More(ctx context.Context) (bool, error)
	NextSafe(ctx context.Context) (bson.Raw, error)
}

// CursorError describes a failed fetch together with the call site that asked for it
type CursorError struct {
	msg   string
	cause error
}

func (ce *CursorError) Error() string {
	return ce.msg
}

func (ce *CursorError) Unwrap() []error {
	if ce.cause == nil {
		return []error{ErrCursor}
	}
	return []error{ErrCursor, ce.cause}
}

// MoreSafe reports whether the cursor has more documents. A failing check is
// logged as fatal and reported as false.
func MoreSafe(ctx context.Context, cursor Cursor) (more bool) {
	c := callerAt(1)

	defer func() {
		if r := recover(); r != nil {
			logMoreFailure(ctx, c, faultError(r))
			more = false
		}
	}()

	more, err := cursor.More(ctx)
	if err != nil {
		logMoreFailure(ctx, c, err)
		return false
	}

	return more
}

// NextSafeOrError fetches the next document from the cursor. Failures are not
// logged, they are returned as a *CursorError whose message includes the
// description of the fault and the caller's position.
func NextSafeOrError(ctx context.Context, cursor Cursor) (doc bson.Raw, err error) {
	c := callerAt(1)

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = newCursorError(faultError(r), c)
		}
	}()

	doc, err = cursor.NextSafe(ctx)
	if err != nil {
		return nil, newCursorError(err, c)
	}

	return doc, nil
}

func newCursorError(cause error, c Caller) *CursorError {
	return &CursorError{
		msg:   fmt.Sprintf("%s at %s:%d", describeFault(cause), c.Label, c.Line),
		cause: cause,
	}
}

func logMoreFailure(ctx context.Context, c Caller, err error) {
	logging.GetFromContext(ctx).Log(ctx, LevelFatal,
		"fatal error: cursor more() failed",
		"err", describeFault(err), "caller", c.String(),
	)
}

func describeFault(err error) string {
	if err == nil {
		return genericFault
	}
	return err.Error()
}

// faultError returns the error carried by a recovered panic, or nil when the
// panic value has no description.
func faultError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return nil
}
