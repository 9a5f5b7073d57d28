package safe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"go.mongodb.org/mongo-driver/bson"
)

type cursorMock struct {
	MoreFunc     func(ctx context.Context) (bool, error)
	NextSafeFunc func(ctx context.Context) (bson.Raw, error)
}

func (m *cursorMock) More(ctx context.Context) (bool, error) {
	return m.MoreFunc(ctx)
}

func (m *cursorMock) NextSafe(ctx context.Context) (bson.Raw, error) {
	return m.NextSafeFunc(ctx)
}

var errConnectionReset = errors.New("connection reset by peer")

func TestMoreSafeReturnsTheCursorsAnswer(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)

	yes := &cursorMock{MoreFunc: func(context.Context) (bool, error) { return true, nil }}
	no := &cursorMock{MoreFunc: func(context.Context) (bool, error) { return false, nil }}

	is.True(MoreSafe(ctx, yes))
	is.True(!MoreSafe(ctx, no))
	is.Equal(rec.count(), 0)
}

func TestMoreSafeConvertsFailuresToFalse(t *testing.T) {
	cursors := map[string]Cursor{
		"error":         &cursorMock{MoreFunc: func(context.Context) (bool, error) { return true, errConnectionReset }},
		"error panic":   &cursorMock{MoreFunc: func(context.Context) (bool, error) { panic(errConnectionReset) }},
		"generic panic": &cursorMock{MoreFunc: func(context.Context) (bool, error) { panic(42) }},
		"nil cursor":    nil,
	}

	for name, cursor := range cursors {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			ctx, rec := testSetup(t)

			is.True(!MoreSafe(ctx, cursor))
			is.Equal(rec.count(), 1)
			is.Equal(rec.last().Level, LevelFatal)
		})
	}
}

func TestMoreSafeReportsTheFaultDescription(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)

	MoreSafe(ctx, &cursorMock{MoreFunc: func(context.Context) (bool, error) { panic("not an error") }})
	is.Equal(rec.attr("err"), "generic exception")

	MoreSafe(ctx, &cursorMock{MoreFunc: func(context.Context) (bool, error) { return false, errConnectionReset }})
	is.Equal(rec.attr("err"), errConnectionReset.Error())
}

func TestNextSafeOrErrorReturnsTheFetchedDocument(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)
	expected := document(t, bson.D{{Key: "reference", Value: "http://notify.me"}})

	doc, err := NextSafeOrError(ctx, &cursorMock{
		NextSafeFunc: func(context.Context) (bson.Raw, error) { return expected, nil },
	})

	is.NoErr(err)
	is.Equal(doc, expected)
	is.Equal(rec.count(), 0)
}

func TestNextSafeOrErrorIncludesDescriptionAndCaller(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)

	doc, err := NextSafeOrError(ctx, &cursorMock{
		NextSafeFunc: func(context.Context) (bson.Raw, error) { return nil, errConnectionReset },
	})

	is.True(doc == nil)
	is.True(err != nil)
	is.True(errors.Is(err, ErrCursor))
	is.True(errors.Is(err, errConnectionReset))
	is.True(strings.HasPrefix(err.Error(), "connection reset by peer at "))
	is.True(strings.Contains(err.Error(), "TestNextSafeOrErrorIncludesDescriptionAndCaller:"))
	is.Equal(rec.count(), 0) // failures are returned, not logged
}

func TestNextSafeOrErrorHandlesPanics(t *testing.T) {
	is := is.New(t)
	ctx, _ := testSetup(t)

	_, err := NextSafeOrError(ctx, &cursorMock{
		NextSafeFunc: func(context.Context) (bson.Raw, error) { panic(errConnectionReset) },
	})
	is.True(strings.HasPrefix(err.Error(), "connection reset by peer at "))

	_, err = NextSafeOrError(ctx, &cursorMock{
		NextSafeFunc: func(context.Context) (bson.Raw, error) { panic(struct{}{}) },
	})
	is.True(errors.Is(err, ErrCursor))
	is.True(strings.HasPrefix(err.Error(), "generic exception at "))
	is.True(strings.Contains(err.Error(), "TestNextSafeOrErrorHandlesPanics:"))
}
