package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/diwise/context-broker-mongo/pkg/mongodb/safe"
	"github.com/matryer/is"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func testCursor(t *testing.T, docs ...any) safe.Cursor {
	results, err := mongo.NewCursorFromDocuments(docs, nil, nil)
	if err != nil {
		t.Fatalf("failed to create cursor: %s", err.Error())
	}
	return NewCursor(results)
}

func TestMoreDoesNotConsume(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := testCursor(t, bson.D{{Key: "n", Value: int32(1)}}, bson.D{{Key: "n", Value: int32(2)}})

	more, err := c.More(ctx)
	is.NoErr(err)
	is.True(more)

	more, err = c.More(ctx)
	is.NoErr(err)
	is.True(more)

	doc, err := c.NextSafe(ctx)
	is.NoErr(err)
	is.Equal(doc.Lookup("n").Int32(), int32(1))

	doc, err = c.NextSafe(ctx)
	is.NoErr(err)
	is.Equal(doc.Lookup("n").Int32(), int32(2))

	more, err = c.More(ctx)
	is.NoErr(err)
	is.True(!more)
}

func TestNextSafeOnExhaustedCursor(t *testing.T) {
	is := is.New(t)

	_, err := testCursor(t).NextSafe(context.Background())

	is.True(errors.Is(err, ErrCursorExhausted))
}

func TestDrainDecodesAllDocuments(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := testCursor(t,
		bson.D{{Key: "name", Value: "a"}},
		bson.D{{Key: "name", Value: int32(7)}},
		bson.D{{Key: "name", Value: "c"}},
	)

	names, err := Drain(ctx, c, func(ctx context.Context, doc bson.Raw) (string, error) {
		name, ok := doc.Lookup("name").StringValueOK()
		if !ok {
			return "", fmt.Errorf("name is not a string")
		}
		return name, nil
	})

	is.NoErr(err)
	is.Equal(names, []string{"a", "c"}) // undecodable documents should be skipped
}

type failingCursor struct {
	err error
}

func (f failingCursor) More(context.Context) (bool, error)         { return true, nil }
func (f failingCursor) NextSafe(context.Context) (bson.Raw, error) { return nil, f.err }

func TestDrainStopsOnCursorFailure(t *testing.T) {
	is := is.New(t)
	networkErr := errors.New("network timeout")

	result, err := Drain(context.Background(), failingCursor{err: networkErr},
		func(context.Context, bson.Raw) (bson.Raw, error) { return nil, nil },
	)

	is.True(result == nil)
	is.True(errors.Is(err, safe.ErrCursor))
	is.True(errors.Is(err, networkErr))
}

// brokenConnection yields its documents and then fails the way a lost
// connection does, from More rather than from NextSafe
type brokenConnection struct {
	docs []bson.Raw
	err  error
}

func (b *brokenConnection) More(context.Context) (bool, error) {
	if len(b.docs) == 0 {
		return false, b.err
	}
	return true, nil
}

func (b *brokenConnection) NextSafe(context.Context) (bson.Raw, error) {
	if len(b.docs) == 0 {
		return nil, b.err
	}
	doc := b.docs[0]
	b.docs = b.docs[1:]
	return doc, nil
}

func TestDrainFailsWhenMoreFailsAfterFirstDocument(t *testing.T) {
	is := is.New(t)
	connectionReset := errors.New("connection reset")

	doc, err := bson.Marshal(bson.D{{Key: "n", Value: int32(1)}})
	is.NoErr(err)

	result, err := Drain(context.Background(), &brokenConnection{docs: []bson.Raw{doc}, err: connectionReset},
		func(_ context.Context, doc bson.Raw) (bson.Raw, error) { return doc, nil },
	)

	is.True(result == nil) // a partial result should not be returned
	is.True(errors.Is(err, safe.ErrCursor))
	is.True(errors.Is(err, connectionReset))
}

func TestDrainFailsWhenGetMoreFails(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("getMore error", func(mt *mtest.T) {
		is := is.New(mt.T)
		ctx := context.Background()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(42, "orion.csubs", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Name: "InternalError", Message: "connection reset"}),
		)

		results, err := mt.Coll.Find(ctx, bson.D{})
		is.NoErr(err)
		defer results.Close(ctx)

		c := NewCursor(results)

		n, err := Drain(ctx, c, func(_ context.Context, doc bson.Raw) (int32, error) {
			return doc.Lookup("n").Int32(), nil
		})

		is.True(n == nil)
		is.True(errors.Is(err, safe.ErrCursor))
		is.True(strings.Contains(err.Error(), "connection reset"))

		more, err := c.More(ctx)
		is.True(!more)
		is.True(err != nil) // the failure should stick to the cursor
	})
}

func TestExhaustedOnDrainedCursor(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := testCursor(t, bson.D{{Key: "n", Value: int32(1)}})

	for safe.MoreSafe(ctx, c) {
		_, err := safe.NextSafeOrError(ctx, c)
		is.NoErr(err)
	}

	is.NoErr(Exhausted(ctx, c))
}

func TestTenantDatabaseNames(t *testing.T) {
	is := is.New(t)

	is.Equal(Name("orion", "default"), "orion")
	is.Equal(Name("orion", ""), "orion")
	is.Equal(Name("orion", "Sundsvall"), "orion-sundsvall")
}
