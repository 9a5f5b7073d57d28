package database

import (
	"context"
	"errors"

	"github.com/diwise/context-broker-mongo/pkg/mongodb/safe"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrCursorExhausted = errors.New("cursor exhausted")

// cursor adds a one document lookahead to a driver cursor so that asking
// whether there are more documents does not consume one. A failed fetch is
// remembered and returned by every later call.
type cursor struct {
	results  *mongo.Cursor
	buffered bool
	err      error
}

func NewCursor(results *mongo.Cursor) safe.Cursor {
	return &cursor{results: results}
}

func (c *cursor) More(ctx context.Context) (bool, error) {
	if c.buffered {
		return true, nil
	}

	if c.err != nil {
		return false, c.err
	}

	if c.results.Next(ctx) {
		c.buffered = true
		return true, nil
	}

	c.err = c.results.Err()
	return false, c.err
}

func (c *cursor) NextSafe(ctx context.Context) (bson.Raw, error) {
	if !c.buffered {
		more, err := c.More(ctx)
		if err != nil {
			return nil, err
		}
		if !more {
			return nil, ErrCursorExhausted
		}
	}

	c.buffered = false

	// the driver reuses the buffer behind Current on the next fetch
	doc := make(bson.Raw, len(c.results.Current))
	copy(doc, c.results.Current)

	return doc, nil
}

// Exhausted is called once safe.MoreSafe has returned false. It returns nil if
// the cursor simply ran out of documents and the cursor error if it failed.
func Exhausted(ctx context.Context, c safe.Cursor) error {
	_, err := safe.NextSafeOrError(ctx, c)
	if err == nil || errors.Is(err, ErrCursorExhausted) {
		return nil
	}
	return err
}

// Drain decodes every remaining document of a cursor. Documents that can not
// be decoded are logged and skipped, a failing cursor aborts the iteration.
func Drain[T any](ctx context.Context, c safe.Cursor, decode func(context.Context, bson.Raw) (T, error)) ([]T, error) {
	result := []T{}

	for safe.MoreSafe(ctx, c) {
		doc, err := safe.NextSafeOrError(ctx, c)
		if err != nil {
			return nil, err
		}

		t, err := decode(ctx, doc)
		if err != nil {
			logging.GetFromContext(ctx).Warn("skipping document that could not be decoded", "err", err.Error())
			continue
		}

		result = append(result, t)
	}

	if err := Exhausted(ctx, c); err != nil {
		return nil, err
	}

	return result, nil
}
