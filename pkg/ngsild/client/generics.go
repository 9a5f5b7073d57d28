package client

import (
	"context"
	"fmt"

	"github.com/diwise/context-broker-mongo/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

const pageSize uint64 = 50

// QueryAll pages through every subscription or registration available to the
// client's tenant and hands each of them to callback
func QueryAll[T types.Subscription | types.ContextSourceRegistration](ctx context.Context, c ContextBrokerClient, callback func(t T)) (count int, err error) {

	logger := logging.GetFromContext(ctx)

	var offset uint64 = 0

	for {
		var batch []T

		logger.Debug("fetching page", "offset", offset, "limit", pageSize)

		batch, err = queryPage[T](ctx, c, Limit(pageSize), Offset(offset))
		if err != nil {
			err = fmt.Errorf("failed to query page at offset %d: %w", offset, err)
			return
		}

		for _, e := range batch {
			callback(e)
		}

		count += len(batch)
		offset += pageSize

		if uint64(len(batch)) < pageSize {
			break
		}
	}

	return
}

func queryPage[T types.Subscription | types.ContextSourceRegistration](ctx context.Context, c ContextBrokerClient, parameters ...RequestDecoratorFunc) ([]T, error) {
	var zero T

	switch any(zero).(type) {
	case types.Subscription:
		subs, err := c.QuerySubscriptions(ctx, parameters...)
		return any(subs).([]T), err
	default:
		regs, err := c.QueryRegistrations(ctx, parameters...)
		return any(regs).([]T), err
	}
}
