package client

import (
	"fmt"
)

func Limit(limit uint64) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("limit=%d", limit))
	}
}

func Offset(offset uint64) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("offset=%d", offset))
	}
}
