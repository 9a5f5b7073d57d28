package safe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"go.mongodb.org/mongo-driver/bson"
)

type recorder struct {
	mu      *sync.Mutex
	records *[]slog.Record
}

func (r recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.records = append(*r.records, rec.Clone())
	return nil
}

func (r recorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r recorder) WithGroup(string) slog.Handler      { return r }

func (r recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(*r.records)
}

func (r recorder) last() slog.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (*r.records)[len(*r.records)-1]
}

func (r recorder) attr(key string) string {
	rec := r.last()
	value := ""
	rec.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			value = fmt.Sprint(a.Value.Any())
			return false
		}
		return true
	})
	return value
}

func testSetup(t *testing.T) (context.Context, recorder) {
	rec := recorder{mu: &sync.Mutex{}, records: &[]slog.Record{}}
	ctx := logging.NewContextWithLogger(context.Background(), slog.New(rec))
	return ctx, rec
}

func document(t *testing.T, d bson.D) bson.Raw {
	b, err := bson.Marshal(d)
	if err != nil {
		t.Fatalf("failed to marshal test document: %s", err.Error())
	}
	return bson.Raw(b)
}
