package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultTenant string = "default"

type Config struct {
	uri     string
	prefix  string
	timeout time.Duration
}

func LoadConfiguration(ctx context.Context) Config {
	timeout, err := strconv.Atoi(env.GetVariableOrDefault(ctx, "MONGO_TIMEOUT_SECONDS", "10"))
	if err != nil || timeout <= 0 {
		timeout = 10
	}

	return Config{
		uri:     env.GetVariableOrDefault(ctx, "MONGO_URI", "mongodb://localhost:27017"),
		prefix:  env.GetVariableOrDefault(ctx, "MONGO_DB_PREFIX", "orion"),
		timeout: time.Duration(timeout) * time.Second,
	}
}

func NewConfig(uri, prefix string, timeout time.Duration) Config {
	return Config{uri: uri, prefix: prefix, timeout: timeout}
}

func (c Config) Prefix() string {
	return c.prefix
}

// Name returns the database holding the documents of a tenant. The default
// tenant lives in the prefix database, every other tenant in prefix-tenant.
func Name(prefix, tenant string) string {
	if tenant == "" || tenant == DefaultTenant {
		return prefix
	}
	return prefix + "-" + strings.ToLower(tenant)
}

type Database struct {
	client *mongo.Client
}

func Connect(ctx context.Context, cfg Config) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.uri).SetTimeout(cfg.timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.GetFromContext(ctx).Info("connected to database", "prefix", cfg.prefix)

	return FromClient(client), nil
}

// FromClient wraps an already connected client
func FromClient(client *mongo.Client) *Database {
	return &Database{client: client}
}

func (db *Database) Collection(database, collection string) *mongo.Collection {
	return db.client.Database(database).Collection(collection)
}

func (db *Database) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}
