package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	contextbroker "github.com/diwise/context-broker-mongo/internal/pkg/application/context-broker"
	"github.com/diwise/context-broker-mongo/internal/pkg/application/registrations"
	"github.com/diwise/context-broker-mongo/internal/pkg/application/subscriptions"
	"github.com/diwise/context-broker-mongo/internal/pkg/infrastructure/database"
	"github.com/diwise/context-broker-mongo/pkg/mongodb/safe"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	appName string = "expiry-cleaner"
)

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	dryRun := env.GetVariableOrDefault(ctx, "DRY_RUN", "false") == "true"

	cfgFile, err := os.Open(env.GetVariableOrDefault(ctx, "CONFIG_PATH", "/opt/diwise/config/default.yaml"))
	if err != nil {
		log.Error("failed to open tenant configuration", "err", err.Error())
		os.Exit(1)
	}
	defer cfgFile.Close()

	cfg, err := contextbroker.LoadConfiguration(cfgFile)
	if err != nil {
		log.Error("failed to load tenant configuration", "err", err.Error())
		os.Exit(1)
	}

	dbCfg := database.LoadConfiguration(ctx)

	db, err := database.Connect(ctx, dbCfg)
	if err != nil {
		log.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}
	defer db.Close(context.Background())

	now := time.Now().Unix()
	var totalCount int64 = 0

	for _, tenant := range cfg.Tenants {
		dbName := tenant.Database
		if dbName == "" {
			dbName = database.Name(dbCfg.Prefix(), tenant.ID)
		}

		for _, collection := range []string{subscriptions.Collection, registrations.Collection} {
			l := log.With(slog.String("tenant", tenant.ID), slog.String("database", dbName), slog.String("collection", collection))

			l.Debug("find expired documents", slog.Time("start_time", time.Now()))

			coll := db.Collection(dbName, collection)

			ids, err := findExpired(ctx, coll, now)
			if err != nil {
				l.Error("failed to find expired documents", "err", err.Error())
				os.Exit(1)
			}

			if len(ids) == 0 {
				l.Debug("found no expired documents", slog.Time("end_time", time.Now()))
				continue
			}

			if dryRun {
				l.Info("dry run, leaving expired documents in place", slog.Int("count", len(ids)))
				continue
			}

			count, err := deleteExpired(ctx, coll, ids)
			if err != nil {
				l.Error("failed to delete expired documents", "err", err.Error())
				os.Exit(1)
			}

			totalCount += count

			l.Debug("done deleting expired documents", slog.Int64("count", count), slog.Time("end_time", time.Now()))
		}
	}

	log.Info("done cleaning", slog.Int64("total", totalCount))
}

func findExpired(ctx context.Context, coll *mongo.Collection, now int64) ([]primitive.ObjectID, error) {
	filter := bson.D{{Key: "expiration", Value: bson.D{{Key: "$lt", Value: now}}}}
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "expiration", Value: 1}})

	results, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer results.Close(ctx)

	return expiredIDs(ctx, database.NewCursor(results), now)
}

// expiredIDs collects the ids of every document on the cursor that carries an
// expiration in the past. Documents without a readable id or expiration are kept.
func expiredIDs(ctx context.Context, cursor safe.Cursor, now int64) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0)

	for safe.MoreSafe(ctx, cursor) {
		doc, err := safe.NextSafeOrError(ctx, cursor)
		if err != nil {
			return nil, err
		}

		id, ok := safe.GetField(ctx, doc, "_id").ObjectIDOK()
		if !ok {
			continue
		}

		expiration := safe.GetIntOrLongFieldAsLong(ctx, doc, "expiration")
		if expiration <= 0 || expiration >= now {
			continue
		}

		ids = append(ids, id)
	}

	if err := database.Exhausted(ctx, cursor); err != nil {
		return nil, err
	}

	return ids, nil
}

func deleteExpired(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (int64, error) {
	result, err := coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
