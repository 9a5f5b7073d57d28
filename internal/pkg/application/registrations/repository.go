package registrations

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/diwise/context-broker-mongo/internal/pkg/infrastructure/database"
	"github.com/diwise/context-broker-mongo/pkg/mongodb/safe"
	ngsierrors "github.com/diwise/context-broker-mongo/pkg/ngsild/errors"
	"github.com/diwise/context-broker-mongo/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate moq -rm -out repository_mock.go . Repository

type Repository interface {
	Get(ctx context.Context, db string, registrationID types.RegistrationID) (Registration, error)
	Query(ctx context.Context, db string, limit, offset int64) ([]Registration, error)
}

var tracer = otel.Tracer("context-broker-mongo/registrations")

type repository struct {
	db *database.Database
}

func NewRepository(db *database.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, db string, registrationID types.RegistrationID) (reg Registration, err error) {
	ctx, span := tracer.Start(ctx, "get-registration",
		trace.WithAttributes(attribute.String("database", db), attribute.String("registration-id", string(registrationID))),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	sc := &ngsierrors.StatusCode{}

	id, ok := safe.SafeGetRegID(registrationID, sc)
	if !ok {
		if sc.Code == http.StatusNotFound {
			err = ngsierrors.NewNotFoundError(fmt.Sprintf("registration %s not found", registrationID))
			return
		}
		err = sc.Err()
		return
	}

	doc, err := r.db.Collection(db, Collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = ngsierrors.NewNotFoundError(fmt.Sprintf("registration %s not found", registrationID))
			return
		}
		err = ngsierrors.NewInternalError(fmt.Sprintf("failed to retrieve registration: %s", err.Error()))
		return
	}

	reg, err = FromBSON(ctx, doc)
	if err != nil {
		err = ngsierrors.NewInternalError(err.Error())
	}

	return
}

func (r *repository) Query(ctx context.Context, db string, limit, offset int64) (regs []Registration, err error) {
	ctx, span := tracer.Start(ctx, "query-registrations",
		trace.WithAttributes(attribute.String("database", db)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)

	results, err := r.db.Collection(db, Collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		err = ngsierrors.NewInternalError(fmt.Sprintf("failed to query registrations: %s", err.Error()))
		return
	}
	defer results.Close(ctx)

	regs, err = database.Drain(ctx, database.NewCursor(results), FromBSON)
	if err != nil {
		err = ngsierrors.NewInternalError(err.Error())
	}

	return
}
