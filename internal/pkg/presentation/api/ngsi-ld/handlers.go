package ngsild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/diwise/context-broker-mongo/internal/pkg/application/cim"
	"github.com/diwise/context-broker-mongo/internal/pkg/presentation/api/ngsi-ld/auth"
	ngsierrors "github.com/diwise/context-broker-mongo/pkg/ngsild/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceAttributeNGSILDTenant   string = "ngsild-tenant"
	TraceAttributeSubscriptionID string = "ngsild-subscription-id"
	TraceAttributeRegistrationID string = "ngsild-registration-id"
)

const (
	defaultLimit int64 = 20
	maxLimit     int64 = 1000
)

func RegisterHandlers(ctx context.Context, r chi.Router, policies io.Reader, app cim.ContextInformationManager) error {

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return fmt.Errorf("failed to create api authenticator: %w", err)
	}

	r.Route("/ngsi-ld/v1", func(r chi.Router) {
		r.Use(Logger(logging.GetFromContext(ctx)), NGSIMiddleware())

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", NewQuerySubscriptionsHandler(app, authenticator))
			r.Get("/{subscriptionId}", NewRetrieveSubscriptionHandler(app, authenticator))
		})

		r.Route("/csourceRegistrations", func(r chi.Router) {
			r.Get("/", NewQueryRegistrationsHandler(app, authenticator))
			r.Get("/{registrationId}", NewRetrieveRegistrationHandler(app, authenticator))
		})
	})

	return nil
}

type tenantContextKey struct {
	name string
}

var tenantCtxKey = &tenantContextKey{"ngsi-tenant"}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NGSIMiddleware packs any tenant id into the context
func NGSIMiddleware() func(http.Handler) http.Handler {
	tenantHeaderName := http.CanonicalHeaderKey("NGSILD-Tenant")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := "default"

			tenantHeader := r.Header[tenantHeaderName]
			if len(tenantHeader) > 0 {
				tenant = tenantHeader[0]
			}

			if labeler, found := otelhttp.LabelerFromContext(r.Context()); found {
				labeler.Add(attribute.String(TraceAttributeNGSILDTenant, tenant))
			}

			ctx := context.WithValue(r.Context(), tenantCtxKey, tenant)

			ctx = logging.NewContextWithLogger(
				ctx,
				logging.GetFromContext(r.Context()),
				"tenant",
				tenant,
			)

			if tenant != "default" {
				w.Header().Add(tenantHeaderName, tenant)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenantFromContext extracts the tenant name, if any, from the provided context
func GetTenantFromContext(ctx context.Context) string {
	tenant, ok := ctx.Value(tenantCtxKey).(string)

	if !ok {
		return ""
	}

	return tenant
}

// paging reads the limit and offset query parameters. A limit outside
// [1, maxLimit] or a negative offset is rejected.
func paging(r *http.Request) (limit, offset int64, err error) {
	limit, offset = defaultLimit, 0

	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.ParseInt(l, 10, 64)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, fmt.Errorf("limit must be a number between 1 and %d", maxLimit)
		}
	}

	if o := r.URL.Query().Get("offset"); o != "" {
		offset, err = strconv.ParseInt(o, 10, 64)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("offset must be a non negative number")
		}
	}

	return limit, offset, nil
}

func mapCIMToNGSILDError(w http.ResponseWriter, err error, traceID string) {
	switch {
	case errors.Is(err, ngsierrors.ErrNotFound):
		ngsierrors.ReportNotFoundError(w, err.Error(), traceID)
	case errors.Is(err, ngsierrors.ErrUnknownTenant):
		ngsierrors.ReportUnknownTenantError(w, err.Error(), traceID)
	case errors.Is(err, ngsierrors.ErrBadRequest):
		ngsierrors.ReportNewBadRequestData(w, err.Error(), traceID)
	default:
		ngsierrors.ReportNewInternalError(w, err.Error(), traceID)
	}
}

func addLabelIfError(err error, labeler *otelhttp.Labeler) {
	if err != nil && labeler != nil {
		labeler.Add(attribute.Bool("error", true))
	}
}

// traceID returns the id of the span recording the request, or a random id
// that can still be used to correlate a problem report with the logs
func traceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, body []byte) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
