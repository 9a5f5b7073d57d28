package ngsild

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/diwise/context-broker-mongo/internal/pkg/application/cim"
	"github.com/diwise/context-broker-mongo/internal/pkg/application/subscriptions"
	"github.com/diwise/context-broker-mongo/internal/pkg/presentation/api/ngsi-ld/auth"
	ngsierrors "github.com/diwise/context-broker-mongo/pkg/ngsild/errors"
	"github.com/diwise/context-broker-mongo/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("context-broker-mongo/ngsi-ld")

func newSubscriptionRepresentation(s subscriptions.Subscription) types.Subscription {
	sr := types.Subscription{
		ID:                s.ID,
		Type:              "Subscription",
		Description:       s.Description,
		Entities:          make([]types.EntityInfo, 0, len(s.Entities)),
		WatchedAttributes: s.Conditions,
		Notification: types.NotificationParams{
			Attributes: s.Attributes,
			Format:     s.Format,
			Endpoint: types.Endpoint{
				URI:    s.Reference,
				Accept: "application/json",
			},
			TimesSent: s.Count,
		},
		Status:   s.Status,
		IsActive: s.Status == "active",
	}

	for _, e := range s.Entities {
		ei := types.EntityInfo{Type: e.Type}
		if e.IsPattern {
			ei.IDPattern = e.ID
		} else {
			ei.ID = e.ID
		}
		sr.Entities = append(sr.Entities, ei)
	}

	if s.Expression != nil {
		sr.Q = s.Expression.Q
	}

	if s.Expires() {
		sr.ExpiresAt = timestamp(s.Expiration)
	}

	if s.LastNotification > 0 {
		sr.Notification.LastNotification = timestamp(s.LastNotification)
	}

	if s.Throttling > 0 {
		sr.Throttling = s.Throttling
	}

	return sr
}

func timestamp(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).UTC().Format(time.RFC3339)
}

// NewRetrieveSubscriptionHandler handles GET requests for a single subscription
func NewRetrieveSubscriptionHandler(
	contextInformationManager cim.SubscriptionRetriever,
	authenticator auth.Enticator) http.HandlerFunc {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		tenant := GetTenantFromContext(r.Context())
		subscriptionID := chi.URLParam(r, "subscriptionId")

		ctx, span := tracer.Start(r.Context(), "retrieve-subscription",
			trace.WithAttributes(
				attribute.String(TraceAttributeNGSILDTenant, tenant),
				attribute.String(TraceAttributeSubscriptionID, subscriptionID),
			),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		labeler, _ := otelhttp.LabelerFromContext(ctx)
		defer func() { addLabelIfError(err, labeler) }()

		log := logging.GetFromContext(ctx)

		err = authenticator.CheckAccess(ctx, r, tenant)
		if err != nil {
			log.Warn("access not granted", "err", err.Error())
			ngsierrors.ReportNotFoundError(w, "not found", traceID(ctx))
			return
		}

		sub, err := contextInformationManager.RetrieveSubscription(ctx, tenant, subscriptionID)
		if err != nil {
			log.Info("failed to retrieve subscription", "subscriptionID", subscriptionID, "err", err.Error())
			mapCIMToNGSILDError(w, err, traceID(ctx))
			return
		}

		body, err := json.Marshal(newSubscriptionRepresentation(*sub))
		if err != nil {
			log.Error("failed to marshal subscription", "err", err.Error())
			mapCIMToNGSILDError(w, err, traceID(ctx))
			return
		}

		writeJSON(w, body)
	})
}

// NewQuerySubscriptionsHandler handles GET requests for a page of subscriptions
func NewQuerySubscriptionsHandler(
	contextInformationManager cim.SubscriptionRetriever,
	authenticator auth.Enticator) http.HandlerFunc {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		tenant := GetTenantFromContext(r.Context())

		ctx, span := tracer.Start(r.Context(), "query-subscriptions",
			trace.WithAttributes(attribute.String(TraceAttributeNGSILDTenant, tenant)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		labeler, _ := otelhttp.LabelerFromContext(ctx)
		defer func() { addLabelIfError(err, labeler) }()

		log := logging.GetFromContext(ctx)

		limit, offset, err := paging(r)
		if err != nil {
			ngsierrors.ReportNewBadRequestData(w, err.Error(), traceID(ctx))
			return
		}

		err = authenticator.CheckAccess(ctx, r, tenant)
		if err != nil {
			log.Warn("access not granted", "err", err.Error())
			ngsierrors.ReportNotFoundError(w, "not found", traceID(ctx))
			return
		}

		subs, err := contextInformationManager.QuerySubscriptions(ctx, tenant, limit, offset)
		if err != nil {
			log.Error("query subscriptions failed", "err", err.Error())
			mapCIMToNGSILDError(w, err, traceID(ctx))
			return
		}

		result := make([]types.Subscription, 0, len(subs))
		for _, s := range subs {
			result = append(result, newSubscriptionRepresentation(s))
		}

		body, err := json.Marshal(result)
		if err != nil {
			log.Error("failed to marshal subscriptions", "err", err.Error())
			mapCIMToNGSILDError(w, err, traceID(ctx))
			return
		}

		writeJSON(w, body)
	})
}
