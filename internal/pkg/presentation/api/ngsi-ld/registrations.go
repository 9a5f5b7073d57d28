package ngsild

import (
	"encoding/json"
	"net/http"

	"github.com/diwise/context-broker-mongo/internal/pkg/application/cim"
	"github.com/diwise/context-broker-mongo/internal/pkg/application/registrations"
	"github.com/diwise/context-broker-mongo/internal/pkg/presentation/api/ngsi-ld/auth"
	ngsierrors "github.com/diwise/context-broker-mongo/pkg/ngsild/errors"
	"github.com/diwise/context-broker-mongo/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func newRegistrationRepresentation(reg registrations.Registration) types.ContextSourceRegistration {
	rr := types.ContextSourceRegistration{
		ID:          reg.ID,
		Type:        "ContextSourceRegistration",
		Description: reg.Description,
		Information: make([]types.RegistrationInfo, 0, len(reg.ContextRegistrations)),
		Mode:        reg.ForwardMode,
		Status:      reg.Status,
	}

	for _, cr := range reg.ContextRegistrations {
		// every context registration in a document shares one providing application
		if rr.Endpoint == "" {
			rr.Endpoint = cr.ProvidingApplication
		}

		info := types.RegistrationInfo{}

		for _, e := range cr.Entities {
			ei := types.EntityInfo{Type: e.Type}
			if e.IsPattern {
				ei.IDPattern = e.ID
			} else {
				ei.ID = e.ID
			}
			info.Entities = append(info.Entities, ei)
		}

		for _, a := range cr.Attributes {
			info.PropertyNames = append(info.PropertyNames, a.Name)
		}

		rr.Information = append(rr.Information, info)
	}

	if reg.Expiration > 0 {
		rr.ExpiresAt = timestamp(reg.Expiration)
	}

	return rr
}

// NewRetrieveRegistrationHandler handles GET requests for a single context source registration
func NewRetrieveRegistrationHandler(
	contextInformationManager cim.RegistrationRetriever,
	authenticator auth.Enticator) http.HandlerFunc {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		tenant := GetTenantFromContext(r.Context())
		registrationID := chi.URLParam(r, "registrationId")

		ctx, span := tracer.Start(r.Context(), "retrieve-registration",
			trace.WithAttributes(
				attribute.String(TraceAttributeNGSILDTenant, tenant),
				attribute.String(TraceAttributeRegistrationID, registrationID),
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

		reg, err := contextInformationManager.RetrieveRegistration(ctx, tenant, registrationID)
		if err != nil {
			log.Info("failed to retrieve registration", "registrationID", registrationID, "err", err.Error())
			mapCIMToNGSILDError(w, err, traceID(ctx))
			return
		}

		body, err := json.Marshal(newRegistrationRepresentation(*reg))
		if err != nil {
			log.Error("failed to marshal registration", "err", err.Error())
			mapCIMToNGSILDError(w, err, traceID(ctx))
			return
		}

		writeJSON(w, body)
	})
}

// NewQueryRegistrationsHandler handles GET requests for a page of context source registrations
func NewQueryRegistrationsHandler(
	contextInformationManager cim.RegistrationRetriever,
	authenticator auth.Enticator) http.HandlerFunc {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		tenant := GetTenantFromContext(r.Context())

		ctx, span := tracer.Start(r.Context(), "query-registrations",
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

		regs, err := contextInformationManager.QueryRegistrations(ctx, tenant, limit, offset)
		if err != nil {
			log.Error("query registrations failed", "err", err.Error())
			mapCIMToNGSILDError(w, err, traceID(ctx))
			return
		}

		result := make([]types.ContextSourceRegistration, 0, len(regs))
		for _, reg := range regs {
			result = append(result, newRegistrationRepresentation(reg))
		}

		body, err := json.Marshal(result)
		if err != nil {
			log.Error("failed to marshal registrations", "err", err.Error())
			mapCIMToNGSILDError(w, err, traceID(ctx))
			return
		}

		writeJSON(w, body)
	})
}
