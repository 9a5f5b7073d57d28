package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/diwise/context-broker-mongo/pkg/ngsild/errors"
	"github.com/diwise/context-broker-mongo/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultNGSITenant string = "default"

const (
	SubscriptionsPath string = "/ngsi-ld/v1/subscriptions"
	RegistrationsPath string = "/ngsi-ld/v1/csourceRegistrations"
)

type ContextBrokerClient interface {
	RetrieveSubscription(ctx context.Context, subscriptionID string) (*types.Subscription, error)
	QuerySubscriptions(ctx context.Context, parameters ...RequestDecoratorFunc) ([]types.Subscription, error)
	RetrieveRegistration(ctx context.Context, registrationID string) (*types.ContextSourceRegistration, error)
	QueryRegistrations(ctx context.Context, parameters ...RequestDecoratorFunc) ([]types.ContextSourceRegistration, error)
}

type RequestDecoratorFunc func([]string) []string

func Debug(enabled string) func(*cbClient) {
	return func(c *cbClient) {
		c.debug = (enabled == "true")
	}
}

func Tenant(tenant string) func(*cbClient) {
	return func(c *cbClient) {
		c.tenant = tenant
	}
}

func NewContextBrokerClient(broker string, options ...func(*cbClient)) ContextBrokerClient {
	c := &cbClient{
		baseURL: broker,
		tenant:  DefaultNGSITenant,
		debug:   false,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

const (
	TraceAttributeSubscriptionID string = "subscription-id"
	TraceAttributeRegistrationID string = "registration-id"
	TraceAttributeNGSILDTenant   string = "ngsild-tenant"
)

var tracer = otel.Tracer("context-broker-mongo-client")

type cbClient struct {
	baseURL string
	tenant  string
	debug   bool
}

func (c cbClient) RetrieveSubscription(ctx context.Context, subscriptionID string) (*types.Subscription, error) {
	var err error

	ctx, span := tracer.Start(ctx, "retrieve-subscription",
		trace.WithAttributes(attribute.String(TraceAttributeNGSILDTenant, c.tenant)),
		trace.WithAttributes(attribute.String(TraceAttributeSubscriptionID, subscriptionID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	sub := &types.Subscription{}
	err = c.get(ctx, SubscriptionsPath+"/"+url.PathEscape(subscriptionID), nil, sub)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (c cbClient) QuerySubscriptions(ctx context.Context, parameters ...RequestDecoratorFunc) ([]types.Subscription, error) {
	var err error

	ctx, span := tracer.Start(ctx, "query-subscriptions",
		trace.WithAttributes(attribute.String(TraceAttributeNGSILDTenant, c.tenant)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	subs := []types.Subscription{}
	err = c.get(ctx, SubscriptionsPath, parameters, &subs)
	if err != nil {
		return nil, err
	}

	return subs, nil
}

func (c cbClient) RetrieveRegistration(ctx context.Context, registrationID string) (*types.ContextSourceRegistration, error) {
	var err error

	ctx, span := tracer.Start(ctx, "retrieve-registration",
		trace.WithAttributes(attribute.String(TraceAttributeNGSILDTenant, c.tenant)),
		trace.WithAttributes(attribute.String(TraceAttributeRegistrationID, registrationID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	reg := &types.ContextSourceRegistration{}
	err = c.get(ctx, RegistrationsPath+"/"+url.PathEscape(registrationID), nil, reg)
	if err != nil {
		return nil, err
	}

	return reg, nil
}

func (c cbClient) QueryRegistrations(ctx context.Context, parameters ...RequestDecoratorFunc) ([]types.ContextSourceRegistration, error) {
	var err error

	ctx, span := tracer.Start(ctx, "query-registrations",
		trace.WithAttributes(attribute.String(TraceAttributeNGSILDTenant, c.tenant)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	regs := []types.ContextSourceRegistration{}
	err = c.get(ctx, RegistrationsPath, parameters, &regs)
	if err != nil {
		return nil, err
	}

	return regs, nil
}

// get fetches path from the broker and decodes a successful response into result
func (c cbClient) get(ctx context.Context, path string, parameters []RequestDecoratorFunc, result any) error {
	endpoint := c.baseURL + path

	params := []string{}
	for _, decorate := range parameters {
		params = decorate(params)
	}

	if len(params) > 0 {
		endpoint = endpoint + "?" + strings.Join(params, "&")
	}

	headers := map[string][]string{"Accept": {"application/json"}}

	resp, respBody, err := c.callContextSource(ctx, http.MethodGet, endpoint, nil, headers)
	if err != nil {
		return err
	}

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode >= http.StatusBadRequest {
		return errors.NewErrorFromProblemReport(resp.StatusCode, contentType, respBody)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response code %d (%w)", resp.StatusCode, errors.ErrInternal)
	}

	err = json.Unmarshal(respBody, result)
	if err != nil {
		return fmt.Errorf("failed to unmarshal response: %s (%w)", err.Error(), errors.ErrBadResponse)
	}

	return nil
}

func (c cbClient) callContextSource(ctx context.Context, method, endpoint string, body io.Reader, headers map[string][]string) (*http.Response, []byte, error) {
	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), errors.ErrInternal)
	}

	if c.tenant != DefaultNGSITenant {
		req.Header.Add("NGSILD-Tenant", c.tenant)
	}

	for header, headerValue := range headers {
		for _, val := range headerValue {
			req.Header.Add(header, val)
		}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), errors.ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), errors.ErrBadResponse)
	}

	if c.debug {
		if resp.StatusCode >= http.StatusBadRequest {
			if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusNotFound {
				reqbytes, _ := httputil.DumpRequest(req, false)
				respbytes, _ := httputil.DumpResponse(resp, false)

				logging.GetFromContext(ctx).Error("request failed", "request", string(reqbytes), "response", string(respbytes))
			}
		}
	}

	return resp, respBody, nil
}
