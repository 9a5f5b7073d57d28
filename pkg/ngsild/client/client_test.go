package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	ngsierrors "github.com/diwise/context-broker-mongo/pkg/ngsild/errors"
	"github.com/diwise/context-broker-mongo/pkg/ngsild/types"
	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"

	"github.com/matryer/is"
)

var Expects = testutils.Expects
var Returns = testutils.Returns
var anyInput = expects.AnyInput
var method = expects.RequestMethod
var path = expects.RequestPath

func TestRetrieveSubscription(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodGet),
			path("/ngsi-ld/v1/subscriptions/5f1a2b3c4d5e6f7a8b9c0d1e"),
			HeaderEquals("NGSILD-Tenant", "water"),
		),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(subscriptionJSON)),
		),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL(), Tenant("water"))

	sub, err := c.RetrieveSubscription(context.Background(), "5f1a2b3c4d5e6f7a8b9c0d1e")

	is.NoErr(err)
	is.Equal(sub.ID, "5f1a2b3c4d5e6f7a8b9c0d1e")
	is.Equal(sub.Notification.Endpoint.URI, "http://quantumleap:8668/v2/notify")
	is.Equal(sub.Entities[0].IDPattern, ".*")
}

func TestRetrieveSubscriptionThatDoesNotExist(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.ContentType("application/problem+json"),
			response.Code(http.StatusNotFound),
			response.Body([]byte(notFoundJSON)),
		),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	_, err := c.RetrieveSubscription(context.Background(), "nope")

	is.True(errors.Is(err, ngsierrors.ErrNotFound))
}

func TestQuerySubscriptionsWithPaging(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			path("/ngsi-ld/v1/subscriptions"),
			QueryParamEquals("limit", "10"),
			QueryParamEquals("offset", "30"),
		),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte("["+subscriptionJSON+"]")),
		),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	subs, err := c.QuerySubscriptions(context.Background(), Limit(10), Offset(30))

	is.NoErr(err)
	is.Equal(len(subs), 1)
}

func TestQueryRegistrationsWithUnknownTenant(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, path("/ngsi-ld/v1/csourceRegistrations")),
		Returns(
			response.ContentType("application/problem+json"),
			response.Code(http.StatusNotFound),
			response.Body([]byte(unknownTenantJSON)),
		),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL(), Tenant("nobody"))

	_, err := c.QueryRegistrations(context.Background())

	is.True(errors.Is(err, ngsierrors.ErrUnknownTenant))
}

func TestRetrieveRegistration(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, path("/ngsi-ld/v1/csourceRegistrations/5f1a2b3c4d5e6f7a8b9c0d1f")),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(registrationJSON)),
		),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	reg, err := c.RetrieveRegistration(context.Background(), "5f1a2b3c4d5e6f7a8b9c0d1f")

	is.NoErr(err)
	is.Equal(reg.Endpoint, "http://iot-agent:4041")
	is.Equal(reg.Information[0].PropertyNames, []string{"temperature"})
}

func TestQueryAllRegistrations(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			path("/ngsi-ld/v1/csourceRegistrations"),
			QueryParamEquals("limit", "50"),
			QueryParamEquals("offset", "0"),
		),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte("["+registrationJSON+","+registrationJSON+"]")),
		),
	)
	defer s.Close()

	c := NewContextBrokerClient(s.URL())

	ids := []string{}
	count, err := QueryAll(context.Background(), c, func(r types.ContextSourceRegistration) {
		ids = append(ids, r.ID)
	})

	is.NoErr(err)
	is.Equal(count, 2)
	is.Equal(len(ids), 2)
}

func HeaderEquals(name, value string) func(*is.I, *http.Request) {
	return func(is *is.I, r *http.Request) {
		is.Equal(r.Header.Get(name), value) // header should match
	}
}

func QueryParamEquals(name, value string) func(*is.I, *http.Request) {
	return func(is *is.I, r *http.Request) {
		is.True(r.URL.Query().Has(name))         // query param should exist
		is.Equal(r.URL.Query().Get(name), value) // query param should match
	}
}

const subscriptionJSON string = `{
	"id": "5f1a2b3c4d5e6f7a8b9c0d1e",
	"type": "Subscription",
	"entities": [{"idPattern": ".*", "type": "WeatherObserved"}],
	"notification": {
		"format": "normalized",
		"endpoint": {"uri": "http://quantumleap:8668/v2/notify", "accept": "application/json"}
	},
	"expiresAt": "2030-01-01T00:00:00Z",
	"status": "active",
	"isActive": true
}`

const registrationJSON string = `{
	"id": "5f1a2b3c4d5e6f7a8b9c0d1f",
	"type": "ContextSourceRegistration",
	"information": [{"entities": [{"idPattern": "urn:ngsi-ld:Beach:.*", "type": "Beach"}], "propertyNames": ["temperature"]}],
	"endpoint": "http://iot-agent:4041",
	"mode": "all"
}`

const notFoundJSON string = `{"type":"https://uri.etsi.org/ngsi-ld/errors/ResourceNotFound","title":"Not Found","detail":"subscription nope not found"}`

const unknownTenantJSON string = `{"type":"https://uri.etsi.org/ngsi-ld/errors/NonexistentTenant","title":"Non Existent Tenant","detail":"nobody"}`
