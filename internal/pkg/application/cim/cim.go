package cim

import (
	"context"

	"github.com/diwise/context-broker-mongo/internal/pkg/application/registrations"
	"github.com/diwise/context-broker-mongo/internal/pkg/application/subscriptions"
)

//go:generate moq -rm -out cim_mock.go . ContextInformationManager

type SubscriptionRetriever interface {
	RetrieveSubscription(ctx context.Context, tenant, subscriptionID string) (*subscriptions.Subscription, error)
	QuerySubscriptions(ctx context.Context, tenant string, limit, offset int64) ([]subscriptions.Subscription, error)
}

type RegistrationRetriever interface {
	RetrieveRegistration(ctx context.Context, tenant, registrationID string) (*registrations.Registration, error)
	QueryRegistrations(ctx context.Context, tenant string, limit, offset int64) ([]registrations.Registration, error)
}

type ContextInformationManager interface {
	SubscriptionRetriever
	RegistrationRetriever
}
