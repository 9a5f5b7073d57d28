package contextbroker

import (
	"context"
	"fmt"

	"github.com/diwise/context-broker-mongo/internal/pkg/application/cim"
	"github.com/diwise/context-broker-mongo/internal/pkg/application/registrations"
	"github.com/diwise/context-broker-mongo/internal/pkg/application/subscriptions"
	"github.com/diwise/context-broker-mongo/internal/pkg/infrastructure/database"
	"github.com/diwise/context-broker-mongo/pkg/ngsild/errors"
	"github.com/diwise/context-broker-mongo/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

type contextBrokerApp struct {
	tenants       map[string]string
	subscriptions subscriptions.Repository
	registrations registrations.Repository
}

// New resolves every configured tenant to the database holding its documents
func New(ctx context.Context, cfg Config, prefix string, subs subscriptions.Repository, regs registrations.Repository) (cim.ContextInformationManager, error) {
	app := &contextBrokerApp{
		tenants:       make(map[string]string),
		subscriptions: subs,
		registrations: regs,
	}

	log := logging.GetFromContext(ctx)

	for _, tenant := range cfg.Tenants {
		if tenant.ID == "" {
			return nil, fmt.Errorf("tenant %q has no id", tenant.Name)
		}

		db := tenant.Database
		if db == "" {
			db = database.Name(prefix, tenant.ID)
		}

		app.tenants[tenant.ID] = db
		log.Debug("tenant configured", "tenant", tenant.ID, "database", db)
	}

	return app, nil
}

func (app *contextBrokerApp) database(tenant string) (string, error) {
	db, ok := app.tenants[tenant]
	if !ok {
		return "", errors.NewUnknownTenantError(tenant)
	}
	return db, nil
}

func (app *contextBrokerApp) RetrieveSubscription(ctx context.Context, tenant, subscriptionID string) (*subscriptions.Subscription, error) {
	db, err := app.database(tenant)
	if err != nil {
		return nil, err
	}

	sub, err := app.subscriptions.Get(ctx, db, types.SubscriptionID(subscriptionID))
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (app *contextBrokerApp) QuerySubscriptions(ctx context.Context, tenant string, limit, offset int64) ([]subscriptions.Subscription, error) {
	db, err := app.database(tenant)
	if err != nil {
		return nil, err
	}

	return app.subscriptions.Query(ctx, db, limit, offset)
}

func (app *contextBrokerApp) RetrieveRegistration(ctx context.Context, tenant, registrationID string) (*registrations.Registration, error) {
	db, err := app.database(tenant)
	if err != nil {
		return nil, err
	}

	reg, err := app.registrations.Get(ctx, db, types.RegistrationID(registrationID))
	if err != nil {
		return nil, err
	}

	return &reg, nil
}

func (app *contextBrokerApp) QueryRegistrations(ctx context.Context, tenant string, limit, offset int64) ([]registrations.Registration, error) {
	db, err := app.database(tenant)
	if err != nil {
		return nil, err
	}

	return app.registrations.Query(ctx, db, limit, offset)
}
