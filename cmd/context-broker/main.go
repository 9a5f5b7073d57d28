package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	contextbroker "github.com/diwise/context-broker-mongo/internal/pkg/application/context-broker"
	"github.com/diwise/context-broker-mongo/internal/pkg/application/registrations"
	"github.com/diwise/context-broker-mongo/internal/pkg/application/subscriptions"
	"github.com/diwise/context-broker-mongo/internal/pkg/infrastructure/database"
	"github.com/diwise/context-broker-mongo/internal/pkg/infrastructure/router"
	ngsild "github.com/diwise/context-broker-mongo/internal/pkg/presentation/api/ngsi-ld"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName string = "context-broker-mongo"

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion, "json")
	defer cleanup()

	flags := LoadFlags(ctx)

	cfgFile, err := os.Open(flags[configPath])
	if err != nil {
		log.Error("failed to open tenant configuration", "path", flags[configPath], "err", err.Error())
		os.Exit(1)
	}
	defer cfgFile.Close()

	policies, err := os.Open(flags[opaPath])
	if err != nil {
		log.Error("failed to open authz policies", "path", flags[opaPath], "err", err.Error())
		os.Exit(1)
	}
	defer policies.Close()

	dbCfg := database.LoadConfiguration(ctx)

	db, err := database.Connect(ctx, dbCfg)
	if err != nil {
		log.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}
	defer db.Close(context.Background())

	handler, err := initialize(ctx, cfgFile, policies, dbCfg.Prefix(),
		subscriptions.NewRepository(db),
		registrations.NewRepository(db),
	)
	if err != nil {
		log.Error("failed to initialize service", "err", err.Error())
		os.Exit(1)
	}

	addr := flags[listenAddress] + ":" + flags[servicePort]
	log.Info("starting to listen for connections", "addr", addr)

	err = http.ListenAndServe(addr, handler)
	if err != nil {
		log.Error("failed to listen for connections", "err", err.Error())
		os.Exit(1)
	}
}

func initialize(ctx context.Context, cfgData, policies io.Reader, prefix string, subs subscriptions.Repository, regs registrations.Repository) (http.Handler, error) {
	cfg, err := contextbroker.LoadConfiguration(cfgData)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant configuration: %w", err)
	}

	app, err := contextbroker.New(ctx, *cfg, prefix, subs, regs)
	if err != nil {
		return nil, err
	}

	r := router.New(serviceName)

	err = ngsild.RegisterHandlers(ctx, r, policies, app)
	if err != nil {
		return nil, err
	}

	return otelhttp.NewHandler(r, serviceName), nil
}
