package main

import (
	"context"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
)

type FlagType int
type FlagMap map[FlagType]string

const (
	listenAddress FlagType = iota
	servicePort

	configPath
	opaPath
)

func LoadFlags(ctx context.Context) FlagMap {
	return FlagMap{
		listenAddress: env.GetVariableOrDefault(ctx, "LISTEN_ADDRESS", ""),
		servicePort:   env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080"),
		configPath:    env.GetVariableOrDefault(ctx, "CONFIG_PATH", "/opt/diwise/config/default.yaml"),
		opaPath:       env.GetVariableOrDefault(ctx, "POLICIES_PATH", "/opt/diwise/config/authz.rego"),
	}
}
