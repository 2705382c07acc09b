//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/uptime-status/internal/bootstrap"
	"github.com/yanqian/uptime-status/internal/domain/auth"
	"github.com/yanqian/uptime-status/internal/domain/monitor"
	"github.com/yanqian/uptime-status/internal/infra/config"
	"github.com/yanqian/uptime-status/internal/infra/uptimerobot"
	httpiface "github.com/yanqian/uptime-status/internal/interface/http"
	"github.com/yanqian/uptime-status/pkg/logger"
	"github.com/yanqian/uptime-status/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.New,
		provideMonitorConfig,
		provideAuthConfig,
		provideCookieConfig,
		provideUpstreamClient,
		provideResponseCache,
		auth.NewJWTTokens,
		auth.NewGate,
		auth.NewService,
		uptimerobot.NewFormatter,
		monitor.NewService,
		wire.Bind(new(auth.TokenVerifier), new(*auth.JWTTokens)),
		wire.Bind(new(monitor.Gate), new(*auth.Gate)),
		wire.Bind(new(monitor.UpstreamClient), new(*uptimerobot.Client)),
		wire.Bind(new(monitor.Formatter), new(uptimerobot.Formatter)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
