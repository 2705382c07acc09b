package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/uptime-status/internal/domain/auth"
	"github.com/yanqian/uptime-status/internal/domain/monitor"
	"github.com/yanqian/uptime-status/internal/infra/config"
	"github.com/yanqian/uptime-status/internal/infra/respcache"
	"github.com/yanqian/uptime-status/internal/infra/uptimerobot"
	httpiface "github.com/yanqian/uptime-status/internal/interface/http"
	"github.com/yanqian/uptime-status/pkg/util"
)

func provideMonitorConfig(cfg *config.Config, logger *slog.Logger) (monitor.Config, error) {
	loc, err := util.LoadLocation(cfg.Window.Timezone)
	if err != nil {
		return monitor.Config{}, err
	}
	if strings.TrimSpace(cfg.Upstream.APIURL) == "" || strings.TrimSpace(cfg.Upstream.APIKey) == "" {
		logger.Warn("upstream api url or key not set, getMonitors will fail until configured")
	}
	return monitor.Config{
		APIURL:    cfg.Upstream.APIURL,
		APIKey:    cfg.Upstream.APIKey,
		CountDays: cfg.Window.CountDays,
		Location:  loc,
		CacheKey:  cfg.Cache.Key,
		CacheTTL:  cfg.Cache.TTL,
	}, nil
}

func provideAuthConfig(cfg *config.Config, logger *slog.Logger) auth.Config {
	authCfg := auth.Config{
		Password:  cfg.Site.Password,
		SecretKey: cfg.Site.SecretKey,
		TokenTTL:  cfg.Site.TokenTTL,
	}
	if !authCfg.Enabled() && (cfg.Site.Password != "" || cfg.Site.SecretKey != "") {
		logger.Warn("site password and secret key must both be set to enable the auth gate")
	}
	return authCfg
}

func provideCookieConfig(cfg *config.Config) httpiface.CookieConfig {
	return httpiface.CookieConfig{
		Name:   cfg.Site.CookieName,
		MaxAge: cfg.Site.TokenTTL,
		Secure: cfg.Site.SecureCookie,
	}
}

func provideUpstreamClient(cfg *config.Config) *uptimerobot.Client {
	return uptimerobot.NewClient(cfg.Upstream.APIURL, cfg.Upstream.APIKey, cfg.Upstream.Timeout)
}

// provideResponseCache prefers valkey when configured and reachable, otherwise process memory.
func provideResponseCache(cfg *config.Config, logger *slog.Logger) (monitor.Cache, func()) {
	if cfg.Cache.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return provideMemoryCache(cfg)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return provideMemoryCache(cfg)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
			return provideMemoryCache(cfg)
		}
		logger.Info("valkey response cache enabled", "addr", cfg.Cache.Redis.Addr)
		return respcache.NewValkeyStore(client, cfg.Cache.Redis.Prefix), client.Close
	}
	return provideMemoryCache(cfg)
}

func provideMemoryCache(cfg *config.Config) (monitor.Cache, func()) {
	store := respcache.NewMemoryStore(cfg.Cache.SweepInterval)
	return store, store.Stop
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
