package monitor

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/yanqian/uptime-status/pkg/errors"
	"github.com/yanqian/uptime-status/pkg/metrics"
)

// Error codes produced by the monitor data flow.
const (
	CodeConfig   = "config_error"
	CodeWindow   = "window_error"
	CodeUpstream = "upstream_error"
	CodeFormat   = "format_error"
)

const unknownErrorMessage = "Unknown error"

// Service serves monitor data behind the auth gate and response cache.
type Service interface {
	GetMonitors(ctx context.Context, credential string) (Result, error)
}

type service struct {
	cfg       Config
	gate      Gate
	cache     Cache
	upstream  UpstreamClient
	formatter Formatter
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the monitor data domain.
func NewService(cfg Config, gate Gate, cache Cache, upstream UpstreamClient, formatter Formatter, m *metrics.Metrics, logger *slog.Logger) Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &service{
		cfg:       cfg,
		gate:      gate,
		cache:     cache,
		upstream:  upstream,
		formatter: formatter,
		metrics:   m,
		logger:    logger.With("component", "monitor.service"),
		now:       time.Now,
	}
}

func (s *service) GetMonitors(ctx context.Context, credential string) (Result, error) {
	if strings.TrimSpace(s.cfg.APIURL) == "" || strings.TrimSpace(s.cfg.APIKey) == "" {
		return Result{}, apperrors.Wrap(CodeConfig, "Missing API url or API key", nil)
	}

	if err := s.gate.Authorize(ctx, credential); err != nil {
		if s.metrics != nil {
			s.metrics.AuthRejections.WithLabelValues(apperrors.CodeOf(err)).Inc()
		}
		return Result{}, err
	}

	if data, ok := s.lookup(ctx); ok {
		return Result{Source: SourceCache, Data: data}, nil
	}

	window, err := BuildWindow(s.cfg.CountDays, s.now(), s.cfg.Location)
	if err != nil {
		s.logger.Error("build date window failed", "days", s.cfg.CountDays, "error", err)
		return Result{}, apperrors.Wrap(CodeWindow, "window unavailable", err)
	}

	raw, err := s.fetch(ctx, window.Query())
	if err != nil {
		return Result{}, apperrors.Wrap(CodeUpstream, "", err)
	}

	data, err := s.formatter.Format(raw, window.Dates)
	if err != nil {
		return Result{}, apperrors.Wrap(CodeFormat, "", err)
	}
	data.Timestamp = s.now().Unix()

	s.store(ctx, data)
	s.logger.Info("monitor data fetched", "monitors", len(data.Monitors), "days", len(window.Dates))
	return Result{Source: SourceAPI, Data: data}, nil
}

func (s *service) fetch(ctx context.Context, q Query) ([]byte, error) {
	start := time.Now()
	raw, err := s.upstream.GetMonitors(ctx, q)
	if s.metrics != nil {
		s.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.UpstreamRequests.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		s.logger.Error("upstream getMonitors failed", "error", err)
	}
	return raw, err
}

// lookup treats cache errors and undecodable entries as misses.
func (s *service) lookup(ctx context.Context) (MonitorsDataResult, bool) {
	payload, ok, err := s.cache.Get(ctx, s.cfg.CacheKey)
	if err != nil {
		s.logger.Warn("cache read failed", "key", s.cfg.CacheKey, "error", err)
		ok = false
	}
	var data MonitorsDataResult
	if ok {
		if err := json.Unmarshal(payload, &data); err != nil {
			s.logger.Warn("cache entry undecodable", "key", s.cfg.CacheKey, "error", err)
			ok = false
		}
	}
	if s.metrics != nil {
		result := "miss"
		if ok {
			result = "hit"
		}
		s.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
	return data, ok
}

func (s *service) store(ctx context.Context, data MonitorsDataResult) {
	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("encode cache entry failed", "error", err)
		return
	}
	if err := s.cache.Set(ctx, s.cfg.CacheKey, payload, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", "key", s.cfg.CacheKey, "error", err)
	}
}

// NewEnvelope converts a service outcome into the HTTP status and response body.
func NewEnvelope(res Result, err error) (int, Envelope) {
	if err != nil {
		message := apperrors.MessageOf(err)
		if message == "" {
			message = unknownErrorMessage
		}
		return http.StatusInternalServerError, Envelope{
			Code:    http.StatusInternalServerError,
			Message: message,
			Source:  SourceAPI,
		}
	}
	data := res.Data
	return http.StatusOK, Envelope{
		Code:    http.StatusOK,
		Message: "success",
		Source:  res.Source,
		Data:    &data,
	}
}
