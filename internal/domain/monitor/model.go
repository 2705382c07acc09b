package monitor

import "time"

const (
	// SourceCache marks data served from the response cache.
	SourceCache = "cache"
	// SourceAPI marks data fetched from upstream, and every failure.
	SourceAPI = "api"
)

// Result is what a successful GetMonitors call produces.
type Result struct {
	Source string
	Data   MonitorsDataResult
}

// Envelope is serialized back to API consumers for success and failure alike.
type Envelope struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Source  string              `json:"source"`
	Data    *MonitorsDataResult `json:"data,omitempty"`
}

// MonitorsDataResult is the stable internal schema served to the status page.
type MonitorsDataResult struct {
	Status    StatusSummary `json:"status"`
	Monitors  []Monitor     `json:"data"`
	Timestamp int64         `json:"timestamp"`
}

// StatusSummary counts monitors per state.
type StatusSummary struct {
	Count   int `json:"count"`
	OK      int `json:"ok"`
	Down    int `json:"down"`
	Paused  int `json:"paused"`
	Unknown int `json:"unknown"`
}

// Monitor is one normalized upstream monitor.
type Monitor struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	URL      string        `json:"url"`
	Type     string        `json:"type"`
	Interval int           `json:"interval"`
	Status   string        `json:"status"`
	Percent  float64       `json:"percent"`
	Down     DownStats     `json:"down"`
	Days     []DailyUptime `json:"days"`
}

// DailyUptime is the uptime of a single day bucket.
type DailyUptime struct {
	Date    int64     `json:"date"`
	Percent float64   `json:"percent"`
	Down    DownStats `json:"down"`
}

// DownStats aggregates outages; Duration is in seconds.
type DownStats struct {
	Times    int   `json:"times"`
	Duration int64 `json:"duration"`
}

// Monitor states reported in Monitor.Status.
const (
	StatusOK      = "ok"
	StatusDown    = "down"
	StatusPaused  = "paused"
	StatusUnknown = "unknown"
)

// Query carries the upstream getMonitors parameters derived from a DateWindow.
type Query struct {
	LogsStartDate int64
	LogsEndDate   int64
	CustomRanges  string
}

// Config wires runtime settings for the monitor domain.
type Config struct {
	APIURL    string
	APIKey    string
	CountDays int
	Location  *time.Location
	CacheKey  string
	CacheTTL  time.Duration
}
