package uptimerobot

import "strings"

const statOK = "ok"

type statusEnvelope struct {
	Stat  string   `json:"stat"`
	Error apiError `json:"error"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e apiError) describe() string {
	parts := make([]string, 0, 2)
	if e.Type != "" {
		parts = append(parts, e.Type)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if len(parts) == 0 {
		return "request failed"
	}
	return strings.Join(parts, ": ")
}

type getMonitorsResponse struct {
	Stat     string       `json:"stat"`
	Error    apiError     `json:"error"`
	Monitors []apiMonitor `json:"monitors"`
}

type apiMonitor struct {
	ID                 int64    `json:"id"`
	FriendlyName       string   `json:"friendly_name"`
	URL                string   `json:"url"`
	Type               int      `json:"type"`
	Interval           int      `json:"interval"`
	Status             int      `json:"status"`
	CustomUptimeRanges string   `json:"custom_uptime_ranges"`
	Logs               []apiLog `json:"logs"`
}

// apiLog durations are seconds.
type apiLog struct {
	Type     int   `json:"type"`
	Datetime int64 `json:"datetime"`
	Duration int64 `json:"duration"`
}

// Log type 1 is a down event; 2 (up) only closes it and carries no extra data.
const logTypeDown = 1

var monitorTypes = map[int]string{
	1: "http",
	2: "keyword",
	3: "ping",
	4: "port",
	5: "heartbeat",
}
