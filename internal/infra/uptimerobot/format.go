package uptimerobot

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/uptime-status/internal/domain/monitor"
)

// Formatter converts getMonitors payloads into monitor.MonitorsDataResult.
type Formatter struct{}

// NewFormatter returns the UptimeRobot formatter.
func NewFormatter() Formatter {
	return Formatter{}
}

// Format implements monitor.Formatter. custom_uptime_ranges must hold one value per
// date followed by the overall value, matching the window the request was built from.
// A down log counts toward the day it started in.
func (Formatter) Format(raw []byte, dates []time.Time) (monitor.MonitorsDataResult, error) {
	var resp getMonitorsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return monitor.MonitorsDataResult{}, fmt.Errorf("decode getMonitors response: %w", err)
	}
	if resp.Stat != "" && resp.Stat != statOK {
		return monitor.MonitorsDataResult{}, fmt.Errorf("uptimerobot api error: %s", resp.Error.describe())
	}

	out := monitor.MonitorsDataResult{
		Monitors: make([]monitor.Monitor, 0, len(resp.Monitors)),
	}
	for _, m := range resp.Monitors {
		formatted, err := formatMonitor(m, dates)
		if err != nil {
			return monitor.MonitorsDataResult{}, err
		}
		out.Monitors = append(out.Monitors, formatted)
		out.Status.Count++
		switch formatted.Status {
		case monitor.StatusOK:
			out.Status.OK++
		case monitor.StatusDown:
			out.Status.Down++
		case monitor.StatusPaused:
			out.Status.Paused++
		default:
			out.Status.Unknown++
		}
	}
	return out, nil
}

func formatMonitor(m apiMonitor, dates []time.Time) (monitor.Monitor, error) {
	percents, err := parseRanges(m.CustomUptimeRanges, len(dates)+1)
	if err != nil {
		return monitor.Monitor{}, fmt.Errorf("monitor %d: %w", m.ID, err)
	}

	days := make([]monitor.DailyUptime, 0, len(dates))
	var total monitor.DownStats
	for i, date := range dates {
		down := downWithin(m.Logs, date.Unix(), date.Add(24*time.Hour).Unix())
		total.Times += down.Times
		total.Duration += down.Duration
		days = append(days, monitor.DailyUptime{
			Date:    date.Unix(),
			Percent: percents[i],
			Down:    down,
		})
	}

	return monitor.Monitor{
		ID:       m.ID,
		Name:     m.FriendlyName,
		URL:      m.URL,
		Type:     typeName(m.Type),
		Interval: m.Interval,
		Status:   statusName(m.Status),
		Percent:  percents[len(dates)],
		Down:     total,
		Days:     days,
	}, nil
}

// parseRanges splits the dash separated percentages. An empty string, which
// upstream returns for monitors with no history yet, yields zeros.
func parseRanges(raw string, want int) ([]float64, error) {
	out := make([]float64, want)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	parts := strings.Split(raw, "-")
	if len(parts) != want {
		return nil, fmt.Errorf("custom_uptime_ranges has %d values, want %d", len(parts), want)
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("custom_uptime_ranges value %q: %w", part, err)
		}
		out[i] = math.Round(v*100) / 100
	}
	return out, nil
}

func downWithin(logs []apiLog, start, end int64) monitor.DownStats {
	var stats monitor.DownStats
	for _, l := range logs {
		if l.Type != logTypeDown || l.Datetime < start || l.Datetime >= end {
			continue
		}
		stats.Times++
		stats.Duration += l.Duration
	}
	return stats
}

func statusName(code int) string {
	switch code {
	case 0:
		return monitor.StatusPaused
	case 2:
		return monitor.StatusOK
	case 8, 9:
		return monitor.StatusDown
	default:
		return monitor.StatusUnknown
	}
}

func typeName(code int) string {
	if name, ok := monitorTypes[code]; ok {
		return name
	}
	return "unknown"
}

var _ monitor.Formatter = Formatter{}
