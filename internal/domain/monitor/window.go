package monitor

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/uptime-status/pkg/util"
)

const (
	day = 24 * time.Hour

	rangeSeparator = "-"
	boundSeparator = "_"
)

// Bucket is a half-open interval [Start, End).
type Bucket struct {
	Start time.Time
	End   time.Time
}

// String renders the bucket in the upstream "start_end" unix form.
func (b Bucket) String() string {
	return strconv.FormatInt(b.Start.Unix(), 10) + boundSeparator + strconv.FormatInt(b.End.Unix(), 10)
}

// DateWindow is the set of day buckets plus the overall span requested upstream.
type DateWindow struct {
	// Dates holds the day starts, most recent first.
	Dates   []time.Time
	Buckets []Bucket
	Start   int64
	End     int64
	Ranges  string
}

// Query converts the window into upstream parameters.
func (w DateWindow) Query() Query {
	return Query{
		LogsStartDate: w.Start,
		LogsEndDate:   w.End,
		CustomRanges:  w.Ranges,
	}
}

// BuildWindow returns days contiguous 24h buckets ending with today in loc.
// Steps are fixed 24h so every bucket is exactly 86400s, DST included.
func BuildWindow(days int, now time.Time, loc *time.Location) (DateWindow, error) {
	if days <= 0 {
		return DateWindow{}, errors.New("days must be positive")
	}
	if loc == nil {
		return DateWindow{}, errors.New("location is required")
	}

	today := util.StartOfDay(now, loc)
	dates := make([]time.Time, 0, days)
	buckets := make([]Bucket, 0, days)
	ranges := make([]string, 0, days+1)
	for d := 0; d < days; d++ {
		start := today.Add(-time.Duration(d) * day)
		bucket := Bucket{Start: start, End: start.Add(day)}
		dates = append(dates, start)
		buckets = append(buckets, bucket)
		ranges = append(ranges, bucket.String())
	}

	overall := Bucket{Start: dates[len(dates)-1], End: dates[0].Add(day)}
	// days == 1 repeats the single bucket here; upstream accepts redundant ranges.
	ranges = append(ranges, overall.String())

	return DateWindow{
		Dates:   dates,
		Buckets: buckets,
		Start:   overall.Start.Unix(),
		End:     overall.End.Unix(),
		Ranges:  strings.Join(ranges, rangeSeparator),
	}, nil
}
