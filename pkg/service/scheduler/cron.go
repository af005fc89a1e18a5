package scheduler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bottega-lab/maestro/pkg/utils/logging"
)

// MatchField reports whether a single cron field expression matches the
// value. Supported forms are exactly: "*" (always), "*/N" (value%N == 0),
// "a,b,c" (membership), "a-b" (inclusive range) and a bare integer.
// Anything else never matches.
func MatchField(expr string, value int) bool {
	if expr == "*" {
		return true
	}

	if step, ok := strings.CutPrefix(expr, "*/"); ok {
		n, err := strconv.Atoi(step)
		if err != nil || n <= 0 {
			return false
		}
		return value%n == 0
	}

	if strings.Contains(expr, ",") {
		for _, part := range strings.Split(expr, ",") {
			n, err := strconv.Atoi(part)
			if err != nil {
				continue
			}
			if n == value {
				return true
			}
		}
		return false
	}

	if lo, hi, ok := strings.Cut(expr, "-"); ok {
		from, errFrom := strconv.Atoi(lo)
		to, errTo := strconv.Atoi(hi)
		if errFrom != nil || errTo != nil {
			return false
		}
		return from <= value && value <= to
	}

	n, err := strconv.Atoi(expr)
	if err != nil {
		return false
	}
	return n == value
}

// MatchesCron reports whether the schedule matches the instant. A schedule
// is exactly 5 whitespace-separated fields: minute, hour, day-of-month,
// month (1-12) and day-of-week (0=Sunday). All five must match. Any other
// field count logs a warning and fails closed: the schedule never matches
// and no error is raised.
func MatchesCron(ctx context.Context, schedule string, now time.Time) bool {
	fields := strings.Fields(schedule)
	if len(fields) != 5 {
		logging.From(ctx).Warn("malformed cron schedule, expected 5 fields",
			"schedule", schedule, "fields", len(fields))
		return false
	}

	return MatchField(fields[0], now.Minute()) &&
		MatchField(fields[1], now.Hour()) &&
		MatchField(fields[2], now.Day()) &&
		MatchField(fields[3], int(now.Month())) &&
		MatchField(fields[4], int(now.Weekday()))
}
