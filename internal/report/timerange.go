// Package report implements C8: time-range filtering of the record and
// price logs, and the presentation layer (per-symbol P&L table, snapshot
// CSV export) built on top of it. Grounded on original_source/src/time.rs
// and report.rs — the teacher repo has no analogous reporting surface
// (it streams FIX market data, it doesn't summarize a trading book).
package report

import (
	"strings"
	"time"

	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// timeLayout is the CLI's yyyyMMddHHmm format, from original_source's
// "%Y%m%d%H%M".
const timeLayout = "200601021504"

// Kind discriminates TimeRange's variants.
type Kind int

const (
	KindRange Kind = iota
	KindUpToLastSince
	KindUpToNowSince
	KindUpTo
	KindUpToLast
	KindUpToNow
)

// TimeRange is the parsed form of "show report"'s optional
// "[from <start>] [to (<end> | now)]" argument tail.
type TimeRange struct {
	Kind  Kind
	Start time.Time
	End   time.Time
}

// ParseArgs parses the tokens following "show report" into a TimeRange,
// in loc (the configured local time zone). A malformed tail is not a hard
// error: original_source/src/time.rs prints a usage hint and falls back
// to KindUpToLast so a typo doesn't block the rest of the command.
func ParseArgs(args []string, loc *time.Location) (TimeRange, []string) {
	switch {
	case len(args) >= 4 && args[0] == "from" && args[2] == "to" && args[3] == "now":
		start, err := parseLocal(args[1], loc)
		if err != nil {
			return fallback()
		}
		return TimeRange{Kind: KindUpToNowSince, Start: start}, args[4:]

	case len(args) >= 4 && args[0] == "from" && args[2] == "to":
		start, err := parseLocal(args[1], loc)
		if err != nil {
			return fallback()
		}
		end, err := parseLocal(args[3], loc)
		if err != nil {
			return fallback()
		}
		return TimeRange{Kind: KindRange, Start: start, End: end}, args[4:]

	case len(args) >= 4 && args[0] == "to" && args[2] == "from":
		start, err := parseLocal(args[3], loc)
		if err != nil {
			return fallback()
		}
		end, err := parseLocal(args[1], loc)
		if err != nil {
			return fallback()
		}
		return TimeRange{Kind: KindRange, Start: start, End: end}, args[4:]

	case len(args) >= 2 && args[0] == "from":
		start, err := parseLocal(args[1], loc)
		if err != nil {
			return fallback()
		}
		return TimeRange{Kind: KindUpToLastSince, Start: start}, args[2:]

	case len(args) >= 2 && args[0] == "to" && args[1] == "now":
		return TimeRange{Kind: KindUpToNow}, args[2:]

	case len(args) >= 2 && args[0] == "to":
		end, err := parseLocal(args[1], loc)
		if err != nil {
			return fallback()
		}
		return TimeRange{Kind: KindUpTo, End: end}, args[2:]

	case len(args) == 0:
		return TimeRange{Kind: KindUpToLast}, args

	default:
		return fallback()
	}
}

func fallback() (TimeRange, []string) {
	return TimeRange{Kind: KindUpToLast}, nil
}

func parseLocal(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, zkerr.WrapInput(err, "parse time %q (want yyyyMMddHHmm)", s)
	}
	return t, nil
}

// Now returns the current time in loc.
func Now(loc *time.Location) time.Time {
	return time.Now().In(loc)
}
