package date

import (
	"fmt"
	"strings"
)

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns the number of days between From and To.
func (r Range) Days() int { return r.To.DaysSince(r.From) }

// String returns "from..to".
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }

// Preset is one of the well known look-back windows of a price chart.
type Preset int

const (
	OneMonth Preset = iota
	ThreeMonths
	SixMonths
	OneYear
	TwoYears
	FiveYears
	YearToDate
)

func (p Preset) String() string {
	switch p {
	case OneMonth:
		return "1M"
	case ThreeMonths:
		return "3M"
	case SixMonths:
		return "6M"
	case OneYear:
		return "1Y"
	case TwoYears:
		return "2Y"
	case FiveYears:
		return "5Y"
	case YearToDate:
		return "YTD"
	default:
		panic(fmt.Sprintf("unknown preset %d", p))
	}
}

// ParsePreset parses "1M", "3M", "6M", "1Y", "2Y", "5Y" or "YTD", case insensitive.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1M":
		return OneMonth, nil
	case "3M":
		return ThreeMonths, nil
	case "6M":
		return SixMonths, nil
	case "1Y":
		return OneYear, nil
	case "2Y":
		return TwoYears, nil
	case "5Y":
		return FiveYears, nil
	case "YTD":
		return YearToDate, nil
	default:
		return OneMonth, fmt.Errorf("unknown range preset %q", s)
	}
}

// Range returns the window ending on 'end' covered by the preset.
func (p Preset) Range(end Date) Range {
	var from Date
	switch p {
	case OneMonth:
		from = end.AddMonths(-1)
	case ThreeMonths:
		from = end.AddMonths(-3)
	case SixMonths:
		from = end.AddMonths(-6)
	case OneYear:
		from = end.AddMonths(-12)
	case TwoYears:
		from = end.AddMonths(-24)
	case FiveYears:
		from = end.AddMonths(-60)
	case YearToDate:
		from = New(end.Year(), 1, 1)
	default:
		from = end.AddMonths(-1)
	}
	return Range{From: from, To: end}
}
