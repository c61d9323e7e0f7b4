package renderer

import (
	"fmt"

	"github.com/etnz/stocklog"
)

// notAvailable is printed in place of values that are unknown.
const notAvailable = "N/A"

func optPercent(p *stocklog.Percent) string {
	if p == nil {
		return notAvailable
	}
	return p.SignedString()
}

func optFloat(f *float64) string {
	if f == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", *f)
}

// alpha renders the result of an Alpha accessor.
func alpha(a stocklog.Percent, ok bool) string {
	if !ok {
		return notAvailable
	}
	return a.SignedString()
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
