package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/etnz/stocklog"
	"github.com/etnz/stocklog/date"
	"github.com/etnz/stocklog/renderer"
	"github.com/google/subcommands"
)

type watchCmd struct {
	interval time.Duration
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "display the open positions as market data refreshes" }
func (*watchCmd) Usage() string {
	return `stk watch [-i <interval>]

  Polls the market data every interval (the market refresh_interval setting
  by default) and displays the open positions each time a new snapshot is
  installed. Stops on interrupt.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.interval, "i", 0, "Refresh interval, e.g. 1m.")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) error {
		interval := c.interval
		if interval <= 0 {
			interval = a.config.Market.RefreshInterval.Duration
		}
		t := a.tracker(false)
		go t.Refresher.Run(ctx, t.Book, interval)

		poll := time.NewTicker(time.Second)
		defer poll.Stop()
		var shown *stocklog.Snapshot
		for {
			if snap := t.Refresher.Snapshot(); snap != nil && snap != shown {
				shown = snap
				r, err := t.Report(ctx, date.Of(snap.AsOf))
				if err != nil {
					return err
				}
				printMarkdown(renderer.PositionsMarkdown(r))
			}
			select {
			case <-ctx.Done():
				return nil
			case <-poll.C:
			}
		}
	})
}
