package cmd

import (
	"context"
	"flag"

	"github.com/etnz/stocklog/renderer"
	"github.com/google/subcommands"
)

type positionsCmd struct {
	reportFlags
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the open positions" }
func (*positionsCmd) Usage() string {
	return `stk positions [-d <date>] [-offline]

  Displays the open positions valued at the latest market price, with their
  gain, holding period, benchmark return and alpha.
`
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runReport(ctx, &c.reportFlags, renderer.PositionsMarkdown)
}

type closedCmd struct {
	reportFlags
}

func (*closedCmd) Name() string     { return "closed" }
func (*closedCmd) Synopsis() string { return "display the closed positions" }
func (*closedCmd) Usage() string {
	return `stk closed [-d <date>] [-offline]

  Displays the positions closed by FIFO matching of the sells, with their
  profit, holding period, benchmark return and alpha.
`
}

func (c *closedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runReport(ctx, &c.reportFlags, renderer.ClosedMarkdown)
}
