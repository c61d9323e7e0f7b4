package cmd

import (
	"context"
	"flag"

	"github.com/etnz/stocklog"
	"github.com/etnz/stocklog/renderer"
	"github.com/google/subcommands"
)

// reportFlags are the flags shared by the report commands.
type reportFlags struct {
	date    string
	offline bool
}

func (r *reportFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.date, "d", "", "Date of the report (YYYY-MM-DD), defaults to today.")
	f.BoolVar(&r.offline, "offline", false, "Do not fetch market data, positions are valued at cost.")
}

// report computes the report selected by the flags.
func (r *reportFlags) report(ctx context.Context, a *app) (*stocklog.Report, error) {
	on, err := parseDay(r.date)
	if err != nil {
		return nil, err
	}
	return a.tracker(r.offline).Report(ctx, on)
}

// runReport prints the markdown rendered from the report selected by flags.
func runReport(ctx context.Context, flags *reportFlags, render func(*stocklog.Report) string) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) error {
		r, err := flags.report(ctx, a)
		if err != nil {
			return err
		}
		printMarkdown(render(r))
		return nil
	})
}

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	reportFlags
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a portfolio performance summary" }
func (*summaryCmd) Usage() string {
	return `stk summary [-d <date>] [-offline]

  Displays a summary of the portfolio: total value and return, realized and
  unrealized profits, win rate, holding periods, best and worst performers
  and risk figures.
`
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runReport(ctx, &c.reportFlags, renderer.SummaryMarkdown)
}

type sectorsCmd struct {
	reportFlags
}

func (*sectorsCmd) Name() string     { return "sectors" }
func (*sectorsCmd) Synopsis() string { return "display the sector and industry allocation" }
func (*sectorsCmd) Usage() string {
	return `stk sectors [-d <date>] [-offline]

  Displays the allocation, mean return and concentration of the open
  positions grouped by sector and by industry.
`
}

func (c *sectorsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runReport(ctx, &c.reportFlags, renderer.SectorsMarkdown)
}
