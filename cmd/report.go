package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stocklog/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	reportFlags
	html   bool
	output string
	title  string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display or export the full portfolio report" }
func (*reportCmd) Usage() string {
	return `stk report [-d <date>] [-offline] [-html] [-o <file>] [-title <title>]

  Displays the summary, the open and closed positions and the sector
  allocation. With -html the report is written as a standalone HTML page.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.reportFlags.SetFlags(f)
	f.BoolVar(&c.html, "html", false, "Write the report as HTML.")
	f.StringVar(&c.output, "o", "", "Output file, standard output by default.")
	f.StringVar(&c.title, "title", "Portfolio report", "Title of the HTML page.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) error {
		r, err := c.report(ctx, a)
		if err != nil {
			return err
		}
		doc := renderer.ReportMarkdown(r)
		if !c.html && c.output == "" {
			printMarkdown(doc)
			return nil
		}
		if c.html {
			if doc, err = renderer.HTML(c.title, doc); err != nil {
				return err
			}
		}
		if c.output == "" {
			_, err = fmt.Fprint(stdout, doc)
			return err
		}
		if err := os.WriteFile(c.output, []byte(doc), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", c.output)
		return nil
	})
}
