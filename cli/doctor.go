package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/textwin"
	"github.com/robinvdvleuten/textwin/output"
	"github.com/robinvdvleuten/textwin/scan"
)

// DoctorCmd bundles inspection utilities that expose what the scanner
// sees internally: line records, interner statistics and window buffer
// behavior across capacities.
type DoctorCmd struct {
	Lines  LinesCmd  `cmd:"" help:"Show every line with its offset, width and terminator."`
	Intern InternCmd `cmd:"" help:"Show string interner statistics for the input."`
	Window WindowCmd `cmd:"" help:"Compare window buffer behavior across capacities."`
}

type LinesCmd struct {
	File  FileOrStdin `help:"Input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Width int         `help:"Maximum display width of the sample column." default:"40"`
}

func (cmd *LinesCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	src, err := cmd.File.Source()
	if err != nil {
		return err
	}

	report, err := scan.New(scan.WithLineDetail()).Scan(context.Background(), src)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("%6s  %8s  %6s  %-4s  %s", "LINE", "OFFSET", "WIDTH", "EOL", "SAMPLE")
	_, _ = fmt.Fprintln(ctx.Stdout, headerStyle.Render(header))

	for _, line := range report.LineDetail {
		// Quote first so control bytes stay visible, then clip by display
		// width; samples may contain wide runes.
		sample := runewidth.Truncate(strconv.Quote(line.Text), cmd.Width, "…")
		_, _ = fmt.Fprintf(ctx.Stdout, "%6d  %8d  %6d  %-4s  %s\n",
			line.Number, line.Offset, line.Width, line.Terminator, sample)
	}

	return nil
}

type InternCmd struct {
	File FileOrStdin `help:"Input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Top  int         `help:"Number of most frequent lexemes to show." default:"10"`
}

func (cmd *InternCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	src, err := cmd.File.Source()
	if err != nil {
		return err
	}

	report, err := scan.New(scan.WithTopLexemes(cmd.Top)).Scan(context.Background(), src)
	if err != nil {
		return err
	}

	styles := output.NewStyles(ctx.Stdout)
	stats := report.Intern

	// Bytes the interner saved us, counted over the lexemes we know the
	// frequency of. Every hit after the first reuses the canonical string.
	var deduped int
	for _, lc := range report.TopLexemes {
		deduped += (lc.Count - 1) * len(lc.Text)
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "%-10s %s\n", "strings", styles.Count(strconv.Itoa(stats.Size)))
	_, _ = fmt.Fprintf(ctx.Stdout, "%-10s %s\n", "hits", styles.Count(strconv.Itoa(stats.Hits)))
	_, _ = fmt.Fprintf(ctx.Stdout, "%-10s %s\n", "misses", styles.Count(strconv.Itoa(stats.Misses)))
	_, _ = fmt.Fprintf(ctx.Stdout, "%-10s %s\n", "hit rate", styles.Count(fmt.Sprintf("%.1f%%", stats.HitRate()*100)))
	_, _ = fmt.Fprintf(ctx.Stdout, "%-10s %s %s\n", "deduped",
		styles.Count(fmt.Sprintf("~%d bytes", deduped)),
		styles.Dim(fmt.Sprintf("(top %d lexemes only)", len(report.TopLexemes))))

	if len(report.TopLexemes) > 0 {
		_, _ = fmt.Fprintln(ctx.Stdout)
		header := fmt.Sprintf("%5s  %8s  %s", "RANK", "COUNT", "LEXEME")
		_, _ = fmt.Fprintln(ctx.Stdout, headerStyle.Render(header))

		for i, lc := range report.TopLexemes {
			sample := runewidth.Truncate(strconv.Quote(lc.Text), 40, "…")
			_, _ = fmt.Fprintf(ctx.Stdout, "%5d  %8d  %s\n",
				i+1, lc.Count, styles.Lexeme(sample))
		}
	}

	return nil
}

type WindowCmd struct {
	File       FileOrStdin `help:"Input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Capacities []int       `help:"Pool buffer capacities to compare." default:"256,2048,16384"`
	Dump       bool        `help:"Dump the raw statistics of each run."`
}

func (cmd *WindowCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	src, err := cmd.File.Source()
	if err != nil {
		return err
	}

	type windowRun struct {
		PoolCapacity int
		Window       textwin.Stats
		Intern       textwin.InternStats
	}

	runs := make([]windowRun, 0, len(cmd.Capacities))
	for _, capacity := range cmd.Capacities {
		if capacity <= 0 {
			return fmt.Errorf("capacity must be positive, got %d", capacity)
		}

		scanner := scan.New(
			scan.WithTopLexemes(0),
			scan.WithWindowOptions(textwin.WithPool(textwin.NewSyncPool(capacity))),
		)

		report, err := scanner.Scan(context.Background(), src)
		if err != nil {
			return err
		}

		runs = append(runs, windowRun{
			PoolCapacity: capacity,
			Window:       report.Window,
			Intern:       report.Intern,
		})
	}

	header := fmt.Sprintf("%10s  %8s  %12s  %6s  %10s", "CAPACITY", "REFILLS", "COMPACTIONS", "GROWS", "FINAL CAP")
	_, _ = fmt.Fprintln(ctx.Stdout, headerStyle.Render(header))

	for _, run := range runs {
		_, _ = fmt.Fprintf(ctx.Stdout, "%10d  %8d  %12d  %6d  %10d\n",
			run.PoolCapacity, run.Window.Refills, run.Window.Compactions, run.Window.Grows, run.Window.Capacity)
	}

	if cmd.Dump {
		_, _ = fmt.Fprintln(ctx.Stdout)
		_, _ = fmt.Fprintln(ctx.Stdout, repr.String(runs, repr.Indent("  ")))
	}

	return nil
}
