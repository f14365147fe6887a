package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/textwin/output"
	"github.com/robinvdvleuten/textwin/scan"
	"github.com/robinvdvleuten/textwin/telemetry"
)

type ScanCmd struct {
	File         FileOrStdin `help:"Input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	JSON         bool        `help:"Emit the report as JSON."`
	Lines        bool        `help:"Record every line instead of word statistics."`
	Top          int         `help:"Number of most frequent lexemes to report (0 disables)." default:"10"`
	MaxLineWidth int         `help:"Fail when a line exceeds this byte width (0 disables)." placeholder:"N"`
	Output       string      `help:"Write the report to a file instead of stdout." type:"path"`
	Force        bool        `help:"Overwrite the output file without confirmation." short:"f"`
	Watch        bool        `help:"Rescan whenever the input file changes." short:"w"`
}

func (cmd *ScanCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	if cmd.Watch && cmd.File.Filename == "<stdin>" {
		return fmt.Errorf("cannot watch stdin; pass a file path")
	}
	if cmd.Watch && cmd.Output != "" {
		return fmt.Errorf("cannot combine --watch with --output")
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var scanTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				scanTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		scanTimer = collector.Start(fmt.Sprintf("scan %s", filepath.Base(cmd.File.Filename)))
		runCtx = telemetry.WithRootTimer(runCtx, scanTimer)

		defer reportTelemetry()
	}

	if cmd.Watch {
		return cmd.watch(runCtx, ctx)
	}

	report, err := cmd.scanOnce(runCtx)
	if err != nil {
		return err
	}

	if err := cmd.emit(ctx, report); err != nil {
		return err
	}

	if cmd.MaxLineWidth > 0 && report.LongestLine > cmd.MaxLineWidth {
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("longest line is %d bytes, limit is %d", report.LongestLine, cmd.MaxLineWidth))

		reportTelemetry()
		return NewCommandError(1)
	}

	return nil
}

// scanOnce reads the input and runs a single pass over it.
func (cmd *ScanCmd) scanOnce(runCtx context.Context) (*scan.Report, error) {
	src, err := cmd.File.Source()
	if err != nil {
		return nil, err
	}

	var opts []scan.Option
	if cmd.Lines {
		opts = append(opts, scan.WithLineDetail())
	}
	opts = append(opts, scan.WithTopLexemes(cmd.Top))

	return scan.New(opts...).Scan(runCtx, src)
}

// emit renders the report to stdout or, with --output, to a file.
func (cmd *ScanCmd) emit(ctx *kong.Context, report *scan.Report) error {
	var buf bytes.Buffer
	if cmd.JSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	} else {
		renderReport(&buf, report)
	}

	if cmd.Output == "" {
		if !cmd.JSON {
			printInfof(ctx.Stdout, "scanned %s", pathStyle.Render(cmd.File.Filename))
		}
		_, _ = ctx.Stdout.Write(buf.Bytes())
		return nil
	}

	if _, err := os.Stat(cmd.Output); err == nil && !cmd.Force {
		confirmed, err := promptYesNo(ctx, fmt.Sprintf("File %q already exists. Overwrite it?", cmd.Output))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("refusing to overwrite %s", cmd.Output)
		}
	}

	if err := os.WriteFile(cmd.Output, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Report written to %s", pathStyle.Render(cmd.Output)))
	return nil
}

// renderReport writes the plain-text report body. It stays free of styling
// so the same bytes can go to a terminal or a file.
func renderReport(w io.Writer, r *scan.Report) {
	_, _ = fmt.Fprintf(w, "  %-13s %d\n", "bytes", r.Bytes)
	_, _ = fmt.Fprintf(w, "  %-13s %d (lf %d, crlf %d, cr %d, none %d)\n",
		"lines", r.Lines, r.Terminators.LF, r.Terminators.CRLF, r.Terminators.CR, r.Terminators.None)
	_, _ = fmt.Fprintf(w, "  %-13s %d bytes\n", "longest line", r.LongestLine)
	if r.LineDetail == nil {
		_, _ = fmt.Fprintf(w, "  %-13s %d (%d unique)\n", "words", r.Words, r.UniqueWords)
		_, _ = fmt.Fprintf(w, "  %-13s %d\n", "comments", r.Comments)
	}
	if r.SentinelBytes > 0 {
		_, _ = fmt.Fprintf(w, "  %-13s %d\n", "0xFF bytes", r.SentinelBytes)
	}
	_, _ = fmt.Fprintf(w, "  %-13s capacity %d, refills %d, compactions %d, grows %d\n",
		"window", r.Window.Capacity, r.Window.Refills, r.Window.Compactions, r.Window.Grows)
	_, _ = fmt.Fprintf(w, "  %-13s %d strings, %d hits, %d misses (%.1f%% hit rate)\n",
		"intern", r.Intern.Size, r.Intern.Hits, r.Intern.Misses, r.Intern.HitRate()*100)

	if len(r.TopLexemes) > 0 {
		parts := make([]string, 0, len(r.TopLexemes))
		for _, lc := range r.TopLexemes {
			parts = append(parts, fmt.Sprintf("%q (%d)", lc.Text, lc.Count))
		}
		_, _ = fmt.Fprintf(w, "  %-13s %s\n", "top lexemes", strings.Join(parts, ", "))
	}
}

// watch rescans the input whenever it changes, until interrupted.
func (cmd *ScanCmd) watch(runCtx context.Context, ctx *kong.Context) error {
	filename := cmd.File.GetAbsoluteFilename()

	rescan := func() {
		report, err := cmd.scanOnce(runCtx)
		if err != nil {
			printError(ctx.Stderr, fmt.Sprintf("scan failed: %v", err))
			return
		}
		if err := cmd.emit(ctx, report); err != nil {
			printError(ctx.Stderr, fmt.Sprintf("report failed: %v", err))
			return
		}
		if cmd.MaxLineWidth > 0 && report.LongestLine > cmd.MaxLineWidth {
			printError(ctx.Stderr, fmt.Sprintf("longest line is %d bytes, limit is %d", report.LongestLine, cmd.MaxLineWidth))
		}
	}

	rescan()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filename, err)
	}

	printInfof(ctx.Stdout, "Watching %s", pathStyle.Render(filename))

	// Debounce timer - editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-runCtx.Done():
			return runCtx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// React to write/create/remove/rename events
			// (Remove/Rename are common in atomic saves)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// Reset debounce timer
			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				// Atomic saves replace the file; re-register before scanning.
				_ = watcher.Add(filename)
				printInfof(ctx.Stdout, "Change detected, rescanning %s", pathStyle.Render(filename))
				rescan()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("watch error: %v", err))
		}
	}
}
