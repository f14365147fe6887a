// Package scan drives a sliding text window over whole inputs and reports
// what it saw: lines and their terminators, whitespace-delimited words,
// "//" comments, and the buffer management behavior of the window itself.
//
// The scanner is not a language tokenizer. It only recognizes the shapes the
// window defines operations for, which makes it a faithful production
// workload for the window: every pass exercises lexeme marking, lookahead,
// newline handling, interning, and the refill/compaction machinery.
//
// Example usage:
//
//	scanner := scan.New(scan.WithTopLexemes(5))
//	report, err := scanner.Scan(ctx, textwin.StringSource(source))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Lines, report.Words)
package scan

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/textwin"
	"github.com/robinvdvleuten/textwin/telemetry"
)

// Scanner walks a source word by word, or line by line when LineDetail is
// set. A scanner is stateless between passes and may be reused; each Scan
// opens its own window and interner so reports are independent.
//
// Configure the scanner using functional options passed to New:
//
//	scanner := New(WithLineDetail())
type Scanner struct {
	// LineDetail switches the pass from word statistics to per-line records.
	// Each line becomes one lexeme, which drives the window through its
	// compaction and growth paths on long lines.
	LineDetail bool

	// TopLexemes is how many of the most frequent lexemes to include in the
	// report. Zero or negative disables the ranking.
	TopLexemes int

	windowOpts []textwin.Option
}

// Option configures how sources are scanned.
type Option func(*Scanner)

// WithLineDetail configures the scanner to record every line instead of
// collecting word statistics.
func WithLineDetail() Option {
	return func(s *Scanner) {
		s.LineDetail = true
	}
}

// WithTopLexemes sets how many of the most frequent lexemes the report
// ranks. Zero disables the ranking.
func WithTopLexemes(n int) Option {
	return func(s *Scanner) {
		s.TopLexemes = n
	}
}

// WithWindowOptions passes options through to the window opened by each
// pass, for example a custom buffer pool. The options are applied after the
// scanner's own: a caller-supplied interner replaces the scanner's and
// leaves Report.Intern empty.
func WithWindowOptions(opts ...textwin.Option) Option {
	return func(s *Scanner) {
		s.windowOpts = append(s.windowOpts, opts...)
	}
}

// New creates a new Scanner with the given options.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		TopLexemes: 10,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Terminator identifies the kind of line terminator that ended a line.
type Terminator string

const (
	TerminatorLF   Terminator = "lf"
	TerminatorCRLF Terminator = "crlf"
	TerminatorCR   Terminator = "cr"
	TerminatorNone Terminator = "none"
)

// Terminators counts lines by the terminator that ended them. None counts
// the final line when the source does not end in a terminator, so the four
// counters always sum to Lines.
type Terminators struct {
	LF   int `json:"lf"`
	CRLF int `json:"crlf"`
	CR   int `json:"cr"`
	None int `json:"none"`
}

// LexemeCount is one entry of the most-frequent-lexemes ranking.
type LexemeCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// Line is one per-line record collected in line-detail mode. Width is in
// bytes and excludes the terminator; Offset is the absolute position of the
// first byte of the line.
type Line struct {
	Number     int        `json:"number"`
	Offset     int        `json:"offset"`
	Width      int        `json:"width"`
	Terminator Terminator `json:"terminator"`
	Text       string     `json:"text"`
}

// Report aggregates everything one pass over a source saw.
//
// SentinelBytes counts literal 0xFF bytes in the source. The window returns
// that value as its end-of-text sentinel, so the scanner checks AtEOF on
// every sentinel peek; the counter makes the disambiguation visible.
type Report struct {
	Bytes         int                 `json:"bytes"`
	Lines         int                 `json:"lines"`
	Terminators   Terminators         `json:"terminators"`
	LongestLine   int                 `json:"longest_line"`
	Words         int                 `json:"words"`
	UniqueWords   int                 `json:"unique_words"`
	Comments      int                 `json:"comments"`
	SentinelBytes int                 `json:"sentinel_bytes"`
	TopLexemes    []LexemeCount       `json:"top_lexemes,omitempty"`
	LineDetail    []Line              `json:"line_detail,omitempty"`
	Window        textwin.Stats       `json:"window"`
	Intern        textwin.InternStats `json:"intern"`
}

// Scan performs one pass over src and returns its report. The context
// carries telemetry and cancellation; the scan checks for cancellation at
// line boundaries.
func (s *Scanner) Scan(ctx context.Context, src textwin.Source) (*Report, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("scan.pass (%d bytes)", src.Len()))
	defer timer.End()

	// Scale the interner with the source: empirically about one distinct
	// lexeme per 40 bytes of typical text.
	capacity := src.Len() / 40
	if capacity < 2000 {
		capacity = 2000
	}
	in := textwin.NewInterner(capacity)

	opts := append([]textwin.Option{textwin.WithInterner(in)}, s.windowOpts...)
	w := textwin.NewWindow(src, opts...)
	defer w.Close()

	r := &Report{Bytes: src.Len()}
	tally := make(map[string]int)

	walkTimer := timer.Child("scan.walk")
	var err error
	if s.LineDetail {
		err = walkLines(ctx, w, r)
	} else {
		err = walkWords(ctx, w, r, tally)
	}
	walkTimer.End()
	if err != nil {
		return nil, err
	}

	if s.TopLexemes > 0 && len(tally) > 0 {
		rankTimer := timer.Child("scan.top_lexemes")
		r.TopLexemes = topLexemes(tally, s.TopLexemes)
		rankTimer.End()
	}

	r.Window = w.Stats()
	r.Intern = in.Stats()

	return r, nil
}

// walkWords consumes the whole source as whitespace, line terminators,
// words, and comments. Words are interned and tallied; comment text is
// interned so repeated comments share one allocation.
func walkWords(ctx context.Context, w *textwin.Window, r *Report, tally map[string]int) error {
	lineStart := 0

	for !w.AtEOF() {
		b := w.Peek()
		switch {
		case b == textwin.InvalidByte:
			// AtEOF ruled out end of text, so the source contains a literal
			// sentinel byte. Step over it with the unchecked advance.
			r.SentinelBytes++
			w.Advance()

		case b == ' ' || b == '\t':
			w.Advance()

		case b == '\n' || b == '\r':
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			r.endLine(w.Position()-lineStart, terminatorOf(b, w.NewlineWidth()))
			w.AdvancePastNewline()
			lineStart = w.Position()

		default:
			w.Start()
			if w.AcceptString("//") {
				scanToLineEnd(w, r)
				tally[w.Text(true)]++
				r.Comments++
			} else {
				scanWord(w, r)
				word := w.InternedText()
				if tally[word] == 0 {
					r.UniqueWords++
				}
				tally[word]++
				r.Words++
			}
		}
	}

	// A source not ending in a terminator still has a final line.
	if w.Position() > 0 {
		if last := w.Prev(); last != '\n' && last != '\r' {
			r.endLine(w.Position()-lineStart, TerminatorNone)
		}
	}

	return nil
}

// walkLines consumes the source line by line, each line a single lexeme.
func walkLines(ctx context.Context, w *textwin.Window, r *Report) error {
	number := 0

	for !w.AtEOF() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		w.Start()
		offset := w.Position()
		scanToLineEnd(w, r)

		width := w.Width()
		text := w.Text(false)

		term := TerminatorNone
		if !w.AtEOF() {
			term = terminatorOf(w.Peek(), w.NewlineWidth())
			w.AdvancePastNewline()
		}

		number++
		r.endLine(width, term)
		r.LineDetail = append(r.LineDetail, Line{
			Number:     number,
			Offset:     offset,
			Width:      width,
			Terminator: term,
			Text:       text,
		})
	}

	return nil
}

// scanToLineEnd advances the cursor to the next line terminator or the end
// of the text, counting any literal sentinel bytes consumed on the way.
func scanToLineEnd(w *textwin.Window, r *Report) {
	for {
		b := w.Peek()
		if b == '\n' || b == '\r' {
			return
		}
		if b == textwin.InvalidByte {
			if w.AtEOF() {
				return
			}
			r.SentinelBytes++
		}
		w.Advance()
	}
}

// scanWord advances the cursor to the next whitespace byte, line terminator,
// or the end of the text.
func scanWord(w *textwin.Window, r *Report) {
	for {
		b := w.Peek()
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			return
		}
		if b == textwin.InvalidByte {
			if w.AtEOF() {
				return
			}
			r.SentinelBytes++
		}
		w.Advance()
	}
}

// endLine records one finished line of the given width.
func (r *Report) endLine(width int, term Terminator) {
	r.Lines++
	switch term {
	case TerminatorLF:
		r.Terminators.LF++
	case TerminatorCRLF:
		r.Terminators.CRLF++
	case TerminatorCR:
		r.Terminators.CR++
	case TerminatorNone:
		r.Terminators.None++
	}
	if width > r.LongestLine {
		r.LongestLine = width
	}
}

// terminatorOf classifies the terminator at the cursor from its first byte
// and its width.
func terminatorOf(first byte, width int) Terminator {
	if width == 2 {
		return TerminatorCRLF
	}
	if first == '\n' {
		return TerminatorLF
	}
	return TerminatorCR
}

// topLexemes ranks the tally by count, breaking ties by text, and keeps the
// first n entries.
func topLexemes(tally map[string]int, n int) []LexemeCount {
	counts := make([]LexemeCount, 0, len(tally))
	for text, count := range tally {
		counts = append(counts, LexemeCount{Text: text, Count: count})
	}

	slices.SortFunc(counts, func(a, b LexemeCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Text, b.Text)
	})

	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
