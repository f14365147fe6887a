// Package textwin provides a sliding text window for lexers: a pooled,
// growable byte buffer over a large immutable text, with lexeme marking,
// cheap peek/advance, arbitrary rewind, and interned materialization of
// repeated lexemes.
//
// A Window tracks positions in two coordinate spaces. Absolute positions are
// offsets into the backing Source and never move; buffer-relative offsets
// shift whenever the window slides. All exported position methods report
// absolute positions, so callers can record and Reset to them safely across
// refills.
//
// The caller marks the start of each lexeme with Start, scans forward with
// Peek/Advance, and materializes with Text. The window refills itself from
// the Source on demand, discarding already-consumed history ahead of the
// lexeme start so that memory stays bounded no matter how long the text is.
//
// Example usage:
//
//	w := textwin.NewWindow(textwin.StringSource(src))
//	defer w.Close()
//
//	for !w.AtEOF() {
//		w.Start()
//		for w.Peek() != ' ' && !w.AtEOF() {
//			w.Advance()
//		}
//		word := w.Text(true)
//		// ... emit word ...
//		w.Advance()
//	}
package textwin

const (
	// DefaultWindowSize is the capacity of a fresh window buffer.
	DefaultWindowSize = 2048

	// InvalidByte is returned by Peek and Next once the window has passed
	// the end of the text. The value never occurs in well-formed UTF-8, but
	// arbitrary binary input can contain it, so AtEOF is the only reliable
	// end-of-text check.
	InvalidByte byte = 0xFF
)

// Stats counts buffer management events inside a window. The counters are
// capacity-tuning diagnostics; they have no effect on scanning behavior.
type Stats struct {
	Refills     int `json:"refills"`
	Compactions int `json:"compactions"`
	Grows       int `json:"grows"`
	Capacity    int `json:"capacity"`
}

// Window is a sliding view over an immutable Source. It is exclusively owned
// by one lexer on one goroutine; none of its methods may be called
// concurrently.
//
// The filled portion of the buffer is buf[:len(buf)] and covers absolute
// positions [basis, basis+len(buf)). Capacity grows only by doubling and
// never shrinks.
type Window struct {
	src     Source
	textEnd int // cached src.Len()

	basis       int    // absolute position of buf[0]
	offset      int    // read cursor, relative to basis
	lexemeStart int    // lexeme mark, relative to basis
	buf         []byte // len(buf) is the filled count, cap(buf) the capacity

	intern InternTable
	pool   BufferPool

	stats Stats
}

// Option configures a Window at construction.
type Option func(*Window)

// WithPool makes the window borrow its buffer from the given pool instead of
// the shared process-wide one.
func WithPool(pool BufferPool) Option {
	return func(w *Window) { w.pool = pool }
}

// WithInterner makes the window materialize interned text through the given
// table. Sharing one table across many windows maximizes deduplication.
func WithInterner(intern InternTable) Option {
	return func(w *Window) { w.intern = intern }
}

// NewWindow creates a window over src. No text is read yet; the buffer fills
// lazily on first peek.
func NewWindow(src Source, opts ...Option) *Window {
	w := &Window{
		src:     src,
		textEnd: src.Len(),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.pool == nil {
		w.pool = defaultBufferPool
	}
	if w.intern == nil {
		// Scale the interner with the text: roughly one distinct lexeme per
		// 40 bytes of typical source.
		capacity := w.textEnd / 40
		if capacity < 256 {
			capacity = 256
		}
		w.intern = NewInterner(capacity)
	}

	w.buf = w.pool.Get()

	return w
}

// Close returns the buffer to the pool and releases the intern table. It is
// idempotent; any other use of the window after Close is a caller bug.
func (w *Window) Close() {
	if w.buf == nil {
		return
	}
	w.pool.Put(w.buf)
	w.buf = nil
	w.intern = nil
}

// Position returns the absolute position of the read cursor.
func (w *Window) Position() int { return w.basis + w.offset }

// Offset returns the read cursor relative to the start of the buffer.
func (w *Window) Offset() int { return w.offset }

// LexemeStart returns the absolute position of the current lexeme mark.
func (w *Window) LexemeStart() int { return w.basis + w.lexemeStart }

// LexemeRelativeStart returns the lexeme mark relative to the buffer start.
func (w *Window) LexemeRelativeStart() int { return w.lexemeStart }

// Width returns the number of bytes scanned since the last Start.
func (w *Window) Width() int { return w.offset - w.lexemeStart }

// Buffered returns how many bytes are currently buffered.
func (w *Window) Buffered() int { return len(w.buf) }

// Bytes returns the filled buffer. The slice is a borrowed view: it is only
// valid until the next operation that refills or rewinds the window, and
// callers must not write through it.
func (w *Window) Bytes() []byte { return w.buf }

// Stats returns a snapshot of the window's buffer management counters.
func (w *Window) Stats() Stats {
	s := w.stats
	s.Capacity = cap(w.buf)
	return s
}

// Start marks the beginning of a new lexeme at the read cursor.
func (w *Window) Start() {
	w.lexemeStart = w.offset
}

// Reset moves the read cursor to an absolute position. A position inside the
// buffered region, including the boundary just past it, only moves the
// cursor. Anything else re-anchors the window at pos, refilling the buffer
// from there and discarding the lexeme mark.
func (w *Window) Reset(pos int) {
	rel := pos - w.basis
	if rel >= 0 && rel <= len(w.buf) {
		w.offset = rel
		return
	}

	n := max(0, min(w.textEnd, pos+cap(w.buf))-pos)
	w.buf = w.buf[:n]
	if n > 0 {
		w.src.CopyTo(pos, w.buf)
	}
	w.lexemeStart = 0
	w.offset = 0
	w.basis = pos
}

// more makes at least one unread byte available at the cursor, sliding or
// growing the buffer as needed. It reports false only at the true end of the
// text.
func (w *Window) more() bool {
	if w.offset < len(w.buf) {
		return true
	}
	if w.Position() >= w.textEnd {
		return false
	}

	// Slide the in-progress lexeme down to index 0 once consumed history
	// fills more than a quarter of the buffer. Compaction runs before growth
	// so that a stream of short lexemes never allocates.
	if w.lexemeStart > len(w.buf)/4 {
		n := copy(w.buf, w.buf[w.lexemeStart:])
		w.buf = w.buf[:n]
		w.offset -= w.lexemeStart
		w.basis += w.lexemeStart
		w.lexemeStart = 0
		w.stats.Compactions++
	}

	if len(w.buf) >= cap(w.buf) {
		// The lexeme needs more contiguous space than the buffer has.
		newCap := 2 * cap(w.buf)
		if newCap == 0 {
			newCap = DefaultWindowSize
		}
		grown := make([]byte, len(w.buf), newCap)
		copy(grown, w.buf)
		w.pool.Replace(w.buf, grown)
		w.buf = grown
		w.stats.Grows++
	}

	filled := len(w.buf)
	amount := min(w.textEnd-(w.basis+filled), cap(w.buf)-filled)
	w.buf = w.buf[:filled+amount]
	n := w.src.CopyTo(w.basis+filled, w.buf[filled:])
	w.buf = w.buf[:filled+n]
	w.stats.Refills++

	return n > 0
}

// AtEOF reports whether the cursor has truly exhausted the text, as opposed
// to having merely run past the buffered region. It is the authoritative
// check when Peek or Next return InvalidByte, since the text itself may
// contain that byte value.
func (w *Window) AtEOF() bool {
	return w.offset >= len(w.buf) && w.Position() >= w.textEnd
}

// Advance moves the cursor forward one byte. It performs no bounds check:
// callers must only advance past positions a prior Peek has validated.
func (w *Window) Advance() {
	w.offset++
}

// AdvanceBy moves the cursor forward n bytes, unchecked like Advance.
func (w *Window) AdvanceBy(n int) {
	w.offset += n
}

// Accept advances past the next byte if it equals c and reports whether it
// did. On a mismatch the cursor does not move.
func (w *Window) Accept(c byte) bool {
	if w.Peek() == c {
		w.Advance()
		return true
	}
	return false
}

// AcceptString advances past the next len(s) bytes if they equal s and
// reports whether it did. The comparison completes before any movement:
// either the whole prefix is consumed or the cursor stays put.
func (w *Window) AcceptString(s string) bool {
	for i := 0; i < len(s); i++ {
		if w.PeekAhead(i) != s[i] {
			return false
		}
	}
	w.AdvanceBy(len(s))
	return true
}

// AdvancePastNewline advances past the line terminator at the cursor,
// consuming two bytes for "\r\n" and one otherwise. The cursor must be
// positioned at a newline byte.
func (w *Window) AdvancePastNewline() {
	w.AdvanceBy(w.NewlineWidth())
}

// NewlineWidth returns the width in bytes of the line terminator at the
// cursor. The cursor must be positioned at a newline byte.
func (w *Window) NewlineWidth() int {
	return NewlineWidth(w.Peek(), w.PeekAhead(1))
}

// NewlineWidth returns the width of the line terminator starting with first:
// 2 for "\r\n", otherwise 1. Both bytes are supplied by the caller so a
// lexer that already peeked them does not peek again.
func NewlineWidth(first, second byte) int {
	if first == '\r' && second == '\n' {
		return 2
	}
	return 1
}

// Next returns the byte at the cursor and advances past it. At the end of
// the text it returns InvalidByte and does not move; a literal InvalidByte
// in the text also stalls the cursor, so callers scanning arbitrary binary
// disambiguate with AtEOF and step over it with Advance.
func (w *Window) Next() byte {
	b := w.Peek()
	if b != InvalidByte {
		w.Advance()
	}
	return b
}

// Peek returns the byte at the cursor without moving it, refilling the
// buffer if the cursor has run past the buffered region. It returns
// InvalidByte at the end of the text. A refill may slide the buffer, but
// absolute positions are preserved.
func (w *Window) Peek() byte {
	// A lookahead cursor can sit several refills past the buffered region,
	// so keep refilling until it is covered or the text runs out.
	for w.offset >= len(w.buf) {
		if !w.more() {
			return InvalidByte
		}
	}
	return w.buf[w.offset]
}

// PeekAhead returns the byte delta positions from the cursor without
// committing to it: the cursor is restored even when the lookahead forced a
// refill. Delta may be negative to peek backwards into the buffered region.
func (w *Window) PeekAhead(delta int) byte {
	pos := w.Position()
	w.AdvanceBy(delta)
	b := w.Peek()
	w.Reset(pos)
	return b
}

// Prev returns the byte immediately before the cursor. When the window was
// just re-anchored and the cursor sits at the buffer start, the byte comes
// from a direct Source read instead; that path is rare. The absolute
// position must be greater than zero.
func (w *Window) Prev() byte {
	if w.offset > 0 {
		return w.buf[w.offset-1]
	}
	return w.src.At(w.Position() - 1)
}

// Intern returns the canonical string for the given bytes.
func (w *Window) Intern(b []byte) string {
	return w.intern.InternBytes(b)
}

// InternString returns the canonical version of an already-built string.
func (w *Window) InternString(s string) string {
	return w.intern.Intern(s)
}

// InternedText interns the current lexeme and returns its canonical string.
func (w *Window) InternedText() string {
	return w.intern.InternBytes(w.buf[w.lexemeStart:w.offset])
}

// Text materializes the current lexeme, interning it when intern is true.
func (w *Window) Text(intern bool) string {
	return w.TextAt(w.LexemeStart(), w.Width(), intern)
}

// TextAt materializes length bytes at an absolute position. The range must
// be inside the buffered region; no refill is attempted. The most common
// short spans are returned as shared literals without touching the intern
// table, regardless of the intern flag.
func (w *Window) TextAt(position, length int, intern bool) string {
	offset := position - w.basis

	switch length {
	case 0:
		return ""
	case 1:
		switch w.buf[offset] {
		case ' ':
			return " "
		case '\n':
			return "\n"
		}
	case 2:
		first := w.buf[offset]
		if first == '\r' && w.buf[offset+1] == '\n' {
			return "\r\n"
		}
		if first == '/' && w.buf[offset+1] == '/' {
			return "//"
		}
	case 3:
		if w.buf[offset] == '/' && w.buf[offset+1] == '/' && w.buf[offset+2] == ' ' {
			return "// "
		}
	}

	b := w.buf[offset : offset+length]
	if intern {
		return w.intern.InternBytes(b)
	}
	return string(b)
}
