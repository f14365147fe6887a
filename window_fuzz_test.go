package textwin

import (
	"strings"
	"testing"
)

func FuzzWindowWalk(f *testing.F) {
	// Seed corpus with the shapes lexers actually feed a window
	seeds := []string{
		// Plain words
		"hello world",
		"the quick brown fox jumps over the lazy dog",

		// Line terminators in every flavor
		"a\nb", "a\r\nb", "a\rb", "\n\n\n", "\r\n\r\n", "mixed\nline\r\nends\r",

		// Comment shapes, including the fast-path forms
		"//", "// ", "// note", "code // trailing",

		// The sentinel value itself and other binary
		"\xff", "a\xffb", "\xff\xff\xff", string([]byte{0, 1, 2, 0xfe, 0xff}),

		// Wide runes
		"漢字テキスト", "naïve café",

		// Lexemes longer than the tiny fuzz buffer
		strings.Repeat("x", 100),
		strings.Repeat("word ", 50),

		// Edge cases
		"", " ", "\t",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// The window must never panic, whatever the input
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Window panicked on input %q: %v", data, r)
			}
		}()

		// A buffer far smaller than most inputs forces the refill,
		// compaction and growth paths constantly.
		w := NewWindow(BytesSource(data), WithPool(NewSyncPool(8)))
		defer w.Close()

		last := -1
		for !w.AtEOF() {
			pos := w.Position()
			if pos <= last {
				t.Fatalf("position did not advance: %d after %d", pos, last)
			}
			last = pos

			// Every 7 bytes, mark a lexeme and check it round-trips
			// against the source.
			if pos%7 == 0 {
				w.Start()
				n := 7
				if pos+n > len(data) {
					n = len(data) - pos
				}
				for i := 0; i < n; i++ {
					b := w.Peek()
					if b != data[w.Position()] {
						t.Fatalf("peek at %d: got %q, want %q", w.Position(), b, data[w.Position()])
					}
					w.Advance()
				}
				if got, want := w.Text(false), string(data[pos:pos+w.Width()]); got != want {
					t.Fatalf("lexeme at %d: got %q, want %q", pos, got, want)
				}
				continue
			}

			b := w.Peek()
			if b != data[pos] {
				t.Fatalf("peek at %d: got %q, want %q", pos, b, data[pos])
			}
			w.Advance()
		}

		if w.Position() != len(data) {
			t.Fatalf("walk ended at %d, want %d", w.Position(), len(data))
		}
	})
}
