package textwin

import (
	"strings"
	"testing"
)

func benchText(size int) string {
	words := []string{"alpha", "beta", "gamma", "delta", "the", "of", "to", "in"}

	var sb strings.Builder
	sb.Grow(size + 16)
	for i := 0; sb.Len() < size; i++ {
		sb.WriteString(words[i%len(words)])
		if i%11 == 10 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// benchWalk consumes src word by word, materializing every word.
func benchWalk(w *Window, intern bool) int {
	words := 0
	for !w.AtEOF() {
		b := w.Peek()
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == InvalidByte {
			w.Advance()
			continue
		}

		w.Start()
		for {
			b := w.Peek()
			if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
				break
			}
			if b == InvalidByte && w.AtEOF() {
				break
			}
			w.Advance()
		}

		if intern {
			_ = w.InternedText()
		} else {
			_ = w.Text(false)
		}
		words++
	}
	return words
}

func BenchmarkWindowWalkInterned(b *testing.B) {
	text := benchText(1 << 20)
	src := StringSource(text)
	in := NewInterner(1024)

	b.SetBytes(int64(len(text)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := NewWindow(src, WithInterner(in))
		benchWalk(w, true)
		w.Close()
	}
}

func BenchmarkWindowWalkRaw(b *testing.B) {
	text := benchText(1 << 20)
	src := StringSource(text)

	b.SetBytes(int64(len(text)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := NewWindow(src)
		benchWalk(w, false)
		w.Close()
	}
}

func BenchmarkWindowTinyBuffer(b *testing.B) {
	text := benchText(1 << 20)
	src := StringSource(text)
	pool := NewSyncPool(64)
	in := NewInterner(1024)

	b.SetBytes(int64(len(text)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := NewWindow(src, WithPool(pool), WithInterner(in))
		benchWalk(w, true)
		w.Close()
	}
}
