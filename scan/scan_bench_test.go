package scan

import (
	"context"
	"strings"
	"testing"

	"github.com/robinvdvleuten/textwin"
)

// benchCorpus builds a deterministic mixed corpus of roughly size bytes.
func benchCorpus(size int) string {
	words := []string{"window", "buffer", "lexeme", "the", "of", "and", "refill", "compaction"}

	var sb strings.Builder
	sb.Grow(size + 64)
	for i := 0; sb.Len() < size; i++ {
		switch i % 8 {
		case 3:
			sb.WriteString("// ")
			sb.WriteString(words[i%len(words)])
			sb.WriteString(" comment\n")
		case 5:
			sb.WriteString(words[(i+1)%len(words)])
			sb.WriteString("\r\n")
		default:
			sb.WriteString(words[i%len(words)])
			sb.WriteByte(' ')
			sb.WriteString(words[(i+3)%len(words)])
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func BenchmarkScanWords(b *testing.B) {
	src := textwin.StringSource(benchCorpus(1 << 20))
	scanner := New(WithTopLexemes(0))

	b.SetBytes(int64(src.Len()))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := scanner.Scan(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScanLines(b *testing.B) {
	src := textwin.StringSource(benchCorpus(1 << 20))
	scanner := New(WithLineDetail())

	b.SetBytes(int64(src.Len()))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := scanner.Scan(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScanTinyBuffer(b *testing.B) {
	src := textwin.StringSource(benchCorpus(1 << 20))
	scanner := New(WithTopLexemes(0),
		WithWindowOptions(textwin.WithPool(textwin.NewSyncPool(256))))

	b.SetBytes(int64(src.Len()))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := scanner.Scan(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}
