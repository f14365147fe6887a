package textwin

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestInternerCanonical(t *testing.T) {
	in := NewInterner(16)

	a := in.Intern("lexeme")
	b := in.InternBytes([]byte("lexeme"))

	assert.Equal(t, a, b)
	assert.Equal(t, 1, in.Size())
}

func TestInternerStats(t *testing.T) {
	in := NewInterner(4)

	in.Intern("a")
	in.Intern("a")
	in.Intern("b")
	in.InternBytes([]byte("a"))

	stats := in.Stats()
	assert.Equal(t, InternStats{Size: 2, Hits: 2, Misses: 2}, stats)
	assert.Equal(t, 0.5, stats.HitRate())
}

func TestInternerHitRateEmpty(t *testing.T) {
	assert.Equal(t, 0.0, InternStats{}.HitRate())
}

func TestInternerReset(t *testing.T) {
	in := NewInterner(4)
	in.Intern("x")
	in.Reset()

	assert.Equal(t, 0, in.Size())
	assert.Equal(t, InternStats{}, in.Stats())

	in.Intern("x")
	assert.Equal(t, 1, in.Size())
	assert.Equal(t, InternStats{Size: 1, Misses: 1}, in.Stats())
}

func TestInternBytesCopiesInput(t *testing.T) {
	in := NewInterner(4)

	// The canonical string must not alias the caller's buffer, which a
	// window reuses immediately after materializing a lexeme.
	buf := []byte("word")
	s := in.InternBytes(buf)
	buf[0] = 'x'

	assert.Equal(t, "word", s)
	assert.Equal(t, "word", in.Intern("word"))
	assert.Equal(t, 1, in.Size())
}
