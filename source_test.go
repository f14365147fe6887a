package textwin

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestStringSource(t *testing.T) {
	src := StringSource("hello world")

	assert.Equal(t, 11, src.Len())
	assert.Equal(t, byte('h'), src.At(0))
	assert.Equal(t, byte('d'), src.At(10))

	dst := make([]byte, 5)
	assert.Equal(t, 5, src.CopyTo(6, dst))
	assert.Equal(t, "world", string(dst))

	// A short tail copies only what remains.
	assert.Equal(t, 2, src.CopyTo(9, dst))
	assert.Equal(t, "ld", string(dst[:2]))
}

func TestBytesSource(t *testing.T) {
	src := BytesSource("abc")

	assert.Equal(t, 3, src.Len())
	assert.Equal(t, byte('b'), src.At(1))

	dst := make([]byte, 8)
	assert.Equal(t, 3, src.CopyTo(0, dst))
	assert.Equal(t, "abc", string(dst[:3]))
}

func TestSegmentedSource(t *testing.T) {
	src := NewSegmentedSource(
		[]byte("alpha "),
		nil,
		[]byte("beta"),
		[]byte{},
		[]byte(" gamma"),
	)

	const text = "alpha beta gamma"
	assert.Equal(t, len(text), src.Len())

	t.Run("At crosses segments", func(t *testing.T) {
		for i := 0; i < len(text); i++ {
			assert.Equal(t, text[i], src.At(i))
		}
	})

	t.Run("CopyTo within one segment", func(t *testing.T) {
		dst := make([]byte, 4)
		assert.Equal(t, 4, src.CopyTo(6, dst))
		assert.Equal(t, "beta", string(dst))
	})

	t.Run("CopyTo across boundaries", func(t *testing.T) {
		dst := make([]byte, 9)
		assert.Equal(t, 9, src.CopyTo(3, dst))
		assert.Equal(t, "ha beta g", string(dst))
	})

	t.Run("CopyTo clipped at the end", func(t *testing.T) {
		dst := make([]byte, 32)
		assert.Equal(t, 5, src.CopyTo(11, dst))
		assert.Equal(t, "gamma", string(dst[:5]))
	})

	t.Run("CopyTo past the end", func(t *testing.T) {
		dst := make([]byte, 4)
		assert.Equal(t, 0, src.CopyTo(len(text), dst))
	})
}

func TestSegmentedSourceEmpty(t *testing.T) {
	src := NewSegmentedSource()

	assert.Equal(t, 0, src.Len())
	assert.Equal(t, 0, src.CopyTo(0, make([]byte, 4)))
}
