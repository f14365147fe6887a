package textwin

import "sort"

// Source is the immutable backing text a Window reads from. It is borrowed by
// the window for its lifetime and never mutated.
//
// Implementations must be cheap to index: the window refills itself through
// CopyTo in bulk and only falls back to At for the rare read just before the
// buffered region (see Window.Prev).
type Source interface {
	// Len returns the total length of the text in bytes.
	Len() int

	// CopyTo copies min(len(dst), Len()-offset) bytes of text starting at
	// offset into dst and returns the number of bytes copied. In-range
	// requests must not fail.
	CopyTo(offset int, dst []byte) int

	// At returns the byte at the given absolute offset.
	At(i int) byte
}

// StringSource adapts a string as a Source.
type StringSource string

func (s StringSource) Len() int { return len(s) }

func (s StringSource) CopyTo(offset int, dst []byte) int { return copy(dst, s[offset:]) }

func (s StringSource) At(i int) byte { return s[i] }

// BytesSource adapts a byte slice as a Source. The window never writes
// through it, but the caller must not mutate the slice while a window is
// reading from it.
type BytesSource []byte

func (s BytesSource) Len() int { return len(s) }

func (s BytesSource) CopyTo(offset int, dst []byte) int { return copy(dst, s[offset:]) }

func (s BytesSource) At(i int) byte { return s[i] }

// SegmentedSource joins multiple byte slices into one logical text without
// copying them into a single allocation. Large inputs can stay in the chunks
// they arrived in; the window's buffer is the only contiguous view ever
// materialized.
type SegmentedSource struct {
	segs [][]byte
	offs []int // absolute start offset of each segment
	size int
}

// NewSegmentedSource builds a SegmentedSource over the given segments. The
// segments are retained, not copied; empty segments are skipped.
func NewSegmentedSource(segs ...[]byte) *SegmentedSource {
	s := &SegmentedSource{}
	for _, seg := range segs {
		if len(seg) == 0 {
			continue
		}
		s.segs = append(s.segs, seg)
		s.offs = append(s.offs, s.size)
		s.size += len(seg)
	}
	return s
}

func (s *SegmentedSource) Len() int { return s.size }

func (s *SegmentedSource) CopyTo(offset int, dst []byte) int {
	if offset >= s.size {
		return 0
	}
	copied := 0
	for i := s.segmentAt(offset); i < len(s.segs) && copied < len(dst); i++ {
		seg := s.segs[i]
		from := offset + copied - s.offs[i]
		copied += copy(dst[copied:], seg[from:])
	}
	return copied
}

func (s *SegmentedSource) At(i int) byte {
	n := s.segmentAt(i)
	return s.segs[n][i-s.offs[n]]
}

// segmentAt returns the index of the segment containing absolute offset i.
func (s *SegmentedSource) segmentAt(i int) int {
	return sort.Search(len(s.offs), func(n int) bool { return s.offs[n] > i }) - 1
}
