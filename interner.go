package textwin

// InternTable is the add-if-absent lookup a Window materializes repeated
// lexemes through. Structurally equal inputs must return the same canonical
// string across calls. *Interner is the shipped implementation; tests and
// embedders may substitute their own.
type InternTable interface {
	// Intern returns the canonical version of s.
	Intern(s string) string

	// InternBytes returns the canonical string for the given bytes.
	InternBytes(b []byte) string
}

// Interner implements string interning to reduce allocation churn while
// lexing. Real source text repeats the same short spans constantly:
// identifiers, keywords, operators, indentation runs. By keeping one
// canonical string per distinct span, every later occurrence costs a map
// lookup instead of an allocation.
type Interner struct {
	pool   map[string]string
	hits   int
	misses int
}

// InternStats reports cache behavior of an Interner.
type InternStats struct {
	Size   int `json:"size"`   // distinct strings held
	Hits   int `json:"hits"`   // lookups answered from the pool
	Misses int `json:"misses"` // lookups that allocated a new entry
}

// NewInterner creates a string interner with the given initial capacity.
// Capacity is a sizing hint only; a few hundred entries covers the distinct
// words of most source files.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical version of the string. If the string is
// already in the pool, returns the existing instance. Otherwise adds it and
// returns it.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		i.hits++
		return interned
	}
	i.misses++
	i.pool[s] = s
	return s
}

// InternBytes converts a byte slice to a string and interns it. This is the
// common case when materializing a lexeme out of a window buffer.
func (i *Interner) InternBytes(b []byte) string {
	// The map lookup on string(b) does not allocate; Go compiles that
	// conversion away for map access. Only a miss pays for the string.
	if interned, ok := i.pool[string(b)]; ok {
		i.hits++
		return interned
	}
	i.misses++
	s := string(b)
	i.pool[s] = s
	return s
}

// Size returns the number of distinct strings in the pool.
func (i *Interner) Size() int {
	return len(i.pool)
}

// Stats returns a snapshot of pool size and hit/miss counters.
func (i *Interner) Stats() InternStats {
	return InternStats{Size: len(i.pool), Hits: i.hits, Misses: i.misses}
}

// HitRate returns the fraction of lookups answered from the pool, or 0 when
// nothing has been interned yet.
func (s InternStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Reset clears the pool and counters. Keeping one interner across many
// windows maximizes deduplication; reset only when the working set changes
// completely.
func (i *Interner) Reset() {
	i.pool = make(map[string]string)
	i.hits = 0
	i.misses = 0
}
