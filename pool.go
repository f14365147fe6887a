package textwin

import "sync"

// BufferPool hands out reusable byte buffers for window storage. A buffer is
// exclusively owned by one window from Get until Put; Replace transfers the
// pool's expectations from a buffer the window outgrew to its replacement.
type BufferPool interface {
	// Get returns an empty buffer ready to be filled up to its capacity.
	Get() []byte

	// Put returns a buffer for reuse by a later Get.
	Put(buf []byte)

	// Replace notifies the pool that old has been superseded by grown. The
	// window will Put grown, not old, when it closes.
	Replace(old, grown []byte)
}

// defaultBufferPool recycles buffers across all windows in the process that
// did not supply their own pool.
var defaultBufferPool = NewSyncPool(DefaultWindowSize)

// SyncPool is a BufferPool backed by a sync.Pool. Buffers start at the
// configured size; grown buffers returned through Put keep their larger
// capacity for the next window.
type SyncPool struct {
	size int
	pool sync.Pool
}

// NewSyncPool creates a pool whose fresh buffers have the given capacity.
func NewSyncPool(size int) *SyncPool {
	p := &SyncPool{size: size}
	p.pool.New = func() any {
		b := make([]byte, 0, p.size)
		return &b
	}
	return p
}

// Get returns an empty buffer with at least the pool's configured capacity.
func (p *SyncPool) Get() []byte {
	return (*p.pool.Get().(*[]byte))[:0]
}

// Put makes a buffer available for reuse.
func (p *SyncPool) Put(buf []byte) {
	buf = buf[:0]
	p.pool.Put(&buf)
}

// Replace is a no-op: a sync.Pool keeps no record of checked-out buffers, so
// there is nothing to retarget. The grown buffer simply comes back through
// Put when the window closes.
func (p *SyncPool) Replace(old, grown []byte) {}
